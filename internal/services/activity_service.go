package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/store"
	"activityhub-backend/pkg/logger"
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateActivityRequest struct {
	Title           string
	Description     string
	City            string
	Tags            []string
	PriceMinorUnits int64
	ScheduledAt     time.Time
}

// CreateActivity publishes an activity owned by creatorID.
func CreateActivity(ctx context.Context, creatorID string, req CreateActivityRequest) (*models.Activity, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if req.PriceMinorUnits <= 0 {
		return nil, validationError("price must be positive")
	}
	if !req.ScheduledAt.After(now()) {
		return nil, validationError("activity must be scheduled in the future")
	}

	db := database.DB.WithContext(ctx)
	if _, err := loadUser(db, creatorID); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		ID:              uuid.New().String(),
		CreatorID:       creatorID,
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		City:            strings.TrimSpace(req.City),
		Tags:            models.NewStringSet(req.Tags...),
		PriceMinorUnits: req.PriceMinorUnits,
		ScheduledAt:     req.ScheduledAt.UTC(),
		Version:         1,
	}
	if err := store.Insert(db, activity); err != nil {
		return nil, err
	}
	logger.Named("activities").Info("activity created", zap.String("activity_id", activity.ID), zap.String("creator_id", creatorID))
	return activity, nil
}

func GetActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	return loadActivity(database.DB.WithContext(ctx), activityID)
}

type ActivityFilter struct {
	City          string
	CreatorID     string
	IncludeLocked bool
	Page          int
	Limit         int
}

func ListActivities(ctx context.Context, filter ActivityFilter) ([]models.Activity, int64, error) {
	var activities []models.Activity
	var total int64

	query := database.DB.WithContext(ctx).Model(&models.Activity{})
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.CreatorID != "" {
		query = query.Where("creator_id = ?", filter.CreatorID)
	}
	if !filter.IncludeLocked {
		query = query.Where("locked = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if err := query.Order("scheduled_at asc, id asc").Limit(limit).Offset((page - 1) * limit).Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// ActivityUpdate carries the editable fields; nil leaves a field unchanged.
type ActivityUpdate struct {
	Title           *string
	Description     *string
	City            *string
	Tags            []string
	PriceMinorUnits *int64
	ScheduledAt     *time.Time
}

// UpdateActivity edits an unlocked activity owned by callerID.
func UpdateActivity(ctx context.Context, callerID, activityID string, upd ActivityUpdate) (*models.Activity, error) {
	updates := map[string]interface{}{}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, validationError("title cannot be empty")
		}
		updates["title"] = title
	}
	if upd.Description != nil {
		updates["description"] = strings.TrimSpace(*upd.Description)
	}
	if upd.City != nil {
		updates["city"] = strings.TrimSpace(*upd.City)
	}
	if upd.Tags != nil {
		updates["tags"] = models.NewStringSet(upd.Tags...)
	}
	if upd.PriceMinorUnits != nil {
		if *upd.PriceMinorUnits <= 0 {
			return nil, validationError("price must be positive")
		}
		updates["price_minor_units"] = *upd.PriceMinorUnits
	}
	if upd.ScheduledAt != nil {
		if !upd.ScheduledAt.After(now()) {
			return nil, validationError("activity must be scheduled in the future")
		}
		updates["scheduled_at"] = upd.ScheduledAt.UTC()
	}

	db := database.DB.WithContext(ctx)
	err := store.Retry(currentSettings().CASMaxRetries, func() error {
		activity, err := loadActivity(db, activityID)
		if err != nil {
			return err
		}
		if activity.CreatorID != callerID {
			return ErrNotOwner
		}
		if activity.Locked {
			return ErrAlreadyLocked
		}
		if len(updates) == 0 {
			return nil
		}
		return store.CompareAndSwap(db, &models.Activity{}, activity.ID, activity.Version, updates)
	})
	if err != nil {
		return nil, err
	}
	return loadActivity(db, activityID)
}

type Recommendation struct {
	Activity    models.Activity `json:"activity"`
	MatchedTags []string        `json:"matched_tags"`
	Relevance   int64           `json:"relevance"`
}

// RecommendActivities ranks open future activities of other creators by shared tags
// and creator rating.
func RecommendActivities(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	user, err := FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	db := database.DB.WithContext(ctx)
	var activities []models.Activity
	err = db.Where("locked = ? AND scheduled_at > ? AND creator_id <> ?", false, now(), userID).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}

	ratings, err := creatorRatings(db, activities)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(activities))
	for _, a := range activities {
		matched := user.Interests.Intersect(a.Tags)
		recs = append(recs, Recommendation{
			Activity:    a,
			MatchedTags: matched,
			Relevance:   roundHalfUp(10*float64(len(matched)) + 5*ratings[a.CreatorID]),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if !a.Activity.ScheduledAt.Equal(b.Activity.ScheduledAt) {
			return a.Activity.ScheduledAt.Before(b.Activity.ScheduledAt)
		}
		return a.Activity.ID < b.Activity.ID
	})

	if limit <= 0 {
		limit = currentSettings().MatchDefaultLimit
	}
	if limit > maxMatchLimit {
		limit = maxMatchLimit
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func creatorRatings(db *gorm.DB, activities []models.Activity) (map[string]float64, error) {
	ids := make([]string, 0, len(activities))
	seen := make(map[string]bool, len(activities))
	for _, a := range activities {
		if !seen[a.CreatorID] {
			seen[a.CreatorID] = true
			ids = append(ids, a.CreatorID)
		}
	}
	ratings := make(map[string]float64, len(ids))
	if len(ids) == 0 {
		return ratings, nil
	}
	var creators []models.User
	if err := db.Select("id", "average_rating").Where("id IN ?", ids).Find(&creators).Error; err != nil {
		return nil, err
	}
	for _, c := range creators {
		ratings[c.ID] = c.AverageRating
	}
	return ratings, nil
}

func loadActivity(db *gorm.DB, activityID string) (*models.Activity, error) {
	var activity models.Activity
	if err := store.Get(db, &activity, activityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}
