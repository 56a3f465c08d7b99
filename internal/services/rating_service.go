package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/metrics"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/store"
	"activityhub-backend/pkg/logger"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRatingsLimit = 10

type RatingSummary struct {
	RatingID      string  `json:"rating_id"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

// SubmitRating records a rating and folds it into the target's running average.
// The insert and the aggregate update commit together, retried on version conflicts.
func SubmitRating(ctx context.Context, targetID, raterID string, score int, feedback string) (*RatingSummary, error) {
	if score < 1 || score > 5 {
		return nil, validationError("score must be between 1 and 5")
	}
	if targetID == raterID {
		return nil, validationError("users cannot rate themselves")
	}

	db := database.DB.WithContext(ctx)
	if _, err := loadUser(db, raterID); err != nil {
		return nil, err
	}

	var summary RatingSummary
	err := store.Retry(currentSettings().CASMaxRetries, func() error {
		err := db.Transaction(func(tx *gorm.DB) error {
			target, err := loadUser(tx, targetID)
			if err != nil {
				return err
			}

			rating := &models.Rating{
				ID:           uuid.New().String(),
				CreatedAt:    now(),
				TargetUserID: targetID,
				RaterID:      raterID,
				Score:        score,
				Feedback:     strings.TrimSpace(feedback),
			}
			if err := store.Insert(tx, rating); err != nil {
				return err
			}

			sum := target.RatingSum + int64(score)
			count := target.TotalRatings + 1
			avg := float64(sum) / float64(count)
			if err := store.CompareAndSwap(tx, &models.User{}, target.ID, target.Version, map[string]interface{}{
				"rating_sum":     sum,
				"total_ratings":  count,
				"average_rating": avg,
			}); err != nil {
				return err
			}

			summary = RatingSummary{RatingID: rating.ID, AverageRating: avg, TotalRatings: count}
			return nil
		})
		if errors.Is(err, store.ErrConcurrency) {
			metrics.CASConflicts.WithLabelValues("user").Inc()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, targetID)
	logger.Named("ratings").Info("rating submitted",
		zap.String("target_id", targetID),
		zap.Int("score", score),
		zap.Float64("average", summary.AverageRating),
	)
	return &summary, nil
}

type RatingView struct {
	ID              string `json:"id"`
	Score           int    `json:"score"`
	Feedback        string `json:"feedback,omitempty"`
	RaterID         string `json:"rater_id"`
	RaterName       string `json:"rater_name"`
	CreatedAtUnixMs int64  `json:"created_at"`
}

// ListRatings returns the latest ratings of targetID, newest first.
func ListRatings(ctx context.Context, targetID string, limit int) ([]RatingView, error) {
	if limit <= 0 {
		limit = defaultRatingsLimit
	}
	db := database.DB.WithContext(ctx)
	if _, err := loadUser(db, targetID); err != nil {
		return nil, err
	}

	var ratings []models.Rating
	if err := db.Where("target_user_id = ?", targetID).Order("created_at desc, id asc").Limit(limit).Find(&ratings).Error; err != nil {
		return nil, err
	}

	raterIDs := make([]string, 0, len(ratings))
	for _, r := range ratings {
		raterIDs = append(raterIDs, r.RaterID)
	}
	names := map[string]string{}
	if len(raterIDs) > 0 {
		var raters []models.User
		if err := db.Select("id", "display_name").Where("id IN ?", raterIDs).Find(&raters).Error; err != nil {
			return nil, err
		}
		for _, u := range raters {
			names[u.ID] = u.DisplayName
		}
	}

	views := make([]RatingView, 0, len(ratings))
	for _, r := range ratings {
		views = append(views, RatingView{
			ID:              r.ID,
			Score:           r.Score,
			Feedback:        r.Feedback,
			RaterID:         r.RaterID,
			RaterName:       names[r.RaterID],
			CreatedAtUnixMs: r.CreatedAt.UnixMilli(),
		})
	}
	return views, nil
}
