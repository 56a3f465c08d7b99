package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"context"
	"math"
	"sort"
	"strings"
)

const maxMatchLimit = 100

// MatchFilters narrows the candidate set. Zero values mean "no filter".
type MatchFilters struct {
	Location  string
	MinRating float64
	Interests []string
	Limit     int
}

type Match struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"display_name"`
	City            string   `json:"city"`
	AverageRating   float64  `json:"average_rating"`
	TotalRatings    int64    `json:"total_ratings"`
	CommonInterests []string `json:"common_interests"`
	Score           int64    `json:"score"`
}

// CompatibilityScore is 10 per shared interest, 5 per rating point and 2 per
// completed activity up to 10, rounded half up.
func CompatibilityScore(common int, averageRating float64, completedActivities int64) int64 {
	experience := completedActivities
	if experience > 10 {
		experience = 10
	}
	if experience < 0 {
		experience = 0
	}
	raw := 10*float64(common) + 5*averageRating + 2*float64(experience)
	return roundHalfUp(raw)
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// FindCompatibleUsers ranks available users against the requester. It takes no
// locks and may observe slightly stale availability or ratings.
func FindCompatibleUsers(ctx context.Context, requesterID string, filters MatchFilters) ([]Match, error) {
	if filters.MinRating < 0 || filters.MinRating > 5 {
		return nil, validationError("min_rating must be between 0 and 5")
	}

	requester, err := FindUserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	interests := requester.Interests
	if len(filters.Interests) > 0 {
		wanted := models.NewStringSet(filters.Interests...)
		interests = models.NewStringSet(interests.Intersect(wanted)...)
	}

	query := database.DB.WithContext(ctx).Model(&models.User{}).
		Where("is_available = ?", true).
		Where("id <> ?", requesterID).
		Where("average_rating >= ?", filters.MinRating)
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		query = query.Where("city = ?", loc)
	}

	var candidates []models.User
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		common := interests.Intersect(c.Interests)
		matches = append(matches, Match{
			ID:              c.ID,
			DisplayName:     c.DisplayName,
			City:            c.City,
			AverageRating:   c.AverageRating,
			TotalRatings:    c.TotalRatings,
			CommonInterests: common,
			Score:           CompatibilityScore(len(common), c.AverageRating, c.CompletedActivities),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TotalRatings != b.TotalRatings {
			return a.TotalRatings > b.TotalRatings
		}
		return a.ID < b.ID
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = currentSettings().MatchDefaultLimit
	}
	if limit > maxMatchLimit {
		limit = maxMatchLimit
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
