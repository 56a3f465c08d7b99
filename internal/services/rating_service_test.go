package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRating_Average(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "target")
	seedUser(t, "r1")
	seedUser(t, "r2")
	seedUser(t, "r3")

	for i, score := range []int{4, 5, 3} {
		rater := []string{"r1", "r2", "r3"}[i]
		_, err := SubmitRating(ctx, "target", rater, score, "")
		require.NoError(t, err)
	}

	target := reloadUser(t, "target")
	assert.Equal(t, 4.0, target.AverageRating)
	assert.Equal(t, int64(3), target.TotalRatings)
	assert.Equal(t, int64(12), target.RatingSum)
}

func TestSubmitRating_Validation(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "target")
	seedUser(t, "rater")

	for _, score := range []int{0, 6, -1} {
		_, err := SubmitRating(ctx, "target", "rater", score, "")
		assert.ErrorIs(t, err, ErrValidation, "score %d", score)
	}

	_, err := SubmitRating(ctx, "rater", "rater", 5, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = SubmitRating(ctx, "ghost", "rater", 5, "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	target := reloadUser(t, "target")
	assert.Equal(t, int64(0), target.TotalRatings)
}

func TestSubmitRating_Concurrent(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "target")
	seedUser(t, "rater")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := SubmitRating(ctx, "target", "rater", 5, "great")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	target := reloadUser(t, "target")
	assert.Equal(t, int64(5), target.TotalRatings)
	assert.Equal(t, 5.0, target.AverageRating)
}

func TestSubmitRating_InvalidatesCache(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "target")
	seedUser(t, "rater")

	cached, err := FindUserByID(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.TotalRatings)

	_, err = SubmitRating(ctx, "target", "rater", 2, "")
	require.NoError(t, err)

	fresh, err := FindUserByID(ctx, "target")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.TotalRatings)
	assert.Equal(t, 2.0, fresh.AverageRating)
}

func TestListRatings(t *testing.T) {
	clock := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "target")
	seedUser(t, "r1")
	seedUser(t, "r2")

	_, err := SubmitRating(ctx, "target", "r1", 3, "ok")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = SubmitRating(ctx, "target", "r2", 5, "  superb ")
	require.NoError(t, err)

	views, err := ListRatings(ctx, "target", 0)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "r2", views[0].RaterID)
	assert.Equal(t, "User r2", views[0].RaterName)
	assert.Equal(t, "superb", views[0].Feedback)

	views, err = ListRatings(ctx, "target", 1)
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, err = ListRatings(ctx, "ghost", 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
