package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateActivity(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")

	a, err := CreateActivity(ctx, "creator", CreateActivityRequest{
		Title:           " Sunrise hike ",
		City:            "Lisbon",
		Tags:            []string{"Hiking", "outdoors", "hiking"},
		PriceMinorUnits: 2500,
		ScheduledAt:     baseTime.Add(96 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunrise hike", a.Title)
	assert.Equal(t, models.StringSet{"hiking", "outdoors"}, a.Tags)
	assert.False(t, a.Locked)

	got, err := GetActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)

	_, err = CreateActivity(ctx, "creator", CreateActivityRequest{Title: "free", PriceMinorUnits: 0, ScheduledAt: baseTime.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CreateActivity(ctx, "creator", CreateActivityRequest{Title: "past", PriceMinorUnits: 10, ScheduledAt: baseTime.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CreateActivity(ctx, "creator", CreateActivityRequest{Title: " ", PriceMinorUnits: 10, ScheduledAt: baseTime.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CreateActivity(ctx, "ghost", CreateActivityRequest{Title: "x", PriceMinorUnits: 10, ScheduledAt: baseTime.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = GetActivity(ctx, "missing")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestUpdateActivity(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	title := "Renamed"
	price := int64(12000)
	a, err := UpdateActivity(ctx, "creator", "a1", ActivityUpdate{Title: &title, PriceMinorUnits: &price})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", a.Title)
	assert.Equal(t, int64(12000), a.PriceMinorUnits)
	assert.Equal(t, 2, a.Version)

	_, err = UpdateActivity(ctx, "payer", "a1", ActivityUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrNotOwner)

	bad := int64(-5)
	_, err = UpdateActivity(ctx, "creator", "a1", ActivityUpdate{PriceMinorUnits: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	_, err = CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)

	_, err = UpdateActivity(ctx, "creator", "a1", ActivityUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrAlreadyLocked)
}

func TestListActivities(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "c1")
	seedUser(t, "c2")
	seedActivity(t, "a1", "c1", 100, baseTime.Add(72*time.Hour))
	seedActivity(t, "a2", "c2", 100, baseTime.Add(48*time.Hour))
	locked := seedActivity(t, "a3", "c1", 100, baseTime.Add(96*time.Hour))
	require.NoError(t, lockActivity(database.DB, locked.ID, baseTime, currentSettings()))

	all, total, err := ListActivities(ctx, ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.Equal(t, "a2", all[0].ID)

	withLocked, total, err := ListActivities(ctx, ActivityFilter{IncludeLocked: true, CreatorID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, withLocked, 2)

	page, total, err := ListActivities(ctx, ActivityFilter{IncludeLocked: true, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "a3", page[0].ID)
}

func TestRecommendActivities(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "me", func(u *models.User) { u.Interests = models.NewStringSet("coffee", "hiking") })
	seedUser(t, "star", func(u *models.User) { u.AverageRating = 5 })
	seedUser(t, "plain")

	seedActivity(t, "own", "me", 100, baseTime.Add(72*time.Hour), "coffee", "hiking")
	seedActivity(t, "past", "plain", 100, baseTime.Add(-time.Hour), "coffee", "hiking")
	// relevance: both 20, starred 25, early and late 10
	seedActivity(t, "both", "plain", 100, baseTime.Add(80*time.Hour), "coffee", "hiking")
	seedActivity(t, "starred", "star", 100, baseTime.Add(90*time.Hour), "chess")
	seedActivity(t, "early", "plain", 100, baseTime.Add(50*time.Hour), "hiking")
	seedActivity(t, "late", "plain", 100, baseTime.Add(60*time.Hour), "coffee")
	locked := seedActivity(t, "locked", "star", 100, baseTime.Add(70*time.Hour), "coffee")
	require.NoError(t, lockActivity(database.DB, locked.ID, baseTime, currentSettings()))

	recs, err := RecommendActivities(ctx, "me", 0)
	require.NoError(t, err)
	ids := []string{}
	for _, r := range recs {
		ids = append(ids, r.Activity.ID)
	}
	assert.Equal(t, []string{"starred", "both", "early", "late"}, ids)
	assert.Equal(t, int64(25), recs[0].Relevance)
	assert.Equal(t, []string{"coffee", "hiking"}, recs[1].MatchedTags)

	recs, err = RecommendActivities(ctx, "me", 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}
