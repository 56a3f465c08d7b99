package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/payment"
	"activityhub-backend/internal/store"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var baseTime = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// testClock is a settable clock shared by the services under test.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// setupTestEnv points the services at a private in-memory database, a miniredis
// instance and a clock frozen at baseTime.
func setupTestEnv(t *testing.T) *testClock {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	mr, err := miniredis.Run()
	require.NoError(t, err)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	clock := &testClock{t: baseTime}
	SetClock(clock.Now)
	SetGateway(nil)
	SetDocumentStorage(nil)

	t.Cleanup(func() {
		SetClock(nil)
		SetGateway(nil)
		SetDocumentStorage(nil)
		database.RedisClient.Close()
		database.RedisClient = nil
		mr.Close()
		sqlDB.Close()
	})
	return clock
}

func seedUser(t *testing.T, id string, mutate ...func(u *models.User)) *models.User {
	t.Helper()
	u := &models.User{
		ID:               id,
		DisplayName:      "User " + id,
		City:             "Lisbon",
		IsAvailable:      true,
		SubscriptionTier: models.TierNone,
		Verification:     models.VerificationNone,
		Version:          1,
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, store.Insert(database.DB, u))
	return u
}

func seedActivity(t *testing.T, id, creatorID string, price int64, scheduledAt time.Time, tags ...string) *models.Activity {
	t.Helper()
	a := &models.Activity{
		ID:              id,
		CreatorID:       creatorID,
		Title:           "Activity " + id,
		City:            "Lisbon",
		Tags:            models.NewStringSet(tags...),
		PriceMinorUnits: price,
		ScheduledAt:     scheduledAt.UTC(),
		Version:         1,
	}
	require.NoError(t, store.Insert(database.DB, a))
	return a
}

func reloadUser(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := loadUser(database.DB, id)
	require.NoError(t, err)
	return u
}

func reloadPayment(t *testing.T, id string) *models.Payment {
	t.Helper()
	p, err := loadPayment(database.DB, id)
	require.NoError(t, err)
	return p
}

func countLedger(t *testing.T, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

// fakeGateway records checkout requests and fails when err is set. onCheckout
// runs before the session is returned.
type fakeGateway struct {
	mu         sync.Mutex
	requests   []string
	err        error
	onCheckout func(paymentID string)
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, req.PaymentID)
	if g.onCheckout != nil {
		g.onCheckout(req.PaymentID)
	}
	return &payment.CheckoutSession{
		Handle: "cs_" + req.PaymentID,
		URL:    fmt.Sprintf("https://checkout.example/%s", req.PaymentID),
	}, nil
}
