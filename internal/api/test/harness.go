// Package test holds the fixtures shared by the handler tests: an in-memory
// database, a miniredis cache, a frozen clock and signed bearer tokens.
package test

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/store"
	"activityhub-backend/internal/utils"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "test_secret"

// Now is the frozen wall clock every handler test runs at.
var Now = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// Setup wires the services to fresh backing stores and returns a gin engine in test mode.
func Setup(t *testing.T) *gin.Engine {
	t.Helper()
	os.Setenv("JWT_SECRET", JWTSecret)
	gin.SetMode(gin.TestMode)

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

	services.SetClock(func() time.Time { return Now })
	t.Cleanup(func() {
		services.SetClock(nil)
		services.SetGateway(nil)
		services.SetDocumentStorage(nil)
		database.RedisClient.Close()
		database.RedisClient = nil
		mr.Close()
		sqlDB.Close()
	})

	return gin.New()
}

// Token signs a bearer token for userID with the given role.
func Token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func SeedUser(t *testing.T, id string, mutate ...func(u *models.User)) *models.User {
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

func SeedActivity(t *testing.T, id, creatorID string, price int64, scheduledAt time.Time, tags ...string) *models.Activity {
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

// Do performs a request against r. body is JSON-encoded unless it is nil.
func Do(t *testing.T, r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Envelope is utils.Response with a typed data field.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// ErrorCode extracts the service error code of a failed response.
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return Decode[utils.ErrorBody](t, w).Data.Code
}
