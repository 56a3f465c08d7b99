package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/store"
	"activityhub-backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userCacheTTL = 10 * time.Minute

func userCacheKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// FindUserByID reads through the redis cache. Callers that mutate balances or
// ratings must read inside their transaction instead.
func FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	cacheKey := userCacheKey(userID)
	if val, ok := database.CacheGet(ctx, cacheKey); ok {
		var user models.User
		if err := json.Unmarshal([]byte(val), &user); err == nil {
			return &user, nil
		}
	}

	var user models.User
	if err := store.Get(database.DB.WithContext(ctx), &user, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		database.CacheSet(ctx, cacheKey, data, userCacheTTL)
	}
	return &user, nil
}

func invalidateUser(ctx context.Context, userIDs ...string) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, userCacheKey(id))
	}
	database.CacheDel(ctx, keys...)
}

// CreateUserRequest provisions a marketplace profile for an identity.
type CreateUserRequest struct {
	ID          string
	DisplayName string
	City        string
	Interests   []string
	IsAvailable bool
}

func CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, validationError("display name is required")
	}
	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	user := &models.User{
		ID:               id,
		DisplayName:      strings.TrimSpace(req.DisplayName),
		City:             strings.TrimSpace(req.City),
		Interests:        models.NewStringSet(req.Interests...),
		IsAvailable:      req.IsAvailable,
		SubscriptionTier: models.TierNone,
		Verification:     models.VerificationNone,
		Version:          1,
	}
	if err := store.Insert(database.DB.WithContext(ctx), user); err != nil {
		if store.IsDuplicate(err) {
			return nil, newError(ErrConflict, "UserExists", "user already exists")
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdate carries the user-editable profile fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	DisplayName *string
	City        *string
	Interests   []string
	IsAvailable *bool
}

// UpdateProfile applies the update with compare-and-swap on the user version.
func UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" {
			return nil, validationError("display name cannot be empty")
		}
		updates["display_name"] = name
	}
	if upd.City != nil {
		updates["city"] = strings.TrimSpace(*upd.City)
	}
	if upd.Interests != nil {
		updates["interests"] = models.NewStringSet(upd.Interests...)
	}
	if upd.IsAvailable != nil {
		updates["is_available"] = *upd.IsAvailable
	}

	db := database.DB.WithContext(ctx)
	var user models.User
	err := store.Retry(currentSettings().CASMaxRetries, func() error {
		if err := store.Get(db, &user, userID); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return store.CompareAndSwap(db, &models.User{}, userID, user.Version, updates)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	invalidateUser(ctx, userID)
	logger.Named("users").Info("profile updated", zap.String("user_id", userID), zap.Int("fields", len(updates)))

	if err := store.Get(db, &user, userID); err != nil {
		return nil, err
	}
	return &user, nil
}

// loadUser reads the user row through tx, bypassing the cache.
func loadUser(tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := store.Get(tx, &user, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
