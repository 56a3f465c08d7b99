package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/metrics"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/store"
	"activityhub-backend/pkg/logger"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var planCatalog = []models.Plan{
	{ID: "basic", Name: "Basic", PriceMinorUnits: 2990, Tier: models.TierBasic, BillingPeriodDay: 30},
	{ID: "pro", Name: "Pro", PriceMinorUnits: 5990, Tier: models.TierPro, BillingPeriodDay: 30},
	{ID: "premium", Name: "Premium", PriceMinorUnits: 9990, Tier: models.TierPremium, BillingPeriodDay: 30},
}

func ListPlans() []models.Plan {
	plans := make([]models.Plan, len(planCatalog))
	copy(plans, planCatalog)
	return plans
}

func findPlan(planID string) (models.Plan, bool) {
	for _, p := range planCatalog {
		if p.ID == planID {
			return p, true
		}
	}
	return models.Plan{}, false
}

// CreateSubscription activates planID for the user, replacing any active subscription.
func CreateSubscription(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	plan, ok := findPlan(planID)
	if !ok {
		return nil, validationError("unknown plan " + planID)
	}

	db := database.DB.WithContext(ctx)
	var sub *models.Subscription
	err := store.Retry(currentSettings().CASMaxRetries, func() error {
		err := db.Transaction(func(tx *gorm.DB) error {
			user, err := loadUser(tx, userID)
			if err != nil {
				return err
			}
			if err := store.CompareAndSwap(tx, &models.User{}, user.ID, user.Version, map[string]interface{}{
				"subscription_tier":   plan.Tier,
				"subscription_active": true,
			}); err != nil {
				return err
			}

			t := now()
			err = tx.Model(&models.Subscription{}).
				Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
				Updates(map[string]interface{}{
					"status":       models.SubscriptionStatusCancelled,
					"cancelled_at": t,
					"active_key":   nil,
					"version":      gorm.Expr("version + 1"),
				}).Error
			if err != nil {
				return err
			}

			key := userID
			sub = &models.Subscription{
				ID:              uuid.New().String(),
				UserID:          userID,
				PlanID:          plan.ID,
				Status:          models.SubscriptionStatusActive,
				StartDate:       t,
				NextBillingDate: t.Add(time.Duration(plan.BillingPeriodDay) * 24 * time.Hour),
				ActiveKey:       &key,
				Version:         1,
			}
			if err := store.Insert(tx, sub); err != nil {
				if store.IsDuplicate(err) {
					// Another activation committed between our reads.
					return store.ErrConcurrency
				}
				return err
			}
			return nil
		})
		if errors.Is(err, store.ErrConcurrency) {
			metrics.CASConflicts.WithLabelValues("subscription").Inc()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, userID)
	logger.Named("subscriptions").Info("subscription activated", zap.String("user_id", userID), zap.String("plan_id", plan.ID))
	return sub, nil
}

// CancelSubscription cancels the subscription; cancelling twice is a no-op.
func CancelSubscription(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	db := database.DB.WithContext(ctx)
	var userID string
	err := store.Retry(currentSettings().CASMaxRetries, func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			sub, err := loadSubscription(tx, subscriptionID)
			if err != nil {
				return err
			}
			if sub.Status == models.SubscriptionStatusCancelled {
				return nil
			}
			wasActive := sub.ActiveKey != nil
			if err := store.CompareAndSwap(tx, &models.Subscription{}, sub.ID, sub.Version, map[string]interface{}{
				"status":       models.SubscriptionStatusCancelled,
				"cancelled_at": now(),
				"active_key":   nil,
			}); err != nil {
				return err
			}
			if !wasActive {
				return nil
			}

			user, err := loadUser(tx, sub.UserID)
			if err != nil {
				return err
			}
			userID = user.ID
			return store.CompareAndSwap(tx, &models.User{}, user.ID, user.Version, map[string]interface{}{
				"subscription_active": false,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	if userID != "" {
		invalidateUser(ctx, userID)
		logger.Named("subscriptions").Info("subscription cancelled", zap.String("user_id", userID), zap.String("subscription_id", subscriptionID))
	}
	return loadSubscription(db, subscriptionID)
}

type SubscriptionStatus struct {
	Active       bool                    `json:"active"`
	Tier         models.SubscriptionTier `json:"tier"`
	Subscription *models.Subscription    `json:"subscription,omitempty"`
}

func CheckSubscriptionStatus(ctx context.Context, userID string) (*SubscriptionStatus, error) {
	db := database.DB.WithContext(ctx)
	user, err := loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	var sub models.Subscription
	err = db.Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Order("start_date desc").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &SubscriptionStatus{Active: false, Tier: user.SubscriptionTier}, nil
	}
	if err != nil {
		return nil, err
	}
	return &SubscriptionStatus{Active: user.SubscriptionActive, Tier: user.SubscriptionTier, Subscription: &sub}, nil
}

func GetSubscription(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return loadSubscription(database.DB.WithContext(ctx), subscriptionID)
}

func loadSubscription(db *gorm.DB, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := store.Get(db, &sub, subscriptionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}
