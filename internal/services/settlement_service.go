package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/metrics"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/payment"
	"activityhub-backend/internal/store"
	"activityhub-backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	gatewayMu sync.RWMutex
	gateway   payment.Gateway
)

// SetGateway installs the card checkout collaborator.
func SetGateway(g payment.Gateway) {
	gatewayMu.Lock()
	gateway = g
	gatewayMu.Unlock()
}

func currentGateway() payment.Gateway {
	gatewayMu.RLock()
	defer gatewayMu.RUnlock()
	return gateway
}

type InitiateResult struct {
	PaymentID        string               `json:"payment_id"`
	Method           models.PaymentMethod `json:"method"`
	AmountMinorUnits int64                `json:"amount_minor_units"`
	PixCode          string               `json:"pix_code,omitempty"`
	CheckoutHandle   string               `json:"checkout_handle,omitempty"`
	CheckoutURL      string               `json:"checkout_url,omitempty"`
	ExpiresAt        *time.Time           `json:"expires_at,omitempty"`
}

type CompleteResult struct {
	PaymentID        string `json:"payment_id"`
	Success          bool   `json:"success"`
	AlreadyCompleted bool   `json:"already_completed"`
	Commission       int64  `json:"commission"`
	Net              int64  `json:"net"`
}

// ParsePaymentMethod maps client input onto the closed set of methods.
func ParsePaymentMethod(raw string) (models.PaymentMethod, error) {
	switch m := models.PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); m {
	case models.PaymentMethodCard, models.PaymentMethodPix:
		return m, nil
	case models.PaymentMethodPaypal, models.PaymentMethodApplePay:
		return "", ErrMethodNotSupported
	default:
		return "", validationError(fmt.Sprintf("unknown payment method %q", raw))
	}
}

// CommissionFor returns commission and net for amount at the given basis points,
// rounding the commission half up.
func CommissionFor(amount, bps int64) (commission, net int64) {
	commission = (amount*bps + 5000) / 10000
	return commission, amount - commission
}

func newPaymentID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func newPixCode() string {
	return "PIX" + strings.ToUpper(newPaymentID()[:12])
}

// InitiatePayment reserves the activity for the payer. The preconditions are read
// and the payment inserted in one transaction: the insert carries the (activity,
// payer) active key and the activity row is guarded against a concurrent lock.
func InitiatePayment(ctx context.Context, activityID, payerID string, method models.PaymentMethod) (*InitiateResult, error) {
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return nil, err
	}
	s := currentSettings()
	db := database.DB.WithContext(ctx)

	if _, err := loadUser(db, payerID); err != nil {
		return nil, err
	}

	var gw payment.Gateway
	if method == models.PaymentMethodCard {
		if gw = currentGateway(); gw == nil {
			return nil, newError(ErrNotImplemented, "GatewayUnavailable", "no card gateway is configured")
		}
	}

	key := models.PaymentActiveKey(activityID, payerID)
	var p *models.Payment
	var activity *models.Activity
	err := store.Retry(s.CASMaxRetries, func() error {
		err := db.Transaction(func(tx *gorm.DB) error {
			a, err := loadActivity(tx, activityID)
			if err != nil {
				return err
			}
			if a.Locked {
				live, err := hasLivePayment(tx, key)
				if err != nil {
					return err
				}
				if live {
					return ErrDuplicatePayment
				}
				return ErrAlreadyLocked
			}
			if a.CreatorID == payerID {
				return validationError("creators cannot pay for their own activity")
			}

			t := now()
			if a.ScheduledAt.Before(t.Add(s.PaymentLeadTime)) {
				return ErrLeadTimeViolation
			}

			candidate := &models.Payment{
				ID:               newPaymentID(),
				ActivityID:       activityID,
				PayerID:          payerID,
				CreatorID:        a.CreatorID,
				AmountMinorUnits: a.PriceMinorUnits,
				Method:           method,
				Status:           models.PaymentStatusPending,
				ActiveKey:        &key,
				Version:          1,
			}
			if method == models.PaymentMethodPix {
				expiresAt := t.Add(s.PixTTL)
				candidate.ExpiresAt = &expiresAt
				candidate.PixCode = newPixCode()
			}
			if err := store.Insert(tx, candidate); err != nil {
				if store.IsDuplicate(err) {
					return ErrDuplicatePayment
				}
				return err
			}
			if err := store.Guard(tx, &models.Activity{}, a.ID, a.Version); err != nil {
				return err
			}
			p, activity = candidate, a
			return nil
		})
		if errors.Is(err, store.ErrConcurrency) {
			metrics.CASConflicts.WithLabelValues("activity").Inc()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	log := logger.Named("settlement").With(zap.String("payment_id", p.ID), zap.String("activity_id", activityID))
	result := &InitiateResult{
		PaymentID:        p.ID,
		Method:           method,
		AmountMinorUnits: p.AmountMinorUnits,
		PixCode:          p.PixCode,
		ExpiresAt:        p.ExpiresAt,
	}

	if gw != nil {
		sess, err := gw.CreateCheckout(ctx, payment.CheckoutRequest{
			PaymentID:        p.ID,
			PayerID:          payerID,
			Title:            activity.Title,
			Description:      activity.Description,
			AmountMinorUnits: p.AmountMinorUnits,
		})
		if err != nil {
			log.Warn("checkout session failed, releasing reservation", zap.String("gateway", gw.Name()), zap.Error(err))
			releaseReservation(ctx, log, p.ID)
			return nil, fmt.Errorf("create checkout: %w", err)
		}
		if err := casPayment(db, p.ID, func(cur *models.Payment) (map[string]interface{}, error) {
			return map[string]interface{}{
				"checkout_handle": sess.Handle,
				"checkout_url":    sess.URL,
			}, nil
		}); err != nil {
			log.Warn("storing checkout handle failed, releasing reservation", zap.String("gateway", gw.Name()), zap.Error(err))
			releaseReservation(ctx, log, p.ID)
			return nil, fmt.Errorf("store checkout handle: %w", err)
		}
		result.CheckoutHandle = sess.Handle
		result.CheckoutURL = sess.URL
	}

	metrics.PaymentsInitiated.WithLabelValues(string(method)).Inc()
	log.Info("payment initiated", zap.String("method", string(method)), zap.Int64("amount", p.AmountMinorUnits))
	return result, nil
}

// hasLivePayment reports whether a pending or completed payment holds key.
func hasLivePayment(db *gorm.DB, key string) (bool, error) {
	var n int64
	if err := db.Model(&models.Payment{}).Where("active_key = ?", key).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func releaseReservation(ctx context.Context, log *zap.Logger, paymentID string) {
	if _, err := CancelPayment(ctx, paymentID); err != nil {
		log.Error("failed to release reservation", zap.Error(err))
	}
}

// CompletePayment settles a pending payment exactly once. Calling it again with the
// same id returns the stored outcome with AlreadyCompleted set.
func CompletePayment(ctx context.Context, paymentID string) (*CompleteResult, error) {
	return completePayment(ctx, paymentID, nil)
}

func completePayment(ctx context.Context, paymentID string, n *payment.Notification) (*CompleteResult, error) {
	s := currentSettings()
	var result *CompleteResult
	err := store.Retry(s.CASMaxRetries, func() error {
		r, err := completeOnce(ctx, paymentID, n, s)
		if errors.Is(err, store.ErrConcurrency) {
			metrics.CASConflicts.WithLabelValues("payment").Inc()
		}
		result = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func completeOnce(ctx context.Context, paymentID string, n *payment.Notification, s Settings) (*CompleteResult, error) {
	db := database.DB.WithContext(ctx)
	p, err := loadPayment(db, paymentID)
	if err != nil {
		return nil, err
	}

	switch p.Status {
	case models.PaymentStatusCompleted:
		return &CompleteResult{
			PaymentID:        p.ID,
			Success:          true,
			AlreadyCompleted: true,
			Commission:       p.CommissionMinorUnits,
			Net:              p.NetMinorUnits,
		}, nil
	case models.PaymentStatusExpired:
		return nil, ErrPaymentExpired
	case models.PaymentStatusCancelled:
		return nil, ErrPaymentCancelled
	}

	t := now()
	if p.Method == models.PaymentMethodPix && p.ExpiresAt != nil && t.After(*p.ExpiresAt) {
		if err := finishPending(db, p, models.PaymentStatusExpired); err != nil {
			return nil, err
		}
		return nil, ErrPaymentExpired
	}

	var commission, net int64
	err = db.Transaction(func(tx *gorm.DB) error {
		creator, err := loadUser(tx, p.CreatorID)
		if err != nil {
			return err
		}
		bps := s.CommissionStandardBPS
		if creator.IsPremium() {
			bps = s.CommissionPremiumBPS
		}
		commission, net = CommissionFor(p.AmountMinorUnits, bps)

		updates := map[string]interface{}{
			"status":                 models.PaymentStatusCompleted,
			"commission_minor_units": commission,
			"net_minor_units":        net,
			"completed_at":           t,
		}
		if n != nil {
			if n.ExternalID != "" {
				updates["external_id"] = n.ExternalID
			}
			if raw, err := json.Marshal(n.Raw); err == nil {
				updates["gateway_payload"] = datatypes.JSON(raw)
			}
		}
		if err := store.CompareAndSwap(tx, &models.Payment{}, p.ID, p.Version, updates); err != nil {
			return err
		}

		if err := creditCreator(tx, p, net, t, s); err != nil {
			return err
		}
		return lockActivity(tx, p.ActivityID, t, s)
	})
	if err != nil {
		return nil, err
	}

	invalidateUser(ctx, p.CreatorID)
	metrics.PaymentsFinished.WithLabelValues(string(p.Method), string(models.PaymentStatusCompleted)).Inc()
	metrics.CommissionMinorUnits.Add(float64(commission))
	logger.Named("settlement").Info("payment completed",
		zap.String("payment_id", p.ID),
		zap.String("creator_id", p.CreatorID),
		zap.Int64("commission", commission),
		zap.Int64("net", net),
	)

	return &CompleteResult{PaymentID: p.ID, Success: true, Commission: commission, Net: net}, nil
}

// creditCreator adds net to the creator balance and writes the ledger entry keyed by
// the payment id. The unique payment id on the ledger rejects a second credit.
func creditCreator(tx *gorm.DB, p *models.Payment, net int64, t time.Time, s Settings) error {
	var before, after int64
	err := store.Retry(s.CASMaxRetries, func() error {
		creator, err := loadUser(tx, p.CreatorID)
		if err != nil {
			return err
		}
		before = creator.Balance
		after = creator.Balance + net
		err = store.CompareAndSwap(tx, &models.User{}, creator.ID, creator.Version, map[string]interface{}{
			"balance":              after,
			"completed_activities": creator.CompletedActivities + 1,
		})
		if errors.Is(err, store.ErrConcurrency) {
			metrics.CASConflicts.WithLabelValues("user").Inc()
		}
		return err
	})
	if err != nil {
		return err
	}

	paymentID := p.ID
	entry := models.Transaction{
		CreatedAt:     t.Truncate(time.Millisecond),
		UserID:        p.CreatorID,
		PaymentID:     &paymentID,
		Amount:        net,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        fmt.Sprintf("Payout for activity %s, payment %s", p.ActivityID, p.ID),
		Operator:      "system",
		Type:          models.TransactionTypeActivityPayout,
	}
	entry.Hash = entry.GenerateHash(s.LedgerSecret)
	if err := store.Insert(tx, &entry); err != nil {
		if store.IsDuplicate(err) {
			return fmt.Errorf("ledger already credited for payment %s: %w", p.ID, store.ErrConcurrency)
		}
		return err
	}
	return nil
}

func lockActivity(tx *gorm.DB, activityID string, t time.Time, s Settings) error {
	return store.Retry(s.CASMaxRetries, func() error {
		activity, err := loadActivity(tx, activityID)
		if err != nil {
			return err
		}
		if activity.Locked {
			return nil
		}
		err = store.CompareAndSwap(tx, &models.Activity{}, activity.ID, activity.Version, map[string]interface{}{
			"locked":    true,
			"locked_at": t,
		})
		if errors.Is(err, store.ErrConcurrency) {
			metrics.CASConflicts.WithLabelValues("activity").Inc()
		}
		return err
	})
}

// finishPending moves a pending payment to a failed terminal status and releases
// its active key so the payer may book again.
func finishPending(db *gorm.DB, p *models.Payment, status models.PaymentStatus) error {
	err := store.CompareAndSwap(db, &models.Payment{}, p.ID, p.Version, map[string]interface{}{
		"status":     status,
		"active_key": nil,
	})
	if err != nil {
		return err
	}
	metrics.PaymentsFinished.WithLabelValues(string(p.Method), string(status)).Inc()
	logger.Named("settlement").Info("payment closed", zap.String("payment_id", p.ID), zap.String("status", string(status)))
	return nil
}

// ExpirePayment closes a pending pix payment whose window elapsed. Terminal payments
// are returned unchanged.
func ExpirePayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	db := database.DB.WithContext(ctx)
	var p *models.Payment
	err := store.Retry(currentSettings().CASMaxRetries, func() error {
		var err error
		if p, err = loadPayment(db, paymentID); err != nil {
			return err
		}
		if p.Status.IsTerminal() {
			return nil
		}
		if p.Method != models.PaymentMethodPix || p.ExpiresAt == nil || !now().After(*p.ExpiresAt) {
			return ErrPaymentNotDue
		}
		return finishPending(db, p, models.PaymentStatusExpired)
	})
	if err != nil {
		return nil, err
	}
	return loadPayment(db, paymentID)
}

// CancelPayment abandons a pending payment. Terminal payments are returned unchanged.
func CancelPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	db := database.DB.WithContext(ctx)
	err := store.Retry(currentSettings().CASMaxRetries, func() error {
		p, err := loadPayment(db, paymentID)
		if err != nil {
			return err
		}
		if p.Status.IsTerminal() {
			return nil
		}
		return finishPending(db, p, models.PaymentStatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	return loadPayment(db, paymentID)
}

// SweepExpiredPayments expires every due pending pix payment and returns how many
// it closed. A payment completed or expired by a racer is skipped.
func SweepExpiredPayments(ctx context.Context, batch int) (int, error) {
	if batch <= 0 {
		batch = 100
	}
	var due []models.Payment
	err := database.DB.WithContext(ctx).
		Where("status = ? AND method = ? AND expires_at < ?", models.PaymentStatusPending, models.PaymentMethodPix, now()).
		Order("expires_at asc").
		Limit(batch).
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, p := range due {
		updated, err := ExpirePayment(ctx, p.ID)
		if err != nil {
			if errors.Is(err, ErrPaymentNotDue) {
				continue
			}
			return expired, err
		}
		if updated.Status == models.PaymentStatusExpired {
			expired++
		}
	}
	return expired, nil
}

// HandleGatewayNotification completes the payment a verified gateway callback refers to.
func HandleGatewayNotification(ctx context.Context, n *payment.Notification) (*CompleteResult, error) {
	if n == nil || n.PaymentID == "" {
		return nil, validationError("notification does not reference a payment")
	}
	if !n.Paid {
		return nil, validationError("notification does not report a successful charge")
	}
	p, err := loadPayment(database.DB.WithContext(ctx), n.PaymentID)
	if err != nil {
		return nil, err
	}
	if n.AmountMinorUnits != 0 && n.AmountMinorUnits != p.AmountMinorUnits {
		logger.Named("settlement").Warn("gateway amount mismatch",
			zap.String("payment_id", p.ID),
			zap.Int64("expected", p.AmountMinorUnits),
			zap.Int64("reported", n.AmountMinorUnits),
		)
		return nil, validationError("reported amount does not match the payment")
	}
	return completePayment(ctx, p.ID, n)
}

func GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	return loadPayment(database.DB.WithContext(ctx), paymentID)
}

// PaymentFilter selects payments where the user is payer or creator. An empty
// UserID selects every payment.
type PaymentFilter struct {
	UserID string
	Status *models.PaymentStatus
	Page   int
	Limit  int
}

func ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := database.DB.WithContext(ctx).Model(&models.Payment{})
	if filter.UserID != "" {
		query = query.Where("payer_id = ? OR creator_id = ?", filter.UserID, filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
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
	if err := query.Order("created_at desc, id asc").Limit(limit).Offset((page - 1) * limit).Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func loadPayment(db *gorm.DB, paymentID string) (*models.Payment, error) {
	var p models.Payment
	if err := store.Get(db, &p, paymentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// casPayment re-reads the payment and applies the updates fn derives from it.
func casPayment(db *gorm.DB, paymentID string, fn func(cur *models.Payment) (map[string]interface{}, error)) error {
	return store.Retry(currentSettings().CASMaxRetries, func() error {
		cur, err := loadPayment(db, paymentID)
		if err != nil {
			return err
		}
		updates, err := fn(cur)
		if err != nil || len(updates) == 0 {
			return err
		}
		return store.CompareAndSwap(db, &models.Payment{}, cur.ID, cur.Version, updates)
	})
}
