package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/payment"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionFor(t *testing.T) {
	cases := []struct {
		amount, bps, commission, net int64
	}{
		{10000, 1500, 1500, 8500},
		{10000, 1000, 1000, 9000},
		{3333, 1500, 500, 2833},
		{10001, 1500, 1500, 8501},
		{1, 1500, 0, 1},
		{4, 1500, 1, 3},
	}
	for _, c := range cases {
		commission, net := CommissionFor(c.amount, c.bps)
		assert.Equal(t, c.commission, commission, "amount %d", c.amount)
		assert.Equal(t, c.net, net, "amount %d", c.amount)
		assert.Equal(t, c.amount, commission+net)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" PIX ")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentMethodPix, m)

	_, err = ParsePaymentMethod("paypal")
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = ParsePaymentMethod("applepay")
	assert.ErrorIs(t, err, ErrNotImplemented)
	_, err = ParsePaymentMethod("bitcoin")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompletePayment_StandardCommission(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(init.PixCode, "PIX"))
	assert.Len(t, init.PixCode, 15)
	assert.Equal(t, strings.ToUpper(init.PixCode), init.PixCode)
	require.NotNil(t, init.ExpiresAt)
	assert.Equal(t, baseTime.Add(30*time.Minute), *init.ExpiresAt)

	res, err := CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.AlreadyCompleted)
	assert.Equal(t, int64(1500), res.Commission)
	assert.Equal(t, int64(8500), res.Net)

	creator := reloadUser(t, "creator")
	assert.Equal(t, int64(8500), creator.Balance)
	assert.Equal(t, int64(1), creator.CompletedActivities)

	activity, err := GetActivity(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, activity.Locked)
	require.NotNil(t, activity.LockedAt)

	p := reloadPayment(t, init.PaymentID)
	assert.Equal(t, models.PaymentStatusCompleted, p.Status)
	require.NotNil(t, p.CompletedAt)

	var entry models.Transaction
	require.NoError(t, database.DB.Where("payment_id = ?", init.PaymentID).First(&entry).Error)
	assert.Equal(t, int64(8500), entry.Amount)
	assert.Equal(t, int64(0), entry.BalanceBefore)
	assert.Equal(t, int64(8500), entry.BalanceAfter)
	assert.True(t, VerifyTransaction(&entry))
}

func TestCompletePayment_PremiumCommission(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator", func(u *models.User) {
		u.SubscriptionTier = models.TierPremium
		u.SubscriptionActive = true
	})
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	res, err := CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Commission)
	assert.Equal(t, int64(9000), res.Net)
	assert.Equal(t, int64(9000), reloadUser(t, "creator").Balance)
}

func TestCompletePayment_InactivePremiumPaysStandardRate(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator", func(u *models.User) {
		u.SubscriptionTier = models.TierPremium
		u.SubscriptionActive = false
	})
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	res, err := CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.Commission)
}

func TestCompletePayment_Idempotent(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)

	first, err := CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)
	second, err := CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)

	assert.False(t, first.AlreadyCompleted)
	assert.True(t, second.AlreadyCompleted)
	assert.True(t, second.Success)
	assert.Equal(t, first.Commission, second.Commission)
	assert.Equal(t, first.Net, second.Net)
	assert.Equal(t, int64(8500), reloadUser(t, "creator").Balance)
	assert.Equal(t, int64(1), countLedger(t, "creator"))
}

func TestCompletePayment_Concurrent(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	fresh := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := CompletePayment(ctx, init.PaymentID)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, int64(8500), res.Net)
			if !res.AlreadyCompleted {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh)
	assert.Equal(t, int64(8500), reloadUser(t, "creator").Balance)
	assert.Equal(t, int64(1), countLedger(t, "creator"))
}

func TestCompletePayment_BalanceIsSumOfNet(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	prices := []int64{10000, 3333, 10001, 4}
	var want int64
	for i, price := range prices {
		payer := "payer" + string(rune('a'+i))
		activity := "act" + string(rune('a'+i))
		seedUser(t, payer)
		seedActivity(t, activity, "creator", price, baseTime.Add(72*time.Hour))

		init, err := InitiatePayment(ctx, activity, payer, models.PaymentMethodPix)
		require.NoError(t, err)
		res, err := CompletePayment(ctx, init.PaymentID)
		require.NoError(t, err)
		want += res.Net
	}

	creator := reloadUser(t, "creator")
	assert.Equal(t, want, creator.Balance)
	assert.Equal(t, int64(len(prices)), creator.CompletedActivities)
}

func TestCompletePayment_TwoPayersBeforeLock(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "p1")
	seedUser(t, "p2")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	first, err := InitiatePayment(ctx, "a1", "p1", models.PaymentMethodPix)
	require.NoError(t, err)
	second, err := InitiatePayment(ctx, "a1", "p2", models.PaymentMethodPix)
	require.NoError(t, err)

	_, err = CompletePayment(ctx, first.PaymentID)
	require.NoError(t, err)
	_, err = CompletePayment(ctx, second.PaymentID)
	require.NoError(t, err)

	assert.Equal(t, int64(17000), reloadUser(t, "creator").Balance)

	seedUser(t, "p3")
	_, err = InitiatePayment(ctx, "a1", "p3", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrAlreadyLocked)
}

func TestInitiatePayment_Duplicate(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	first, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)

	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrDuplicatePayment)
	assert.ErrorIs(t, err, ErrConflict)

	// cancelling releases the reservation
	cancelled, err := CancelPayment(ctx, first.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCancelled, cancelled.Status)

	again, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	assert.NotEqual(t, first.PaymentID, again.PaymentID)
}

func TestInitiatePayment_DuplicateAfterCompleted(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedUser(t, "other")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	_, err = CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)

	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrDuplicatePayment)

	// other payers are turned away by the lock
	_, err = InitiatePayment(ctx, "a1", "other", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrAlreadyLocked)

	var n int64
	require.NoError(t, database.DB.Model(&models.Payment{}).Where("activity_id = ?", "a1").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestInitiatePayment_RacingLock(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "first")
	seedUser(t, "second")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	first, err := InitiatePayment(ctx, "a1", "first", models.PaymentMethodPix)
	require.NoError(t, err)

	const workers = 4
	var wg sync.WaitGroup
	var mu sync.Mutex
	var initiated []string
	wg.Add(workers + 1)
	go func() {
		defer wg.Done()
		_, err := CompletePayment(ctx, first.PaymentID)
		assert.NoError(t, err)
	}()
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			res, err := InitiatePayment(ctx, "a1", "second", models.PaymentMethodPix)
			if err != nil {
				assert.True(t, errors.Is(err, ErrAlreadyLocked) || errors.Is(err, ErrDuplicatePayment), err.Error())
				return
			}
			mu.Lock()
			initiated = append(initiated, res.PaymentID)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// a reservation is either made before the lock or refused after it
	assert.LessOrEqual(t, len(initiated), 1)
	var activity models.Activity
	require.NoError(t, database.DB.First(&activity, "id = ?", "a1").Error)
	assert.True(t, activity.Locked)
	for _, id := range initiated {
		assert.Equal(t, models.PaymentStatusPending, reloadPayment(t, id).Status)
	}

	// once locked, a fresh payer cannot reserve
	seedUser(t, "late")
	_, err = InitiatePayment(ctx, "a1", "late", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrAlreadyLocked)
}

func TestInitiatePayment_ConcurrentDuplicates(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	const workers = 6
	var wg sync.WaitGroup
	var mu sync.Mutex
	created, duplicates := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrDuplicatePayment):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, duplicates)
}

func TestInitiatePayment_Validation(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))
	seedActivity(t, "tomorrow", "creator", 10000, baseTime.Add(24*time.Hour))
	seedActivity(t, "edge", "creator", 10000, baseTime.Add(48*time.Hour))

	_, err := InitiatePayment(ctx, "missing", "payer", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = InitiatePayment(ctx, "a1", "ghost", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = InitiatePayment(ctx, "a1", "creator", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPaypal)
	assert.ErrorIs(t, err, ErrNotImplemented)

	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethod("cash"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = InitiatePayment(ctx, "tomorrow", "payer", models.PaymentMethodPix)
	assert.ErrorIs(t, err, ErrLeadTimeViolation)

	_, err = InitiatePayment(ctx, "edge", "payer", models.PaymentMethodPix)
	assert.NoError(t, err)

	// card without a configured gateway
	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestInitiatePayment_Card(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	gw := &fakeGateway{}
	SetGateway(gw)

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodCard)
	require.NoError(t, err)
	assert.Equal(t, "cs_"+init.PaymentID, init.CheckoutHandle)
	assert.Contains(t, init.CheckoutURL, init.PaymentID)
	assert.Nil(t, init.ExpiresAt)
	assert.Empty(t, init.PixCode)

	p := reloadPayment(t, init.PaymentID)
	assert.Equal(t, init.CheckoutHandle, p.CheckoutHandle)
	assert.Equal(t, models.PaymentStatusPending, p.Status)

	// card payments never expire lazily
	clock := &testClock{t: baseTime.Add(24 * time.Hour)}
	SetClock(clock.Now)
	res, err := CompletePayment(ctx, init.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, int64(8500), res.Net)
}

func TestInitiatePayment_GatewayFailureReleasesReservation(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	gw := &fakeGateway{err: errors.New("gateway down")}
	SetGateway(gw)

	_, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodCard)
	assert.Error(t, err)

	var payments []models.Payment
	require.NoError(t, database.DB.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusCancelled, payments[0].Status)
	assert.Nil(t, payments[0].ActiveKey)

	gw.err = nil
	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethodCard)
	assert.NoError(t, err)
}

func TestInitiatePayment_HandleStoreFailureReleasesReservation(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	gw := &fakeGateway{onCheckout: func(string) {
		require.NoError(t, database.DB.Exec(`CREATE TRIGGER reject_handle BEFORE UPDATE OF checkout_handle ON payments
			BEGIN SELECT RAISE(ABORT, 'checkout handle rejected'); END`).Error)
	}}
	SetGateway(gw)

	_, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodCard)
	assert.Error(t, err)

	var payments []models.Payment
	require.NoError(t, database.DB.Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentStatusCancelled, payments[0].Status)
	assert.Nil(t, payments[0].ActiveKey)

	require.NoError(t, database.DB.Exec("DROP TRIGGER reject_handle").Error)
	gw.onCheckout = nil
	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethodCard)
	assert.NoError(t, err)
}

func TestCompletePayment_PixExpired(t *testing.T) {
	clock := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	_, err = CompletePayment(ctx, init.PaymentID)
	assert.ErrorIs(t, err, ErrPaymentExpired)
	assert.ErrorIs(t, err, ErrExpired)

	p := reloadPayment(t, init.PaymentID)
	assert.Equal(t, models.PaymentStatusExpired, p.Status)
	assert.Nil(t, p.ActiveKey)
	assert.Equal(t, int64(0), reloadUser(t, "creator").Balance)

	// still expired on retry, and the payer may book again
	_, err = CompletePayment(ctx, init.PaymentID)
	assert.ErrorIs(t, err, ErrPaymentExpired)
	_, err = InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	assert.NoError(t, err)
}

func TestCompletePayment_Cancelled(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	_, err = CancelPayment(ctx, init.PaymentID)
	require.NoError(t, err)

	_, err = CompletePayment(ctx, init.PaymentID)
	assert.ErrorIs(t, err, ErrPaymentCancelled)

	_, err = CompletePayment(ctx, "missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestExpirePayment(t *testing.T) {
	clock := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)

	_, err = ExpirePayment(ctx, init.PaymentID)
	assert.ErrorIs(t, err, ErrPaymentNotDue)

	clock.Advance(time.Hour)
	p, err := ExpirePayment(ctx, init.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, p.Status)

	// terminal: no-op
	p, err = ExpirePayment(ctx, init.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, p.Status)

	p, err = CancelPayment(ctx, init.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusExpired, p.Status)
}

func TestSweepExpiredPayments(t *testing.T) {
	clock := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))
	var ids []string
	for _, payer := range []string{"p1", "p2", "p3"} {
		seedUser(t, payer)
		init, err := InitiatePayment(ctx, "a1", payer, models.PaymentMethodPix)
		require.NoError(t, err)
		ids = append(ids, init.PaymentID)
	}
	_, err := CompletePayment(ctx, ids[0])
	require.NoError(t, err)

	sweeper := NewExpirySweeper(time.Minute, 10)
	assert.Equal(t, 0, sweeper.SweepOnce(ctx))

	clock.Advance(45 * time.Minute)
	assert.Equal(t, 2, sweeper.SweepOnce(ctx))
	assert.Equal(t, models.PaymentStatusCompleted, reloadPayment(t, ids[0]).Status)
	assert.Equal(t, models.PaymentStatusExpired, reloadPayment(t, ids[1]).Status)
	assert.Equal(t, models.PaymentStatusExpired, reloadPayment(t, ids[2]).Status)

	assert.Equal(t, 0, sweeper.SweepOnce(ctx))
}

func TestExpirySweeper_StartStop(t *testing.T) {
	setupTestEnv(t)
	sweeper := NewExpirySweeper(10*time.Millisecond, 10)
	sweeper.Start()
	sweeper.Start()
	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()
	sweeper.Stop()
}

func TestHandleGatewayNotification(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))
	SetGateway(&fakeGateway{})

	init, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodCard)
	require.NoError(t, err)

	_, err = HandleGatewayNotification(ctx, &payment.Notification{PaymentID: init.PaymentID, Paid: false})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = HandleGatewayNotification(ctx, &payment.Notification{PaymentID: init.PaymentID, Paid: true, AmountMinorUnits: 999})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = HandleGatewayNotification(ctx, &payment.Notification{PaymentID: "missing", Paid: true})
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	n := &payment.Notification{
		PaymentID:        init.PaymentID,
		ExternalID:       "trade-42",
		AmountMinorUnits: 10000,
		Paid:             true,
		Raw:              map[string]string{"trade_no": "trade-42"},
	}
	res, err := HandleGatewayNotification(ctx, n)
	require.NoError(t, err)
	assert.False(t, res.AlreadyCompleted)

	// gateways retry callbacks
	res, err = HandleGatewayNotification(ctx, n)
	require.NoError(t, err)
	assert.True(t, res.AlreadyCompleted)

	p := reloadPayment(t, init.PaymentID)
	assert.Equal(t, "trade-42", p.ExternalID)
	assert.Contains(t, string(p.GatewayPayload), "trade-42")
	assert.Equal(t, int64(8500), reloadUser(t, "creator").Balance)
}

func TestListPayments(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, "creator")
	seedUser(t, "payer")
	seedUser(t, "other")
	seedActivity(t, "a1", "creator", 10000, baseTime.Add(72*time.Hour))
	seedActivity(t, "a2", "creator", 5000, baseTime.Add(96*time.Hour))

	_, err := InitiatePayment(ctx, "a1", "payer", models.PaymentMethodPix)
	require.NoError(t, err)
	_, err = InitiatePayment(ctx, "a2", "payer", models.PaymentMethodPix)
	require.NoError(t, err)

	payments, total, err := ListPayments(ctx, PaymentFilter{UserID: "payer", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, payments, 2)

	_, total, err = ListPayments(ctx, PaymentFilter{UserID: "creator", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = ListPayments(ctx, PaymentFilter{UserID: "other", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
