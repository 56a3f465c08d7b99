package services

import (
	"activityhub-backend/internal/store"
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service either is one of these or
// unwraps to one.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrExpired        = errors.New("expired")
	ErrConcurrency    = store.ErrConcurrency
	ErrNotImplemented = errors.New("not implemented")
)

// ServiceError is a specific failure of a kind, e.g. ConflictError: DuplicatePayment.
type ServiceError struct {
	Kind    error
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

func newError(kind error, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message}
}

func validationError(message string) *ServiceError {
	return newError(ErrValidation, "ValidationError", message)
}

var (
	ErrUserNotFound         = newError(ErrNotFound, "UserNotFound", "user not found")
	ErrActivityNotFound     = newError(ErrNotFound, "ActivityNotFound", "activity not found")
	ErrPaymentNotFound      = newError(ErrNotFound, "PaymentNotFound", "payment not found")
	ErrSubscriptionNotFound = newError(ErrNotFound, "SubscriptionNotFound", "subscription not found")

	ErrDuplicatePayment   = newError(ErrConflict, "DuplicatePayment", "a pending or completed payment already exists for this activity and payer")
	ErrLeadTimeViolation  = newError(ErrConflict, "LeadTimeViolation", "payments must be made at least 2 days before the activity")
	ErrAlreadyLocked      = newError(ErrConflict, "AlreadyLocked", "activity is locked")
	ErrPaymentCancelled   = newError(ErrConflict, "PaymentCancelled", "payment has been cancelled")
	ErrPaymentNotDue      = newError(ErrConflict, "PaymentNotDue", "payment has not reached its expiry time")
	ErrNotOwner           = newError(ErrConflict, "NotOwner", "resource belongs to another user")
	ErrPaymentExpired     = newError(ErrExpired, "ExpiredError", "pix payment window has elapsed")
	ErrMethodNotSupported = newError(ErrNotImplemented, "NotImplementedError", "payment method is not available")

	// Card payments settle only through a verified gateway notification.
	ErrGatewayConfirmationRequired = newError(ErrConflict, "GatewayConfirmationRequired", "card payments are settled by the gateway callback")
)

// KindOf returns the kind an error belongs to, or nil for unclassified errors.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrExpired, ErrConcurrency, ErrNotImplemented} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
