package models

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionTypeActivityPayout TransactionType = "activity_payout"
	TransactionTypeAdminAdjust    TransactionType = "admin_adjustment"
)

// Transaction is a ledger entry on a user's balance. Amounts are minor currency units.
// PaymentID is unique: a payment can credit a ledger at most once.
type Transaction struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time       `gorm:"precision:3" json:"created_at"` // Millisecond precision
	UserID        string          `gorm:"type:varchar(36);index;not null" json:"user_id"`
	PaymentID     *string         `gorm:"type:varchar(32);uniqueIndex" json:"payment_id,omitempty"`
	Amount        int64           `gorm:"not null" json:"amount"`
	BalanceBefore int64           `gorm:"not null" json:"balance_before"`
	BalanceAfter  int64           `gorm:"not null" json:"balance_after"`
	Reason        string          `gorm:"type:text" json:"reason"`
	Operator      string          `gorm:"type:varchar(100)" json:"operator"` // user id or 'system'
	Type          TransactionType `gorm:"type:varchar(50);index;default:'activity_payout'" json:"type"`
	Hash          string          `gorm:"type:varchar(64);default:''" json:"hash"` // HMAC SHA256
}

// GenerateHash generates a tamper-proof hash for the transaction
func (t *Transaction) GenerateHash(secret string) string {
	paymentID := ""
	if t.PaymentID != nil {
		paymentID = *t.PaymentID
	}
	data := fmt.Sprintf("%s|%d|%s|%d|%d|%d|%s|%s|%s",
		t.UserID, t.CreatedAt.UnixNano(), paymentID, t.Amount, t.BalanceBefore, t.BalanceAfter,
		t.Reason, t.Operator, t.Type)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHash reports whether the stored hash matches the entry's contents.
func (t *Transaction) VerifyHash(secret string) bool {
	return hmac.Equal([]byte(t.Hash), []byte(t.GenerateHash(secret)))
}
