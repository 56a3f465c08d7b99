package ledger

import (
	"activityhub-backend/internal/models"
	"time"
)

type LedgerEntry struct {
	ID            uint                   `json:"id"`
	CreatedAt     time.Time              `json:"created_at"`
	UserID        string                 `json:"user_id"`
	PaymentID     *string                `json:"payment_id,omitempty"`
	Amount        int64                  `json:"amount"`
	BalanceBefore int64                  `json:"balance_before"`
	BalanceAfter  int64                  `json:"balance_after"`
	Reason        string                 `json:"reason"`
	Operator      string                 `json:"operator"`
	Type          models.TransactionType `json:"type"`
	Hash          string                 `json:"hash"`
	Valid         bool                   `json:"valid"`
}

type LedgerListResponse struct {
	Entries []LedgerEntry `json:"entries"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
}
