package services

import (
	"activityhub-backend/internal/database"
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/payment"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"
)

// LedgerFilter defines criteria for filtering ledger entries
type LedgerFilter struct {
	UserID    *string
	Type      *models.TransactionType
	StartTime *time.Time
	EndTime   *time.Time
	MinAmount *int64
	MaxAmount *int64
	Page      int
	Limit     int
}

// FindLedgerEntries retrieves a paginated list of ledger entries with filtering
func FindLedgerEntries(ctx context.Context, filter LedgerFilter) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := database.DB.WithContext(ctx).Model(&models.Transaction{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.Limit).Offset((page - 1) * filter.Limit)
	}
	if err := query.Order("created_at desc, id desc").Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// VerifyTransaction reports whether the entry's hash matches the configured ledger secret.
func VerifyTransaction(t *models.Transaction) bool {
	return t.VerifyHash(currentSettings().LedgerSecret)
}

// GenerateLedgerCSV generates a CSV file content for ledger entries
func GenerateLedgerCSV(transactions []models.Transaction) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"ID", "Time", "User ID", "Payment ID", "Type", "Amount",
		"Balance Before", "Balance After", "Reason",
		"Operator", "Hash", "Valid",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, t := range transactions {
		paymentID := ""
		if t.PaymentID != nil {
			paymentID = *t.PaymentID
		}
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.CreatedAt.Format(time.RFC3339Nano),
			t.UserID,
			paymentID,
			string(t.Type),
			payment.FormatMinorUnits(t.Amount),
			payment.FormatMinorUnits(t.BalanceBefore),
			payment.FormatMinorUnits(t.BalanceAfter),
			t.Reason,
			t.Operator,
			t.Hash,
			fmt.Sprintf("%t", VerifyTransaction(&t)),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
