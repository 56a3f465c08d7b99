// Package store holds the compare-and-swap primitives every mutating service is
// written against. Each entity carries a Version column; a write names the
// version it last observed and fails with ErrConcurrency when it moved.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrConcurrency = errors.New("entity was modified concurrently")
	ErrNotFound    = errors.New("entity not found")
	ErrDuplicate   = errors.New("entity already exists")
)

// Get loads dest by primary key.
func Get(db *gorm.DB, dest interface{}, id string) error {
	if err := db.First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// CompareAndSwap applies updates to the row of model's table with the given id
// only if its version still equals expectedVersion, bumping the version by one.
func CompareAndSwap(db *gorm.DB, model interface{}, id string, expectedVersion int, updates map[string]interface{}) error {
	values := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values["version"] = expectedVersion + 1

	result := db.Model(model).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrency
	}
	return nil
}

// Guard succeeds only if the row still has expectedVersion. It writes nothing but
// holds the row until the surrounding transaction ends, so a concurrent
// CompareAndSwap on the same row either lands before (and Guard fails) or after.
func Guard(db *gorm.DB, model interface{}, id string, expectedVersion int) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, expectedVersion).
		UpdateColumn("version", gorm.Expr("version"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrency
	}
	return nil
}

// Insert creates the row, mapping unique-key violations to ErrDuplicate.
func Insert(db *gorm.DB, value interface{}) error {
	if err := db.Create(value).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrDuplicate)
}

// Retry runs fn until it returns something other than ErrConcurrency, at most
// attempts times. The last ErrConcurrency is returned on exhaustion.
func Retry(attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !errors.Is(err, ErrConcurrency) {
			return err
		}
	}
	return err
}
