package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransactionResult runs fn inside a transaction and returns its result.
// The transaction commits when fn succeeds and rolls back when it fails, so
// a multi-statement write is never observable half-done.
func WithTransactionResult[T any](ctx context.Context, db Database, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var zero T

	tx := db.Session(ctx).Begin()
	if tx.Error != nil {
		return zero, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	result, err := fn(tx)
	if err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return zero, fmt.Errorf("rollback after %w: %w", err, rbErr)
		}
		return zero, err
	}

	if err := tx.Commit().Error; err != nil {
		return zero, fmt.Errorf("commit transaction: %w", err)
	}
	return result, nil
}
