package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/suteetoe/quoteflow/internal/apperr"
)

// OwnedBy restricts a query to rows of one merchant
func OwnedBy(merchantID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("merchant_id = ?", merchantID)
	}
}

// OwnedRecord restricts a query to one row of one merchant
func OwnedRecord(id, merchantID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND merchant_id = ?", id, merchantID)
	}
}

// translate maps gorm sentinel errors onto application error kinds
func translate(err error, notFound, conflictField, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(conflictField, conflictMsg)
	}
	return err
}
