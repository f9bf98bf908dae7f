package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/codehub-server/errs"
	"github.com/codehub-server/logutils"
	"gorm.io/gorm"
)

// withTx runs fn inside a transaction. Errors from fn roll the transaction back and are
// returned unchanged; a rollback that itself fails is reported as a consistency error since
// fn's partial writes may have survived.
func withTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errs.Storage(op, tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		// database/sql already rolled back when the context was cancelled
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logutils.Log.WithFields(logutils.Fields{"op": op, "error": rbErr}).Error("Rollback failed")
			return errs.Consistency(op, errors.Join(err, rbErr))
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errs.Storage(op, err)
	}
	return nil
}

// storageErr translates a repository error. Missing rows become NotFound for entity,
// anything else is wrapped as a storage failure of op.
func storageErr(op, entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(entity)
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.Storage(op, err)
}
