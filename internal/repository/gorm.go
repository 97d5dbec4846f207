package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"zapshift/internal/model"
)

type gormTxKey struct{}

// NewGormStore builds a Store backed by a GORM connection (MySQL or sqlite).
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Riders:   NewRiderRepository(db),
		Parcels:  NewParcelRepository(db),
		Payments: NewPaymentRepository(db),
		Tx:       &gormTransactor{db: db},
		Pinger:   &gormPinger{db: db},
	}
}

// AutoMigrate creates or updates the tables of every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Rider{},
		&model.Parcel{},
		&model.Payment{},
	)
}

type gormTransactor struct {
	db *gorm.DB
}

// WithTransaction executes fn within a database transaction. Nested calls
// join the outer transaction.
func (t *gormTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

type gormPinger struct {
	db *gorm.DB
}

func (p *gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// conn returns the transaction carried by ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// isUniqueViolation catches drivers that do not translate their errors.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// updateOne applies values to the row matching id. A zero row count is
// only reported as ErrNotFound when the row is really absent, since MySQL
// counts changed rows rather than matched ones.
func updateOne(ctx context.Context, db *gorm.DB, m interface{}, id string, values map[string]interface{}) error {
	res := conn(ctx, db).Model(m).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := conn(ctx, db).Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, db *gorm.DB, m interface{}, id string) error {
	res := conn(ctx, db).Where("id = ?", id).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
