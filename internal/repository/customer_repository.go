package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinebook/booking/internal/model"
)

// CustomerRepo is the read-only customer identity adapter.  Customer
// lifecycle is managed elsewhere; the booking engine only checks that
// a booking's owner exists.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// GetCustomer returns the customer or nil when it does not exist.
func (r *CustomerRepo) GetCustomer(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT id, name, address, mobile_number, email FROM customers WHERE id = ?`
	var c model.Customer
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Address, &c.MobileNumber, &c.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CustomerExists reports whether a customer row exists for the id.
func (r *CustomerRepo) CustomerExists(ctx context.Context, id uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM customers WHERE id = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
