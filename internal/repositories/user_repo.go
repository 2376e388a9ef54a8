package repositories

import (
	"context"
	"database/sql"
	"errors"

	"billingBack/internal/models"
)

// UserRepository reads login rows for staff and customers.
type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) GetAdminByUsername(ctx context.Context, username string) (models.Credential, error) {
	return r.credential(ctx, `SELECT staff_id, username, password FROM admin_login WHERE username = ?`, username)
}

// GetCustomerByUsername returns the customer id in Credential.ID.
func (r *UserRepository) GetCustomerByUsername(ctx context.Context, username string) (models.Credential, error) {
	return r.credential(ctx, `SELECT customer_id, username, password_hash FROM customer_auth WHERE username = ?`, username)
}

func (r *UserRepository) credential(ctx context.Context, query, username string) (models.Credential, error) {
	var c models.Credential
	err := r.DB.QueryRowContext(ctx, query, username).Scan(&c.ID, &c.Username, &c.Secret)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Credential{}, models.ErrNoRecord
	}
	return c, err
}
