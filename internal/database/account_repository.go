// internal/database/account_repository.go
package database

import (
	"context"
	"database/sql"
	"time"

	"socialite/internal/models"
	"socialite/internal/utils"

	"github.com/google/uuid"
)

// SaveAccount inserts a new account.
func (p *PostgresDB) SaveAccount(ctx context.Context, account *models.Account) error {
	now := time.Now()
	account.UpdatedAt = now
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}

	query := `
		INSERT INTO accounts (id, username, email, password_hash, created_at, updated_at)
		VALUES (:id, :username, :email, :password_hash, :created_at, :updated_at)
	`
	_, err := p.DB.NamedExecContext(ctx, query, account)
	if err != nil {
		if isUniqueViolation(err, "") {
			return utils.NewAppError(utils.ErrAccountExists, "an account with this username or email already exists", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save account", err)
	}
	return nil
}

// GetAccount fetches an account by its ID.
func (p *PostgresDB) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT id, username, email, password_hash, created_at, updated_at FROM accounts WHERE id = $1`
	var account models.Account
	err := p.DB.GetContext(ctx, &account, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "account not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query account by id", err)
	}
	return &account, nil
}

// GetAccountByEmail fetches an account by its email address.
func (p *PostgresDB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT id, username, email, password_hash, created_at, updated_at FROM accounts WHERE email = $1`
	var account models.Account
	err := p.DB.GetContext(ctx, &account, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.NewAppError(utils.ErrNotFound, "account not found", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query account by email", err)
	}
	return &account, nil
}

// UpdateAccount updates username, email and password hash of an account.
func (p *PostgresDB) UpdateAccount(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now()
	query := `
		UPDATE accounts
		SET username = :username, email = :email, password_hash = :password_hash, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := p.DB.NamedExecContext(ctx, query, account)
	if err != nil {
		if isUniqueViolation(err, "") {
			return utils.NewAppError(utils.ErrAccountExists, "an account with this username or email already exists", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to update account", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to get rows affected after update", err)
	}
	if rowsAffected == 0 {
		return utils.NewAppError(utils.ErrNotFound, "account not found for update", nil)
	}
	return nil
}
