package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/models"
)

// AccountRepository handles database operations for account records
type AccountRepository struct {
	db *database.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `email, role, status, email_verified,
	first_name, middle_name, last_name, child_name, child_age, severity,
	deletion_scheduled_at, deletion_delay_seconds, created_at, updated_at`

// Create inserts a new account record
func (r *AccountRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (email, role, status, email_verified,
			first_name, middle_name, last_name, child_name, child_age, severity,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		account.Email,
		account.Role,
		account.Status,
		account.EmailVerified,
		account.FirstName,
		account.MiddleName,
		account.LastName,
		account.ChildName,
		account.ChildAge,
		account.Severity,
		account.CreatedAt.UTC(),
		account.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByEmail retrieves an account by email, or (nil, nil) when absent
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE email = ?"
	account, err := scanAccount(r.db.QueryRow(query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// SetStatus updates an account's lifecycle status
func (r *AccountRepository) SetStatus(email, status string) error {
	query := "UPDATE accounts SET status = ?, updated_at = ? WHERE email = ?"
	if _, err := r.db.Exec(query, status, time.Now().UTC(), email); err != nil {
		return fmt.Errorf("failed to set account status: %w", err)
	}
	return nil
}

// SetEmailVerified flips the verification flag
func (r *AccountRepository) SetEmailVerified(email string) error {
	query := "UPDATE accounts SET email_verified = ?, updated_at = ? WHERE email = ?"
	if _, err := r.db.Exec(query, true, time.Now().UTC(), email); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return nil
}

// ScheduleDeletion disables the account and stamps the countdown fields
func (r *AccountRepository) ScheduleDeletion(email string, at time.Time, delaySeconds int64) error {
	query := `
		UPDATE accounts
		SET status = ?, deletion_scheduled_at = ?, deletion_delay_seconds = ?, updated_at = ?
		WHERE email = ?
	`
	_, err := r.db.Exec(query, models.StatusDisabled, at.UTC(), delaySeconds, time.Now().UTC(), email)
	if err != nil {
		return fmt.Errorf("failed to schedule deletion: %w", err)
	}
	return nil
}

// Delete removes an account record. Deleting an absent record is a no-op.
func (r *AccountRepository) Delete(email string) error {
	if _, err := r.db.Exec("DELETE FROM accounts WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// ListAll retrieves every account, newest first
func (r *AccountRepository) ListAll() ([]models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts ORDER BY created_at DESC"
	return r.queryAccounts(query)
}

// ListByRoleAndStatus retrieves accounts matching a role and status
func (r *AccountRepository) ListByRoleAndStatus(role, status string) ([]models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE role = ? AND status = ? ORDER BY created_at"
	return r.queryAccounts(query, role, status)
}

// ListByRole retrieves accounts with the given role
func (r *AccountRepository) ListByRole(role string) ([]models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE role = ? ORDER BY created_at"
	return r.queryAccounts(query, role)
}

// ListUnverifiedCreatedBefore retrieves unverified accounts older than the cutoff
func (r *AccountRepository) ListUnverifiedCreatedBefore(cutoff time.Time) ([]models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE email_verified = ? AND created_at <= ?"
	return r.queryAccounts(query, false, cutoff.UTC())
}

// ListScheduledForDeletion retrieves disabled accounts with a pending countdown
func (r *AccountRepository) ListScheduledForDeletion() ([]models.Account, error) {
	query := "SELECT " + accountColumns + ` FROM accounts
		WHERE status = ? AND deletion_scheduled_at IS NOT NULL`
	return r.queryAccounts(query, models.StatusDisabled)
}

func (r *AccountRepository) queryAccounts(query string, args ...interface{}) ([]models.Account, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccountRow(s rowScanner) (*models.Account, error) {
	account := &models.Account{}
	var scheduledAt sql.NullTime
	var delaySeconds sql.NullInt64

	err := s.Scan(
		&account.Email,
		&account.Role,
		&account.Status,
		&account.EmailVerified,
		&account.FirstName,
		&account.MiddleName,
		&account.LastName,
		&account.ChildName,
		&account.ChildAge,
		&account.Severity,
		&scheduledAt,
		&delaySeconds,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if scheduledAt.Valid {
		t := scheduledAt.Time
		account.DeletionScheduledAt = &t
	}
	if delaySeconds.Valid {
		d := delaySeconds.Int64
		account.DeletionDelaySeconds = &d
	}
	return account, nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	account, err := scanAccountRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}
