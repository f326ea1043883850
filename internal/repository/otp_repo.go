package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/models"
)

// OTPRepository stores one-time email verification codes, one active code
// per email address.
type OTPRepository struct {
	db *database.DB
}

// NewOTPRepository creates a new OTP repository
func NewOTPRepository(db *database.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Put stores a fresh code for an email, replacing any earlier one
func (r *OTPRepository) Put(email, code string, expiresAt time.Time) error {
	if _, err := r.db.Exec("DELETE FROM otps WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to clear old otp: %w", err)
	}
	query := "INSERT INTO otps (email, code, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, email, code, expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Get retrieves the active code for an email, or (nil, nil) when absent
func (r *OTPRepository) Get(email string) (*models.OTP, error) {
	query := "SELECT email, code, used, created_at, expires_at FROM otps WHERE email = ?"
	otp := &models.OTP{}
	err := r.db.QueryRow(query, email).Scan(&otp.Email, &otp.Code, &otp.Used, &otp.CreatedAt, &otp.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return otp, nil
}

// MarkUsed flags a code as consumed so it cannot verify twice
func (r *OTPRepository) MarkUsed(email string) error {
	if _, err := r.db.Exec("UPDATE otps SET used = ? WHERE email = ?", true, email); err != nil {
		return fmt.Errorf("failed to mark otp used: %w", err)
	}
	return nil
}

// Delete removes the code for an email
func (r *OTPRepository) Delete(email string) error {
	if _, err := r.db.Exec("DELETE FROM otps WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to delete otp: %w", err)
	}
	return nil
}

// DeleteExpired removes codes past their expiry
func (r *OTPRepository) DeleteExpired() error {
	if _, err := r.db.Exec("DELETE FROM otps WHERE expires_at < ?", time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete expired otps: %w", err)
	}
	return nil
}
