package repository

import (
	"database/sql"
	"fmt"

	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/models"
)

// CredentialRepository stores password credentials, the local stand-in for
// the external auth provider's credential records.
type CredentialRepository struct {
	db *database.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *database.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create inserts a credential for an email
func (r *CredentialRepository) Create(email, passwordHash string) error {
	query := "INSERT INTO credentials (email, password_hash) VALUES (?, ?)"
	if _, err := r.db.Exec(query, email, passwordHash); err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

// GetByEmail retrieves a credential, or (nil, nil) when absent
func (r *CredentialRepository) GetByEmail(email string) (*models.Credential, error) {
	query := "SELECT email, password_hash, created_at FROM credentials WHERE email = ?"
	cred := &models.Credential{}
	err := r.db.QueryRow(query, email).Scan(&cred.Email, &cred.PasswordHash, &cred.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return cred, nil
}

// Delete removes a credential. Deleting an absent credential is a no-op.
func (r *CredentialRepository) Delete(email string) error {
	if _, err := r.db.Exec("DELETE FROM credentials WHERE email = ?", email); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
