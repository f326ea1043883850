package service

import (
	"errors"
	"fmt"

	"github.com/fhamyla/LexiLearn/internal/repository"
	"github.com/fhamyla/LexiLearn/internal/security"
)

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrWrongPassword      = errors.New("wrong password")
)

// CredentialProvider abstracts password credential storage and verification.
// The account store and the credential provider are deliberately separate:
// deleting an account must explicitly delete its credential too.
type CredentialProvider interface {
	Create(email, password string) error
	Verify(email, password string) error
	Delete(email string) error
}

// LocalCredentialProvider stores bcrypt password hashes in the local database
type LocalCredentialProvider struct {
	credRepo *repository.CredentialRepository
}

// NewLocalCredentialProvider creates a credential provider backed by the local database
func NewLocalCredentialProvider(credRepo *repository.CredentialRepository) *LocalCredentialProvider {
	return &LocalCredentialProvider{credRepo: credRepo}
}

// Create hashes and stores a password for an email
func (p *LocalCredentialProvider) Create(email, password string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := p.credRepo.Create(email, hash); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Verify checks a password against the stored hash
func (p *LocalCredentialProvider) Verify(email, password string) error {
	cred, err := p.credRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get credential: %w", err)
	}
	if cred == nil {
		return ErrCredentialNotFound
	}
	if !security.CheckPassword(password, cred.PasswordHash) {
		return ErrWrongPassword
	}
	return nil
}

// Delete removes the stored credential. Deleting a missing credential is a no-op.
func (p *LocalCredentialProvider) Delete(email string) error {
	return p.credRepo.Delete(email)
}
