package models

import (
	"strings"
	"time"
)

// Account roles
const (
	RoleGuardian = "guardian"
	RoleTeacher  = "teacher"
	RoleAdmin    = "admin"
)

// Account lifecycle statuses. Deletion is terminal and has no status value:
// a deleted account is simply gone from the store.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// UnverifiedGracePeriod is how long an account may remain unverified before
// it becomes eligible for automatic purge.
const UnverifiedGracePeriod = 2 * time.Minute

// Account represents a stored identity record with a role and lifecycle
// status. It is distinct from the password credential held by the credential
// provider; deleting one does not implicitly delete the other.
type Account struct {
	Email         string
	Role          string
	Status        string
	EmailVerified bool
	FirstName     string
	MiddleName    string
	LastName      string
	ChildName     string
	ChildAge      int
	Severity      string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Set only while a delayed deletion is pending
	DeletionScheduledAt  *time.Time
	DeletionDelaySeconds *int64
}

// FullName returns the account holder's display name.
func (a *Account) FullName() string {
	parts := []string{a.FirstName, a.MiddleName, a.LastName}
	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, " ")
}

// DeletionDue reports whether a scheduled deletion countdown has elapsed.
func (a *Account) DeletionDue(now time.Time) bool {
	if a.DeletionScheduledAt == nil || a.DeletionDelaySeconds == nil {
		return false
	}
	return now.Sub(*a.DeletionScheduledAt) >= time.Duration(*a.DeletionDelaySeconds)*time.Second
}

// PurgeDue reports whether an unverified account is past the grace period.
func (a *Account) PurgeDue(now time.Time) bool {
	return !a.EmailVerified && now.Sub(a.CreatedAt) >= UnverifiedGracePeriod
}

// InitialStatus returns the status a freshly signed-up account starts in.
// Teachers wait for admin approval; guardians are active immediately.
func InitialStatus(role string) string {
	if role == RoleTeacher {
		return StatusPending
	}
	return StatusActive
}

// Credential is a stored password credential, the local stand-in for the
// external auth provider's credential object.
type Credential struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
