package models

import (
	"testing"
	"time"
)

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		role     string
		expected string
	}{
		{role: RoleTeacher, expected: StatusPending},
		{role: RoleGuardian, expected: StatusActive},
		{role: RoleAdmin, expected: StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := InitialStatus(tt.role); got != tt.expected {
				t.Errorf("InitialStatus(%q) = %q, want %q", tt.role, got, tt.expected)
			}
		})
	}
}

func TestAccountDeletionDue(t *testing.T) {
	now := time.Now()
	elapsed := now.Add(-90 * time.Second)
	running := now.Add(-10 * time.Second)
	delay := int64(60)

	tests := []struct {
		name     string
		account  Account
		expected bool
	}{
		{
			name:     "no schedule",
			account:  Account{},
			expected: false,
		},
		{
			name:     "countdown elapsed",
			account:  Account{DeletionScheduledAt: &elapsed, DeletionDelaySeconds: &delay},
			expected: true,
		},
		{
			name:     "countdown still running",
			account:  Account{DeletionScheduledAt: &running, DeletionDelaySeconds: &delay},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.account.DeletionDue(now); got != tt.expected {
				t.Errorf("DeletionDue() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAccountPurgeDue(t *testing.T) {
	now := time.Now()

	oldUnverified := Account{CreatedAt: now.Add(-3 * time.Minute)}
	if !oldUnverified.PurgeDue(now) {
		t.Error("unverified account past grace period should be purge eligible")
	}

	freshUnverified := Account{CreatedAt: now.Add(-30 * time.Second)}
	if freshUnverified.PurgeDue(now) {
		t.Error("unverified account within grace period should not be purged")
	}

	verified := Account{CreatedAt: now.Add(-3 * time.Minute), EmailVerified: true}
	if verified.PurgeDue(now) {
		t.Error("verified account should never be purge eligible")
	}
}

func TestAccountFullName(t *testing.T) {
	a := Account{FirstName: "Maria", MiddleName: "", LastName: "Santos"}
	if got := a.FullName(); got != "Maria Santos" {
		t.Errorf("FullName() = %q, want %q", got, "Maria Santos")
	}

	b := Account{FirstName: "Juan", MiddleName: "Dela", LastName: "Cruz"}
	if got := b.FullName(); got != "Juan Dela Cruz" {
		t.Errorf("FullName() = %q, want %q", got, "Juan Dela Cruz")
	}
}

func TestOTPIsExpired(t *testing.T) {
	now := time.Now()
	otp := OTP{ExpiresAt: now.Add(OTPLifetime)}
	if otp.IsExpired(now) {
		t.Error("fresh OTP should not be expired")
	}
	if !otp.IsExpired(now.Add(OTPLifetime + time.Second)) {
		t.Error("OTP past its lifetime should be expired")
	}
}

func TestBandForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected string
	}{
		{1, BandEasy},
		{10, BandEasy},
		{11, BandMedium},
		{20, BandMedium},
		{21, BandHard},
		{30, BandHard},
	}

	for _, tt := range tests {
		if got := BandForLevel(tt.level); got != tt.expected {
			t.Errorf("BandForLevel(%d) = %q, want %q", tt.level, got, tt.expected)
		}
	}
}
