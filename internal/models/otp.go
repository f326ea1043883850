package models

import "time"

// OTPLifetime is how long a one-time code stays valid after issue.
const OTPLifetime = 5 * time.Minute

// OTP is a one-time email verification code, keyed by the email it was sent
// to. Issuing a new code replaces any earlier one for the same address.
type OTP struct {
	Email     string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// IsExpired checks if the code is past its expiry time.
func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
