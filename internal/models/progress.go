package models

import "time"

// PracticeAttempt is one recorded scoring outcome for a child's practice
// run. Reading attempts carry phoneme accuracy; writing attempts do not.
type PracticeAttempt struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	Activity        string    `json:"activity"`
	Level           int       `json:"level"`
	Accuracy        int       `json:"accuracy"`
	PhonemeAccuracy int       `json:"phonemeAccuracy"`
	Passed          bool      `json:"passed"`
	CreatedAt       time.Time `json:"createdAt"`
}

// LevelCompletion marks a level as passed for an account. At most one row
// per (email, activity, level).
type LevelCompletion struct {
	ID          int64
	Email       string
	Activity    string
	Level       int
	CompletedAt time.Time
}
