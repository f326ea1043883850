package repository

import (
	"fmt"
	"time"

	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/models"
)

// ProgressRepository handles practice attempt and level completion data access
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// RecordAttempt stores one practice attempt
func (r *ProgressRepository) RecordAttempt(attempt *models.PracticeAttempt) error {
	id, err := r.db.ExecReturningID(`
		INSERT INTO practice_attempts (email, activity, level, accuracy, phoneme_accuracy, passed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attempt.Email, attempt.Activity, attempt.Level, attempt.Accuracy,
		attempt.PhonemeAccuracy, attempt.Passed, attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record practice attempt: %w", err)
	}
	attempt.ID = id
	return nil
}

// MarkLevelComplete records a level completion. Completing the same level
// twice is a no-op.
func (r *ProgressRepository) MarkLevelComplete(email, activity string, level int, completedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	complete, err := levelComplete(tx, email, activity, level)
	if err != nil {
		return err
	}
	if complete {
		return nil
	}

	_, err = tx.Exec(`INSERT INTO level_completions (email, activity, level, completed_at) VALUES (?, ?, ?, ?)`,
		email, activity, level, completedAt)
	if err != nil {
		return fmt.Errorf("failed to mark level complete: %w", err)
	}
	return tx.Commit()
}

// IsLevelComplete reports whether the child has completed the given level
func (r *ProgressRepository) IsLevelComplete(email, activity string, level int) (bool, error) {
	return levelComplete(r.db, email, activity, level)
}

// levelComplete runs the completion check against either the database or an
// open transaction.
func levelComplete(q database.DBTX, email, activity string, level int) (bool, error) {
	var count int
	err := q.QueryRow(`SELECT COUNT(*) FROM level_completions WHERE email = ? AND activity = ? AND level = ?`,
		email, activity, level).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check level completion: %w", err)
	}
	return count > 0, nil
}

// GetCompletedLevels returns the completed level numbers for one activity,
// ordered ascending
func (r *ProgressRepository) GetCompletedLevels(email, activity string) ([]int, error) {
	rows, err := r.db.Query(`SELECT level FROM level_completions WHERE email = ? AND activity = ? ORDER BY level`,
		email, activity)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed levels: %w", err)
	}
	defer rows.Close()

	var levels []int
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("failed to scan completed level: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

// GetRecentAttempts returns the newest attempts for a child, most recent first
func (r *ProgressRepository) GetRecentAttempts(email string, limit int) ([]*models.PracticeAttempt, error) {
	rows, err := r.db.Query(`
		SELECT id, email, activity, level, accuracy, phoneme_accuracy, passed, created_at
		FROM practice_attempts WHERE email = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		email, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query practice attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.PracticeAttempt
	for rows.Next() {
		attempt := &models.PracticeAttempt{}
		err := rows.Scan(&attempt.ID, &attempt.Email, &attempt.Activity, &attempt.Level,
			&attempt.Accuracy, &attempt.PhonemeAccuracy, &attempt.Passed, &attempt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan practice attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// AttemptStats summarizes a child's attempts for one activity
type AttemptStats struct {
	Attempts     int `json:"attempts"`
	Passed       int `json:"passed"`
	BestAccuracy int `json:"bestAccuracy"`
}

// GetAttemptStats returns per-activity attempt statistics for a child
func (r *ProgressRepository) GetAttemptStats(email, activity string) (*AttemptStats, error) {
	stats := &AttemptStats{}
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN passed THEN 1 ELSE 0 END), 0), COALESCE(MAX(accuracy), 0)
		FROM practice_attempts WHERE email = ? AND activity = ?`,
		email, activity).Scan(&stats.Attempts, &stats.Passed, &stats.BestAccuracy)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt stats: %w", err)
	}
	return stats, nil
}

// DeleteForEmail removes all attempts and completions for an account. Used
// when the account itself is deleted.
func (r *ProgressRepository) DeleteForEmail(email string) error {
	if _, err := r.db.Exec(`DELETE FROM practice_attempts WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete practice attempts: %w", err)
	}
	if _, err := r.db.Exec(`DELETE FROM level_completions WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete level completions: %w", err)
	}
	return nil
}
