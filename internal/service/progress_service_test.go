package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/repository"
)

// newProgressFixture runs the real migrations and seed data against a
// throwaway SQLite database.
func newProgressFixture(t *testing.T) *ProgressService {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	levelRepo := repository.NewLevelRepository(db)
	if err := levelRepo.SeedDefaults(); err != nil {
		t.Fatalf("Failed to seed levels: %v", err)
	}

	return NewProgressService(levelRepo, repository.NewProgressRepository(db))
}

func TestReadingLevelsUnlockInOrder(t *testing.T) {
	svc := newProgressFixture(t)
	email := "maya@example.com"

	views, err := svc.ReadingLevels(email)
	if err != nil {
		t.Fatalf("ReadingLevels() error = %v", err)
	}
	if len(views) != 30 {
		t.Fatalf("got %d reading levels, want 30", len(views))
	}
	if !views[0].Unlocked {
		t.Error("level 1 should start unlocked")
	}
	if views[1].Unlocked {
		t.Error("level 2 should start locked")
	}
	if views[0].Word != "a" || views[0].Band != models.BandEasy {
		t.Errorf("level 1 = %q/%q, want a/easy", views[0].Word, views[0].Band)
	}
	if views[29].Band != models.BandHard {
		t.Errorf("level 30 band = %q, want hard", views[29].Band)
	}
}

func TestSubmitReading(t *testing.T) {
	svc := newProgressFixture(t)
	email := "maya@example.com"

	// Level 1 target is "a"; an exact match passes and unlocks level 2
	score, err := svc.SubmitReading(email, 1, "a")
	if err != nil {
		t.Fatalf("SubmitReading() error = %v", err)
	}
	if !score.Passed {
		t.Errorf("exact match should pass, got %+v", score)
	}

	views, err := svc.ReadingLevels(email)
	if err != nil {
		t.Fatalf("ReadingLevels() error = %v", err)
	}
	if !views[0].Completed {
		t.Error("level 1 should be completed")
	}
	if !views[1].Unlocked {
		t.Error("level 2 should unlock after level 1")
	}
}

func TestSubmitReadingLockedLevel(t *testing.T) {
	svc := newProgressFixture(t)

	_, err := svc.SubmitReading("maya@example.com", 3, "cat")
	if !errors.Is(err, ErrLevelLocked) {
		t.Errorf("SubmitReading() error = %v, want ErrLevelLocked", err)
	}
}

func TestSubmitReadingUnknownLevel(t *testing.T) {
	svc := newProgressFixture(t)

	_, err := svc.SubmitReading("maya@example.com", 99, "word")
	if !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("SubmitReading() error = %v, want ErrLevelNotFound", err)
	}
}

func TestSubmitReadingFailedAttemptDoesNotComplete(t *testing.T) {
	svc := newProgressFixture(t)
	email := "maya@example.com"

	score, err := svc.SubmitReading(email, 1, "zzz")
	if err != nil {
		t.Fatalf("SubmitReading() error = %v", err)
	}
	if score.Passed {
		t.Errorf("mismatch should not pass, got %+v", score)
	}

	views, err := svc.ReadingLevels(email)
	if err != nil {
		t.Fatalf("ReadingLevels() error = %v", err)
	}
	if views[0].Completed {
		t.Error("failed attempt should not complete the level")
	}
}

func TestSubmitWriting(t *testing.T) {
	svc := newProgressFixture(t)
	email := "maya@example.com"

	views, err := svc.WritingLevels(email)
	if err != nil {
		t.Fatalf("WritingLevels() error = %v", err)
	}
	if len(views) != 26 {
		t.Fatalf("got %d writing levels, want 26", len(views))
	}
	if views[0].Letter != "A" {
		t.Errorf("level 1 letter = %q, want A", views[0].Letter)
	}

	// Tracing the template exactly covers every point
	score, err := svc.SubmitWriting(email, 1, views[0].Template)
	if err != nil {
		t.Fatalf("SubmitWriting() error = %v", err)
	}
	if score.Coverage != 100 || !score.Passed {
		t.Errorf("exact trace scored %+v, want full coverage pass", score)
	}

	// An empty trace fails and leaves the level incomplete
	score, err = svc.SubmitWriting(email, 2, nil)
	if err != nil {
		t.Fatalf("SubmitWriting() error = %v", err)
	}
	if score.Passed {
		t.Errorf("empty trace should not pass, got %+v", score)
	}
}

func TestProgressSummary(t *testing.T) {
	svc := newProgressFixture(t)
	email := "maya@example.com"

	if _, err := svc.SubmitReading(email, 1, "a"); err != nil {
		t.Fatalf("SubmitReading() error = %v", err)
	}
	if _, err := svc.SubmitReading(email, 2, "zzz"); err != nil {
		t.Fatalf("SubmitReading() error = %v", err)
	}

	progress, err := svc.Progress(email)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if len(progress.ReadingCompleted) != 1 || progress.ReadingCompleted[0] != 1 {
		t.Errorf("ReadingCompleted = %v, want [1]", progress.ReadingCompleted)
	}
	if progress.ReadingStats.Attempts != 2 {
		t.Errorf("reading attempts = %d, want 2", progress.ReadingStats.Attempts)
	}
	if progress.ReadingStats.Passed != 1 {
		t.Errorf("reading passes = %d, want 1", progress.ReadingStats.Passed)
	}
	if len(progress.RecentAttempts) != 2 {
		t.Errorf("recent attempts = %d, want 2", len(progress.RecentAttempts))
	}
	if progress.ReadingPercent != 3 {
		t.Errorf("reading percent = %d, want 3 (1 of 30 levels)", progress.ReadingPercent)
	}
	if progress.WritingPercent != 0 {
		t.Errorf("writing percent = %d, want 0", progress.WritingPercent)
	}
}
