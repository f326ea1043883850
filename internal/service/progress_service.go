package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/repository"
	"github.com/fhamyla/LexiLearn/internal/scoring"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrLevelLocked   = errors.New("level locked")
)

// ProgressService handles practice submissions and level progression.
// Levels unlock strictly in order: a level can be attempted only if it is
// the first level or the one before it has been completed.
type ProgressService struct {
	levelRepo    *repository.LevelRepository
	progressRepo *repository.ProgressRepository
	scorer       *scoring.WordScorer
	now          func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(levelRepo *repository.LevelRepository, progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		levelRepo:    levelRepo,
		progressRepo: progressRepo,
		scorer:       scoring.NewWordScorer(nil),
		now:          time.Now,
	}
}

// ReadingLevelView is one reading level annotated with the child's state
type ReadingLevelView struct {
	Number    int    `json:"level"`
	Word      string `json:"word"`
	Band      string `json:"band"`
	Completed bool   `json:"completed"`
	Unlocked  bool   `json:"unlocked"`
}

// WritingLevelView is one writing level annotated with the child's state
type WritingLevelView struct {
	Number    int             `json:"level"`
	Letter    string          `json:"letter"`
	Template  []scoring.Point `json:"template"`
	Tolerance float64         `json:"tolerance"`
	Completed bool            `json:"completed"`
	Unlocked  bool            `json:"unlocked"`
}

// ReadingLevels returns all reading levels with completion and unlock state
// for one child
func (s *ProgressService) ReadingLevels(email string) ([]ReadingLevelView, error) {
	levels, err := s.levelRepo.GetReadingLevels()
	if err != nil {
		return nil, err
	}
	completed, err := s.completedSet(email, models.ActivityReading)
	if err != nil {
		return nil, err
	}

	views := make([]ReadingLevelView, 0, len(levels))
	for _, level := range levels {
		views = append(views, ReadingLevelView{
			Number:    level.Number,
			Word:      level.Word,
			Band:      level.Band,
			Completed: completed[level.Number],
			Unlocked:  level.Number == 1 || completed[level.Number-1],
		})
	}
	return views, nil
}

// WritingLevels returns all writing levels with completion and unlock state
// for one child
func (s *ProgressService) WritingLevels(email string) ([]WritingLevelView, error) {
	levels, err := s.levelRepo.GetWritingLevels()
	if err != nil {
		return nil, err
	}
	completed, err := s.completedSet(email, models.ActivityWriting)
	if err != nil {
		return nil, err
	}

	views := make([]WritingLevelView, 0, len(levels))
	for _, level := range levels {
		template, err := decodeTemplate(level.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to decode template for level %d: %w", level.Number, err)
		}
		views = append(views, WritingLevelView{
			Number:    level.Number,
			Letter:    level.Letter,
			Template:  template,
			Tolerance: level.Tolerance,
			Completed: completed[level.Number],
			Unlocked:  level.Number == 1 || completed[level.Number-1],
		})
	}
	return views, nil
}

// SubmitReading scores a recognized utterance against a reading level's
// target word, records the attempt, and completes the level on a pass
func (s *ProgressService) SubmitReading(email string, levelNumber int, spoken string) (*scoring.WordScore, error) {
	level, err := s.levelRepo.GetReadingLevel(levelNumber)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}
	if err := s.checkUnlocked(email, models.ActivityReading, levelNumber); err != nil {
		return nil, err
	}

	score := s.scorer.Score(level.Word, spoken)

	if err := s.recordAttempt(email, models.ActivityReading, levelNumber, score.CombinedAccuracy, score.PhonemeAccuracy, score.Passed); err != nil {
		return nil, err
	}
	return &score, nil
}

// SubmitWriting scores a pen trace against a writing level's letter
// template, records the attempt, and completes the level on a pass
func (s *ProgressService) SubmitWriting(email string, levelNumber int, traced []scoring.Point) (*scoring.TraceScore, error) {
	level, err := s.levelRepo.GetWritingLevel(levelNumber)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}
	if err := s.checkUnlocked(email, models.ActivityWriting, levelNumber); err != nil {
		return nil, err
	}

	template, err := decodeTemplate(level.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template for level %d: %w", levelNumber, err)
	}

	score := scoring.ScoreTrace(template, traced, level.Tolerance)

	if err := s.recordAttempt(email, models.ActivityWriting, levelNumber, score.Coverage, 0, score.Passed); err != nil {
		return nil, err
	}
	return &score, nil
}

// ChildProgress summarizes a child's progress across both activities.
// Percent fields are completed levels over total levels, 0 to 100.
type ChildProgress struct {
	Email            string                    `json:"email"`
	ReadingCompleted []int                     `json:"readingCompleted"`
	WritingCompleted []int                     `json:"writingCompleted"`
	ReadingPercent   int                       `json:"readingPercent"`
	WritingPercent   int                       `json:"writingPercent"`
	ReadingStats     repository.AttemptStats   `json:"readingStats"`
	WritingStats     repository.AttemptStats   `json:"writingStats"`
	RecentAttempts   []*models.PracticeAttempt `json:"recentAttempts"`
}

// Progress returns the full progress summary for one child
func (s *ProgressService) Progress(email string) (*ChildProgress, error) {
	readingCompleted, err := s.progressRepo.GetCompletedLevels(email, models.ActivityReading)
	if err != nil {
		return nil, err
	}
	writingCompleted, err := s.progressRepo.GetCompletedLevels(email, models.ActivityWriting)
	if err != nil {
		return nil, err
	}
	readingStats, err := s.progressRepo.GetAttemptStats(email, models.ActivityReading)
	if err != nil {
		return nil, err
	}
	writingStats, err := s.progressRepo.GetAttemptStats(email, models.ActivityWriting)
	if err != nil {
		return nil, err
	}
	recent, err := s.progressRepo.GetRecentAttempts(email, 20)
	if err != nil {
		return nil, err
	}

	readingLevels, err := s.levelRepo.GetReadingLevels()
	if err != nil {
		return nil, err
	}
	writingLevels, err := s.levelRepo.GetWritingLevels()
	if err != nil {
		return nil, err
	}

	return &ChildProgress{
		Email:            email,
		ReadingCompleted: readingCompleted,
		WritingCompleted: writingCompleted,
		ReadingPercent:   completionPercent(len(readingCompleted), len(readingLevels)),
		WritingPercent:   completionPercent(len(writingCompleted), len(writingLevels)),
		ReadingStats:     *readingStats,
		WritingStats:     *writingStats,
		RecentAttempts:   recent,
	}, nil
}

func (s *ProgressService) checkUnlocked(email, activity string, levelNumber int) error {
	if levelNumber == 1 {
		return nil
	}
	done, err := s.progressRepo.IsLevelComplete(email, activity, levelNumber-1)
	if err != nil {
		return err
	}
	if !done {
		return ErrLevelLocked
	}
	return nil
}

func (s *ProgressService) recordAttempt(email, activity string, levelNumber, accuracy, phonemeAccuracy int, passed bool) error {
	attempt := &models.PracticeAttempt{
		Email:           email,
		Activity:        activity,
		Level:           levelNumber,
		Accuracy:        accuracy,
		PhonemeAccuracy: phonemeAccuracy,
		Passed:          passed,
		CreatedAt:       s.now(),
	}
	if err := s.progressRepo.RecordAttempt(attempt); err != nil {
		return err
	}
	if passed {
		if err := s.progressRepo.MarkLevelComplete(email, activity, levelNumber, s.now()); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProgressService) completedSet(email, activity string) (map[int]bool, error) {
	levels, err := s.progressRepo.GetCompletedLevels(email, activity)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(levels))
	for _, level := range levels {
		set[level] = true
	}
	return set, nil
}

func completionPercent(completed, total int) int {
	if total < 1 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}

func decodeTemplate(raw string) ([]scoring.Point, error) {
	var points []scoring.Point
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		return nil, err
	}
	return points, nil
}
