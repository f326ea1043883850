package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/scoring"
)

// LevelRepository handles reading and writing level data access
type LevelRepository struct {
	db *database.DB
}

// NewLevelRepository creates a new level repository
func NewLevelRepository(db *database.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// defaultReadingWords holds the words for reading levels 1 through 30,
// ordered from easiest to hardest.
var defaultReadingWords = []string{
	"a", "b", "cat", "dog", "sun", "apple", "banana", "chair", "happy", "school",
	"dolphin", "mountain", "rainbow", "puzzle", "elephant", "computer", "beautiful",
	"adventure", "astronaut", "electricity", "information", "microscope", "helicopter",
	"chocolate", "universe", "revolution", "responsibility", "photography", "encyclopedia",
	"imagination",
}

// GetReadingLevels returns all reading levels ordered by level number
func (r *LevelRepository) GetReadingLevels() ([]*models.ReadingLevel, error) {
	rows, err := r.db.Query(`SELECT id, level_number, word, band FROM reading_levels ORDER BY level_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading levels: %w", err)
	}
	defer rows.Close()

	var levels []*models.ReadingLevel
	for rows.Next() {
		level := &models.ReadingLevel{}
		if err := rows.Scan(&level.ID, &level.Number, &level.Word, &level.Band); err != nil {
			return nil, fmt.Errorf("failed to scan reading level: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

// GetReadingLevel returns a single reading level by level number, or nil if absent
func (r *LevelRepository) GetReadingLevel(number int) (*models.ReadingLevel, error) {
	level := &models.ReadingLevel{}
	err := r.db.QueryRow(`SELECT id, level_number, word, band FROM reading_levels WHERE level_number = ?`, number).
		Scan(&level.ID, &level.Number, &level.Word, &level.Band)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reading level %d: %w", number, err)
	}
	return level, nil
}

// GetWritingLevels returns all writing levels ordered by level number
func (r *LevelRepository) GetWritingLevels() ([]*models.WritingLevel, error) {
	rows, err := r.db.Query(`SELECT id, level_number, letter, template, tolerance FROM writing_levels ORDER BY level_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query writing levels: %w", err)
	}
	defer rows.Close()

	var levels []*models.WritingLevel
	for rows.Next() {
		level := &models.WritingLevel{}
		if err := rows.Scan(&level.ID, &level.Number, &level.Letter, &level.Template, &level.Tolerance); err != nil {
			return nil, fmt.Errorf("failed to scan writing level: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

// GetWritingLevel returns a single writing level by level number, or nil if absent
func (r *LevelRepository) GetWritingLevel(number int) (*models.WritingLevel, error) {
	level := &models.WritingLevel{}
	err := r.db.QueryRow(`SELECT id, level_number, letter, template, tolerance FROM writing_levels WHERE level_number = ?`, number).
		Scan(&level.ID, &level.Number, &level.Letter, &level.Template, &level.Tolerance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get writing level %d: %w", number, err)
	}
	return level, nil
}

// SeedDefaults creates the default reading and writing levels if they don't exist
func (r *LevelRepository) SeedDefaults() error {
	if err := r.seedReadingLevels(); err != nil {
		return err
	}
	return r.seedWritingLevels()
}

func (r *LevelRepository) seedReadingLevels() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM reading_levels`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count reading levels: %w", err)
	}
	if count > 0 {
		log.Printf("Reading levels already seeded (%d rows), skipping", count)
		return nil
	}

	log.Printf("Seeding %d default reading levels...", len(defaultReadingWords))
	for i, word := range defaultReadingWords {
		number := i + 1
		_, err := r.db.Exec(`INSERT INTO reading_levels (level_number, word, band) VALUES (?, ?, ?)`,
			number, word, models.BandForLevel(number))
		if err != nil {
			return fmt.Errorf("failed to seed reading level %d: %w", number, err)
		}
	}
	return nil
}

func (r *LevelRepository) seedWritingLevels() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM writing_levels`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count writing levels: %w", err)
	}
	if count > 0 {
		log.Printf("Writing levels already seeded (%d rows), skipping", count)
		return nil
	}

	log.Printf("Seeding %d default writing levels...", len(letterStrokes))
	for i := 0; i < 26; i++ {
		letter := string(rune('A' + i))
		strokes, ok := letterStrokes[letter]
		if !ok {
			return fmt.Errorf("no stroke template defined for letter %s", letter)
		}
		template, err := json.Marshal(sampleStrokes(strokes))
		if err != nil {
			return fmt.Errorf("failed to encode template for letter %s: %w", letter, err)
		}
		_, err = r.db.Exec(`INSERT INTO writing_levels (level_number, letter, template, tolerance) VALUES (?, ?, ?, ?)`,
			i+1, letter, string(template), models.DefaultTraceTolerance)
		if err != nil {
			return fmt.Errorf("failed to seed writing level for letter %s: %w", letter, err)
		}
	}
	return nil
}

// stroke is a polyline over a 100x100 canvas. Letter templates are built
// by sampling evenly spaced points along each stroke.
type stroke []scoring.Point

// letterStrokes describes uppercase letter shapes as straight line and
// simple curve approximations on a 100x100 grid, origin top-left.
var letterStrokes = map[string][]stroke{
	"A": {{{X: 10, Y: 90}, {X: 50, Y: 10}, {X: 90, Y: 90}}, {{X: 30, Y: 55}, {X: 70, Y: 55}}},
	"B": {{{X: 20, Y: 10}, {X: 20, Y: 90}}, {{X: 20, Y: 10}, {X: 70, Y: 15}, {X: 75, Y: 30}, {X: 65, Y: 45}, {X: 20, Y: 50}}, {{X: 20, Y: 50}, {X: 75, Y: 55}, {X: 80, Y: 72}, {X: 70, Y: 88}, {X: 20, Y: 90}}},
	"C": {{{X: 80, Y: 25}, {X: 60, Y: 10}, {X: 30, Y: 15}, {X: 15, Y: 40}, {X: 15, Y: 60}, {X: 30, Y: 85}, {X: 60, Y: 90}, {X: 80, Y: 75}}},
	"D": {{{X: 20, Y: 10}, {X: 20, Y: 90}}, {{X: 20, Y: 10}, {X: 60, Y: 15}, {X: 80, Y: 40}, {X: 80, Y: 60}, {X: 60, Y: 85}, {X: 20, Y: 90}}},
	"E": {{{X: 80, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 90}, {X: 80, Y: 90}}, {{X: 20, Y: 50}, {X: 65, Y: 50}}},
	"F": {{{X: 80, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 90}}, {{X: 20, Y: 50}, {X: 65, Y: 50}}},
	"G": {{{X: 80, Y: 25}, {X: 60, Y: 10}, {X: 30, Y: 15}, {X: 15, Y: 40}, {X: 15, Y: 60}, {X: 30, Y: 85}, {X: 60, Y: 90}, {X: 80, Y: 75}, {X: 80, Y: 55}, {X: 55, Y: 55}}},
	"H": {{{X: 20, Y: 10}, {X: 20, Y: 90}}, {{X: 80, Y: 10}, {X: 80, Y: 90}}, {{X: 20, Y: 50}, {X: 80, Y: 50}}},
	"I": {{{X: 30, Y: 10}, {X: 70, Y: 10}}, {{X: 50, Y: 10}, {X: 50, Y: 90}}, {{X: 30, Y: 90}, {X: 70, Y: 90}}},
	"J": {{{X: 40, Y: 10}, {X: 80, Y: 10}}, {{X: 65, Y: 10}, {X: 65, Y: 70}, {X: 55, Y: 88}, {X: 35, Y: 90}, {X: 20, Y: 78}}},
	"K": {{{X: 20, Y: 10}, {X: 20, Y: 90}}, {{X: 80, Y: 10}, {X: 20, Y: 55}}, {{X: 40, Y: 45}, {X: 80, Y: 90}}},
	"L": {{{X: 20, Y: 10}, {X: 20, Y: 90}, {X: 80, Y: 90}}},
	"M": {{{X: 15, Y: 90}, {X: 15, Y: 10}, {X: 50, Y: 60}, {X: 85, Y: 10}, {X: 85, Y: 90}}},
	"N": {{{X: 20, Y: 90}, {X: 20, Y: 10}, {X: 80, Y: 90}, {X: 80, Y: 10}}},
	"O": {{{X: 50, Y: 10}, {X: 25, Y: 20}, {X: 15, Y: 50}, {X: 25, Y: 80}, {X: 50, Y: 90}, {X: 75, Y: 80}, {X: 85, Y: 50}, {X: 75, Y: 20}, {X: 50, Y: 10}}},
	"P": {{{X: 20, Y: 90}, {X: 20, Y: 10}}, {{X: 20, Y: 10}, {X: 70, Y: 15}, {X: 78, Y: 30}, {X: 70, Y: 48}, {X: 20, Y: 52}}},
	"Q": {{{X: 50, Y: 10}, {X: 25, Y: 20}, {X: 15, Y: 50}, {X: 25, Y: 80}, {X: 50, Y: 90}, {X: 75, Y: 80}, {X: 85, Y: 50}, {X: 75, Y: 20}, {X: 50, Y: 10}}, {{X: 60, Y: 68}, {X: 88, Y: 95}}},
	"R": {{{X: 20, Y: 90}, {X: 20, Y: 10}}, {{X: 20, Y: 10}, {X: 70, Y: 15}, {X: 78, Y: 30}, {X: 70, Y: 48}, {X: 20, Y: 52}}, {{X: 45, Y: 52}, {X: 80, Y: 90}}},
	"S": {{{X: 78, Y: 22}, {X: 55, Y: 10}, {X: 30, Y: 15}, {X: 22, Y: 30}, {X: 35, Y: 45}, {X: 65, Y: 55}, {X: 78, Y: 70}, {X: 68, Y: 86}, {X: 42, Y: 90}, {X: 20, Y: 80}}},
	"T": {{{X: 15, Y: 10}, {X: 85, Y: 10}}, {{X: 50, Y: 10}, {X: 50, Y: 90}}},
	"U": {{{X: 20, Y: 10}, {X: 20, Y: 65}, {X: 32, Y: 86}, {X: 50, Y: 90}, {X: 68, Y: 86}, {X: 80, Y: 65}, {X: 80, Y: 10}}},
	"V": {{{X: 15, Y: 10}, {X: 50, Y: 90}, {X: 85, Y: 10}}},
	"W": {{{X: 10, Y: 10}, {X: 30, Y: 90}, {X: 50, Y: 35}, {X: 70, Y: 90}, {X: 90, Y: 10}}},
	"X": {{{X: 20, Y: 10}, {X: 80, Y: 90}}, {{X: 80, Y: 10}, {X: 20, Y: 90}}},
	"Y": {{{X: 20, Y: 10}, {X: 50, Y: 50}}, {{X: 80, Y: 10}, {X: 50, Y: 50}, {X: 50, Y: 90}}},
	"Z": {{{X: 20, Y: 10}, {X: 80, Y: 10}, {X: 20, Y: 90}, {X: 80, Y: 90}}},
}

const strokeSampleStep = 10.0

// sampleStrokes converts polylines into evenly spaced template points,
// roughly one point per strokeSampleStep units of stroke length.
func sampleStrokes(strokes []stroke) []scoring.Point {
	var points []scoring.Point
	for _, s := range strokes {
		for i := 0; i < len(s)-1; i++ {
			a, b := s[i], s[i+1]
			dx, dy := b.X-a.X, b.Y-a.Y
			length := math.Hypot(dx, dy)
			steps := int(length / strokeSampleStep)
			if steps < 1 {
				steps = 1
			}
			for j := 0; j < steps; j++ {
				t := float64(j) / float64(steps)
				points = append(points, scoring.Point{X: a.X + dx*t, Y: a.Y + dy*t})
			}
		}
		points = append(points, s[len(s)-1])
	}
	return points
}
