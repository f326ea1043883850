package models

// Activity names for practice levels and attempts
const (
	ActivityReading = "reading"
	ActivityWriting = "writing"
)

// Difficulty bands for level grouping
const (
	BandEasy   = "easy"
	BandMedium = "medium"
	BandHard   = "hard"
)

// DefaultTraceTolerance is the match radius, in template coordinate units,
// used for seeded writing levels.
const DefaultTraceTolerance = 30.0

// ReadingLevel is one step of the reading (speech-matching) ladder: the
// child speaks the target word and is scored against it.
type ReadingLevel struct {
	ID     int64
	Number int
	Word   string
	Band   string
}

// WritingLevel is one step of the letter-tracing ladder. Template holds the
// target path as a JSON array of points in template coordinate space.
type WritingLevel struct {
	ID        int64
	Number    int
	Letter    string
	Template  string
	Tolerance float64
}

// BandForLevel maps a level number onto its difficulty band, ten levels per
// band.
func BandForLevel(number int) string {
	switch {
	case number <= 10:
		return BandEasy
	case number <= 20:
		return BandMedium
	default:
		return BandHard
	}
}
