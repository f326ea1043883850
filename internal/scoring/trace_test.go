package scoring

import (
	"testing"
	"time"
)

func TestScoreTrace(t *testing.T) {
	template := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}

	tests := []struct {
		name      string
		template  []Point
		traced    []Point
		tolerance float64
		coverage  int
		passed    bool
	}{
		{
			name:      "empty trace",
			template:  template,
			traced:    nil,
			tolerance: 5,
			coverage:  0,
			passed:    false,
		},
		{
			name:      "all points covered",
			template:  template,
			traced:    []Point{{X: 1, Y: 1}, {X: 10, Y: 2}, {X: 19, Y: 0}},
			tolerance: 5,
			coverage:  100,
			passed:    true,
		},
		{
			name:      "partial coverage",
			template:  template,
			traced:    []Point{{X: 0, Y: 0}},
			tolerance: 5,
			coverage:  33,
			passed:    false,
		},
		{
			name:      "re-tracing the same point counts once",
			template:  template,
			traced:    []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
			tolerance: 3,
			coverage:  33,
			passed:    false,
		},
		{
			name:      "distance equal to tolerance does not match",
			template:  []Point{{X: 0, Y: 0}},
			traced:    []Point{{X: 5, Y: 0}},
			tolerance: 5,
			coverage:  0,
			passed:    false,
		},
		{
			name:      "empty template reports zero coverage",
			template:  nil,
			traced:    []Point{{X: 0, Y: 0}},
			tolerance: 5,
			coverage:  0,
			passed:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreTrace(tt.template, tt.traced, tt.tolerance)
			if result.Coverage != tt.coverage {
				t.Errorf("Coverage = %d, want %d", result.Coverage, tt.coverage)
			}
			if result.Passed != tt.passed {
				t.Errorf("Passed = %v, want %v", result.Passed, tt.passed)
			}
		})
	}
}

func TestTraceScorerIncremental(t *testing.T) {
	template := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	scorer := NewTraceScorer(template, 3)

	if matched := scorer.Add(Point{X: 1, Y: 1}); !matched {
		t.Error("expected first point to match")
	}
	if matched := scorer.Add(Point{X: 1, Y: 1}); matched {
		t.Error("expected repeat point not to match again")
	}
	if got := scorer.Coverage(); got != 50 {
		t.Errorf("Coverage = %d, want 50", got)
	}

	if matched := scorer.Add(Point{X: 10, Y: 0}); !matched {
		t.Error("expected second template point to match")
	}
	score := scorer.Score()
	if score.Coverage != 100 || !score.Passed {
		t.Errorf("Score = %+v, want coverage 100 and passed", score)
	}
}

func TestTraceScorerMatchesNearestUnmatched(t *testing.T) {
	// two template points both in range; the closer one should be taken
	// first so the second trace point can claim the other
	template := []Point{{X: 0, Y: 0}, {X: 4, Y: 0}}
	scorer := NewTraceScorer(template, 10)

	scorer.Add(Point{X: 1, Y: 0})
	scorer.Add(Point{X: 4, Y: 0})

	if got := scorer.Coverage(); got != 100 {
		t.Errorf("Coverage = %d, want 100", got)
	}
}

func TestCueThrottler(t *testing.T) {
	current := time.Unix(1000, 0)
	throttler := NewCueThrottler(120 * time.Millisecond)
	throttler.now = func() time.Time { return current }

	if !throttler.Allow() {
		t.Error("first cue should fire")
	}
	current = current.Add(50 * time.Millisecond)
	if throttler.Allow() {
		t.Error("cue within 120ms should be suppressed")
	}
	current = current.Add(80 * time.Millisecond)
	if !throttler.Allow() {
		t.Error("cue after interval should fire")
	}
}
