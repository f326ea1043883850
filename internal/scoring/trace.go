package scoring

import "math"

// TracePassThreshold is the minimum coverage for a tracing attempt to pass.
const TracePassThreshold = 85

// Point is a 2D coordinate in the template's coordinate space. Mapping user
// input into that space (scale, translate) is the caller's job.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TraceScore is the result of scoring a pen-trace attempt.
type TraceScore struct {
	Coverage int
	Passed   bool
}

// TraceScorer tracks how much of a template path a user has traced. Each
// template point is matched at most once; re-tracing the same spot does not
// inflate coverage. The zero tolerance case never matches anything.
type TraceScorer struct {
	template  []Point
	tolerance float64
	matched   []bool
	count     int
}

// NewTraceScorer creates a scorer for the given template points and matching
// tolerance radius.
func NewTraceScorer(template []Point, tolerance float64) *TraceScorer {
	return &TraceScorer{
		template:  template,
		tolerance: tolerance,
		matched:   make([]bool, len(template)),
	}
}

// Add feeds one traced point into the scorer and reports whether it matched a
// previously unmatched template point. A point matches the nearest unmatched
// template point strictly within the tolerance radius.
func (t *TraceScorer) Add(p Point) bool {
	best := -1
	bestDist := t.tolerance
	for i, tp := range t.template {
		if t.matched[i] {
			continue
		}
		d := math.Hypot(tp.X-p.X, tp.Y-p.Y)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return false
	}
	t.matched[best] = true
	t.count++
	return true
}

// Coverage returns the percentage of template points traced so far, 0-100.
func (t *TraceScorer) Coverage() int {
	total := len(t.template)
	if total < 1 {
		// degenerate template: avoid dividing by zero, report nothing traced
		return 0
	}
	frac := float64(t.count) / float64(total)
	if frac > 1 {
		frac = 1
	}
	return roundHalfUp(frac * 100)
}

// Score returns the running coverage and pass decision.
func (t *TraceScorer) Score() TraceScore {
	c := t.Coverage()
	return TraceScore{Coverage: c, Passed: c >= TracePassThreshold}
}

// ScoreTrace scores a complete tracing attempt in one call.
func ScoreTrace(template, traced []Point, tolerance float64) TraceScore {
	s := NewTraceScorer(template, tolerance)
	for _, p := range traced {
		s.Add(p)
	}
	return s.Score()
}
