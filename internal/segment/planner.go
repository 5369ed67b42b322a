package segment

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

const (
	// MaxCount is the upper bound on segments returned by one plan.
	MaxCount = 20
	// DefaultMaxAttempts is the placement budget per slot before it is skipped.
	DefaultMaxAttempts = 50
)

// Plan is one planned time slice of the source video. Start and End are
// seconds from the beginning of the video.
type Plan struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Overlaps reports whether the half-open intervals [p.Start, p.End) and
// [start, end) intersect.
func (p Plan) Overlaps(start, end float64) bool {
	return start < p.End && p.Start < end
}

// Planner draws randomized, non-overlapping segment plans. The zero value is
// not usable; construct with NewPlanner.
type Planner struct {
	mu          sync.Mutex
	rng         *rand.Rand
	maxAttempts int
}

// NewPlanner returns a planner drawing from rng. A nil rng uses a time-seeded
// source. maxAttempts <= 0 selects DefaultMaxAttempts.
func NewPlanner(rng *rand.Rand, maxAttempts int) *Planner {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Planner{rng: rng, maxAttempts: maxAttempts}
}

// MaxAttempts reports the placement budget per slot.
func (p *Planner) MaxAttempts() int {
	return p.maxAttempts
}

// Plan returns up to requestedCount non-overlapping intervals inside
// [0, videoDuration], each lasting between minDuration and maxDuration
// seconds, sorted by start and indexed from 0. Infeasible constraints yield an
// empty plan rather than an error. Slots that cannot be placed within the
// attempt budget are skipped, so the result may be shorter than requested.
func (p *Planner) Plan(videoDuration float64, requestedCount int, minDuration, maxDuration float64) []Plan {
	if !finitePositive(videoDuration) || !finitePositive(minDuration) || math.IsNaN(maxDuration) || math.IsInf(maxDuration, 0) {
		return []Plan{}
	}
	// The floor applies to the caller's minimum, before inverted bounds are
	// swapped.
	if videoDuration < minDuration {
		return []Plan{}
	}
	if minDuration > maxDuration {
		minDuration, maxDuration = maxDuration, minDuration
		if !finitePositive(minDuration) {
			return []Plan{}
		}
	}
	requestedCount = min(max(requestedCount, 0), MaxCount)

	p.mu.Lock()
	defer p.mu.Unlock()

	accepted := make([]Plan, 0, requestedCount)
	budget := videoDuration
	for range requestedCount {
		if budget < minDuration {
			break
		}
		upper := min(maxDuration, budget)
		if plan, ok := p.place(accepted, videoDuration, minDuration, upper); ok {
			accepted = append(accepted, plan)
			budget -= plan.Duration
		}
	}

	slices.SortFunc(accepted, func(a, b Plan) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})
	for i := range accepted {
		accepted[i].Index = i
	}
	return accepted
}

// place draws candidate intervals until one fits between the accepted ones or
// the attempt budget runs out.
func (p *Planner) place(accepted []Plan, videoDuration, minDuration, maxDuration float64) (Plan, bool) {
	for range p.maxAttempts {
		duration := minDuration + p.rng.Float64()*(maxDuration-minDuration)
		start := p.rng.Float64() * (videoDuration - duration)
		end := min(start+duration, videoDuration)
		if slices.ContainsFunc(accepted, func(existing Plan) bool { return existing.Overlaps(start, end) }) {
			continue
		}
		return Plan{Start: start, End: end, Duration: duration}, true
	}
	return Plan{}, false
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
