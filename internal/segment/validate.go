package segment

import (
	"fmt"
	"math"
)

const epsilon = 1e-9

// Validate checks that plans satisfy the planner's guarantees for the given
// constraints: bounds, durations, ordering, indexing, and no overlap.
func Validate(plans []Plan, videoDuration, minDuration, maxDuration float64) error {
	if minDuration > maxDuration {
		minDuration, maxDuration = maxDuration, minDuration
	}
	if len(plans) > MaxCount {
		return fmt.Errorf("plan has %d segments, limit is %d", len(plans), MaxCount)
	}
	for i, plan := range plans {
		if plan.Index != i {
			return fmt.Errorf("segment %d: index %d out of sequence", i, plan.Index)
		}
		if plan.Start < 0 || plan.End > videoDuration+epsilon || plan.Start >= plan.End {
			return fmt.Errorf("segment %d: [%.3f, %.3f) outside [0, %.3f]", i, plan.Start, plan.End, videoDuration)
		}
		if math.Abs((plan.End-plan.Start)-plan.Duration) > 1e-6 {
			return fmt.Errorf("segment %d: duration %.6f does not match interval", i, plan.Duration)
		}
		if plan.Duration < minDuration-epsilon || plan.Duration > maxDuration+epsilon {
			return fmt.Errorf("segment %d: duration %.3f outside [%.3f, %.3f]", i, plan.Duration, minDuration, maxDuration)
		}
		if i > 0 {
			prev := plans[i-1]
			if plan.Start < prev.Start {
				return fmt.Errorf("segment %d: not sorted by start", i)
			}
			if prev.Overlaps(plan.Start, plan.End) {
				return fmt.Errorf("segment %d overlaps segment %d", i, i-1)
			}
		}
	}
	return nil
}

// Config is the planning request supplied by callers.
type Config struct {
	Count       int
	MinDuration float64
	MaxDuration float64
}

// Validate rejects out-of-range planning requests. The planner itself never
// fails; this guards user input before a batch starts.
func (c Config) Validate() error {
	if c.Count < 1 || c.Count > MaxCount {
		return fmt.Errorf("segment count %d outside [1, %d]", c.Count, MaxCount)
	}
	if !finitePositive(c.MinDuration) {
		return fmt.Errorf("minimum duration must be positive, got %v", c.MinDuration)
	}
	if math.IsNaN(c.MaxDuration) || c.MaxDuration < c.MinDuration {
		return fmt.Errorf("maximum duration %v must be at least the minimum %v", c.MaxDuration, c.MinDuration)
	}
	return nil
}
