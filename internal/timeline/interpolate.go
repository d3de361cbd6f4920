package timeline

import (
	"math"
	"sort"
)

// Mode selects how actor state is computed between keyframes.
type Mode string

const (
	// ModeStep holds the previous keyframe value until the next one (zero-order hold).
	ModeStep Mode = "step"
	// ModeLinear blends linearly between the surrounding keyframes.
	ModeLinear Mode = "linear"
)

// KeyFrame anchors an actor's state curve at a specific time.
// Within an actor the keyframe list is kept time-ascending with at most
// one keyframe per distinct time.
type KeyFrame struct {
	Time  float64 `json:"time"`  // Seconds from song start, >= 0
	Value float64 `json:"value"` // Actor state in [0, 1]
}

// Value computes the actor state at the given time. Pure and deterministic.
//
// Outside the keyframe range the nearest keyframe value is held (no
// extrapolation): before the first keyframe the first value applies,
// after the last the last value. An exact-time hit returns that
// keyframe's value regardless of mode.
func Value(frames []KeyFrame, mode Mode, t float64) float64 {
	if len(frames) == 0 {
		return 0
	}

	before, hasBefore := latestAtOrBefore(frames, t)
	after, hasAfter := earliestAtOrAfter(frames, t)

	if !hasBefore {
		return after.Value
	}
	if !hasAfter {
		return before.Value
	}
	if before.Time == after.Time {
		return before.Value
	}

	if mode == ModeLinear {
		f := (t - before.Time) / (after.Time - before.Time)
		return before.Value + f*(after.Value-before.Value)
	}
	return before.Value
}

// latestAtOrBefore finds the keyframe with the greatest time <= t.
func latestAtOrBefore(frames []KeyFrame, t float64) (KeyFrame, bool) {
	// First frame with Time > t; the one before it is our answer.
	i := sort.Search(len(frames), func(i int) bool { return frames[i].Time > t })
	if i == 0 {
		return KeyFrame{}, false
	}
	return frames[i-1], true
}

// earliestAtOrAfter finds the keyframe with the smallest time >= t.
func earliestAtOrAfter(frames []KeyFrame, t float64) (KeyFrame, bool) {
	i := sort.Search(len(frames), func(i int) bool { return frames[i].Time >= t })
	if i == len(frames) {
		return KeyFrame{}, false
	}
	return frames[i], true
}

// Insert adds a keyframe to a time-ascending list, replacing any existing
// keyframe at exactly the same time, and returns the new list.
//
// Out-of-range input is clamped rather than rejected: time to >= 0 and
// value into [0, 1]. Every keyframe entering an actor passes through
// here (editor actions and file loads alike), so the list invariants
// hold no matter the source.
func Insert(frames []KeyFrame, kf KeyFrame) []KeyFrame {
	kf.Time = math.Max(0, kf.Time)
	kf.Value = math.Min(1, math.Max(0, kf.Value))

	out := make([]KeyFrame, 0, len(frames)+1)
	for _, f := range frames {
		if f.Time != kf.Time {
			out = append(out, f)
		}
	}
	out = append(out, kf)
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Remove deletes the keyframe at exactly the given time, if present,
// and returns the new list.
func Remove(frames []KeyFrame, t float64) []KeyFrame {
	out := make([]KeyFrame, 0, len(frames))
	for _, f := range frames {
		if f.Time != t {
			out = append(out, f)
		}
	}
	return out
}
