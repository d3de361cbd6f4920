package cue

import (
	"math"
	"sort"

	"github.com/ivlev/gris/internal/project"
)

// Cue is one exported (time, actor, state) sample for external hardware.
// The id is the actor's label at export time, not its internal id:
// consumers key on labels, and renaming an actor changes exported ids.
type Cue struct {
	T     float64 `json:"t"`
	ID    string  `json:"id"`
	State float64 `json:"state"`
}

// Generate samples every actor's state curve into a deterministic,
// time-ordered cue list.
//
// With a zero duration (no audio loaded) there is nothing to sample
// against, so each actor gets one cue at t=0 plus one cue per keyframe at
// its own time. Otherwise the curves are sampled at t = 0, tick, 2*tick,
// ... <= duration.
//
// Times and states are rounded to 3 decimals to bound output size and
// keep floating-point noise out of downstream consumers. Ordering is t
// ascending, then id lexicographic; that ordering is part of the wire
// contract.
//
// Tick validity is the caller's concern: a non-positive or absurd tick is
// not rejected here, it just produces a correspondingly dense or sparse
// list. The CLI clamps to [0.001, 1] before calling.
func Generate(actors []project.Actor, duration, tick float64) []Cue {
	var cues []Cue

	if duration == 0 {
		for i := range actors {
			a := &actors[i]
			cues = append(cues, Cue{T: 0, ID: a.Label, State: round3(a.ValueAt(0))})
			for _, kf := range a.Keyframes {
				cues = append(cues, Cue{T: round3(kf.Time), ID: a.Label, State: round3(kf.Value)})
			}
		}
	} else {
		steps := int(math.Floor(duration/tick + 1e-9))
		for s := 0; s <= steps; s++ {
			t := float64(s) * tick
			for i := range actors {
				a := &actors[i]
				cues = append(cues, Cue{T: round3(t), ID: a.Label, State: round3(a.ValueAt(t))})
			}
		}
	}

	sort.SliceStable(cues, func(i, j int) bool {
		if cues[i].T != cues[j].T {
			return cues[i].T < cues[j].T
		}
		return cues[i].ID < cues[j].ID
	})
	return cues
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
