package project

import (
	"github.com/google/uuid"

	"github.com/ivlev/gris/internal/geom"
	"github.com/ivlev/gris/internal/timeline"
)

// Store owns the tracked slice and exposes the atomic actions that mutate
// it. Every action computes the next state on a deep copy and swaps it in
// whole, so no caller ever observes a partially applied action. Actions
// targeting unknown ids are silent no-ops: existing project files rely on
// that forgiveness, so it is a contract, not an oversight.
//
// The store is single-goroutine by design; the editor loop is the only
// writer.
type Store struct {
	state State

	// OnMutate, when set, receives the previous state after each tracked
	// mutation. The history manager and autosave scheduling hang off it.
	OnMutate func(prev State)
}

// NewStore creates a store holding a blank project.
func NewStore() *Store {
	return &Store{state: NewState()}
}

// State returns a deep copy of the current tracked slice.
func (s *Store) State() State {
	return s.state.Clone()
}

// Current returns the live state for read-only use by renderers and the
// cue sampler. Callers must not retain or mutate it.
func (s *Store) Current() *State {
	return &s.state
}

// apply runs one atomic action: mutate a deep copy, swap it in, then
// notify with the previous state.
func (s *Store) apply(fn func(*State)) {
	next := s.state.Clone()
	fn(&next)
	prev := s.state
	s.state = next
	if s.OnMutate != nil {
		s.OnMutate(prev)
	}
}

// Replace swaps in a fully formed state without notifying OnMutate.
// Undo/redo use it to restore snapshots without recording new history.
func (s *Store) Replace(st State) {
	s.state = st.Clone()
}

// AddActor appends a new actor with a fresh id, no shapes, no keyframes
// and step interpolation, and returns the id.
func (s *Store) AddActor(label string) string {
	id := uuid.NewString()
	s.apply(func(st *State) {
		st.Actors = append(st.Actors, Actor{
			ID:            id,
			Label:         label,
			Interpolation: timeline.ModeStep,
		})
	})
	return id
}

// RemoveActor deletes the actor with the given id.
func (s *Store) RemoveActor(id string) {
	s.apply(func(st *State) {
		out := st.Actors[:0]
		for _, a := range st.Actors {
			if a.ID != id {
				out = append(out, a)
			}
		}
		st.Actors = out
	})
}

// ActorUpdate carries the mutable actor fields for UpdateActor. Nil
// fields are left untouched; shapes and keyframes have their own actions.
type ActorUpdate struct {
	Label         *string
	Interpolation *timeline.Mode
}

// UpdateActor merges label and interpolation changes into an actor.
func (s *Store) UpdateActor(id string, upd ActorUpdate) {
	s.apply(func(st *State) {
		a := st.FindActor(id)
		if a == nil {
			return
		}
		if upd.Label != nil {
			a.Label = *upd.Label
		}
		if upd.Interpolation != nil {
			a.Interpolation = *upd.Interpolation
		}
	})
}

// AddActorShape appends a shape to an actor.
func (s *Store) AddActorShape(actorID string, shape Shape) {
	s.apply(func(st *State) {
		a := st.FindActor(actorID)
		if a == nil {
			return
		}
		a.Shapes = append(a.Shapes, shape)
	})
}

// ClearActorShapes removes all shapes from an actor.
func (s *Store) ClearActorShapes(actorID string) {
	s.apply(func(st *State) {
		a := st.FindActor(actorID)
		if a == nil {
			return
		}
		a.Shapes = nil
	})
}

// UpdateActorShapeColors sets the color pair uniformly on every shape the
// actor owns. Shapes of one actor are never colored independently.
func (s *Store) UpdateActorShapeColors(actorID, offColor, onColor string) {
	s.apply(func(st *State) {
		a := st.FindActor(actorID)
		if a == nil {
			return
		}
		for i := range a.Shapes {
			a.Shapes[i].OffColor = offColor
			a.Shapes[i].OnColor = onColor
		}
	})
}

// AddKeyframe inserts a keyframe, overwriting any existing keyframe at
// exactly the same time, and keeps the list time-ascending.
func (s *Store) AddKeyframe(actorID string, kf timeline.KeyFrame) {
	s.apply(func(st *State) {
		a := st.FindActor(actorID)
		if a == nil {
			return
		}
		a.Keyframes = timeline.Insert(a.Keyframes, kf)
	})
}

// RemoveKeyframe deletes the keyframe at exactly the given time.
func (s *Store) RemoveKeyframe(actorID string, t float64) {
	s.apply(func(st *State) {
		a := st.FindActor(actorID)
		if a == nil {
			return
		}
		a.Keyframes = timeline.Remove(a.Keyframes, t)
	})
}

// ReorderActors moves one actor within the list. Ordering is purely
// presentational but must stay stable and total. Out-of-range indices
// are no-ops.
func (s *Store) ReorderActors(from, to int) {
	s.apply(func(st *State) {
		n := len(st.Actors)
		if from < 0 || from >= n || to < 0 || to >= n || from == to {
			return
		}
		a := st.Actors[from]
		rest := append(st.Actors[:from], st.Actors[from+1:]...)
		st.Actors = append(rest[:to], append([]Actor{a}, rest[to:]...)...)
	})
}

// AddBackground appends an image layer above all existing ones and
// returns its id. The canvas grows to fit the new image in each
// dimension independently; it never shrinks automatically.
func (s *Store) AddBackground(imageData []byte, width, height float64) string {
	id := uuid.NewString()
	s.apply(func(st *State) {
		maxZ := 0
		for _, b := range st.Backgrounds {
			if b.ZIndex > maxZ {
				maxZ = b.ZIndex
			}
		}
		st.Backgrounds = append(st.Backgrounds, Background{
			ID:        id,
			ImageData: imageData,
			Width:     width,
			Height:    height,
			ZIndex:    maxZ + 1,
		})
		if width > st.Project.CanvasSize.Width {
			st.Project.CanvasSize.Width = width
		}
		if height > st.Project.CanvasSize.Height {
			st.Project.CanvasSize.Height = height
		}
	})
	return id
}

// RemoveBackground deletes the background with the given id.
func (s *Store) RemoveBackground(id string) {
	s.apply(func(st *State) {
		out := st.Backgrounds[:0]
		for _, b := range st.Backgrounds {
			if b.ID != id {
				out = append(out, b)
			}
		}
		st.Backgrounds = out
	})
}

// MoveBackground repositions a background layer on the canvas.
func (s *Store) MoveBackground(id string, x, y float64) {
	s.apply(func(st *State) {
		for i := range st.Backgrounds {
			if st.Backgrounds[i].ID == id {
				st.Backgrounds[i].X = x
				st.Backgrounds[i].Y = y
				return
			}
		}
	})
}

// RenameProject sets the project name.
func (s *Store) RenameProject(name string) {
	s.apply(func(st *State) {
		st.Project.Name = name
	})
}

// SetSongFilename records which song the choreography is authored against.
func (s *Store) SetSongFilename(name string) {
	s.apply(func(st *State) {
		st.Project.SongFilename = name
	})
}

// LoadProject replaces the whole tracked slice, typically after reading a
// project file.
func (s *Store) LoadProject(meta Meta, actors []Actor, backgrounds []Background) {
	s.apply(func(st *State) {
		st.Project = meta
		st.Actors = actors
		st.Backgrounds = backgrounds
	})
}

// ResetProject replaces the tracked slice with a blank project.
func (s *Store) ResetProject() {
	s.apply(func(st *State) {
		*st = NewState()
	})
}

// HitTestShapes finds the actor owning the topmost shape under (x, y).
// Shapes are scanned in reverse z-order, most recently drawn first,
// across actors in reverse declaration order. Returns the actor id and
// shape index, or "" when nothing is hit.
func (s *Store) HitTestShapes(x, y float64) (string, int) {
	for i := len(s.state.Actors) - 1; i >= 0; i-- {
		a := &s.state.Actors[i]
		polys := make([]geom.Polygon, len(a.Shapes))
		for j, sh := range a.Shapes {
			polys[j] = sh.Geometry
		}
		if idx := geom.HitTest(polys, x, y); idx >= 0 {
			return a.ID, idx
		}
	}
	return "", -1
}
