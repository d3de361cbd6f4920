// Package session owns one editing session: the project store, its undo
// history, and the untracked playback/UI state. Everything the session
// does is synchronous and single-goroutine; the only asynchronous edge
// is the detached autosave timer.
package session

import (
	"log"

	"github.com/ivlev/gris/internal/draw"
	"github.com/ivlev/gris/internal/geom"
	"github.com/ivlev/gris/internal/grisfile"
	"github.com/ivlev/gris/internal/history"
	"github.com/ivlev/gris/internal/project"
)

// Playback is the transport state. It is read by the render loop and
// excluded from history and persistence.
type Playback struct {
	CurrentTime float64
	IsPlaying   bool
	Duration    float64
}

// UI is the untracked interaction state. Selection is revalidated after
// every mutation and after undo/redo so it can never point at a deleted
// actor.
type UI struct {
	SelectedActor string
	Zoom          float64
}

// Scheduler receives an encoded snapshot after each tracked mutation.
// The snapshot is captured here, on the mutation path, so implementations
// may hand it to other goroutines without ever touching live session
// state. autosave.Saver is the production implementation.
type Scheduler interface {
	Schedule(snapshot []byte)
}

// Session wires the store, history and untracked state together.
type Session struct {
	Store    *project.Store
	History  *history.Manager
	Playback Playback
	UI       UI
	Drawing  *draw.Machine

	saver Scheduler
}

// New creates a session over a blank project.
func New() *Session {
	s := &Session{
		Store:   project.NewStore(),
		Drawing: draw.NewMachine(),
		UI:      UI{Zoom: 1},
	}
	s.History = history.New(s.Store.State(), history.DefaultLimit)
	s.Store.OnMutate = s.onMutate
	return s
}

// SetSaver attaches the autosave scheduler. Optional; a session without
// one simply never autosaves.
func (s *Session) SetSaver(sv Scheduler) {
	s.saver = sv
}

// onMutate runs after every tracked store mutation: record history,
// drop any dangling selection, and kick the autosave debounce with a
// snapshot encoded right here so the saver never reads live state.
func (s *Session) onMutate(prev project.State) {
	s.History.Record(prev, *s.Store.Current())
	s.revalidateSelection()
	if s.saver != nil {
		data, err := grisfile.Encode(*s.Store.Current())
		if err != nil {
			log.Printf("[!] autosave: snapshot failed: %v", err)
			return
		}
		s.saver.Schedule(data)
	}
}

// Undo steps the tracked slice back one snapshot. Playback and UI are
// untouched except for selection revalidation.
func (s *Session) Undo() bool {
	st, ok := s.History.Undo()
	if !ok {
		return false
	}
	s.Store.Replace(st)
	s.revalidateSelection()
	return true
}

// Redo is the inverse of Undo.
func (s *Session) Redo() bool {
	st, ok := s.History.Redo()
	if !ok {
		return false
	}
	s.Store.Replace(st)
	s.revalidateSelection()
	return true
}

// revalidateSelection clears the selection when it references an actor
// that no longer exists.
func (s *Session) revalidateSelection() {
	if s.UI.SelectedActor == "" {
		return
	}
	if s.Store.Current().FindActor(s.UI.SelectedActor) == nil {
		s.UI.SelectedActor = ""
	}
}

// Select marks an actor as selected. Unknown ids clear the selection.
func (s *Session) Select(actorID string) {
	s.UI.SelectedActor = actorID
	s.revalidateSelection()
}

// LoadFile replaces the tracked slice with the contents of a .gris
// payload. On a parse or migration failure the store is left unchanged.
// Selection and tool reset to neutral so nothing references stale ids.
func (s *Session) LoadFile(data []byte) error {
	st, err := grisfile.Decode(data)
	if err != nil {
		return err
	}
	s.Store.LoadProject(st.Project, st.Actors, st.Backgrounds)
	s.resetUntracked()
	return nil
}

// NewProject replaces the tracked slice with a blank project.
func (s *Session) NewProject() {
	s.Store.ResetProject()
	s.resetUntracked()
}

func (s *Session) resetUntracked() {
	s.UI.SelectedActor = ""
	s.Drawing.Reset()
	s.Playback = Playback{Duration: s.Playback.Duration}
}

// Snapshot serializes the current tracked slice as a current-version
// project file payload.
func (s *Session) Snapshot() ([]byte, error) {
	return grisfile.Encode(*s.Store.Current())
}

// AssignShape attaches a completed pending polygon to an actor. The
// shape inherits the actor's existing color pair when it already owns a
// shape, otherwise the defaults. The drawing machine returns to idle
// with the selection tool active either way; an unknown actor id simply
// discards the pending shape.
func (s *Session) AssignShape(actorID string, p geom.Polygon) {
	defer s.Drawing.Reset()

	a := s.Store.Current().FindActor(actorID)
	if a == nil {
		return
	}
	off, on := draw.DefaultOffColor, draw.DefaultOnColor
	if len(a.Shapes) > 0 {
		off, on = a.Shapes[0].OffColor, a.Shapes[0].OnColor
	}
	s.Store.AddActorShape(actorID, project.Shape{Geometry: p, OffColor: off, OnColor: on})
}

// SetDuration records the song duration after an audio probe.
func (s *Session) SetDuration(seconds float64) {
	s.Playback.Duration = seconds
}

// SetZoom records the canvas zoom and forwards it to the drawing
// machine, which scales its polygon close radius by it. Keeping the two
// in one setter is what stops them diverging. Non-positive values are
// ignored.
func (s *Session) SetZoom(zoom float64) {
	if zoom <= 0 {
		return
	}
	s.UI.Zoom = zoom
	s.Drawing.SetZoom(zoom)
}

// Seek moves the playhead. The store records time, it never drives it.
func (s *Session) Seek(t float64) {
	if t < 0 {
		t = 0
	}
	s.Playback.CurrentTime = t
}
