// Package history provides bounded snapshot-based undo/redo over the
// tracked project slice. Snapshots are deep copies; the live state never
// leaks into past or future.
package history

import "github.com/ivlev/gris/internal/project"

// DefaultLimit bounds undo depth. Beyond it the oldest snapshots are
// evicted first, trading unlimited undo for a hard memory ceiling.
const DefaultLimit = 100

// Manager is the past / present / future state machine. Past is ordered
// oldest first; future is ordered nearest first.
type Manager struct {
	past    []project.State
	present project.State
	future  []project.State
	limit   int
}

// New creates a manager whose present is the given state.
func New(present project.State, limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{present: present.Clone(), limit: limit}
}

// Record captures a tracked mutation: the previous present moves into the
// past, the new state becomes present, and any redo branch is discarded.
func (m *Manager) Record(prev, next project.State) {
	m.past = append(m.past, prev.Clone())
	if len(m.past) > m.limit {
		// FIFO eviction of the oldest entry
		m.past = append(m.past[:0], m.past[1:]...)
	}
	m.present = next.Clone()
	m.future = nil
}

// Undo steps back one snapshot and returns the new present. Returns false
// when there is nothing to undo.
func (m *Manager) Undo() (project.State, bool) {
	if len(m.past) == 0 {
		return project.State{}, false
	}
	newest := m.past[len(m.past)-1]
	m.past = m.past[:len(m.past)-1]
	m.future = append([]project.State{m.present}, m.future...)
	m.present = newest
	return m.present.Clone(), true
}

// Redo is the symmetric inverse of Undo.
func (m *Manager) Redo() (project.State, bool) {
	if len(m.future) == 0 {
		return project.State{}, false
	}
	nearest := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, m.present)
	m.present = nearest
	return m.present.Clone(), true
}

// Present returns a copy of the current snapshot.
func (m *Manager) Present() project.State {
	return m.present.Clone()
}

// CanUndo reports whether any past snapshot remains.
func (m *Manager) CanUndo() bool { return len(m.past) > 0 }

// CanRedo reports whether any redo snapshot remains.
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Depth returns the number of reachable undo steps.
func (m *Manager) Depth() int { return len(m.past) }
