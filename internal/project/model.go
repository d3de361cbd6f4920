package project

import (
	"github.com/ivlev/gris/internal/geom"
	"github.com/ivlev/gris/internal/timeline"
)

// Meta holds project-level metadata.
type Meta struct {
	Name         string `json:"name"`
	SongFilename string `json:"songFilename"`
	CanvasSize   Size   `json:"canvasSize"`
}

// Size is a canvas extent in canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Shape is one display polygon owned by an actor. All shapes of an actor
// share one color pair and one state curve.
type Shape struct {
	Geometry geom.Polygon
	OffColor string
	OnColor  string
}

// Actor is a named choreography track: one state curve driving one or
// more display shapes.
type Actor struct {
	ID            string
	Label         string
	Shapes        []Shape
	Keyframes     []timeline.KeyFrame
	Interpolation timeline.Mode
}

// ValueAt computes the actor state at the given time.
func (a *Actor) ValueAt(t float64) float64 {
	return timeline.Value(a.Keyframes, a.Interpolation, t)
}

// Background is one image layer behind the canvas. Paint order follows
// ZIndex; backgrounds never participate in interpolation or cue export.
type Background struct {
	ID        string
	ImageData []byte
	X         float64
	Y         float64
	Width     float64
	Height    float64
	ZIndex    int
}

// State is the tracked slice of the editor: everything that undo/redo and
// the project file cover. Playback position, UI selection and audio
// buffers live outside it.
type State struct {
	Project     Meta
	Actors      []Actor
	Backgrounds []Background
}

// NewState returns a blank project.
func NewState() State {
	return State{
		Project: Meta{
			Name:       "Untitled",
			CanvasSize: Size{Width: 800, Height: 600},
		},
	}
}

// Clone returns a structurally independent deep copy of the state.
// History snapshots rely on this: mutating the live state must never
// retroactively alter a captured snapshot.
func (s State) Clone() State {
	out := s
	out.Actors = make([]Actor, len(s.Actors))
	for i, a := range s.Actors {
		out.Actors[i] = a.clone()
	}
	out.Backgrounds = make([]Background, len(s.Backgrounds))
	for i, b := range s.Backgrounds {
		out.Backgrounds[i] = b
		out.Backgrounds[i].ImageData = append([]byte(nil), b.ImageData...)
	}
	return out
}

func (a Actor) clone() Actor {
	out := a
	out.Shapes = make([]Shape, len(a.Shapes))
	for i, sh := range a.Shapes {
		out.Shapes[i] = sh
		out.Shapes[i].Geometry = clonePolygon(sh.Geometry)
	}
	out.Keyframes = append([]timeline.KeyFrame(nil), a.Keyframes...)
	return out
}

func clonePolygon(p geom.Polygon) geom.Polygon {
	switch g := p.(type) {
	case geom.Rect:
		return g
	case geom.Poly:
		return geom.Poly{Points: append([]geom.Point(nil), g.Points...)}
	}
	return p
}

// FindActor returns a pointer into the live actor list, or nil when the
// id is unknown.
func (s *State) FindActor(id string) *Actor {
	for i := range s.Actors {
		if s.Actors[i].ID == id {
			return &s.Actors[i]
		}
	}
	return nil
}
