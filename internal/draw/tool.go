// Package draw implements the shape drawing tool state machine. It turns
// pointer gestures into pending polygons awaiting actor assignment; it
// holds no persisted state and feeds the project store only through the
// assignment step.
package draw

import (
	"math"

	"github.com/ivlev/gris/internal/geom"
)

// Tool selects the active canvas tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolRectangle Tool = "rectangle"
	ToolPolygon   Tool = "polygon"
)

// Phase is the machine state.
type Phase int

const (
	// Idle means no drawing is in progress.
	Idle Phase = iota
	// RectangleDragging means a rectangle drag started and awaits pointer-up.
	RectangleDragging
	// PolygonCollecting means polygon vertices are being collected click by click.
	PolygonCollecting
)

const (
	// MinRectSize is the minimum dragged extent for a rectangle to count;
	// smaller drags are accidental clicks and are silently discarded.
	MinRectSize = 10.0
	// CloseRadius is the screen-space distance to the first vertex that
	// closes a polygon. Divided by zoom to convert to canvas units.
	CloseRadius = 15.0
)

// DefaultOffColor and DefaultOnColor seed shapes assigned to an actor
// that owns no shape yet.
const (
	DefaultOffColor = "1a1a2e"
	DefaultOnColor  = "ffd166"
)

// Machine collects pointer gestures into pending shapes.
type Machine struct {
	phase Phase
	tool  Tool
	zoom  float64

	dragStartX, dragStartY float64
	dragX, dragY           float64
	points                 []geom.Point
}

// NewMachine returns an idle machine with the selection tool active.
func NewMachine() *Machine {
	return &Machine{tool: ToolSelect, zoom: 1}
}

// Phase returns the current machine state.
func (m *Machine) Phase() Phase { return m.phase }

// Tool returns the active tool.
func (m *Machine) Tool() Tool { return m.tool }

// SetTool switches tools, discarding any drawing in progress.
func (m *Machine) SetTool(t Tool) {
	m.Cancel()
	m.tool = t
}

// SetZoom records the current canvas zoom so the polygon close radius
// stays constant in screen space.
func (m *Machine) SetZoom(zoom float64) {
	if zoom > 0 {
		m.zoom = zoom
	}
}

// InProgress returns the vertex buffer of a polygon being collected, for
// preview rendering.
func (m *Machine) InProgress() []geom.Point {
	return m.points
}

// PointerDown starts a rectangle drag when the rectangle tool is active.
func (m *Machine) PointerDown(x, y float64) {
	if m.phase != Idle || m.tool != ToolRectangle {
		return
	}
	m.phase = RectangleDragging
	m.dragStartX, m.dragStartY = x, y
	m.dragX, m.dragY = x, y
}

// PointerMove tracks the drag extent.
func (m *Machine) PointerMove(x, y float64) {
	if m.phase == RectangleDragging {
		m.dragX, m.dragY = x, y
	}
}

// PointerUp completes a rectangle drag. Drags below the minimum size in
// either dimension are discarded without a pending shape.
func (m *Machine) PointerUp(x, y float64) (geom.Polygon, bool) {
	if m.phase != RectangleDragging {
		return nil, false
	}
	m.dragX, m.dragY = x, y
	m.phase = Idle

	w := math.Abs(m.dragX - m.dragStartX)
	h := math.Abs(m.dragY - m.dragStartY)
	if w < MinRectSize || h < MinRectSize {
		return nil, false
	}
	return geom.Rect{
		X:      math.Min(m.dragStartX, m.dragX),
		Y:      math.Min(m.dragStartY, m.dragY),
		Width:  w,
		Height: h,
	}, true
}

// Click appends a polygon vertex when the polygon tool is active. A
// click within the close radius of the first vertex, with at least 3
// vertices collected, closes the polygon and returns it.
func (m *Machine) Click(x, y float64) (geom.Polygon, bool) {
	if m.tool != ToolPolygon {
		return nil, false
	}
	if m.phase == Idle {
		m.phase = PolygonCollecting
		m.points = []geom.Point{{X: x, Y: y}}
		return nil, false
	}
	if m.phase != PolygonCollecting {
		return nil, false
	}

	if len(m.points) >= 3 && m.nearFirstVertex(x, y) {
		return m.closePolygon()
	}
	m.points = append(m.points, geom.Point{X: x, Y: y})
	return nil, false
}

// DoubleClick closes the polygon when at least 3 vertices exist.
func (m *Machine) DoubleClick() (geom.Polygon, bool) {
	if m.phase != PolygonCollecting || len(m.points) < 3 {
		return nil, false
	}
	return m.closePolygon()
}

// Cancel discards any drawing in progress and returns to idle.
func (m *Machine) Cancel() {
	m.phase = Idle
	m.points = nil
}

// Reset returns the machine to idle with the selection tool active, as
// after a completed actor assignment.
func (m *Machine) Reset() {
	m.Cancel()
	m.tool = ToolSelect
}

func (m *Machine) nearFirstVertex(x, y float64) bool {
	first := m.points[0]
	radius := CloseRadius / m.zoom
	return math.Hypot(x-first.X, y-first.Y) <= radius
}

func (m *Machine) closePolygon() (geom.Polygon, bool) {
	p := geom.Poly{Points: m.points}
	m.phase = Idle
	m.points = nil
	return p, true
}
