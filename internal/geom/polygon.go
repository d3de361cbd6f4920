package geom

// Point is a position on the canvas in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is the shape geometry sum type: either an axis-aligned
// rectangle or an arbitrary closed point list. Consumers switch
// exhaustively on the two concrete types.
type Polygon interface {
	sealedPolygon()
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Poly is an arbitrary polygon with at least 3 vertices, implicitly closed.
type Poly struct {
	Points []Point `json:"points"`
}

func (Rect) sealedPolygon() {}
func (Poly) sealedPolygon() {}

// Center returns the center point of a polygon. For a rectangle this is
// the arithmetic center; for an arbitrary polygon it is the center of the
// axis-aligned bounding box, not the area-weighted centroid. The bounding
// box center is close enough for label placement and much cheaper.
func Center(p Polygon) (float64, float64) {
	switch s := p.(type) {
	case Rect:
		return s.X + s.Width/2, s.Y + s.Height/2
	case Poly:
		if len(s.Points) == 0 {
			return 0, 0
		}
		minX, maxX := s.Points[0].X, s.Points[0].X
		minY, maxY := s.Points[0].Y, s.Points[0].Y
		for _, pt := range s.Points[1:] {
			if pt.X < minX {
				minX = pt.X
			}
			if pt.X > maxX {
				maxX = pt.X
			}
			if pt.Y < minY {
				minY = pt.Y
			}
			if pt.Y > maxY {
				maxY = pt.Y
			}
		}
		return (minX + maxX) / 2, (minY + maxY) / 2
	}
	return 0, 0
}

// Contains reports whether the point (x, y) lies inside the polygon.
//
// Boundary policy: rectangle edges are inclusive on all four sides.
// Arbitrary polygons use even-odd ray casting, which makes left/bottom
// edges inclusive and right/top edges exclusive in the typical case;
// vertex-exact hits follow the same parity rule.
func Contains(p Polygon, x, y float64) bool {
	switch s := p.(type) {
	case Rect:
		return x >= s.X && x <= s.X+s.Width && y >= s.Y && y <= s.Y+s.Height
	case Poly:
		return containsPoly(s.Points, x, y)
	}
	return false
}

// containsPoly is the even-odd ray casting test: a horizontal ray from
// (x, y) toggles inclusion each time it crosses an edge. The crossing
// condition (yi > y) != (yj > y) also guards the division for horizontal
// edges, where yj - yi would be zero.
func containsPoly(points []Point, x, y float64) bool {
	if len(points) < 3 {
		return false
	}
	inside := false
	j := len(points) - 1
	for i := 0; i < len(points); i++ {
		xi, yi := points[i].X, points[i].Y
		xj, yj := points[j].X, points[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// HitTest returns the index of the topmost polygon containing (x, y),
// scanning in reverse order so the most recently drawn shape wins.
// Returns -1 when no polygon contains the point.
func HitTest(polygons []Polygon, x, y float64) int {
	for i := len(polygons) - 1; i >= 0; i-- {
		if Contains(polygons[i], x, y) {
			return i
		}
	}
	return -1
}
