// Package grisfile implements the versioned .gris project file: the JSON
// wire format for the tracked slice plus the schema migration chain that
// normalizes older payloads into the current shape.
package grisfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ivlev/gris/internal/geom"
	"github.com/ivlev/gris/internal/project"
	"github.com/ivlev/gris/internal/timeline"
)

// Schema versions. Version 1 actors carried a single nullable "shape";
// version 2 carries a "shapes" array.
const (
	VersionLegacy  = 1
	VersionCurrent = 2
)

const (
	polygonRectangle = "rectangle"
	polygonArbitrary = "polygon"
)

// wireFile is the serialized aggregate.
type wireFile struct {
	Version     int              `json:"version"`
	Project     project.Meta     `json:"project"`
	Actors      []wireActor      `json:"actors"`
	Backgrounds []wireBackground `json:"backgrounds"`
}

type wireActor struct {
	ID            string              `json:"id"`
	Label         string              `json:"label"`
	Shape         *wireShape          `json:"shape,omitempty"`  // legacy v1
	Shapes        []wireShape         `json:"shapes,omitempty"` // v2
	Keyframes     []timeline.KeyFrame `json:"keyframes"`
	Interpolation string              `json:"interpolation"`
}

type wireShape struct {
	Geometry wirePolygon `json:"geometry"`
	OffColor string      `json:"offColor"`
	OnColor  string      `json:"onColor"`
}

// wirePolygon is the tagged-union encoding of geom.Polygon.
type wirePolygon struct {
	Type   string       `json:"type"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`
	Width  float64      `json:"width,omitempty"`
	Height float64      `json:"height,omitempty"`
	Points [][2]float64 `json:"points,omitempty"`
}

type wireBackground struct {
	ID        string  `json:"id"`
	ImageData []byte  `json:"imageData"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ZIndex    int     `json:"zIndex"`
}

// Encode serializes a tracked slice as a current-version payload.
func Encode(st project.State) ([]byte, error) {
	wf := wireFile{
		Version: VersionCurrent,
		Project: st.Project,
	}
	for _, a := range st.Actors {
		wa := wireActor{
			ID:            a.ID,
			Label:         a.Label,
			Keyframes:     a.Keyframes,
			Interpolation: string(a.Interpolation),
		}
		for _, sh := range a.Shapes {
			wa.Shapes = append(wa.Shapes, wireShape{
				Geometry: encodePolygon(sh.Geometry),
				OffColor: sh.OffColor,
				OnColor:  sh.OnColor,
			})
		}
		wf.Actors = append(wf.Actors, wa)
	}
	for _, b := range st.Backgrounds {
		wf.Backgrounds = append(wf.Backgrounds, wireBackground{
			ID: b.ID, ImageData: b.ImageData,
			X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			ZIndex: b.ZIndex,
		})
	}
	return json.MarshalIndent(wf, "", "  ")
}

// Decode parses a payload of any supported schema version into the
// current in-memory shape. On any failure it returns an error and no
// partial state.
func Decode(data []byte) (project.State, error) {
	var wf wireFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return project.State{}, fmt.Errorf("parse project file: %w", err)
	}
	if err := migrate(&wf); err != nil {
		return project.State{}, err
	}

	st := project.State{Project: wf.Project}
	for _, wa := range wf.Actors {
		a := project.Actor{
			ID:            wa.ID,
			Label:         wa.Label,
			Interpolation: parseMode(wa.Interpolation),
		}
		for _, kf := range wa.Keyframes {
			a.Keyframes = timeline.Insert(a.Keyframes, kf)
		}
		for _, ws := range wa.Shapes {
			p, err := decodePolygon(ws.Geometry)
			if err != nil {
				return project.State{}, fmt.Errorf("actor %q: %w", wa.Label, err)
			}
			a.Shapes = append(a.Shapes, project.Shape{
				Geometry: p,
				OffColor: ws.OffColor,
				OnColor:  ws.OnColor,
			})
		}
		st.Actors = append(st.Actors, a)
	}
	for _, wb := range wf.Backgrounds {
		st.Backgrounds = append(st.Backgrounds, project.Background{
			ID: wb.ID, ImageData: wb.ImageData,
			X: wb.X, Y: wb.Y, Width: wb.Width, Height: wb.Height,
			ZIndex: wb.ZIndex,
		})
	}
	return st, nil
}

// Save writes the tracked slice to a .gris file.
func Save(st project.State, path string) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads and migrates a .gris file.
func Load(path string) (project.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return project.State{}, err
	}
	return Decode(data)
}

func encodePolygon(p geom.Polygon) wirePolygon {
	switch g := p.(type) {
	case geom.Rect:
		return wirePolygon{Type: polygonRectangle, X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
	case geom.Poly:
		pts := make([][2]float64, len(g.Points))
		for i, pt := range g.Points {
			pts[i] = [2]float64{pt.X, pt.Y}
		}
		return wirePolygon{Type: polygonArbitrary, Points: pts}
	}
	return wirePolygon{}
}

func decodePolygon(w wirePolygon) (geom.Polygon, error) {
	switch w.Type {
	case polygonRectangle:
		return geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: w.Height}, nil
	case polygonArbitrary:
		if len(w.Points) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 points, got %d", len(w.Points))
		}
		pts := make([]geom.Point, len(w.Points))
		for i, p := range w.Points {
			pts[i] = geom.Point{X: p[0], Y: p[1]}
		}
		return geom.Poly{Points: pts}, nil
	}
	return nil, fmt.Errorf("unknown polygon type %q", w.Type)
}

// parseMode defaults unknown interpolation values to step rather than
// failing the load.
func parseMode(s string) timeline.Mode {
	if timeline.Mode(s) == timeline.ModeLinear {
		return timeline.ModeLinear
	}
	return timeline.ModeStep
}
