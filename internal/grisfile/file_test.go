package grisfile

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ivlev/gris/internal/geom"
	"github.com/ivlev/gris/internal/project"
	"github.com/ivlev/gris/internal/timeline"
)

func sampleState() project.State {
	st := project.NewState()
	st.Project.Name = "Show"
	st.Project.SongFilename = "song.wav"
	st.Actors = []project.Actor{
		{
			ID:    "a1",
			Label: "Spot",
			Shapes: []project.Shape{
				{Geometry: geom.Rect{X: 1, Y: 2, Width: 30, Height: 40}, OffColor: "000000", OnColor: "ffcc00"},
				{Geometry: geom.Poly{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}}}, OffColor: "000000", OnColor: "ffcc00"},
			},
			Keyframes:     []timeline.KeyFrame{{Time: 0, Value: 0}, {Time: 3, Value: 1}},
			Interpolation: timeline.ModeLinear,
		},
	}
	st.Backgrounds = []project.Background{
		{ID: "b1", ImageData: []byte{1, 2, 3}, Width: 640, Height: 480, ZIndex: 1},
	}
	return st
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	st := sampleState()

	data, err := Encode(st)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(got, st) {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", got, st)
	}
}

func TestSaveLoad(t *testing.T) {
	st := sampleState()
	path := filepath.Join(t.TempDir(), "show.gris")

	if err := Save(st, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Project.Name != "Show" {
		t.Errorf("Expected project name Show, got %q", got.Project.Name)
	}
}

func TestDecodeLegacyShapeField(t *testing.T) {
	legacy := []byte(`{
		"version": 1,
		"project": {"name": "Old", "songFilename": "", "canvasSize": {"width": 800, "height": 600}},
		"actors": [
			{"id": "a1", "label": "One",
			 "shape": {"geometry": {"type": "rectangle", "x": 1, "y": 2, "width": 3, "height": 4},
			           "offColor": "000000", "onColor": "ffffff"},
			 "keyframes": [], "interpolation": "step"},
			{"id": "a2", "label": "Two", "shape": null, "keyframes": [], "interpolation": "step"}
		],
		"backgrounds": []
	}`)

	st, err := Decode(legacy)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(st.Actors[0].Shapes) != 1 {
		t.Errorf("Expected shape lifted into shapes array, got %d", len(st.Actors[0].Shapes))
	}
	if len(st.Actors[1].Shapes) != 0 {
		t.Errorf("Expected null shape to become empty shapes, got %d", len(st.Actors[1].Shapes))
	}
}

func TestDecodeMissingVersionIsLegacy(t *testing.T) {
	data := []byte(`{
		"project": {"name": "NoVersion", "songFilename": "", "canvasSize": {"width": 1, "height": 1}},
		"actors": [{"id": "a1", "label": "L",
			"shape": {"geometry": {"type": "polygon", "points": [[0,0],[4,0],[2,3]]},
			          "offColor": "000000", "onColor": "ffffff"},
			"keyframes": [], "interpolation": "linear"}]
	}`)

	st, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(st.Actors[0].Shapes) != 1 {
		t.Error("Missing version field should be treated as legacy and migrated")
	}
	if _, ok := st.Actors[0].Shapes[0].Geometry.(geom.Poly); !ok {
		t.Error("Expected arbitrary polygon geometry")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	legacy := []byte(`{
		"version": 1,
		"project": {"name": "Old", "songFilename": "s.mp3", "canvasSize": {"width": 10, "height": 20}},
		"actors": [{"id": "a1", "label": "One",
			"shape": {"geometry": {"type": "rectangle", "x": 0, "y": 0, "width": 5, "height": 5},
			          "offColor": "010203", "onColor": "0a0b0c"},
			"keyframes": [{"time": 1, "value": 0.5}], "interpolation": "linear"}],
		"backgrounds": []
	}`)

	once, err := MigrateBytes(legacy)
	if err != nil {
		t.Fatalf("First migration failed: %v", err)
	}
	twice, err := MigrateBytes(once)
	if err != nil {
		t.Fatalf("Second migration failed: %v", err)
	}
	if !bytes.Equal(once, twice) {
		t.Error("Migration is not idempotent")
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Unparsable JSON", `{not json`},
		{"Future version", `{"version": 99, "project": {}, "actors": []}`},
		{"Unknown polygon type", `{
			"version": 2, "project": {},
			"actors": [{"id": "a", "label": "A",
				"shapes": [{"geometry": {"type": "hexagram"}, "offColor": "", "onColor": ""}],
				"keyframes": []}]}`},
		{"Degenerate polygon", `{
			"version": 2, "project": {},
			"actors": [{"id": "a", "label": "A",
				"shapes": [{"geometry": {"type": "polygon", "points": [[0,0],[1,1]]}, "offColor": "", "onColor": ""}],
				"keyframes": []}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); err == nil {
				t.Error("Expected decode error")
			}
		})
	}
}

func TestDecodeNormalizesKeyframes(t *testing.T) {
	data := []byte(`{
		"version": 2,
		"project": {"name": "N", "songFilename": "", "canvasSize": {"width": 1, "height": 1}},
		"actors": [{"id": "a1", "label": "L", "shapes": [],
			"keyframes": [{"time": 5, "value": 0.5}, {"time": 1, "value": 0.1}, {"time": 5, "value": 0.9}],
			"interpolation": "wobbly"}]
	}`)

	st, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	frames := st.Actors[0].Keyframes
	if len(frames) != 2 {
		t.Fatalf("Expected duplicate times collapsed to 2 keyframes, got %d", len(frames))
	}
	if frames[0].Time != 1 || frames[1].Time != 5 {
		t.Errorf("Expected ascending keyframes, got %v", frames)
	}
	if frames[1].Value != 0.9 {
		t.Errorf("Expected later duplicate to win, got %v", frames[1].Value)
	}
	if st.Actors[0].Interpolation != timeline.ModeStep {
		t.Errorf("Unknown interpolation should default to step, got %q", st.Actors[0].Interpolation)
	}
}

func TestDecodeClampsOutOfRangeKeyframes(t *testing.T) {
	data := []byte(`{
		"version": 2,
		"project": {"name": "N", "songFilename": "", "canvasSize": {"width": 1, "height": 1}},
		"actors": [{"id": "a1", "label": "L", "shapes": [],
			"keyframes": [{"time": -3, "value": 7}, {"time": 4, "value": -0.5}],
			"interpolation": "linear"}]
	}`)

	st, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	frames := st.Actors[0].Keyframes
	if frames[0].Time != 0 || frames[0].Value != 1 {
		t.Errorf("Expected first keyframe clamped to time 0 value 1, got %+v", frames[0])
	}
	if frames[1].Value != 0 {
		t.Errorf("Expected second keyframe value clamped to 0, got %+v", frames[1])
	}
}
