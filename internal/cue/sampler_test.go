package cue

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ivlev/gris/internal/project"
	"github.com/ivlev/gris/internal/timeline"
)

func linearActor(label string, frames ...timeline.KeyFrame) project.Actor {
	return project.Actor{
		ID:            label + "-id",
		Label:         label,
		Keyframes:     frames,
		Interpolation: timeline.ModeLinear,
	}
}

func TestGenerateSampled(t *testing.T) {
	actors := []project.Actor{
		linearActor("A", timeline.KeyFrame{Time: 0, Value: 0}, timeline.KeyFrame{Time: 1, Value: 1}),
	}

	got := Generate(actors, 1.0, 0.5)
	want := []Cue{
		{T: 0, ID: "A", State: 0},
		{T: 0.5, ID: "A", State: 0.5},
		{T: 1, ID: "A", State: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGenerateOrdering(t *testing.T) {
	actors := []project.Actor{
		linearActor("B", timeline.KeyFrame{Time: 0, Value: 0.5}),
		linearActor("A", timeline.KeyFrame{Time: 0, Value: 0.25}),
	}

	got := Generate(actors, 1.0, 1.0)
	// Primary key t ascending, secondary key id lexicographic
	want := []Cue{
		{T: 0, ID: "A", State: 0.25},
		{T: 0, ID: "B", State: 0.5},
		{T: 1, ID: "A", State: 0.25},
		{T: 1, ID: "B", State: 0.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGenerateZeroDuration(t *testing.T) {
	actors := []project.Actor{
		linearActor("A",
			timeline.KeyFrame{Time: 2, Value: 0.4},
			timeline.KeyFrame{Time: 7, Value: 0.9},
		),
	}

	got := Generate(actors, 0, 0.5)
	// One cue at t=0 (held first value) plus one per keyframe, no sampling
	want := []Cue{
		{T: 0, ID: "A", State: 0.4},
		{T: 2, ID: "A", State: 0.4},
		{T: 7, ID: "A", State: 0.9},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGenerateRoundsToThreeDecimals(t *testing.T) {
	actors := []project.Actor{
		linearActor("A", timeline.KeyFrame{Time: 0, Value: 0}, timeline.KeyFrame{Time: 1, Value: 1}),
	}

	got := Generate(actors, 1.0, 1.0/3.0)
	for _, c := range got {
		if math.Abs(c.T*1000-math.Round(c.T*1000)) > 1e-6 {
			t.Errorf("Time %v not rounded to 3 decimals", c.T)
		}
		if math.Abs(c.State*1000-math.Round(c.State*1000)) > 1e-6 {
			t.Errorf("State %v not rounded to 3 decimals", c.State)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	actors := []project.Actor{
		linearActor("A", timeline.KeyFrame{Time: 0, Value: 0}, timeline.KeyFrame{Time: 10, Value: 1}),
		linearActor("B", timeline.KeyFrame{Time: 5, Value: 0.5}),
	}

	first := Generate(actors, 10, 0.25)
	for i := 0; i < 5; i++ {
		if again := Generate(actors, 10, 0.25); !reflect.DeepEqual(first, again) {
			t.Fatal("Generate is not deterministic")
		}
	}
}

func TestGenerateEmptyActors(t *testing.T) {
	if got := Generate(nil, 10, 0.5); len(got) != 0 {
		t.Errorf("Expected no cues for no actors, got %v", got)
	}
}

func TestWriteRead(t *testing.T) {
	cues := []Cue{
		{T: 0, ID: "A", State: 0},
		{T: 0.5, ID: "A", State: 0.5},
	}

	path := filepath.Join(t.TempDir(), "cues.json")
	if err := Write(cues, path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(got, cues) {
		t.Errorf("Round trip mismatch: %v != %v", got, cues)
	}
}

func TestReadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	if _, err := Read(path); err == nil {
		t.Error("Expected error for malformed cue file")
	}
}
