package cue

import (
	"encoding/json"
	"fmt"
	"os"
)

// Write writes a cue list to a JSON file.
func Write(cues []Cue, path string) error {
	data, err := json.MarshalIndent(cues, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read reads a cue list from a JSON file.
func Read(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cues []Cue
	if err := json.Unmarshal(data, &cues); err != nil {
		return nil, fmt.Errorf("parse cue list: %w", err)
	}
	return cues, nil
}
