package grisfile

import "fmt"

// upgrades maps a schema version to the pure function that lifts a
// payload to the next version. Migration walks the chain front to back;
// adding a version means adding one entry here.
var upgrades = map[int]func(*wireFile){
	VersionLegacy: upgradeV1toV2,
}

// migrate normalizes a payload of any prior schema version to the
// current one in place. A payload already at the current version passes
// through untouched, so migration is idempotent.
func migrate(wf *wireFile) error {
	if wf.Version == 0 {
		// Files predating the version field are legacy by definition.
		wf.Version = VersionLegacy
	}
	if wf.Version > VersionCurrent {
		return fmt.Errorf("project file version %d is newer than supported %d", wf.Version, VersionCurrent)
	}
	for wf.Version < VersionCurrent {
		up, ok := upgrades[wf.Version]
		if !ok {
			return fmt.Errorf("no upgrade path from version %d", wf.Version)
		}
		up(wf)
		wf.Version++
	}
	return nil
}

// upgradeV1toV2 lifts the single nullable per-actor shape into the
// shapes array: shape -> [shape], null -> [].
func upgradeV1toV2(wf *wireFile) {
	for i := range wf.Actors {
		a := &wf.Actors[i]
		if a.Shape != nil {
			a.Shapes = []wireShape{*a.Shape}
			a.Shape = nil
		}
	}
}

// MigrateBytes re-encodes an arbitrary payload at the current schema
// version. Useful for normalizing files on disk without loading them
// into a store.
func MigrateBytes(data []byte) ([]byte, error) {
	st, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Encode(st)
}
