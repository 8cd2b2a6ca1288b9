// Package tombstone persists the first-absent timestamp recorded for each
// candidate-stale file, enforcing the Reconciler's deletion grace period
// across process restarts.
package tombstone

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
)

// FileName is the name of the tombstone journal inside a maps directory.
const FileName = "tombstones.json"

// Journal maps a candidate-stale file name to the UNIX-epoch-seconds
// timestamp at which it was first observed absent from the inventory.
type Journal map[string]int64

// Load reads path if it exists, returning an empty Journal if it does not.
// A present-but-corrupt file is a fatal error: the caller (the Reconciler)
// must abort the pass rather than guess at recovery.
func Load(path string) (Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Journal{}, nil
		}

		return nil, fmt.Errorf("tombstone: reading %s: %w", path, err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("tombstone: decoding %s: %w", path, err)
	}

	if j == nil {
		j = Journal{}
	}

	return j, nil
}

// Save overwrites path with j's JSON encoding, but only if j differs from
// prev — rewriting an unchanged journal would be a gratuitous write.
func Save(path string, prev, j Journal) error {
	if Equal(prev, j) {
		return nil
	}

	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("tombstone: encoding journal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:mnd // standard file permissions
		return fmt.Errorf("tombstone: writing %s: %w", path, err)
	}

	return nil
}

// Equal reports whether two journals have identical content, regardless of
// key order.
func Equal(a, b Journal) bool {
	return maps.Equal(a, b)
}
