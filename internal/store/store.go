// Package store persists the monitor's two state files: the set of already
// notified announcement ids (seen.json) and the per-day accumulation used for
// the daily summary (daily_summary.json).
//
// Both files are human-readable indented JSON. Reads degrade gracefully:
// a missing or corrupt file falls back to empty state with a warning, it never
// fails the caller. Writes go through a temp file + rename so a crash mid-write
// can not corrupt a subsequent read.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func writeJSONFile(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}
