package core

// loader.go is the bulk load path: raw CSV file -> Normalize -> ReplaceAll.
// It runs once at startup, before the HTTP listener accepts requests, and is
// the only path that resets id assignment back to a dense 1..N sequence.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// LoadFromFile replaces the store's contents with the normalized rows of
// the CSV at path and returns how many records were loaded.
//
// A missing file is not an error: the store is emptied and the service runs
// degraded until the next reload. An unreadable file is returned as an
// error for the caller to report; the store is left untouched so a decision
// about degraded startup stays with the caller.
func LoadFromFile(ctx context.Context, store Store, path string) (int, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("source file not found, starting with empty store", "path", path)
		if err := store.ReplaceAll(ctx, nil); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open source %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return 0, fmt.Errorf("read source %s: %w", path, err)
	}

	records := Normalize(rows)
	if err := store.ReplaceAll(ctx, records); err != nil {
		return 0, err
	}

	if dropped := len(rows) - len(records); dropped > 0 {
		slog.Info("dropped rows without customer_id", "count", dropped)
	}
	return len(records), nil
}
