package services

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"season-dashboard/internal/models"
)

const snapshotVersion = "v1"

// snapshot is the parsed dataset persisted between restarts.
type snapshot struct {
	Source    string
	CreatedAt time.Time
	Records   []models.Record
}

func snapshotPath(dir, source string) string {
	return filepath.Join(dir, fmt.Sprintf("%016x_%s.gob", xxhash.Sum64String(source), snapshotVersion))
}

func saveSnapshot(dir, source string, records []models.Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Replaced atomically via rename.
	tmp, err := os.CreateTemp(dir, "snapshot-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	snap := snapshot{Source: source, CreatedAt: time.Now(), Records: records}
	if err := gob.NewEncoder(tmp).Encode(&snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), snapshotPath(dir, source))
}

// loadSnapshot returns the snapshot for source if it is newer than the CSV.
func loadSnapshot(dir, source string) ([]models.Record, error) {
	file, err := os.Open(snapshotPath(dir, source))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if snap.Source != source {
		return nil, fmt.Errorf("snapshot belongs to %s", snap.Source)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !info.ModTime().Before(snap.CreatedAt) {
		return nil, fmt.Errorf("snapshot is older than %s", source)
	}
	if len(snap.Records) == 0 {
		return nil, fmt.Errorf("snapshot is empty")
	}

	return snap.Records, nil
}
