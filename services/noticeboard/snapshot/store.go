// Package snapshot owns the on-disk JSON snapshot files written by
// the scraper and read back by the serving layer. Each section has
// one canonical file plus a single rolling `.backup` generation.
package snapshot

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"time"
)

const (
	// serving layer flags data older than this as stale
	StaleAfter = 2 * time.Hour
	// health checks flag data older than this as unhealthy
	UnhealthyAfter = 4 * time.Hour
)

// AgeUnknown is reported for snapshot files that do not exist yet.
const AgeUnknown = time.Duration(math.MaxInt64)

const BackupSuffix = ".backup"

type Store struct {
	dir string
}

func NewStore(dir string) Store {
	return Store{dir: dir}
}

func (s Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save writes v as the canonical snapshot for name, first moving any
// existing snapshot to its `.backup` sibling. Only one backup
// generation is kept. A missing prior snapshot is not an error and
// produces no backup.
func (s Store) Save(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	path := s.Path(name)
	existing, err := os.ReadFile(path)
	if err == nil {
		if err := os.WriteFile(path+BackupSuffix, existing, 0644); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s Store) Load(name string, v any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Age returns the time elapsed since the snapshot was last written,
// or AgeUnknown when the file does not exist. Staleness policy is the
// caller's business.
func (s Store) Age(name string) time.Duration {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return AgeUnknown
	}
	return time.Since(info.ModTime())
}
