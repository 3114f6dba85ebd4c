package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDataDir is used when no data directory is configured.
const DefaultDataDir = "~/.local/share/skate-results"

const periodsFile = "periods.json"

// Periods is the on-disk form of the month cache, keyed by source base URL.
type Periods struct {
	UpdatedAt string         `json:"updated_at"`
	Months    map[string]int `json:"months"`
}

// Storage handles persistence under a data directory
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the expanded data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) periodsPath() string {
	return filepath.Join(s.dataDir, periodsFile)
}

// LoadPeriods loads memoized months from disk. A missing file yields an
// empty set.
func (s *Storage) LoadPeriods() (*Periods, error) {
	data, err := os.ReadFile(s.periodsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Periods{Months: make(map[string]int)}, nil
		}
		return nil, fmt.Errorf("reading periods: %w", err)
	}

	var p Periods
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing periods: %w", err)
	}
	if p.Months == nil {
		p.Months = make(map[string]int)
	}
	return &p, nil
}

// SavePeriods writes months to disk, replacing the previous file.
func (s *Storage) SavePeriods(months map[string]int) error {
	p := Periods{
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Months:    months,
	}
	if p.Months == nil {
		p.Months = make(map[string]int)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding periods: %w", err)
	}

	// Replace atomically.
	tmp := s.periodsPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing periods: %w", err)
	}
	if err := os.Rename(tmp, s.periodsPath()); err != nil {
		return fmt.Errorf("replacing periods: %w", err)
	}

	return nil
}
