package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/swim-archive/internal/harvest"
)

// DefaultCSVFile is the export file name used when none is given.
const DefaultCSVFile = "swimming_competitions.csv"

const snapshotFile = "snapshot.json"

// utf8BOM lets spreadsheet applications detect the encoding of the export.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoData is returned when asked to export an empty harvest.
var ErrNoData = errors.New("no data to save")

// Snapshot is the stored result of one harvest run.
type Snapshot struct {
	UpdatedAt    string                `json:"updated_at"`
	Competitions []harvest.Competition `json:"competitions"`
}

// Storage handles persistence of harvest results
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

// Dir returns the resolved data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// SaveCompetitionsCSV writes comps to filename inside the data directory and
// returns the full path written. An empty filename means DefaultCSVFile.
func (s *Storage) SaveCompetitionsCSV(comps []harvest.Competition, filename string) (string, error) {
	if len(comps) == 0 {
		return "", ErrNoData
	}
	if filename == "" {
		filename = DefaultCSVFile
	}
	path := filepath.Join(s.dataDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("writing csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"year", "competition_name", "download_link"}); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, c := range comps {
		if err := w.Write([]string{c.Year, c.Name, c.DownloadLink}); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("writing csv file: %w", err)
	}

	return path, f.Close()
}

// LoadSnapshot loads the previous harvest from disk
func (s *Storage) LoadSnapshot() (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			// No previous harvest
			return &Snapshot{Competitions: []harvest.Competition{}}, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Competitions == nil {
		snapshot.Competitions = []harvest.Competition{}
	}

	return &snapshot, nil
}

// SaveSnapshot replaces the stored harvest with comps
func (s *Storage) SaveSnapshot(comps []harvest.Competition) error {
	snapshot := Snapshot{
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
		Competitions: comps,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dataDir, snapshotFile), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// NewSince returns the competitions in current whose download link is not in
// the snapshot, in their original order.
func (snap *Snapshot) NewSince(current []harvest.Competition) []harvest.Competition {
	known := make(map[string]bool, len(snap.Competitions))
	for _, c := range snap.Competitions {
		known[c.DownloadLink] = true
	}

	fresh := make([]harvest.Competition, 0)
	for _, c := range current {
		if !known[c.DownloadLink] {
			fresh = append(fresh, c)
		}
	}
	return fresh
}
