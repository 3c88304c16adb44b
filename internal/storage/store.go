// Package storage persists simulation runs as a directory per run holding
// metadata.json and one csv per signal.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/telesim/internal/array"
	"github.com/san-kum/telesim/internal/tod"
)

var ErrUnknownSignal = errors.New("storage: signal not stored in run")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Instrument  string             `json:"instrument"`
	ScanPattern string             `json:"scan_pattern"`
	Site        string             `json:"site"`
	Generator   string             `json:"generator"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	NDets       int                `json:"n_dets"`
	NSamples    int                `json:"n_samples"`
	Abscal      float64            `json:"abscal"`
	Signals     []string           `json:"signals"`
	Metrics     map[string]float64 `json:"metrics"`
	Warnings    []string           `json:"warnings,omitempty"`
	Dets        array.Detectors    `json:"dets"`
}

// Save writes a run and returns its id. Shape fields and the detector table
// are taken from t.
func (s *Store) Save(meta RunMetadata, t *tod.TOD) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Instrument, uuid.NewString())
	meta.Timestamp = time.Now().UTC()
	meta.NDets = t.NDets()
	meta.NSamples = t.NSamples()
	meta.Abscal = t.Abscal
	meta.Signals = t.Signals()
	meta.Dets = t.Dets

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	for _, signal := range meta.Signals {
		if err := writeSignal(filepath.Join(runDir, signal+".csv"), t.Coords.Time, t.Data[signal]); err != nil {
			return "", fmt.Errorf("storage: signal %q: %w", signal, err)
		}
	}
	return meta.ID, nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSignal lays a [detector][sample] signal out one sample per row.
func writeSignal(path string, times []float64, rows [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for i := range rows {
		header = append(header, fmt.Sprintf("d%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(rows)+1)
	for j, t := range times {
		record[0] = strconv.FormatFloat(t, 'f', 6, 64)
		for i, row := range rows {
			record[i+1] = strconv.FormatFloat(row[j], 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first. Unreadable run directories are
// skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSignal reads one signal back as [detector][sample] plus its times.
func (s *Store) LoadSignal(runID, signal string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, signal+".csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s/%s", ErrUnknownSignal, runID, signal)
		}
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return [][]float64{}, []float64{}, nil
	}

	nDets := len(records[0]) - 1
	rows := make([][]float64, nDets)
	times := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: time %q: %w", record[0], err)
		}
		times = append(times, t)
		for i := 0; i < nDets; i++ {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: sample %q: %w", record[i+1], err)
			}
			rows[i] = append(rows[i], v)
		}
	}
	return rows, times, nil
}
