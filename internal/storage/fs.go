package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/san-kum/burnsim/internal/ballistics"
)

const (
	metadataFile  = "metadata.json"
	traceFile     = "trace.csv"
	snapshotsFile = "trace.json"
)

// FS keeps one directory per run holding metadata.json, trace.csv and
// trace.json. The CSV is the readable export; trace.json keeps the full
// snapshots, including burning flags and calibration tags.
type FS struct {
	baseDir string
}

func NewFS(baseDir string) *FS {
	return &FS{baseDir: baseDir}
}

func (s *FS) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FS) Close() error { return nil }

func (s *FS) Save(meta RunMetadata, result *ballistics.Result) (string, error) {
	meta = complete(meta, result)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Snapshots, meta.Grains); err != nil {
		return "", err
	}

	snapshots, err := json.Marshal(result.Snapshots)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, snapshotsFile), snapshots, 0644); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
func (s *FS) List() ([]RunMetadata, error) {
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

func (s *FS) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads trace.json, falling back to the CSV for runs stored
// without it.
func (s *FS) LoadTrace(runID string) ([]ballistics.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, snapshotsFile))
	if err == nil {
		var snapshots []ballistics.Snapshot
		if err := json.Unmarshal(data, &snapshots); err != nil {
			return nil, fmt.Errorf("decode trace: %w", err)
		}
		return snapshots, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}
