package storage

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/burnsim/internal/ballistics"
)

var ErrNotFound = errors.New("burnsim: run not found")

// Store is a catalog of finished runs.
type Store interface {
	Init() error
	Save(meta RunMetadata, result *ballistics.Result) (string, error)
	List() ([]RunMetadata, error)
	Load(runID string) (*RunMetadata, error)
	LoadTrace(runID string) ([]ballistics.Snapshot, error)
	Close() error
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Timestamp    time.Time          `json:"timestamp"`
	Dt           float64            `json:"dt"`
	Density      float64            `json:"density"`
	Grains       int                `json:"grains"`
	Correlation  string             `json:"correlation"`
	Steps        int                `json:"steps"`
	Warnings     int                `json:"warnings"`
	BurnoutTimes []float64          `json:"burnout_times"`
	Metrics      map[string]float64 `json:"metrics"`
	Summary      ballistics.Summary `json:"summary"`
}

// Open returns the catalog for driver ("fs" or "sqlite") rooted at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "fs", "":
		return NewFS(path), nil
	case "sqlite":
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

// complete fills the fields of meta that come from the result itself.
func complete(meta RunMetadata, result *ballistics.Result) RunMetadata {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	meta.Dt = result.Dt
	meta.Density = result.Density
	meta.Grains = len(result.BurnoutTimes)
	meta.Steps = result.StepsTaken
	meta.Warnings = len(result.Warnings)
	meta.BurnoutTimes = nanToNegative(result.BurnoutTimes)
	meta.Metrics = result.Metrics
	meta.Summary = ballistics.Summarize(result)
	return meta
}

// nanToNegative replaces unset burnout times, which JSON cannot carry, with -1.
func nanToNegative(times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		if math.IsNaN(t) {
			t = -1
		}
		out[i] = t
	}
	return out
}
