package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/burnsim/internal/ballistics"
	"github.com/san-kum/burnsim/internal/motor"
)

const (
	DefaultDt          = 0.01
	DefaultDensity     = 0.0614
	DefaultCorrelation = "stock"
	DefaultCf          = 1.4
	DefaultStoreDriver = "fs"
	DefaultStorePath   = "runs"
	DefaultArchivePath = "archive"
)

var ErrInvalid = errors.New("burnsim: invalid config")

type Config struct {
	Name       string           `yaml:"name"`
	Run        RunConfig        `yaml:"run"`
	Propellant PropellantConfig `yaml:"propellant"`
	Grains     []motor.Spec     `yaml:"grains"`
	Nozzle     NozzleConfig     `yaml:"nozzle"`
	Case       CaseConfig       `yaml:"case"`
	Metrics    []string         `yaml:"metrics,omitempty"`
	Storage    StorageConfig    `yaml:"storage"`
	Archive    ArchiveConfig    `yaml:"archive"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	MaxSteps int     `yaml:"max_steps"`
	Parallel bool    `yaml:"parallel"`
}

// PropellantConfig selects a burn-rate correlation by name. Params override
// the named fit's coefficients (pressure_slope, pressure_intercept,
// rate_slope, rate_intercept, min_kn, max_kn).
type PropellantConfig struct {
	Density     float64            `yaml:"density"`
	Correlation string             `yaml:"correlation"`
	Params      map[string]float64 `yaml:"params,omitempty"`
}

type NozzleConfig struct {
	Throat   float64 `yaml:"throat"`
	Entrance float64 `yaml:"entrance"`
	Exit     float64 `yaml:"exit"`
	Cf       float64 `yaml:"cf"`
}

type CaseConfig struct {
	Mass     float64 `yaml:"mass"`
	Diameter float64 `yaml:"diameter"`
	Length   float64 `yaml:"length"`
}

// StorageConfig picks the run catalog: "fs" keeps one directory per run,
// "sqlite" keeps a single database file at Path.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// ArchiveConfig is where `push` copies stored runs: a local directory or an
// S3 bucket.
type ArchiveConfig struct {
	Driver       string `yaml:"driver"`
	Path         string `yaml:"path,omitempty"`
	Bucket       string `yaml:"bucket,omitempty"`
	Prefix       string `yaml:"prefix,omitempty"`
	Region       string `yaml:"region,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	UsePathStyle bool   `yaml:"use_path_style,omitempty"`
}

// DefaultConfig is a single BATES grain in a 38 mm class case.
func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		Run: RunConfig{
			Dt:       DefaultDt,
			MaxSteps: ballistics.DefaultMaxSteps,
		},
		Propellant: PropellantConfig{
			Density:     DefaultDensity,
			Correlation: DefaultCorrelation,
		},
		Grains: []motor.Spec{
			{Kind: motor.KindCylindrical, Length: 4, OuterDiameter: 1.5, InnerDiameter: 0.5, BurningEnds: 2},
		},
		Nozzle: NozzleConfig{Throat: 0.25, Entrance: 1.0, Exit: 0.6, Cf: DefaultCf},
		Case:   CaseConfig{Mass: 0.5, Diameter: 1.75, Length: 6},
		Storage: StorageConfig{
			Driver: DefaultStoreDriver,
			Path:   DefaultStorePath,
		},
		Archive: ArchiveConfig{
			Driver: "fs",
			Path:   DefaultArchivePath,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	// a file that lists grains replaces the default grain rather than
	// merging into it
	cfg.Grains = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Grains) == 0 {
		cfg.Grains = DefaultConfig().Grains
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks what can be checked without building hardware. Geometry
// limits are enforced by the motor constructors.
func (c *Config) Validate() error {
	if !(c.Run.Dt > 0) {
		return fmt.Errorf("%w: run.dt must be positive, got %g", ErrInvalid, c.Run.Dt)
	}
	if c.Run.MaxSteps < 0 {
		return fmt.Errorf("%w: run.max_steps must not be negative", ErrInvalid)
	}
	if !(c.Propellant.Density > 0) {
		return fmt.Errorf("%w: propellant.density must be positive, got %g", ErrInvalid, c.Propellant.Density)
	}
	if len(c.Grains) == 0 {
		return fmt.Errorf("%w: at least one grain is required", ErrInvalid)
	}
	switch c.Storage.Driver {
	case "fs", "sqlite":
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalid, c.Storage.Driver)
	}
	switch c.Archive.Driver {
	case "fs", "":
	case "s3":
		if c.Archive.Bucket == "" {
			return fmt.Errorf("%w: archive.bucket is required for s3", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown archive driver %q", ErrInvalid, c.Archive.Driver)
	}
	return nil
}

// SimConfig converts the run and propellant sections into simulator input.
func (c *Config) SimConfig() ballistics.Config {
	return ballistics.Config{
		Dt:       c.Run.Dt,
		Density:  c.Propellant.Density,
		MaxSteps: c.Run.MaxSteps,
		Parallel: c.Run.Parallel,
	}
}

func (c *Config) GetCorrelationParams() map[string]float64 {
	params := make(map[string]float64, len(c.Propellant.Params))
	for k, v := range c.Propellant.Params {
		params[k] = v
	}
	return params
}

// Clone returns a deep copy so presets can be overlaid without sharing
// slices.
func (c *Config) Clone() *Config {
	out := *c
	out.Grains = append([]motor.Spec(nil), c.Grains...)
	out.Metrics = append([]string(nil), c.Metrics...)
	if c.Propellant.Params != nil {
		out.Propellant.Params = c.GetCorrelationParams()
	}
	return &out
}
