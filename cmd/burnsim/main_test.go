package main

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/burnsim/internal/config"
	"github.com/san-kum/burnsim/internal/storage"
)

func TestLoadConfigPreset(t *testing.T) {
	defer func() { preset, configFile, storeDriver = "", "", "" }()

	preset = "bates/triple"
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Grains) != 3 {
		t.Errorf("grains = %d, want 3", len(cfg.Grains))
	}

	for _, bad := range []string{"bates", "bates/none", "nope/single"} {
		preset = bad
		if _, err := loadConfig(); err == nil {
			t.Errorf("preset %q: expected error", bad)
		}
	}
}

func TestLoadConfigPresetAndFileExclusive(t *testing.T) {
	defer func() { preset, configFile = "", "" }()

	path := filepath.Join(t.TempDir(), "motor.yaml")
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	preset, configFile = "bates/triple", path
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected an error when both --preset and --config are set")
	}

	preset = ""
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Grains) != 1 {
		t.Errorf("grains = %d, want 1 from the file", len(cfg.Grains))
	}
}

func TestOpenStoreSQLitePath(t *testing.T) {
	defer func() { dataDir, storeDriver = ".burnsim", "" }()

	dataDir = t.TempDir()
	storeDriver = "sqlite"
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}

	st, err := openStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	db, ok := st.(*storage.SQLite)
	if !ok {
		t.Fatalf("store is %T, want *storage.SQLite", st)
	}
	if want := filepath.Join(dataDir, "runs.db"); db.Path() != want {
		t.Errorf("path = %s, want %s", db.Path(), want)
	}
}

func TestParseRange(t *testing.T) {
	name, values, err := parseRange("throat=0.2:0.4:3")
	if err != nil {
		t.Fatal(err)
	}
	if name != "throat" || len(values) != 3 || values[0] != 0.2 || values[2] != 0.4 {
		t.Errorf("got %s %v", name, values)
	}

	for _, bad := range []string{"throat", "throat=1:2", "throat=a:2:3", "throat=1:2:0"} {
		if _, _, err := parseRange(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
