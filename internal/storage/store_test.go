package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/burnsim/internal/ballistics"
)

func TestFSSaveLoad(t *testing.T) {
	st := NewFS(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := runMotor(t, 2)
	runID, err := st.Save(RunMetadata{Name: "test", Correlation: "stock"}, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" || meta.Correlation != "stock" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Grains != 2 || meta.Steps != result.StepsTaken {
		t.Errorf("grains %d steps %d, want 2 and %d", meta.Grains, meta.Steps, result.StepsTaken)
	}
	if meta.Summary.Classification == "" {
		t.Error("summary not stored")
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(trace) != len(result.Snapshots) {
		t.Fatalf("expected %d rows, got %d", len(result.Snapshots), len(trace))
	}
	want := result.Snapshots[len(result.Snapshots)/2]
	got := trace[len(trace)/2]
	if got.Step != want.Step || got.ChamberPressure != want.ChamberPressure || got.MassFlux[1] != want.MassFlux[1] || got.Thrust != want.Thrust {
		t.Errorf("trace row mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestFSList(t *testing.T) {
	dir := t.TempDir()
	st := NewFS(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	result := runMotor(t, 1)
	older, err := st.Save(RunMetadata{Name: "old", Timestamp: time.Now().Add(-time.Hour)}, result)
	if err != nil {
		t.Fatal(err)
	}
	newer, err := st.Save(RunMetadata{Name: "new"}, result)
	if err != nil {
		t.Fatal(err)
	}

	// junk directories are skipped
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != newer || runs[1].ID != older {
		t.Errorf("unexpected listing %+v", runs)
	}
}

func TestFSListMissingDir(t *testing.T) {
	runs, err := NewFS(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty listing, got %v, %v", runs, err)
	}
}

func taggedResult() *ballistics.Result {
	return &ballistics.Result{
		Dt:           0.01,
		Density:      0.06,
		BurnoutTimes: []float64{0.01},
		StepsTaken:   1,
		Snapshots: []ballistics.Snapshot{{
			Step:            1,
			Time:            0.01,
			ChamberPressure: -12.5,
			Kn:              80,
			MassGenerated:   []float64{0.001},
			PortToThroat:    []float64{4},
			MassFlux:        []float64{0.5},
			Burning:         []bool{false},
			NonPhysical:     true,
		}},
	}
}

func TestFSKeepsSnapshotTags(t *testing.T) {
	st := NewFS(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(RunMetadata{Name: "tags"}, taggedResult())
	if err != nil {
		t.Fatal(err)
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(trace) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(trace))
	}
	got := trace[0]
	if !got.NonPhysical {
		t.Error("NonPhysical tag lost")
	}
	if len(got.Burning) != 1 || got.Burning[0] {
		t.Errorf("Burning = %v, want [false]", got.Burning)
	}
}

func TestFSLoadTraceFallsBackToCSV(t *testing.T) {
	dir := t.TempDir()
	st := NewFS(dir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := st.Save(RunMetadata{Name: "legacy"}, taggedResult())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, runID, snapshotsFile)); err != nil {
		t.Fatal(err)
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(trace) != 1 || trace[0].ChamberPressure != -12.5 {
		t.Errorf("unexpected CSV trace %+v", trace)
	}
}

func TestFSNotFound(t *testing.T) {
	st := NewFS(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load: expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadTrace("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadTrace: expected ErrNotFound, got %v", err)
	}
}

func TestCSVHeader(t *testing.T) {
	header := CSVHeader(2)
	want := []string{
		"Time (seconds)", "Pressure (psi)", "Mass Generated Overall (lbm)",
		"Mass Generated by grain: 0", "Mass Generated by grain: 1",
		"Port to Throat by port: 0", "Port to Throat by port: 1",
		"Mass Flow per grain: 0", "Mass Flow per grain: 1",
		"Burn Area (in^2)", "Burn Rate (in /sec)", "KN ()", "L Star (in)",
		"Mass of the System (lbm)", "Center of Gravity (inches)", "Thrust (lbf)",
	}
	if strings.Join(header, "|") != strings.Join(want, "|") {
		t.Errorf("header mismatch:\n got %q\nwant %q", header, want)
	}
}

func TestReadCSVRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"short header", "a,b,c\n"},
		{"not a number", strings.Join(CSVHeader(0), ",") + "\n1,2,3,4,5,6,7,8,9,x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteCSVGrainMismatch(t *testing.T) {
	result := runMotor(t, 2)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, result.Snapshots, 3); err == nil {
		t.Error("expected grain count mismatch error")
	}
}

func TestExportJSON(t *testing.T) {
	result := runMotor(t, 1)
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "abc", Name: "exp"}, result.Snapshots); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"id": "abc"`, `"chamber_pressure"`, `"steps": `} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %s", want)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("expected error for unknown driver")
	}
}
