package blob

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/burnsim/internal/config"
	"github.com/san-kum/burnsim/internal/experiment"
	"github.com/san-kum/burnsim/internal/storage"
)

func storedRun(t *testing.T) (storage.Store, string) {
	t.Helper()
	result, err := experiment.New(config.DefaultConfig(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	runs := storage.NewFS(t.TempDir())
	if err := runs.Init(); err != nil {
		t.Fatal(err)
	}
	id, err := runs.Save(storage.RunMetadata{Name: "push"}, result)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return runs, id
}

func TestPushToFilesystem(t *testing.T) {
	runs, id := storedRun(t)
	archive, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	infos, err := Push(context.Background(), runs, archive, "motors", id)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "motors/"+id+"/metadata.json" {
		t.Errorf("unexpected infos %+v", infos)
	}

	if _, err := Push(context.Background(), runs, archive, "motors", id); !errors.Is(err, ErrExists) {
		t.Errorf("second push: expected ErrExists, got %v", err)
	}
}

func TestPushToS3(t *testing.T) {
	runs, id := storedRun(t)
	archive, _ := newFakeS3(t)

	if _, err := Push(context.Background(), runs, archive, "", id); err != nil {
		t.Fatalf("push: %v", err)
	}

	rc, err := archive.Get(context.Background(), id+"/trace.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	trace, err := storage.ReadCSV(rc)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	want, _ := runs.LoadTrace(id)
	if len(trace) != len(want) {
		t.Errorf("archived %d rows, stored %d", len(trace), len(want))
	}
}

func TestPushMissingRun(t *testing.T) {
	runs := storage.NewFS(t.TempDir())
	archive, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Push(context.Background(), runs, archive, "", "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenArchive(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), config.ArchiveConfig{Driver: "fs", Path: dir})
	if err != nil || s.Driver() != DriverFilesystem {
		t.Errorf("fs: %v %v", s, err)
	}
	if _, err := Open(context.Background(), config.ArchiveConfig{Driver: "ftp"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
