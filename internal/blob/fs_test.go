package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFilesystemPutGetList(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	info, err := s.Put(ctx, "runs/a/trace.csv", strings.NewReader("t,p\n"), "text/csv")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "runs/a/trace.csv" || info.Size != 4 || info.ContentType != "text/csv" {
		t.Errorf("unexpected info %+v", info)
	}

	if _, err := s.Put(ctx, "runs/a/trace.csv", strings.NewReader("x"), ""); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}

	rc, err := s.Get(ctx, "runs/a/trace.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "t,p\n" {
		t.Errorf("get mismatch: %q", data)
	}

	if _, err := s.Put(ctx, "other/b.json", strings.NewReader("{}"), ""); err != nil {
		t.Fatalf("put: %v", err)
	}
	list, err := s.List(ctx, "runs/")
	if err != nil || len(list) != 1 || list[0].Key != "runs/a/trace.csv" {
		t.Errorf("list: %v %+v", err, list)
	}
	all, err := s.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Errorf("list all: %v %+v", err, all)
	}
}

func TestFilesystemRejectsBadKeys(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "  ", "../escape", "/abs/path"} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), ""); err == nil {
			t.Errorf("Put(%q): expected error", key)
		}
	}
}
