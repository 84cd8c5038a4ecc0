package fileutil_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"mixprep/internal/fileutil"
)

func TestWriteAtomicCreatesParents(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	if err := fileutil.WriteAtomic(target, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestWriteAtomicFuncLeavesOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "mix.wav")
	if err := os.WriteFile(target, []byte("original"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	boom := errors.New("boom")
	err := fileutil.WriteAtomicFunc(target, 0o644, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "original" {
		t.Fatalf("original overwritten: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}

func TestExistsClassifiesPaths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("payload"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !fileutil.Exists(file) || fileutil.DirExists(file) {
		t.Fatal("file classification wrong")
	}
	if fileutil.Exists(dir) || !fileutil.DirExists(dir) {
		t.Fatal("directory classification wrong")
	}
	if fileutil.Exists(filepath.Join(dir, "absent")) {
		t.Fatal("absent path reported as existing")
	}
}
