package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestUniqueScanRoots(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	nested := filepath.Join(base, "src")
	other := filepath.Join(filepath.Dir(base), filepath.Base(base)+"-other")

	got := UniqueScanRoots([]string{nested, base, " ", base + string(filepath.Separator), other})
	if len(got) != 2 {
		t.Fatalf("expected 2 roots, got %v", got)
	}
	if got[0] != base || got[1] != other {
		t.Fatalf("unexpected roots %v", got)
	}
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	a := ContentHash([]byte("int a;"))
	b := ContentHash([]byte("int a;"))
	c := ContentHash([]byte("int b;"))
	if a != b {
		t.Fatal("expected equal content to hash equally")
	}
	if a == c {
		t.Fatal("expected different content to hash differently")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	got := SortedStringKeys(map[string]int{"b": 1, "a": 2, "c": 3})
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")
	if err := WriteFileWithDirs(path, []byte("ok"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "ok" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestResolveUnder(t *testing.T) {
	t.Parallel()

	abs := filepath.Join(t.TempDir(), "x.sarif")
	if got := ResolveUnder("/root", abs); got != abs {
		t.Fatalf("absolute path changed: %q", got)
	}
	if got := ResolveUnder("out", "x.sarif"); got != filepath.Join("out", "x.sarif") {
		t.Fatalf("unexpected join %q", got)
	}
	if got := ResolveUnder("out", ""); got != "" {
		t.Fatalf("empty path should stay empty, got %q", got)
	}
}
