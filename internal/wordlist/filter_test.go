package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTermFilter(t *testing.T) {
	filter := TermFilter(NewSet([]string{"The", " and "}), false)
	if !filter("hello") {
		t.Fatalf("expected hello to pass")
	}
	for _, term := range []string{"the", "THE", "and", "@someone", ""} {
		if filter(term) {
			t.Fatalf("expected %q to be rejected", term)
		}
	}
	if !TermFilter(nil, true)("@someone") {
		t.Fatalf("expected mentions to pass when kept")
	}
}

func TestResolveList(t *testing.T) {
	set, err := Resolve("lol, KEKW,,")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(set) != 2 || !set.Has("kekw") || !set.Has("LOL") {
		t.Fatalf("unexpected set %v", set)
	}
	if set, _ := Resolve(""); len(set) != 0 {
		t.Fatalf("expected empty set")
	}
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	if err := os.WriteFile(path, []byte("# stop words\nthe\n\nA\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	set, err := Resolve(FilePrefix + path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(set) != 2 || !set.Has("a") || set.Has("# stop words") {
		t.Fatalf("unexpected set %v", set)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Resolve(FilePrefix + empty); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
