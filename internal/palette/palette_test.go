package palette

import "testing"

func TestGetDefault(t *testing.T) {
	p, err := Get(Default)
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if len(p) < 2 {
		t.Fatalf("expected a usable palette, got %v", p)
	}
	if p.Color(-3) != p[0] || p.Color(len(p)+5) != p[len(p)-1] {
		t.Fatalf("expected indexes to clamp")
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("nope"); err == nil {
		t.Fatalf("expected error for unknown palette")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Fatalf("expected 5 palettes, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
