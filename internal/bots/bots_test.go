package bots

import (
	"testing"

	"github.com/verte-zerg/chatcloud/internal/model"
)

func TestIsBotSeededNames(t *testing.T) {
	c := New()
	if !c.IsBot("nightbot", nil) {
		t.Fatalf("expected nightbot to be a bot")
	}
	if c.IsBot("viewer", nil) {
		t.Fatalf("expected viewer not to be a bot")
	}
}

func TestIsBotBadgeMemoized(t *testing.T) {
	c := New()
	badges := []model.Badge{{SetID: "subscriber"}, {SetID: BadgeSetID}}
	if c.Known("helper") {
		t.Fatalf("helper should not be known before detection")
	}
	if !c.IsBot("helper", badges) {
		t.Fatalf("expected bot badge to classify helper")
	}
	if !c.IsBot("helper", nil) {
		t.Fatalf("expected memoized bot without badges")
	}
}

func TestClassifiersDoNotShareState(t *testing.T) {
	a := New()
	a.IsBot("helper", []model.Badge{{SetID: BadgeSetID}})
	b := New()
	if b.Known("helper") {
		t.Fatalf("a fresh classifier must not inherit detections")
	}
}

func TestNamesSorted(t *testing.T) {
	names := New("zzz_bot").Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	if names[len(names)-1] != "zzz_bot" {
		t.Fatalf("expected extra name to be included: %v", names)
	}
}
