// Package datebin assigns stream timestamps to calendar-day buckets.
package datebin

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// KeyLayout is the day-granularity key format. Two-digit fields keep the
// lexicographic order equal to the chronological order.
const KeyLayout = "06/01/02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Binner maps timestamps to date keys in a fixed location.
type Binner struct {
	loc *time.Location
}

// New returns a Binner; a nil location means time.Local.
func New(loc *time.Location) *Binner {
	if loc == nil {
		loc = time.Local
	}
	return &Binner{loc: loc}
}

// Location returns the zone days are cut in.
func (b *Binner) Location() *time.Location {
	return b.loc
}

// Parse reads a stream timestamp.
func (b *Binner) Parse(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, b.loc); err == nil {
			return t.In(b.loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", ts)
}

// Key returns the bucket key for a timestamp.
func (b *Binner) Key(ts string) (string, error) {
	t, err := b.Parse(ts)
	if err != nil {
		return "", err
	}
	return t.Format(KeyLayout), nil
}

// Index is a sorted, deduplicated list of date keys with dense positions.
type Index struct {
	Keys []string
	pos  map[string]int
}

// NewIndex sorts and deduplicates keys.
func NewIndex(keys []string) Index {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, k)
	}
	sort.Strings(unique)
	pos := make(map[string]int, len(unique))
	for i, k := range unique {
		pos[k] = i
	}
	return Index{Keys: unique, pos: pos}
}

// Position returns the dense index of a key.
func (ix Index) Position(key string) (int, bool) {
	i, ok := ix.pos[key]
	return i, ok
}

// Len returns the number of distinct dates.
func (ix Index) Len() int {
	return len(ix.Keys)
}
