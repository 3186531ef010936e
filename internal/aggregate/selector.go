// Package aggregate turns chat records into date-indexed series and cross-tables.
package aggregate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/chatcloud/internal/datebin"
	"github.com/verte-zerg/chatcloud/internal/model"
)

// ErrInvalidSelector is returned for streams selectors that cannot be parsed.
var ErrInvalidSelector = errors.New("invalid streams selector")

const selectorDateLayout = "20060102"

// SelectorMode picks how records are chosen before aggregation.
type SelectorMode int

const (
	// SelectAll keeps every record.
	SelectAll SelectorMode = iota
	// SelectRecent keeps the last N records by input order.
	SelectRecent
	// SelectRange keeps records whose start falls in an inclusive date window.
	SelectRange
)

// Selector chooses the streams that feed one aggregation pass.
type Selector struct {
	Mode  SelectorMode
	Last  int
	Since time.Time
	Until time.Time
}

// Recent selects the last n records.
func Recent(n int) Selector {
	return Selector{Mode: SelectRecent, Last: n}
}

// Between selects records from since through the whole day of until. Zero
// times leave that side open.
func Between(since, until time.Time) Selector {
	return Selector{Mode: SelectRange, Since: since, Until: until}
}

// ParseSelector reads "nN" (most recent N) or "YYYYMMDD,YYYYMMDD" (date range,
// either side may be empty). An empty string selects everything.
func ParseSelector(s string, loc *time.Location) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if strings.HasPrefix(s, "n") {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, s)
		}
		return Recent(n), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, s)
	}
	var bounds [2]time.Time
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := time.ParseInLocation(selectorDateLayout, part, loc)
		if err != nil {
			return Selector{}, fmt.Errorf("%w: %q", ErrInvalidSelector, s)
		}
		bounds[i] = t
	}
	return Between(bounds[0], bounds[1]), nil
}

// String formats the selector in the form ParseSelector accepts.
func (s Selector) String() string {
	switch s.Mode {
	case SelectRecent:
		return "n" + strconv.Itoa(s.Last)
	case SelectRange:
		var since, until string
		if !s.Since.IsZero() {
			since = s.Since.Format(selectorDateLayout)
		}
		if !s.Until.IsZero() {
			until = s.Until.Format(selectorDateLayout)
		}
		return since + "," + until
	default:
		return ""
	}
}

// Apply returns the selected records in input order. In range mode, nil
// records and records whose timestamp cannot be parsed are passed through so
// the binning step can report them.
func (s Selector) Apply(records []*model.ChatRecord, b *datebin.Binner) []*model.ChatRecord {
	switch s.Mode {
	case SelectRecent:
		if s.Last < 0 || s.Last >= len(records) {
			return records
		}
		return records[len(records)-s.Last:]
	case SelectRange:
		if s.Since.IsZero() && s.Until.IsZero() {
			return records
		}
		var end time.Time
		if !s.Until.IsZero() {
			end = s.Until.AddDate(0, 0, 1)
		}
		out := make([]*model.ChatRecord, 0, len(records))
		for _, rec := range records {
			if rec == nil {
				out = append(out, rec)
				continue
			}
			t, err := b.Parse(rec.Stream.CreatedAt)
			if err != nil {
				out = append(out, rec)
				continue
			}
			if !s.Since.IsZero() && t.Before(s.Since) {
				continue
			}
			if !end.IsZero() && !t.Before(end) {
				continue
			}
			out = append(out, rec)
		}
		return out
	default:
		return records
	}
}
