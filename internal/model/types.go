// Package model defines shared data structures.
package model

import "encoding/json"

// Badge is a chat badge attached to a user.
type Badge struct {
	ID      string `json:"id,omitempty"`
	AltID   string `json:"_id,omitempty"`
	Version string `json:"version"`
	SetID   string `json:"setID,omitempty"`
}

// UserChat holds one user's activity within a single stream.
type UserChat struct {
	Name         string         `json:"name"`
	FirstMessage string         `json:"firstMessage"`
	Badges       []Badge        `json:"badges"`
	Color        string         `json:"color"`
	Terms        map[string]int `json:"terms"`
	NMessages    int            `json:"nMessages"`
	IsBot        bool           `json:"isBot"`
}

// StreamInfo identifies a stream.
type StreamInfo struct {
	VodID       int64           `json:"vod_id"`
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description,omitempty"`
	CreatedAt   string          `json:"created_at"`
	Duration    float64         `json:"duration"`
}

// ChatRecord is the chat log of one stream, keyed by username.
type ChatRecord struct {
	Chats  map[string]*UserChat `json:"chats"`
	Stream StreamInfo           `json:"stream"`

	// Date is the bucket key assigned during aggregation.
	Date string `json:"-"`
}

// Vector is a dense per-date series; index i refers to the DateEntry with Index i.
type Vector []float64

// Sum returns the total of all cells.
func (v Vector) Sum() float64 {
	var total float64
	for _, x := range v {
		total += x
	}
	return total
}

// DateEntry accumulates totals for one date bucket.
type DateEntry struct {
	Key      string
	Words    int
	Messages int
	Index    int
	Records  []*ChatRecord
}

// TermStat is the total count and trend score of a term.
type TermStat struct {
	Count int     `json:"count" yaml:"count"`
	Cor   float64 `json:"cor" yaml:"cor"`
}

// Warning reports a record that was left out of date-indexed structures.
type Warning struct {
	Position int
	StreamID int64
	Reason   string
}

// Dataset is the processed form of a set of chat records.
type Dataset struct {
	Records []*ChatRecord
	Dates   []*DateEntry

	Users map[string]Vector
	Terms map[string]Vector

	UserCounts map[string]int
	TermStats  map[string]*TermStat
	UserTerms  map[string]map[string]int
	TermUsers  map[string]map[string]int

	// UserOrder and TermOrder list names in first-seen order.
	UserOrder []string
	TermOrder []string

	Warnings []Warning

	dateIndex map[string]int
}

// NewDataset returns an empty dataset with the given date entries.
func NewDataset(dates []*DateEntry) *Dataset {
	ds := &Dataset{
		Dates:      dates,
		Users:      map[string]Vector{},
		Terms:      map[string]Vector{},
		UserCounts: map[string]int{},
		TermStats:  map[string]*TermStat{},
		UserTerms:  map[string]map[string]int{},
		TermUsers:  map[string]map[string]int{},
		dateIndex:  make(map[string]int, len(dates)),
	}
	for _, d := range dates {
		ds.dateIndex[d.Key] = d.Index
	}
	return ds
}

// NDates returns the number of date buckets.
func (ds *Dataset) NDates() int {
	return len(ds.Dates)
}

// Date looks up a date entry by key.
func (ds *Dataset) Date(key string) (*DateEntry, bool) {
	idx, ok := ds.dateIndex[key]
	if !ok {
		return nil, false
	}
	return ds.Dates[idx], true
}

// DateKeys returns the date keys in index order.
func (ds *Dataset) DateKeys() []string {
	keys := make([]string, len(ds.Dates))
	for i, d := range ds.Dates {
		keys[i] = d.Key
	}
	return keys
}
