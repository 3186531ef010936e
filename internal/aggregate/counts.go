package aggregate

import "github.com/verte-zerg/chatcloud/internal/model"

// CloudFilter chooses which chat activity feeds the word cloud.
type CloudFilter struct {
	// Users limits counting to these users; empty means everyone.
	Users    []string
	KeepBots bool
	KeepAts  bool
	// Keep, when set, drops terms for which it returns false.
	Keep func(term string) bool
}

// TermCount is a term with its total occurrences.
type TermCount struct {
	Term  string `json:"term" yaml:"term"`
	Count int    `json:"count" yaml:"count"`
}

// TermCounts totals term occurrences over the dataset's records, honouring
// the filter. Results are in first-seen order.
func TermCounts(ds *model.Dataset, f CloudFilter) []TermCount {
	var selected map[string]bool
	if len(f.Users) > 0 {
		selected = make(map[string]bool, len(f.Users))
		for _, u := range f.Users {
			selected[u] = true
		}
	}

	pos := map[string]int{}
	var out []TermCount
	walk(ds.Records, datasetPosition(ds), func(v visit) {
		if !f.KeepBots && v.chat.IsBot {
			return
		}
		if selected != nil && !selected[v.user] {
			return
		}
		for _, tc := range v.terms {
			if !f.KeepAts && IsUsernameTerm(tc.term) {
				continue
			}
			if f.Keep != nil && !f.Keep(tc.term) {
				continue
			}
			if i, ok := pos[tc.term]; ok {
				out[i].Count += tc.count
				continue
			}
			pos[tc.term] = len(out)
			out = append(out, TermCount{Term: tc.term, Count: tc.count})
		}
	})
	return out
}
