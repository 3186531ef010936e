package rank

import (
	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/model"
)

// DetailQuery picks what a detail table breaks down.
type DetailQuery struct {
	// Date limits the breakdown to one date key; empty means all dates.
	Date string
	// ByUser breaks down users into terms instead of terms into users.
	ByUser bool
	Names  []string
	Limit  int
}

// Detail is the breakdown of one term or user.
type Detail struct {
	Name    string  `json:"name" yaml:"name"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Details builds one table per queried name. Without a date the tables come
// from the presence cross-tables; with a date they hold that date's raw
// counts. Names with nothing to show are skipped.
func Details(ds *model.Dataset, q DetailQuery) []Detail {
	limit := q.Limit
	if limit <= 0 {
		limit = DetailLimit
	}
	var source map[string]map[string]int
	switch {
	case q.Date != "":
		source = TermsOnDate(ds, q.Date, q.ByUser)
	case q.ByUser:
		source = ds.UserTerms
	default:
		source = ds.TermUsers
	}
	out := make([]Detail, 0, len(q.Names))
	for _, name := range q.Names {
		entries := Top(source[name], limit)
		if len(entries) == 0 {
			continue
		}
		out = append(out, Detail{Name: name, Entries: entries})
	}
	return out
}

// TermsOnDate returns the counts for the records of one date, keyed
// user -> term when byUser is set and term -> user otherwise.
func TermsOnDate(ds *model.Dataset, date string, byUser bool) map[string]map[string]int {
	out := map[string]map[string]int{}
	entry, ok := ds.Date(date)
	if !ok {
		return out
	}
	add := func(outer, inner string, n int) {
		m, ok := out[outer]
		if !ok {
			m = map[string]int{}
			out[outer] = m
		}
		m[inner] += n
	}
	for _, rec := range entry.Records {
		for user, chat := range rec.Chats {
			if chat == nil {
				continue
			}
			for raw, n := range chat.Terms {
				term := aggregate.NormalizeTerm(raw)
				if byUser {
					add(user, term, n)
				} else {
					add(term, user, n)
				}
			}
		}
	}
	return out
}
