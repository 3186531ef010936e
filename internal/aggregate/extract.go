package aggregate

import "github.com/verte-zerg/chatcloud/internal/model"

// Selection restricts a query to the named users and terms. An empty list
// means no restriction on that axis.
type Selection struct {
	Users []string
	Terms []string
}

// Empty reports whether neither axis is restricted.
func (s Selection) Empty() bool {
	return len(s.Users) == 0 && len(s.Terms) == 0
}

// Series holds per-date vectors for users and terms.
type Series struct {
	Users map[string]model.Vector
	Terms map[string]model.Vector
}

// Extract recomputes the user and term series for a selection.
//
// With no selection the canonical vectors are returned as-is. Selecting terms
// restricts term vectors to those terms and makes each user vector count only
// that user's use of them. Selecting users restricts the user vectors to
// those users' messages and builds term vectors from their activity alone.
// Selected names that never occur get zero vectors.
//
// With toPercent, each cell is divided by the date's total words (terms) or
// messages (users) and scaled to 100. A date with a zero total yields 0.
func Extract(ds *model.Dataset, sel Selection, toPercent bool) Series {
	if sel.Empty() {
		return Series{Users: ds.Users, Terms: ds.Terms}
	}
	n := ds.NDates()
	out := Series{
		Users: make(map[string]model.Vector, len(sel.Users)),
		Terms: make(map[string]model.Vector, len(sel.Terms)),
	}
	for _, term := range sel.Terms {
		out.Terms[term] = make(model.Vector, n)
	}
	for _, user := range sel.Users {
		out.Users[user] = make(model.Vector, n)
	}
	filterTerms := len(sel.Terms) > 0
	filterUsers := len(sel.Users) > 0

	walk(ds.Records, datasetPosition(ds), func(v visit) {
		userVec, ok := out.Users[v.user]
		if !ok {
			if filterUsers {
				return
			}
			userVec = make(model.Vector, n)
			out.Users[v.user] = userVec
		}
		if !filterTerms {
			userVec[v.date] += float64(v.chat.NMessages)
		}
		for _, tc := range v.terms {
			termVec, ok := out.Terms[tc.term]
			if filterTerms {
				if !ok {
					continue
				}
				termVec[v.date] += float64(tc.count)
				userVec[v.date] += float64(tc.count)
				continue
			}
			if !ok {
				termVec = make(model.Vector, n)
				out.Terms[tc.term] = termVec
			}
			termVec[v.date] += float64(tc.count)
		}
	})

	if toPercent {
		for _, d := range ds.Dates {
			normalize(out.Terms, d.Index, d.Words)
			normalize(out.Users, d.Index, d.Messages)
		}
	}
	return out
}

func normalize(vectors map[string]model.Vector, idx, total int) {
	for _, vec := range vectors {
		if total == 0 {
			vec[idx] = 0
			continue
		}
		vec[idx] = vec[idx] / float64(total) * 100
	}
}
