// Package rank orders terms and users and maps them to display weights.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/chatcloud/internal/model"
)

const (
	// DetailLimit is the number of rows kept in a detail table.
	DetailLimit = 10
	// SuggestLimit is the number of entries offered as selection suggestions.
	SuggestLimit = 100
)

// RankTerms returns every term of the dataset ordered by the policy, highest
// first. Ties keep first-seen order. ByWeight ranks by count here, since
// visual weight only exists for word-cloud counts.
func RankTerms(ds *model.Dataset, policy model.Policy) []string {
	out := append([]string(nil), ds.TermOrder...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := ds.TermStats[out[i]], ds.TermStats[out[j]]
		if policy == model.ByTrend {
			return math.Abs(a.Cor) > math.Abs(b.Cor)
		}
		return a.Count > b.Count
	})
	return out
}

// RankUsers returns users by total messages, highest first. When isBot is
// non-nil, users it reports are left out.
func RankUsers(ds *model.Dataset, isBot func(user string) bool) []string {
	out := make([]string, 0, len(ds.UserOrder))
	for _, user := range ds.UserOrder {
		if isBot != nil && isBot(user) {
			continue
		}
		out = append(out, user)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return ds.UserCounts[out[i]] > ds.UserCounts[out[j]]
	})
	return out
}

// Suggest returns up to limit entries of ranked that contain query, keeping
// their order. An empty query matches everything.
func Suggest(ranked []string, query string, limit int) []string {
	if limit <= 0 {
		limit = SuggestLimit
	}
	out := make([]string, 0, min(limit, len(ranked)))
	for _, name := range ranked {
		if len(out) == limit {
			break
		}
		if query == "" || strings.Contains(name, query) {
			out = append(out, name)
		}
	}
	return out
}

// Entry is a name with a count.
type Entry struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Top returns the n largest counts, ties broken by name.
func Top(counts map[string]int, n int) []Entry {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	items := make([]Entry, 0, len(counts))
	for name, count := range counts {
		items = append(items, Entry{Name: name, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Name < items[j].Name
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
