package aggregate

import (
	"sort"
	"strings"

	"github.com/verte-zerg/chatcloud/internal/model"
)

// EmoteMarker identifies terms of the form "<text>:<emoteID>:e".
const EmoteMarker = ":e"

// NormalizeTerm rewrites emote references to their display text. When the text
// part is empty the emote id is used, prefixed with ':'. Other terms are
// returned unchanged.
func NormalizeTerm(term string) string {
	if !strings.Contains(term, EmoteMarker) {
		return term
	}
	parts := strings.SplitN(term, ":", 3)
	if parts[0] != "" {
		return parts[0]
	}
	return ":" + parts[1]
}

// IsUsernameTerm reports whether term is an @-mention.
func IsUsernameTerm(term string) bool {
	return strings.HasPrefix(term, "@")
}

type termCount struct {
	term  string
	count int
}

// normalizedTerms folds a user's raw term map onto canonical keys, sorted by key.
func normalizedTerms(raw map[string]int) []termCount {
	if len(raw) == 0 {
		return nil
	}
	merged := make(map[string]int, len(raw))
	for term, n := range raw {
		merged[NormalizeTerm(term)] += n
	}
	out := make([]termCount, 0, len(merged))
	for term, n := range merged {
		out = append(out, termCount{term: term, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].term < out[j].term
	})
	return out
}

func sortedUsers(chats map[string]*model.UserChat) []string {
	names := make([]string, 0, len(chats))
	for name, chat := range chats {
		if chat == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// visit is one user's activity within one record.
type visit struct {
	date  int
	user  string
	chat  *model.UserChat
	terms []termCount
}

// walk calls fn for every user of every record that has a date position, in
// record order, then user-name order. Terms are normalized and key-sorted.
func walk(records []*model.ChatRecord, position func(*model.ChatRecord) (int, bool), fn func(v visit)) {
	for _, rec := range records {
		idx, ok := position(rec)
		if !ok {
			continue
		}
		for _, user := range sortedUsers(rec.Chats) {
			chat := rec.Chats[user]
			fn(visit{
				date:  idx,
				user:  user,
				chat:  chat,
				terms: normalizedTerms(chat.Terms),
			})
		}
	}
}

func datasetPosition(ds *model.Dataset) func(*model.ChatRecord) (int, bool) {
	return func(rec *model.ChatRecord) (int, bool) {
		entry, ok := ds.Date(rec.Date)
		if !ok {
			return 0, false
		}
		return entry.Index, true
	}
}
