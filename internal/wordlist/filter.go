package wordlist

import "strings"

// FilterFunc returns true when a term should be kept.
type FilterFunc func(string) bool

// TermFilter drops excluded words and, unless keepAts is set, @-mentions.
func TermFilter(excluded Set, keepAts bool) FilterFunc {
	return func(term string) bool {
		if term == "" {
			return false
		}
		if !keepAts && strings.HasPrefix(term, "@") {
			return false
		}
		return !excluded.Has(term)
	}
}
