// Package bots tracks which chat accounts are automated.
package bots

import (
	"sort"

	"github.com/verte-zerg/chatcloud/internal/model"
)

// BadgeSetID marks a badge granted to bot accounts.
const BadgeSetID = "bot-badge"

// DefaultNames are well-known automation accounts.
var DefaultNames = []string{"streamelements", "sery_bot", "nightbot", "moobot"}

// Classifier memoizes bot usernames for the lifetime of one loaded dataset.
// It is not safe for concurrent use.
type Classifier struct {
	known map[string]bool
}

// New returns a Classifier seeded with DefaultNames and any extra names.
func New(extra ...string) *Classifier {
	c := &Classifier{known: make(map[string]bool, len(DefaultNames)+len(extra))}
	for _, name := range DefaultNames {
		c.known[name] = true
	}
	for _, name := range extra {
		if name != "" {
			c.known[name] = true
		}
	}
	return c
}

// IsBot reports whether user is a known bot or carries a bot badge.
// Newly detected bots are remembered.
func (c *Classifier) IsBot(user string, badges []model.Badge) bool {
	if c.known[user] {
		return true
	}
	for _, b := range badges {
		if b.SetID == BadgeSetID {
			c.known[user] = true
			return true
		}
	}
	return false
}

// Known reports whether user has been recorded as a bot, without inspecting badges.
func (c *Classifier) Known(user string) bool {
	return c.known[user]
}

// Names returns the known bot names, sorted.
func (c *Classifier) Names() []string {
	out := make([]string, 0, len(c.known))
	for name := range c.known {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
