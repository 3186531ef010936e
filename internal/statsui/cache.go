package statsui

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/model"
)

// seriesCache memoizes Extract results for the current dataset. It must be
// purged whenever the dataset is rebuilt.
type seriesCache struct {
	entries *lru.Cache[string, aggregate.Series]
}

func newSeriesCache(size int) (*seriesCache, error) {
	entries, err := lru.New[string, aggregate.Series](size)
	if err != nil {
		return nil, err
	}
	return &seriesCache{entries: entries}, nil
}

func seriesKey(sel aggregate.Selection, toPercent bool) string {
	var b strings.Builder
	b.WriteString(strings.Join(sel.Users, "\x00"))
	b.WriteByte('\x01')
	b.WriteString(strings.Join(sel.Terms, "\x00"))
	if toPercent {
		b.WriteString("\x01%")
	}
	return b.String()
}

func (c *seriesCache) Get(ds *model.Dataset, sel aggregate.Selection, toPercent bool) aggregate.Series {
	key := seriesKey(sel, toPercent)
	if s, ok := c.entries.Get(key); ok {
		return s
	}
	s := aggregate.Extract(ds, sel, toPercent)
	c.entries.Add(key, s)
	return s
}

func (c *seriesCache) Len() int {
	return c.entries.Len()
}

func (c *seriesCache) Purge() {
	c.entries.Purge()
}

func (m *Model) seriesFor(sel aggregate.Selection) aggregate.Series {
	return m.series.Get(m.ds, sel, m.opts.ToPercent)
}
