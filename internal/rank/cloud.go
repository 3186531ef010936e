package rank

import (
	"math"
	"sort"

	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/model"
)

// CloudOptions shapes the word cloud.
type CloudOptions struct {
	Policy model.Policy
	// NTerms caps the number of terms; zero or less keeps all of them.
	NTerms      int
	ScaleFactor float64
	// TrendScale multiplies each weight by the absolute trend score.
	TrendScale bool
	PaletteLen int
	Reverse    bool
}

// WeightedTerm is a word-cloud entry.
type WeightedTerm struct {
	Name   string  `json:"name" yaml:"name"`
	Count  int     `json:"count" yaml:"count"`
	Cor    float64 `json:"cor" yaml:"cor"`
	Weight float64 `json:"weight" yaml:"weight"`
	// Color is an index into the palette.
	Color int `json:"color" yaml:"color"`
}

// Cloud ranks counted terms, keeps the top NTerms and assigns each a weight
// and palette position. Rising terms take the first half of the palette and
// the others the second half, each ordered by rank. Ties keep input order.
func Cloud(counts []aggregate.TermCount, termStats map[string]*model.TermStat, opt CloudOptions) []WeightedTerm {
	items := make([]WeightedTerm, 0, len(counts))
	for _, tc := range counts {
		var cor float64
		if st, ok := termStats[tc.Term]; ok {
			cor = st.Cor
		}
		items = append(items, WeightedTerm{
			Name:   tc.Term,
			Count:  tc.Count,
			Cor:    cor,
			Weight: Weight(tc.Count, cor, opt.ScaleFactor, opt.TrendScale),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		switch opt.Policy {
		case model.ByTrend:
			return math.Abs(items[i].Cor) > math.Abs(items[j].Cor)
		case model.ByWeight:
			return items[i].Weight > items[j].Weight
		default:
			return items[i].Count > items[j].Count
		}
	})
	if opt.NTerms > 0 && len(items) > opt.NTerms {
		items = items[:opt.NTerms]
	}
	for i := range items {
		items[i].Color = PaletteIndex(i, len(items), items[i].Cor, opt.PaletteLen, opt.Reverse)
	}
	return items
}

// Weight is count^scale, times |cor| when trendScale is set.
func Weight(count int, cor, scale float64, trendScale bool) float64 {
	w := math.Pow(float64(count), scale)
	if trendScale {
		w *= math.Abs(cor)
	}
	return w
}

// PaletteIndex maps the rank-th of n items to a position in a palette of
// paletteLen colours.
func PaletteIndex(rank, n int, cor float64, paletteLen int, reverse bool) int {
	if paletteLen <= 1 || n <= 0 {
		return 0
	}
	pos := float64(rank) / float64(n)
	var freq float64
	if cor > 0 {
		freq = pos / 2
	} else {
		freq = 0.5 + (1-pos)/2
	}
	if reverse {
		freq = 1 - freq
	}
	idx := int(math.Round(freq * float64(paletteLen-1)))
	return max(0, min(paletteLen-1, idx))
}

// SpreadIndex places the i-th of n series evenly along a palette.
func SpreadIndex(i, n, paletteLen int, reverse bool) int {
	if paletteLen <= 1 || n <= 0 {
		return 0
	}
	freq := float64(i) / float64(n)
	if reverse {
		freq = 1 - freq
	}
	idx := int(math.Round(freq * float64(paletteLen-1)))
	return max(0, min(paletteLen-1, idx))
}
