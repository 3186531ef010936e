package model

// Policy selects how terms are ranked.
type Policy int

const (
	// ByCount ranks by total occurrences.
	ByCount Policy = iota
	// ByTrend ranks by the absolute trend score.
	ByTrend
	// ByWeight ranks by visual weight.
	ByWeight
)

func (p Policy) String() string {
	switch p {
	case ByTrend:
		return "trend"
	case ByWeight:
		return "weight"
	default:
		return "count"
	}
}

// ViewOptions are the display settings honoured by the query and ranking layers.
type ViewOptions struct {
	Streams        string
	Palette        string
	Users          []string
	Terms          []string
	ReversePalette bool
	KeepBots       bool
	KeepAts        bool
	NTerms         int
	ScaleFactor    float64
	TrendScale     bool
	ByCount        bool
	ToPercent      bool
	WeightedTrend  bool
	Exclude        string
}

// Policy returns the ranking policy for suggestion lists.
func (o ViewOptions) Policy() Policy {
	if o.ByCount {
		return ByCount
	}
	return ByTrend
}
