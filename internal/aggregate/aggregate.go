package aggregate

import (
	"fmt"

	"github.com/verte-zerg/chatcloud/internal/bots"
	"github.com/verte-zerg/chatcloud/internal/datebin"
	"github.com/verte-zerg/chatcloud/internal/model"
	"github.com/verte-zerg/chatcloud/internal/stats"
)

// Options configures one aggregation pass.
type Options struct {
	Selector Selector
	// Classifier is shared across passes over the same loaded dataset. A nil
	// classifier gets a fresh one.
	Classifier *bots.Classifier
	Binner     *datebin.Binner
	// WeightedTrend correlates each term's share of the day's words with the
	// date index instead of its raw count.
	WeightedTrend bool
}

// Aggregate builds the processed dataset for the selected records. Records
// whose timestamp cannot be bucketed are skipped and reported in
// Dataset.Warnings. The records' Date and per-user IsBot fields are set.
func Aggregate(records []*model.ChatRecord, opt Options) *model.Dataset {
	binner := opt.Binner
	if binner == nil {
		binner = datebin.New(nil)
	}
	classifier := opt.Classifier
	if classifier == nil {
		classifier = bots.New()
	}

	selected := opt.Selector.Apply(records, binner)
	kept := make([]*model.ChatRecord, 0, len(selected))
	keys := make([]string, 0, len(selected))
	var warnings []model.Warning
	for i, rec := range selected {
		if rec == nil {
			warnings = append(warnings, model.Warning{Position: i, Reason: "missing record"})
			continue
		}
		key, err := binner.Key(rec.Stream.CreatedAt)
		if err != nil {
			warnings = append(warnings, model.Warning{
				Position: i,
				StreamID: rec.Stream.VodID,
				Reason:   fmt.Sprintf("cannot bucket stream: %v", err),
			})
			continue
		}
		rec.Date = key
		kept = append(kept, rec)
		keys = append(keys, key)
	}

	ix := datebin.NewIndex(keys)
	entries := make([]*model.DateEntry, ix.Len())
	for i, key := range ix.Keys {
		entries[i] = &model.DateEntry{Key: key, Index: i}
	}
	ds := model.NewDataset(entries)
	ds.Records = kept
	ds.Warnings = warnings
	nDates := ix.Len()

	for _, rec := range kept {
		entry, _ := ds.Date(rec.Date)
		entry.Records = append(entry.Records, rec)
	}

	walk(kept, datasetPosition(ds), func(v visit) {
		entry := ds.Dates[v.date]
		v.chat.IsBot = classifier.IsBot(v.user, v.chat.Badges)

		userVec, ok := ds.Users[v.user]
		if !ok {
			userVec = make(model.Vector, nDates)
			ds.Users[v.user] = userVec
			ds.UserTerms[v.user] = map[string]int{}
			ds.UserOrder = append(ds.UserOrder, v.user)
		}
		userVec[v.date] += float64(v.chat.NMessages)
		entry.Messages += v.chat.NMessages
		ds.UserCounts[v.user] += v.chat.NMessages

		userTerms := ds.UserTerms[v.user]
		for _, tc := range v.terms {
			termVec, ok := ds.Terms[tc.term]
			if !ok {
				termVec = make(model.Vector, nDates)
				ds.Terms[tc.term] = termVec
				ds.TermUsers[tc.term] = map[string]int{}
				ds.TermStats[tc.term] = &model.TermStat{}
				ds.TermOrder = append(ds.TermOrder, tc.term)
			}
			// normalizedTerms yields each canonical term once per user per
			// record, so these are presence tallies.
			userTerms[tc.term]++
			ds.TermUsers[tc.term][v.user]++
			termVec[v.date] += float64(tc.count)
			entry.Words += tc.count
			ds.TermStats[tc.term].Count += tc.count
		}
	})

	scoreTrends(ds, opt.WeightedTrend)
	return ds
}

func scoreTrends(ds *model.Dataset, weighted bool) {
	x := stats.Sequence(ds.NDates())
	var weights []float64
	if weighted {
		weights = make([]float64, ds.NDates())
		for _, d := range ds.Dates {
			weights[d.Index] = float64(d.Words)
		}
	}
	for term, st := range ds.TermStats {
		st.Cor = stats.Pearson(x, ds.Terms[term], weights)
	}
}
