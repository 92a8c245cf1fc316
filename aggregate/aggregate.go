// Package aggregate folds row outcomes into the per-user report. Folding is
// commutative and associative over successes, so outcome ordering never
// changes the result.
package aggregate

import (
	"sort"

	"github.com/samber/lo"

	"user-flag/domain"
)

// Fold reduces outcomes into one UserAggregate per user_id. Failed outcomes
// are skipped entirely: they neither count toward total_messages nor create
// an aggregate on their own. Averages are computed once, after the fold.
func Fold(outcomes []domain.RowOutcome) map[string]domain.UserAggregate {
	totals := make(map[string]domain.UserAggregate)

	for _, outcome := range outcomes {
		if outcome.Failed() {
			continue
		}
		agg := totals[outcome.UserID]
		agg.UserID = outcome.UserID
		agg.TotalMessages++
		agg.SumScore += outcome.Score
		totals[outcome.UserID] = agg
	}

	for userID, agg := range totals {
		agg.AvgScore = agg.SumScore / float64(agg.TotalMessages)
		totals[userID] = agg
	}
	return totals
}

// Sorted flattens the mapping into a deterministic user_id order for the
// report-writing boundary.
func Sorted(totals map[string]domain.UserAggregate) []domain.UserAggregate {
	aggregates := lo.Values(totals)
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].UserID < aggregates[j].UserID
	})
	return aggregates
}
