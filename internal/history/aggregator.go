// Package history derives display-ready views from the record store. It keeps no state;
// every call re-reads the store so creations and deletions show up immediately.
package history

import (
	"iter"
	"slices"
	"strings"

	"FashionScoring_EvaluationProject/internal/models"
)

// RecordSource is the read side of the record store.
type RecordSource interface {
	Records() iter.Seq[models.EvaluationRecord]
}

type Aggregator struct {
	source RecordSource
}

func NewAggregator(source RecordSource) *Aggregator {
	return &Aggregator{source: source}
}

// List returns every live record, newest first. Records created in the same second are
// ordered by id descending so repeated calls over the same snapshot agree.
func (a *Aggregator) List() []models.EvaluationRecord {
	records := slices.Collect(a.source.Records())
	slices.SortStableFunc(records, func(x, y models.EvaluationRecord) int {
		if c := y.CreatedAt.Compare(x.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(y.ID, x.ID)
	})
	return records
}

// Summary computes statistics over the current record set.
func (a *Aggregator) Summary() models.Summary {
	return Summarize(a.List())
}

// Summarize builds a Summary from records ordered newest first.
func Summarize(newestFirst []models.EvaluationRecord) models.Summary {
	summary := models.Summary{
		Count:               len(newestFirst),
		ChronologicalSeries: make([]models.ScorePair, 0, len(newestFirst)),
	}

	var machineSum, buyerSum, diffSum, passed int
	var durationSeconds float64
	for i := len(newestFirst) - 1; i >= 0; i-- {
		r := newestFirst[i]
		machineSum += r.Score
		buyerSum += r.BuyerScore
		diffSum += r.ScoreDifference
		if r.Passed {
			passed++
		}
		if r.EvalDuration != nil {
			durationSeconds += *r.EvalDuration
		}
		summary.ChronologicalSeries = append(summary.ChronologicalSeries, models.ScorePair{
			Score:      r.Score,
			BuyerScore: r.BuyerScore,
		})
	}
	summary.TotalEvaluationMinutes = durationSeconds / 60

	if summary.Count == 0 {
		return summary
	}
	n := float64(summary.Count)
	summary.AvgMachineScore = ptr(float64(machineSum) / n)
	summary.AvgBuyerScore = ptr(float64(buyerSum) / n)
	summary.AvgScoreDifference = ptr(float64(diffSum) / n)
	summary.PassRate = ptr(float64(passed) / n)
	return summary
}

func ptr(v float64) *float64 { return &v }
