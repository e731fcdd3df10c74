// Package report builds read-only rollups over the assignment
// lifecycle. It never mutates anything.
package report

import (
	"fmt"
	"math"

	"github.com/petravell/choreboard/internal/model"
	"github.com/petravell/choreboard/internal/store"
)

// Aggregator computes per-day report rows. Days with zero assignments
// are omitted rather than zero-filled; callers must handle sparse
// series.
type Aggregator struct {
	reports *store.ReportStore
}

func NewAggregator(reports *store.ReportStore) *Aggregator {
	return &Aggregator{reports: reports}
}

// IndividualReport returns one person's per-day activity over the
// inclusive date range.
func (a *Aggregator) IndividualReport(personID int64, start, end string) ([]model.IndividualReportRow, error) {
	counts, err := a.reports.IndividualDaily(personID, start, end)
	if err != nil {
		return nil, fmt.Errorf("individual report: %w", err)
	}

	rows := make([]model.IndividualReportRow, 0, len(counts))
	for _, dc := range counts {
		rows = append(rows, model.IndividualReportRow{
			Date:             dc.Date,
			AssignedCount:    dc.Assigned,
			CompletedCount:   dc.Completed,
			CompletionRate:   completionRate(dc.Completed, dc.Assigned),
			EstimatedMinutes: dc.EstimatedMinutes,
			ActualMinutes:    dc.ActualMinutes,
		})
	}
	return rows, nil
}

// FamilyReport returns household-wide per-day activity over the
// inclusive date range.
func (a *Aggregator) FamilyReport(start, end string) ([]model.FamilyReportRow, error) {
	counts, err := a.reports.FamilyDaily(start, end)
	if err != nil {
		return nil, fmt.Errorf("family report: %w", err)
	}

	rows := make([]model.FamilyReportRow, 0, len(counts))
	for _, dc := range counts {
		rows = append(rows, model.FamilyReportRow{
			Date:           dc.Date,
			TotalAssigned:  dc.Assigned,
			TotalCompleted: dc.Completed,
			CompletionRate: completionRate(dc.Completed, dc.Assigned),
		})
	}
	return rows, nil
}

// completionRate is round(100*completed/assigned, 1), and 0 when
// nothing was assigned.
func completionRate(completed, assigned int) float64 {
	if assigned == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(assigned)*1000) / 10
}
