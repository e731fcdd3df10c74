package store

import (
	"database/sql"
	"fmt"
)

// ReportStore runs the read-only per-day rollup queries behind reports.
// Rates are computed by the report package, not in SQL, so a day with
// zero completions can never divide by zero.
type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// DailyCounts is one day of raw rollup numbers. Days with no
// assignments produce no row at all.
type DailyCounts struct {
	Date             string
	Assigned         int
	Completed        int
	EstimatedMinutes int
	ActualMinutes    int
}

// IndividualDaily groups one person's assignments by day over the
// inclusive date range.
func (s *ReportStore) IndividualDaily(personID int64, start, end string) ([]DailyCounts, error) {
	rows, err := s.db.Query(
		`SELECT a.assigned_date,
			COUNT(a.id),
			COUNT(comp.id),
			SUM(c.estimated_minutes),
			SUM(COALESCE(comp.actual_minutes, 0))
		FROM assignments a
		JOIN chores c ON c.id = a.chore_id
		LEFT JOIN completions comp ON comp.assignment_id = a.id
		WHERE a.person_id = ? AND a.assigned_date BETWEEN ? AND ?
		GROUP BY a.assigned_date
		ORDER BY a.assigned_date`,
		personID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("individual daily counts: %w", wrapStorage(err))
	}
	defer rows.Close()

	return scanDailyCounts(rows)
}

// FamilyDaily groups all assignments by day over the inclusive date
// range, across every person including unassigned rows.
func (s *ReportStore) FamilyDaily(start, end string) ([]DailyCounts, error) {
	rows, err := s.db.Query(
		`SELECT a.assigned_date,
			COUNT(a.id),
			COUNT(comp.id),
			SUM(c.estimated_minutes),
			SUM(COALESCE(comp.actual_minutes, 0))
		FROM assignments a
		JOIN chores c ON c.id = a.chore_id
		LEFT JOIN completions comp ON comp.assignment_id = a.id
		WHERE a.assigned_date BETWEEN ? AND ?
		GROUP BY a.assigned_date
		ORDER BY a.assigned_date`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("family daily counts: %w", wrapStorage(err))
	}
	defer rows.Close()

	return scanDailyCounts(rows)
}

func scanDailyCounts(rows *sql.Rows) ([]DailyCounts, error) {
	var counts []DailyCounts
	for rows.Next() {
		var dc DailyCounts
		if err := rows.Scan(&dc.Date, &dc.Assigned, &dc.Completed, &dc.EstimatedMinutes, &dc.ActualMinutes); err != nil {
			return nil, fmt.Errorf("scan daily counts: %w", wrapStorage(err))
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}
