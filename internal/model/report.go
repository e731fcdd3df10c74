package model

// IndividualReportRow is one day of one person's chore activity.
// Days with no assignments are omitted from reports entirely.
type IndividualReportRow struct {
	Date             string  `json:"date"`
	AssignedCount    int     `json:"assigned_count"`
	CompletedCount   int     `json:"completed_count"`
	CompletionRate   float64 `json:"completion_rate"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	ActualMinutes    int     `json:"actual_minutes"`
}

// FamilyReportRow is one day of activity aggregated across the household.
type FamilyReportRow struct {
	Date           string  `json:"date"`
	TotalAssigned  int     `json:"total_assigned"`
	TotalCompleted int     `json:"total_completed"`
	CompletionRate float64 `json:"completion_rate"`
}
