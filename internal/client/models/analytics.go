package models

import "time"

// AnalyticsFilter bounds an analytics query. Nil fields mean "no bound".
type AnalyticsFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	ProgramType *ProgramType
}

// Matches reports whether a client falls inside the filter. Date bounds
// apply to CreatedAt; both ends are inclusive.
func (f AnalyticsFilter) Matches(c *Client) bool {
	if f.ProgramType != nil && c.ProgramType != *f.ProgramType {
		return false
	}
	if f.StartDate != nil && c.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && c.CreatedAt.After(*f.EndDate) {
		return false
	}
	return true
}

// AnalyticsData aggregates counts and rates over the filtered client set.
// Everything here is computable from status, program_type, and created_at
// alone; there is no side table.
type AnalyticsData struct {
	TotalClients  int                  `json:"total_clients"`
	StatusCounts  map[ClientStatus]int `json:"status_counts"`
	ProgramCounts map[ProgramType]int  `json:"program_counts"`
	ActiveRate    float64              `json:"active_rate"`
	TrialRate     float64              `json:"trial_rate"`
	ChurnRate     float64              `json:"churn_rate"`
}

// NewAnalyticsData returns an empty aggregate ready for Add calls.
func NewAnalyticsData() *AnalyticsData {
	return &AnalyticsData{
		StatusCounts:  make(map[ClientStatus]int),
		ProgramCounts: make(map[ProgramType]int),
	}
}

// Add folds n clients with the given status and program into the aggregate.
func (d *AnalyticsData) Add(status ClientStatus, programType ProgramType, n int) {
	d.TotalClients += n
	d.StatusCounts[status] += n
	d.ProgramCounts[programType] += n
}

// Finalize derives the rates once all counts are in.
func (d *AnalyticsData) Finalize() {
	if d.TotalClients == 0 {
		return
	}
	total := float64(d.TotalClients)
	d.ActiveRate = float64(d.StatusCounts[StatusActive]) / total
	d.TrialRate = float64(d.StatusCounts[StatusTrial]) / total
	d.ChurnRate = float64(d.StatusCounts[StatusCancelled]) / total
}

// ComputeAnalytics derives AnalyticsData from a filtered client set.
// Shared by store implementations so counts and rates agree with the
// corresponding find_* predicates.
func ComputeAnalytics(clients []*Client) *AnalyticsData {
	data := NewAnalyticsData()
	for _, c := range clients {
		data.Add(c.Status, c.ProgramType, 1)
	}
	data.Finalize()
	return data
}

// AnalyticsReport is AnalyticsData stamped with generation time and the
// echoed filter parameters.
type AnalyticsReport struct {
	*AnalyticsData
	GeneratedAt time.Time  `json:"generated_at"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ProgramType *string    `json:"program_type,omitempty"`
}
