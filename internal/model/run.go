package model

import "time"

// RunStatus represents the current state of a reconciliation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunInput records where a run read its feeds from.
type RunInput struct {
	OperatorSource  string `json:"operator_source"`
	IncidentDir     string `json:"incident_dir"`
	ApplyDateFilter bool   `json:"apply_date_filter"`
}

// ServiceSummary holds the headline counts of one service report.
type ServiceSummary struct {
	Service              string `json:"service" yaml:"service"`
	Total                int    `json:"total" yaml:"total"`
	Complaints           int    `json:"complaints" yaml:"complaints"`
	Negative             int    `json:"negative" yaml:"negative"`
	NegativeOrComplaint  int    `json:"negative_or_complaint" yaml:"negative_or_complaint"`
	NegativeSubset       int    `json:"negative_subset" yaml:"negative_subset"`
	Regions              int    `json:"regions" yaml:"regions"`
	DistinctComplaintSet int    `json:"distinct_complaint_sets" yaml:"distinct_complaint_sets"`
}

// RunSummary is the outcome of a completed run.
type RunSummary struct {
	RunID       string           `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Rows        int              `json:"rows" yaml:"rows"`
	Services    []ServiceSummary `json:"services" yaml:"services"`
	Counters    Counters         `json:"counters" yaml:"counters"`
}

// Run represents a single reconciliation run.
type Run struct {
	ID        string      `json:"id"`
	Input     RunInput    `json:"input"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
