// Package store records reconciliation runs and, optionally, their
// reconciled rows.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/callrecon/internal/model"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = eris.New("run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

const defaultListLimit = 100

func (f RunFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for reconciliation runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, input model.RunInput) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, summary *model.RunSummary) error
	FailRun(ctx context.Context, runID string, msg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Rows
	SaveRows(ctx context.Context, runID string, rows []model.ReconciledRow) (int64, error)
	CountRows(ctx context.Context, runID string) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// rowColumns are the run_rows columns in insert order.
var rowColumns = []string{
	"run_id",
	"seq",
	"incident_id",
	"card_id",
	"service_code",
	"caller_phone",
	"received_status",
	"region",
	"district",
	"operator_name",
	"received_at",
	"complaint_joined",
	"status_resolved",
	"positive_resolved",
	"has_complaint",
}

// rowValues flattens one reconciled row for insert. seq is its position in
// the run's output.
func rowValues(runID string, seq int, r model.ReconciledRow) []any {
	var receivedAt any
	if r.ReceivedAt != nil {
		receivedAt = r.ReceivedAt.UTC()
	}
	return []any{
		runID,
		seq,
		r.IncidentID,
		r.CardID,
		r.ServiceCode,
		r.CallerPhone,
		r.ReceivedStatus,
		r.Region,
		r.District,
		r.OperatorName,
		receivedAt,
		r.ComplaintJoined,
		r.StatusResolved,
		r.PositiveResolved,
		r.HasComplaint,
	}
}
