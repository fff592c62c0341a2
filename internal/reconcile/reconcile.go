// Package reconcile joins 112 incident rows against the operator attribution
// maps.
package reconcile

import (
	"strings"

	"github.com/sells-group/callrecon/internal/attribution"
	"github.com/sells-group/callrecon/internal/model"
)

// ComplaintSeparator joins multiple complaints in ComplaintJoined.
const ComplaintSeparator = "; "

// Row resolves a single incident row.
func Row(row model.IncidentRow, maps *attribution.Maps) model.ReconciledRow {
	joined := strings.Join(maps.Complaints(row.IncidentID, row.ServiceCode), ComplaintSeparator)
	return model.ReconciledRow{
		IncidentRow:      row,
		ComplaintJoined:  joined,
		StatusResolved:   maps.Status(row.IncidentID),
		PositiveResolved: maps.Positive(row.IncidentID),
		HasComplaint:     joined != "",
	}
}

// Reconcile resolves every row. Output order and cardinality match rows.
func Reconcile(rows []model.IncidentRow, maps *attribution.Maps) []model.ReconciledRow {
	out := make([]model.ReconciledRow, len(rows))
	for i, r := range rows {
		out[i] = Row(r, maps)
	}
	return out
}
