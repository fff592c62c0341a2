// Package report derives the per-service analytical tables from reconciled
// rows and defines the contract renderers implement.
package report

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/normalize"
)

// ServiceReport holds every table derived for one service code.
type ServiceReport struct {
	Service         string
	Counts          Counts
	ComplaintMatrix Matrix
	// Rows are the reconciled rows of this service in incident-feed order.
	Rows         []model.ReconciledRow
	Negative     []model.ReconciledRow
	StatusMatrix Matrix
}

// Summary returns the headline numbers of the report.
func (r *ServiceReport) Summary() model.ServiceSummary {
	return model.ServiceSummary{
		Service:              r.Service,
		Total:                r.Counts.Get(LabelTotal),
		Complaints:           r.Counts.Get(LabelComplaints),
		Negative:             r.Counts.Get(LabelNegative),
		NegativeOrComplaint:  r.Counts.Get(LabelNegativeOrComplaint),
		NegativeSubset:       len(r.Negative),
		Regions:              len(r.StatusMatrix.Rows),
		DistinctComplaintSet: len(r.ComplaintMatrix.Columns) - 1,
	}
}

// Writer persists service reports. Layout and styling belong to the
// implementation; it returns where the report was written.
type Writer interface {
	WriteService(ctx context.Context, rep *ServiceReport) (string, error)
}

// NegativeSubset returns rows with a negative status that are not closed
// applications, in input order.
func NegativeSubset(rows []model.ReconciledRow) []model.ReconciledRow {
	out := make([]model.ReconciledRow, 0)
	for _, r := range rows {
		if IsNegative(r.StatusResolved) && !IsClosed(r.StatusResolved) {
			out = append(out, r)
		}
	}
	return out
}

// CheckComplaints returns model.ErrMalformedComplaint when a joined
// complaint value begins with a service marker. A joined value can hold free
// text such as "Delay; 2. Rudeness" from one operator cell, so only its start
// is checked.
func CheckComplaints(rows []model.ReconciledRow) error {
	for _, r := range rows {
		if normalize.HasComplaintPrefix(r.ComplaintJoined) {
			return eris.Wrapf(model.ErrMalformedComplaint, "report: incident %s service %s: %q", r.IncidentID, r.ServiceCode, r.ComplaintJoined)
		}
	}
	return nil
}

// BuildService derives the tables for one service from that service's rows.
// An empty input yields empty tables with the full column shape.
func BuildService(service string, rows []model.ReconciledRow) *ServiceReport {
	if rows == nil {
		rows = []model.ReconciledRow{}
	}
	return &ServiceReport{
		Service:         service,
		Counts:          BuildCounts(rows),
		ComplaintMatrix: RegionComplaintMatrix(rows),
		Rows:            rows,
		Negative:        NegativeSubset(rows),
		StatusMatrix:    RegionStatusMatrix(rows),
	}
}

// Build splits rows by service and derives a report for every service code
// present, in service-code order. Rows with an unrecognised code are left
// out of every report.
func Build(rows []model.ReconciledRow) ([]*ServiceReport, error) {
	if err := CheckComplaints(rows); err != nil {
		return nil, err
	}

	byService := make(map[string][]model.ReconciledRow)
	for _, r := range rows {
		if model.IsServiceCode(r.ServiceCode) {
			byService[r.ServiceCode] = append(byService[r.ServiceCode], r)
		}
	}

	var reports []*ServiceReport
	for _, svc := range model.ServiceCodes {
		svcRows, ok := byService[svc]
		if !ok {
			continue
		}
		reports = append(reports, BuildService(svc, svcRows))
	}
	return reports, nil
}
