package report

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/callrecon/internal/model"
)

// Count labels, in table order.
const (
	LabelTotal               = "Total"
	LabelComplaints          = "Complaints"
	LabelNegative            = "Negative"
	LabelNegativeOrComplaint = "Negative∪Complaints"
)

// CountRow is one line of the summary counts table.
type CountRow struct {
	Label string
	Count int
	// Share is Count as a percentage of Total, rounded to one decimal.
	Share decimal.Decimal
}

// Counts is the four-row summary table.
type Counts []CountRow

// Get returns the count for label, or 0.
func (c Counts) Get(label string) int {
	for _, row := range c {
		if row.Label == label {
			return row.Count
		}
	}
	return 0
}

// BuildCounts tallies Total, Complaints, Negative and Negative∪Complaints.
func BuildCounts(rows []model.ReconciledRow) Counts {
	var complaints, negative, either int
	for _, r := range rows {
		neg := IsNegative(r.StatusResolved)
		if r.HasComplaint {
			complaints++
		}
		if neg {
			negative++
		}
		if neg || r.HasComplaint {
			either++
		}
	}

	total := len(rows)
	return Counts{
		countRow(LabelTotal, total, total),
		countRow(LabelComplaints, complaints, total),
		countRow(LabelNegative, negative, total),
		countRow(LabelNegativeOrComplaint, either, total),
	}
}

func countRow(label string, n, total int) CountRow {
	share := decimal.Zero
	if total > 0 {
		share = decimal.NewFromInt(int64(n)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total))).
			Round(1)
	}
	return CountRow{Label: label, Count: n, Share: share}
}
