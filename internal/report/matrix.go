package report

import (
	"sort"

	"github.com/sells-group/callrecon/internal/model"
)

// Total column and footer labels.
const (
	ComplaintTotalColumn = "TOTAL"
	StatusTotalColumn    = "Total"
	TotalsRowLabel       = "TOTAL"
)

// MatrixRow is one region line of a pivot table. Values align with the
// owning Matrix's Columns.
type MatrixRow struct {
	Region string
	Values []int
}

// Total returns the row's last value, which is its total column.
func (r MatrixRow) Total() int {
	if len(r.Values) == 0 {
		return 0
	}
	return r.Values[len(r.Values)-1]
}

// Matrix is a region pivot. The last column is always the row total, and
// Totals holds the column sums.
type Matrix struct {
	Columns []string
	Rows    []MatrixRow
	Totals  MatrixRow
}

// Value returns the cell at (region, column), or 0.
func (m Matrix) Value(region, column string) int {
	col := -1
	for i, c := range m.Columns {
		if c == column {
			col = i
			break
		}
	}
	if col < 0 {
		return 0
	}
	for _, r := range m.Rows {
		if r.Region == region {
			return r.Values[col]
		}
	}
	return 0
}

// Regions returns the row labels in table order.
func (m Matrix) Regions() []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Region
	}
	return out
}

// RegionComplaintMatrix counts complaint rows per region and distinct
// complaint_joined value. Every region seen in rows gets a line, zero-filled
// when it has no complaints.
func RegionComplaintMatrix(rows []model.ReconciledRow) Matrix {
	distinct := make(map[string]struct{})
	for _, r := range rows {
		if r.HasComplaint {
			distinct[r.ComplaintJoined] = struct{}{}
		}
	}
	columns := make([]string, 0, len(distinct))
	for c := range distinct {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	return pivot(rows, columns, ComplaintTotalColumn, func(r model.ReconciledRow) (string, bool) {
		return r.ComplaintJoined, r.HasComplaint
	})
}

// RegionStatusMatrix counts rows per region and status category.
func RegionStatusMatrix(rows []model.ReconciledRow) Matrix {
	columns := make([]string, len(Categories))
	for i, c := range Categories {
		columns[i] = string(c)
	}
	return pivot(rows, columns, StatusTotalColumn, func(r model.ReconciledRow) (string, bool) {
		return string(Categorize(r.StatusResolved)), true
	})
}

// pivot builds a region × columns count table. key returns the column a row
// counts towards, or false when it counts towards none.
func pivot(rows []model.ReconciledRow, columns []string, totalColumn string, key func(model.ReconciledRow) (string, bool)) Matrix {
	colIdx := make(map[string]int, len(columns))
	for i, c := range columns {
		colIdx[c] = i
	}
	width := len(columns) + 1

	byRegion := make(map[string][]int)
	var regions []string
	for _, r := range rows {
		values, ok := byRegion[r.Region]
		if !ok {
			values = make([]int, width)
			byRegion[r.Region] = values
			regions = append(regions, r.Region)
		}
		col, counted := key(r)
		if !counted {
			continue
		}
		if i, ok := colIdx[col]; ok {
			values[i]++
			values[width-1]++
		}
	}

	m := Matrix{
		Columns: append(append(make([]string, 0, width), columns...), totalColumn),
		Rows:    make([]MatrixRow, 0, len(regions)),
		Totals:  MatrixRow{Region: totalsLabel(byRegion), Values: make([]int, width)},
	}
	for _, region := range regions {
		values := byRegion[region]
		m.Rows = append(m.Rows, MatrixRow{Region: region, Values: values})
		for i, v := range values {
			m.Totals.Values[i] += v
		}
	}
	sort.SliceStable(m.Rows, func(i, j int) bool {
		ti, tj := m.Rows[i].Total(), m.Rows[j].Total()
		if ti != tj {
			return ti > tj
		}
		return m.Rows[i].Region < m.Rows[j].Region
	})
	return m
}

// totalsLabel returns TotalsRowLabel, starred until it differs from every
// region label.
func totalsLabel(regions map[string][]int) string {
	label := TotalsRowLabel
	for {
		if _, clash := regions[label]; !clash {
			return label
		}
		label += "*"
	}
}
