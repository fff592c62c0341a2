// Package render persists service reports as Excel workbooks and the run
// summary as YAML.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/report"
)

// Sheet names of a service workbook, in tab order.
const (
	SheetSummary  = "Summary"
	SheetRegions  = "Regions"
	SheetDetails  = "Details"
	SheetNegative = "Negative"
	SheetStatuses = "Statuses"
)

const defaultSheet = "Sheet1"

// XLSXWriter writes one workbook per service into a directory.
type XLSXWriter struct {
	dir    string
	prefix string
}

var _ report.Writer = (*XLSXWriter)(nil)

// NewXLSXWriter creates a writer that saves <prefix>_<service>.xlsx under dir.
func NewXLSXWriter(dir, prefix string) *XLSXWriter {
	if prefix == "" {
		prefix = "report"
	}
	return &XLSXWriter{dir: dir, prefix: prefix}
}

// Path returns the workbook path for service.
func (w *XLSXWriter) Path(service string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s_%s.xlsx", w.prefix, service))
}

// WriteService renders rep and returns the workbook path.
func (w *XLSXWriter) WriteService(ctx context.Context, rep *report.ServiceReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "render: create output dir %s", w.dir)
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", eris.Wrap(err, "render: header style")
	}
	b := &book{f: f, header: bold}

	b.sheet(SheetSummary, countsTable(rep.Counts))
	b.sheet(SheetRegions, matrixTable(rep.ComplaintMatrix))
	b.sheet(SheetDetails, detailTable(rep.Rows))
	b.sheet(SheetNegative, detailTable(rep.Negative))
	b.sheet(SheetStatuses, matrixTable(rep.StatusMatrix))
	if b.err != nil {
		return "", eris.Wrapf(b.err, "render: service %s", rep.Service)
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return "", eris.Wrap(err, "render: drop default sheet")
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	path := w.Path(rep.Service)
	if err := f.SaveAs(path); err != nil {
		return "", eris.Wrapf(err, "render: save %s", path)
	}

	zap.L().Info("render: workbook written",
		zap.String("service", rep.Service),
		zap.String("path", path),
		zap.Int("rows", len(rep.Rows)),
	)
	return path, nil
}

// book writes tables into a workbook, keeping the first error.
type book struct {
	f      *excelize.File
	header int
	err    error
}

func (b *book) sheet(name string, rows [][]any) {
	if b.err != nil {
		return
	}
	if _, err := b.f.NewSheet(name); err != nil {
		b.err = eris.Wrapf(err, "new sheet %s", name)
		return
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			b.err = err
			return
		}
		if err := b.f.SetSheetRow(name, cell, &row); err != nil {
			b.err = eris.Wrapf(err, "sheet %s row %d", name, i+1)
			return
		}
	}
	if len(rows) > 0 {
		if err := b.f.SetRowStyle(name, 1, 1, b.header); err != nil {
			b.err = eris.Wrapf(err, "sheet %s header style", name)
		}
	}
}

func countsTable(c report.Counts) [][]any {
	rows := [][]any{{"Metric", "Count", "Share %"}}
	for _, r := range c {
		share, _ := r.Share.Float64()
		rows = append(rows, []any{r.Label, r.Count, share})
	}
	return rows
}

// matrixTable lays out m with a leading region column. A matrix wider than a
// sheet keeps its first columns and the total column; the rest are dropped
// with a warning.
func matrixTable(m report.Matrix) [][]any {
	cols := sheetColumns(len(m.Columns))
	if len(cols) < len(m.Columns) {
		zap.L().Warn("render: matrix wider than a sheet, columns dropped",
			zap.Int("columns", len(m.Columns)),
			zap.Int("dropped", len(m.Columns)-len(cols)),
		)
	}

	header := make([]any, 0, len(cols)+1)
	header = append(header, "Region")
	for _, i := range cols {
		header = append(header, m.Columns[i])
	}
	rows := [][]any{header}
	for _, r := range append(append([]report.MatrixRow{}, m.Rows...), m.Totals) {
		line := make([]any, 0, len(cols)+1)
		line = append(line, r.Region)
		for _, i := range cols {
			line = append(line, r.Values[i])
		}
		rows = append(rows, line)
	}
	return rows
}

// sheetColumns returns the matrix column indexes that fit beside the region
// column, always keeping the last (total) column.
func sheetColumns(n int) []int {
	limit := excelize.MaxColumns - 1
	idx := make([]int, 0, min(n, limit))
	if n <= limit {
		for i := range n {
			idx = append(idx, i)
		}
		return idx
	}
	for i := range limit - 1 {
		idx = append(idx, i)
	}
	return append(idx, n-1)
}

func detailTable(recs []model.ReconciledRow) [][]any {
	header := make([]any, len(model.DetailColumns))
	for i, c := range model.DetailColumns {
		header[i] = c
	}
	rows := make([][]any, 0, len(recs)+1)
	rows = append(rows, header)
	for _, r := range recs {
		values := r.Values()
		line := make([]any, len(values))
		for i, v := range values {
			line[i] = v
		}
		rows = append(rows, line)
	}
	return rows
}
