// Package operator loads the consolidated operator call-back log and emits
// normalized records in chunks.
package operator

import (
	"context"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/callrecon/internal/fetcher"
	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/normalize"
)

// DefaultChunkSize is the number of records handed to the consumer at once.
const DefaultChunkSize = 200_000

// Options configures the operator loader.
type Options struct {
	ApplyDateFilter bool
	WindowStart     time.Time // inclusive
	WindowEnd       time.Time // inclusive
	ChunkSize       int
	Delimiter       rune
}

// ChunkFunc consumes one chunk of records. The loader does not reuse the
// slice after the call returns.
type ChunkFunc func(chunk []model.OperatorRecord) error

// Loader reads the operator feed in a single pass.
type Loader struct {
	opts Options
}

// NewLoader creates a Loader, defaulting the chunk size.
func NewLoader(opts Options) *Loader {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Loader{opts: opts}
}

// Load streams r, normalizes every row and hands chunks of records to fn.
// A missing required column returns model.ErrSourceMalformed before any chunk
// is emitted. Unparseable dates and phones are counted, never fatal.
func (l *Loader) Load(ctx context.Context, r io.Reader, fn ChunkFunc) (model.OperatorCounters, error) {
	var counters model.OperatorCounters

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rowCh, errCh := fetcher.StreamCSV(ctx, r, fetcher.CSVOptions{
		Delimiter:  l.opts.Delimiter,
		LazyQuotes: true,
	})

	var (
		cols    columns
		width   int
		header  = true
		chunk   = make([]model.OperatorRecord, 0, min(l.opts.ChunkSize, 4096))
		loopErr error
	)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		counters.Chunks++
		out := chunk
		chunk = make([]model.OperatorRecord, 0, min(l.opts.ChunkSize, 4096))
		return fn(out)
	}

	for row := range rowCh {
		if loopErr != nil {
			continue // drain until the stream notices cancellation
		}

		if header {
			header = false
			cols, loopErr = resolveColumns(row.Cells)
			if loopErr != nil {
				cancel()
				continue
			}
			width = cols.width()
			continue
		}

		counters.RowsRead++
		if len(row.Cells) < width {
			counters.ShortRows++
		}

		rec, ok := l.record(cols, row, &counters)
		if !ok {
			counters.OutsideWindow++
			continue
		}
		counters.RowsAdmitted++
		chunk = append(chunk, rec)

		if len(chunk) >= l.opts.ChunkSize {
			if err := flush(); err != nil {
				loopErr = eris.Wrap(err, "operator: consume chunk")
				cancel()
			}
		}
	}

	if loopErr != nil {
		return counters, loopErr
	}
	for err := range errCh {
		if err != nil {
			return counters, eris.Wrap(err, "operator: read feed")
		}
	}
	if header {
		return counters, eris.Wrap(model.ErrSourceMalformed, "operator: feed has no header row")
	}
	if err := flush(); err != nil {
		return counters, eris.Wrap(err, "operator: consume chunk")
	}

	zap.L().Info("operator: feed loaded",
		zap.Int("rows_read", counters.RowsRead),
		zap.Int("rows_admitted", counters.RowsAdmitted),
		zap.Int("outside_window", counters.OutsideWindow),
		zap.Int("bad_dates", counters.BadDates),
		zap.Int("bad_phones", counters.BadPhones),
		zap.Int("short_rows", counters.ShortRows),
		zap.Int("chunks", counters.Chunks),
	)
	return counters, nil
}

// record normalizes one row. It returns false when the date window rejects
// the row.
func (l *Loader) record(cols columns, row fetcher.Row, counters *model.OperatorCounters) (model.OperatorRecord, bool) {
	cells := row.Cells
	rec := model.OperatorRecord{
		IncidentID:     normalize.IncidentID(cols.get(cells, fieldIncident)),
		ContactStatus:  normalize.Status(cols.get(cells, fieldStatus)),
		ServiceRef:     normalize.Clean(cols.get(cells, fieldServiceRef)),
		ComplaintText:  normalize.Clean(cols.get(cells, fieldComplaint)),
		PositiveMarker: normalize.Clean(cols.get(cells, fieldPositive)),
	}

	rawPhone := cols.get(cells, fieldPhone)
	rec.Phone = normalize.Phone(rawPhone)
	if normalize.PhoneMalformed(rawPhone, rec.Phone) {
		counters.BadPhones++
	}

	rawOpened := cols.get(cells, fieldOpenedAt)
	if ts, ok := normalize.ParseTimestamp(rawOpened); ok {
		rec.OpenedAt = &ts
	} else if !normalize.IsAbsent(rawOpened) {
		counters.BadDates++
		zap.L().Debug("operator: unparseable opened_at",
			zap.Int("line", row.Line),
			zap.String("value", rawOpened),
		)
	}

	if l.opts.ApplyDateFilter {
		if rec.OpenedAt == nil || !normalize.InWindow(*rec.OpenedAt, l.opts.WindowStart, l.opts.WindowEnd) {
			return rec, false
		}
	}
	return rec, true
}
