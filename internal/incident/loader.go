// Package incident loads the 112 incident exports: every workbook in a
// directory, concatenated in file-name order, deduplicated and renamed to the
// canonical IncidentRow schema.
package incident

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/callrecon/internal/fetcher"
	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/normalize"
)

const defaultMaxConcurrentFiles = 4

// Options configures the 112 loader.
type Options struct {
	Dir string
	// DedupeTimestampColumn names a column holding a secondary timestamp.
	// When set and present, only the latest row per incident survives.
	DedupeTimestampColumn string
	MaxConcurrentFiles    int
}

// Loader reads a directory of 112 exports.
type Loader struct {
	opts Options
}

// NewLoader creates a Loader.
func NewLoader(opts Options) *Loader {
	if opts.MaxConcurrentFiles <= 0 {
		opts.MaxConcurrentFiles = defaultMaxConcurrentFiles
	}
	return &Loader{opts: opts}
}

// parsedRow carries a canonical row plus the fields only dedup needs.
type parsedRow struct {
	row   model.IncidentRow
	tsRaw string
	ts    *time.Time
}

// Load reads every export and returns the deduplicated rows in order.
// It returns model.ErrSourceMissing when no file carries the service column
// and model.ErrSourceMalformed when a data file lacks another required column.
func (l *Loader) Load(ctx context.Context) ([]model.IncidentRow, model.IncidentCounters, error) {
	var counters model.IncidentCounters

	paths, err := ListFiles(l.opts.Dir)
	if err != nil {
		return nil, counters, err
	}

	sheets := make([][][]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.MaxConcurrentFiles)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SkipBlank: true})
			if err != nil {
				return eris.Wrapf(err, "incident: read %s", filepath.Base(path))
			}
			sheets[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, counters, err
	}

	var (
		parsed   []parsedRow
		dataSeen bool
	)
	for i, rows := range sheets {
		name := filepath.Base(paths[i])
		if len(rows) == 0 || !hasServiceColumn(rows[0]) {
			counters.FilesSkipped++
			zap.L().Debug("incident: skipping file without service column", zap.String("file", name))
			continue
		}
		cols, err := resolveColumns(rows[0], l.opts.DedupeTimestampColumn)
		if err != nil {
			return nil, counters, eris.Wrapf(err, "incident: %s", name)
		}
		dataSeen = true
		counters.FilesRead++

		for _, cells := range rows[1:] {
			counters.RowsRead++
			parsed = append(parsed, parseRow(cols, cells, &counters))
		}
	}
	if !dataSeen {
		return nil, counters, eris.Wrapf(model.ErrSourceMissing, "incident: no export with a service column in %s", l.opts.Dir)
	}

	parsed = dropExactDuplicates(parsed, &counters)
	parsed = dropKeyDuplicates(parsed, &counters)
	if l.opts.DedupeTimestampColumn != "" {
		parsed = keepLatestPerIncident(parsed, &counters)
	}

	out := make([]model.IncidentRow, 0, len(parsed))
	for _, p := range parsed {
		if p.row.ServiceCode == "" {
			counters.BlankService++
			continue
		}
		out = append(out, p.row)
	}
	counters.RowsEmitted = len(out)

	zap.L().Info("incident: exports loaded",
		zap.Int("files_read", counters.FilesRead),
		zap.Int("files_skipped", counters.FilesSkipped),
		zap.Int("rows_read", counters.RowsRead),
		zap.Int("exact_duplicates", counters.ExactDuplicates),
		zap.Int("key_duplicates", counters.KeyDuplicates),
		zap.Int("latest_duplicates", counters.LatestDuplicates),
		zap.Int("blank_service", counters.BlankService),
		zap.Int("rows_emitted", counters.RowsEmitted),
	)
	return out, counters, nil
}

// ListFiles returns the .xlsx exports directly under dir, sorted by name.
// Office lock files are ignored.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(model.ErrSourceMissing, "incident: read dir %s: %v", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

func parseRow(cols columns, cells []string, counters *model.IncidentCounters) parsedRow {
	row := model.IncidentRow{
		IncidentID:     normalize.IncidentID(cols.get(cells, fieldIncident)),
		CardID:         normalize.Clean(cols.get(cells, fieldCard)),
		ServiceCode:    normalize.ServiceCode(cols.get(cells, fieldService)),
		ReceivedStatus: normalize.Clean(cols.get(cells, fieldStatus)),
		Region:         normalize.Clean(cols.get(cells, fieldRegion)),
		District:       normalize.Clean(cols.get(cells, fieldDistrict)),
		OperatorName:   normalize.Clean(cols.get(cells, fieldOperator)),
	}

	rawPhone := cols.get(cells, fieldPhone)
	row.CallerPhone = normalize.Phone(rawPhone)
	if normalize.PhoneMalformed(rawPhone, row.CallerPhone) {
		counters.BadPhones++
	}

	rawReceived := cols.get(cells, fieldReceivedAt)
	if ts, ok := normalize.ParseTimestamp(rawReceived); ok {
		row.ReceivedAt = &ts
	} else if !normalize.IsAbsent(rawReceived) {
		counters.BadDates++
	}

	p := parsedRow{row: row}
	if cols.ts >= 0 {
		p.tsRaw = normalize.Clean(cell(cells, cols.ts))
		if ts, ok := normalize.ParseTimestamp(p.tsRaw); ok {
			p.ts = &ts
		}
	}
	return p
}

func dropExactDuplicates(rows []parsedRow, counters *model.IncidentCounters) []parsedRow {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0]
	for _, p := range rows {
		key := strings.Join(append(p.row.Values(), p.tsRaw), "\x1f")
		if _, dup := seen[key]; dup {
			counters.ExactDuplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

type dedupeKey struct {
	incident, card, service, phone string
}

func dropKeyDuplicates(rows []parsedRow, counters *model.IncidentCounters) []parsedRow {
	seen := make(map[dedupeKey]struct{}, len(rows))
	out := rows[:0]
	for _, p := range rows {
		key := dedupeKey{p.row.IncidentID, p.row.CardID, p.row.ServiceCode, p.row.CallerPhone}
		if _, dup := seen[key]; dup {
			counters.KeyDuplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// keepLatestPerIncident stable-sorts by the dedupe timestamp descending
// (unparseable last) and keeps the first row of each incident. The survivors
// are returned in their original relative order.
func keepLatestPerIncident(rows []parsedRow, counters *model.IncidentCounters) []parsedRow {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := rows[order[a]].ts, rows[order[b]].ts
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return ta.After(*tb)
		}
	})

	keep := make([]bool, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, i := range order {
		id := rows[i].row.IncidentID
		if _, dup := seen[id]; dup {
			counters.LatestDuplicates++
			continue
		}
		seen[id] = struct{}{}
		keep[i] = true
	}

	out := rows[:0]
	for i, p := range rows {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
