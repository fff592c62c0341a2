// Package pipeline runs one reconciliation end to end: both feeds in, one
// report per service out, and a run record in the store.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/callrecon/internal/attribution"
	"github.com/sells-group/callrecon/internal/config"
	"github.com/sells-group/callrecon/internal/fetcher"
	"github.com/sells-group/callrecon/internal/incident"
	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/operator"
	"github.com/sells-group/callrecon/internal/reconcile"
	"github.com/sells-group/callrecon/internal/render"
	"github.com/sells-group/callrecon/internal/report"
	"github.com/sells-group/callrecon/internal/store"
)

// Result is everything a run produced.
type Result struct {
	RunID    string
	Rows     []model.ReconciledRow
	Reports  []*report.ServiceReport
	Counters model.Counters
	// Paths maps a service code to the location its report was written to.
	Paths       map[string]string
	SummaryPath string
	Summary     *model.RunSummary
}

// Pipeline wires the loaders, reconciler, aggregators and writer together.
type Pipeline struct {
	cfg    *config.Config
	store  store.Store
	writer report.Writer
	now    func() time.Time
}

// New creates a Pipeline. st may be nil, in which case no run is recorded.
func New(cfg *config.Config, st store.Store, w report.Writer) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		writer: w,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run executes a reconciliation. Configuration errors are returned before
// any input is read or any run is recorded; every later failure marks the
// run as failed.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	opOpts, err := p.operatorOptions()
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("operator_source", p.cfg.Operator.Source),
		zap.String("incident_dir", p.cfg.Incident.Dir),
	)
	log.Info("pipeline: starting reconciliation", zap.Bool("apply_date_filter", opOpts.ApplyDateFilter))

	result := &Result{Paths: make(map[string]string)}

	if p.store != nil {
		run, err := p.store.CreateRun(ctx, model.RunInput{
			OperatorSource:  p.cfg.Operator.Source,
			IncidentDir:     p.cfg.Incident.Dir,
			ApplyDateFilter: p.cfg.Operator.ApplyDateFilter,
		})
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		result.RunID = run.ID
		log = log.With(zap.String("run_id", run.ID))
	}

	if err := p.execute(ctx, opOpts, result); err != nil {
		log.Error("pipeline: reconciliation failed", zap.Error(err))
		p.fail(ctx, result.RunID, err)
		return result, err
	}

	log.Info("pipeline: reconciliation complete",
		zap.Int("rows", len(result.Rows)),
		zap.Int("services", len(result.Reports)),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, opOpts operator.Options, result *Result) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "pipeline: cancelled")
	}

	maps, err := p.loadOperator(ctx, opOpts, result)
	if err != nil {
		return err
	}

	incidents, incCounters, err := incident.NewLoader(incident.Options{
		Dir:                   p.cfg.Incident.Dir,
		DedupeTimestampColumn: p.cfg.Incident.DedupeTimestampColumn,
		MaxConcurrentFiles:    p.cfg.Incident.MaxConcurrentFiles,
	}).Load(ctx)
	result.Counters.Incident = incCounters
	if err != nil {
		return eris.Wrap(err, "pipeline: load incidents")
	}
	if len(incidents) == 0 {
		return eris.Wrapf(model.ErrEmptyReconciliation, "pipeline: no incident rows in %s", p.cfg.Incident.Dir)
	}

	result.Rows = reconcile.Reconcile(incidents, maps)

	result.Reports, err = report.Build(result.Rows)
	if err != nil {
		return eris.Wrap(err, "pipeline: build reports")
	}

	for _, rep := range result.Reports {
		if err := ctx.Err(); err != nil {
			return eris.Wrap(err, "pipeline: write reports")
		}
		path, err := p.writer.WriteService(ctx, rep)
		if err != nil {
			return eris.Wrapf(err, "pipeline: write report for service %s", rep.Service)
		}
		result.Paths[rep.Service] = path
		c := rep.Counts
		zap.L().Info("pipeline: service report written",
			zap.String("service", rep.Service),
			zap.String("path", path),
			zap.Int("total", c.Get(report.LabelTotal)),
			zap.Int("complaints", c.Get(report.LabelComplaints)),
			zap.Int("negative", c.Get(report.LabelNegative)),
		)
	}

	result.Summary = p.summary(result)
	if name := p.cfg.Report.SummaryFile; name != "" {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.cfg.Report.OutputDir, name)
		}
		if err := render.WriteSummary(path, result.Summary); err != nil {
			return eris.Wrap(err, "pipeline: write summary")
		}
		result.SummaryPath = path
	}

	if p.store == nil {
		return nil
	}
	if p.cfg.Store.PersistRows {
		n, err := p.store.SaveRows(ctx, result.RunID, result.Rows)
		if err != nil {
			return eris.Wrap(err, "pipeline: save rows")
		}
		zap.L().Debug("pipeline: rows saved", zap.Int64("rows", n))
	}
	if err := p.store.CompleteRun(ctx, result.RunID, result.Summary); err != nil {
		return eris.Wrap(err, "pipeline: complete run")
	}
	return nil
}

// loadOperator streams the operator feed into an attribution builder.
func (p *Pipeline) loadOperator(ctx context.Context, opts operator.Options, result *Result) (*attribution.Maps, error) {
	src, err := fetcher.OpenSource(ctx, p.cfg.Operator.Source, p.sourceOptions())
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: open operator feed")
	}
	defer src.Close() //nolint:errcheck

	builder := attribution.NewBuilder()
	counters, err := operator.NewLoader(opts).Load(ctx, src, builder.AddChunk)
	stats := builder.Stats()
	counters.MissingIncident = stats.MissingIncident
	counters.IncidentLikeComplaints = stats.IncidentLikeComplaints
	result.Counters.Operator = counters
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load operator feed")
	}

	zap.L().Info("pipeline: attribution maps built",
		zap.Int("records", stats.Records),
		zap.Int("scoped_by_prefix", stats.ScopedByPrefix),
		zap.Int("scoped_by_service_ref", stats.ScopedByServiceRef),
		zap.Int("unscoped", stats.Unscoped),
		zap.Int("missing_incident", stats.MissingIncident),
	)
	maps := builder.Maps()
	if err := maps.Check(); err != nil {
		return nil, eris.Wrap(err, "pipeline: attribution")
	}
	return maps, nil
}

func (p *Pipeline) operatorOptions() (operator.Options, error) {
	oc := p.cfg.Operator
	opts := operator.Options{
		ApplyDateFilter: oc.ApplyDateFilter,
		ChunkSize:       oc.ChunkSize,
	}
	if d := []rune(oc.Delimiter); len(d) == 1 {
		opts.Delimiter = d[0]
	}
	if oc.ApplyDateFilter {
		start, end, err := oc.Window()
		if err != nil {
			return operator.Options{}, err
		}
		opts.WindowStart, opts.WindowEnd = start, end
	}
	return opts, nil
}

func (p *Pipeline) sourceOptions() fetcher.SourceOptions {
	fc := p.cfg.Fetch
	return fetcher.SourceOptions{
		UserAgent:  fc.UserAgent,
		Timeout:    time.Duration(fc.TimeoutSecs) * time.Second,
		MaxRetries: fc.MaxRetries,
	}
}

func (p *Pipeline) summary(result *Result) *model.RunSummary {
	s := &model.RunSummary{
		RunID:       result.RunID,
		GeneratedAt: p.now(),
		Rows:        len(result.Rows),
		Services:    make([]model.ServiceSummary, 0, len(result.Reports)),
		Counters:    result.Counters,
	}
	for _, rep := range result.Reports {
		s.Services = append(s.Services, rep.Summary())
	}
	return s
}

// fail records err on the run. A failure to record is logged, not returned.
func (p *Pipeline) fail(ctx context.Context, runID string, err error) {
	if p.store == nil || runID == "" {
		return
	}
	// Record the failure even when ctx was what failed.
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	if failErr := p.store.FailRun(ctx, runID, err.Error()); failErr != nil {
		zap.L().Warn("pipeline: failed to record run failure",
			zap.String("run_id", runID),
			zap.Error(failErr),
		)
	}
}
