package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/callrecon/internal/config"
	"github.com/sells-group/callrecon/internal/pipeline"
	"github.com/sells-group/callrecon/internal/render"
	"github.com/sells-group/callrecon/internal/store"
)

var (
	reconcileOperator    string
	reconcileIncidents   string
	reconcileOut         string
	reconcileDateFilter  bool
	reconcilePersistRows bool
	reconcileNoStore     bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the operator call log with the 112 exports",
	Long:  "Loads both feeds, attributes complaints and contact status to every 112 row, and writes one workbook per service plus a YAML run summary.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		applyReconcileFlags(cmd, cfg)

		var st store.Store
		if !reconcileNoStore {
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			st = s
		}

		w := render.NewXLSXWriter(cfg.Report.OutputDir, cfg.Report.FilePrefix)
		res, err := pipeline.New(cfg, st, w).Run(ctx)
		if err != nil {
			return eris.Wrap(err, "reconcile")
		}

		for _, rep := range res.Reports {
			s := rep.Summary()
			zap.L().Info("service report",
				zap.String("service", s.Service),
				zap.Int("total", s.Total),
				zap.Int("complaints", s.Complaints),
				zap.Int("negative", s.Negative),
				zap.Int("negative_or_complaint", s.NegativeOrComplaint),
				zap.String("path", res.Paths[s.Service]),
			)
		}
		zap.L().Info("reconcile complete",
			zap.String("run_id", res.RunID),
			zap.Int("rows", len(res.Rows)),
			zap.String("summary", res.SummaryPath),
		)
		return nil
	},
}

// applyReconcileFlags copies explicitly set flags over the loaded config.
func applyReconcileFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("operator") {
		c.Operator.Source = reconcileOperator
	}
	if flags.Changed("incidents") {
		c.Incident.Dir = reconcileIncidents
	}
	if flags.Changed("out") {
		c.Report.OutputDir = reconcileOut
	}
	if flags.Changed("date-filter") {
		c.Operator.ApplyDateFilter = reconcileDateFilter
	}
	if flags.Changed("persist-rows") {
		c.Store.PersistRows = reconcilePersistRows
	}
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileOperator, "operator", "", "operator call-log CSV (path or http(s) URL)")
	reconcileCmd.Flags().StringVar(&reconcileIncidents, "incidents", "", "directory of 112 .xlsx exports")
	reconcileCmd.Flags().StringVar(&reconcileOut, "out", "", "output directory for reports")
	reconcileCmd.Flags().BoolVar(&reconcileDateFilter, "date-filter", false, "restrict the operator feed to the configured window")
	reconcileCmd.Flags().BoolVar(&reconcilePersistRows, "persist-rows", false, "save reconciled rows to the run store")
	reconcileCmd.Flags().BoolVar(&reconcileNoStore, "no-store", false, "do not record the run")
	rootCmd.AddCommand(reconcileCmd)
}
