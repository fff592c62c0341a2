package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/callrecon/internal/model"
	"github.com/sells-group/callrecon/internal/render"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Print a run summary written by reconcile",
	Long:  "Reads a YAML run summary and prints per-service counts and row faults. Defaults to the summary file under the report output directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(cfg.Report.OutputDir, cfg.Report.SummaryFile)
		if len(args) == 1 {
			path = args[0]
		}

		s, err := render.ReadSummary(path)
		if err != nil {
			return err
		}
		formatSummary(os.Stdout, s)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// formatSummary writes the service table followed by the fault counters.
func formatSummary(out io.Writer, s *model.RunSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run:\t%s\n", s.RunID)
	_, _ = fmt.Fprintf(w, "Generated:\t%s\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
	_, _ = fmt.Fprintf(w, "Rows:\t%d\n\n", s.Rows)

	_, _ = fmt.Fprintln(w, "SERVICE\tTOTAL\tCOMPLAINTS\tNEGATIVE\tNEG_OR_COMPLAINT\tREGIONS")
	for _, svc := range s.Services {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
			svc.Service, svc.Total, svc.Complaints, svc.Negative, svc.NegativeOrComplaint, svc.Regions)
	}

	op, inc := s.Counters.Operator, s.Counters.Incident
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Operator rows read:\t%d\n", op.RowsRead)
	_, _ = fmt.Fprintf(w, "Outside window:\t%d\n", op.OutsideWindow)
	_, _ = fmt.Fprintf(w, "Bad dates:\t%d\n", op.BadDates)
	_, _ = fmt.Fprintf(w, "Bad phones:\t%d\n", op.BadPhones)
	_, _ = fmt.Fprintf(w, "Missing incident:\t%d\n", op.MissingIncident)
	_, _ = fmt.Fprintf(w, "112 files read:\t%d\n", inc.FilesRead)
	_, _ = fmt.Fprintf(w, "112 rows read:\t%d\n", inc.RowsRead)
	_, _ = fmt.Fprintf(w, "Duplicates dropped:\t%d\n", inc.ExactDuplicates+inc.KeyDuplicates+inc.LatestDuplicates)
	_, _ = fmt.Fprintf(w, "Blank service:\t%d\n", inc.BlankService)
	_ = w.Flush()
}
