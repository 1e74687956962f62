package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"perf-analyzer/src/controller"
)

func (h *Handler) analysis() *controller.AnalysisController {
	return controller.NewAnalysisController(h.cfg)
}

func (h *Handler) historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs",
		Long:  "Prints the runs stored in the history database, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := h.analysis().History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintf(out, "No runs recorded in %s\n", h.cfg.History.Path)
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tID\tFILES\tPROBLEMATIC\tLINES\tISSUES\tCRITICAL\tHIGH\tHEALTH\tROOT")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f\t%s\n",
					run.StartedAt.Local().Format(time.DateTime),
					shortID(run.ID),
					run.TotalFiles,
					run.ProblematicFiles,
					run.TotalLines,
					run.IssueCount,
					run.CriticalCount,
					run.HighCount,
					run.HealthScore,
					run.Root,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 = all)")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
