package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"perf-analyzer/src/config"
	"perf-analyzer/src/controller"
	"perf-analyzer/src/util"
)

// analyzeFlags holds command-line overrides. Each is applied only when
// the flag was set explicitly so config file values survive.
type analyzeFlags struct {
	extensions          []string
	threads             int
	formats             []string
	reportPath          string
	complexityThreshold int
	nestingThreshold    int
	minSeverity         string
	noClosureCaptures   bool
	noPersistence       bool
	noConcurrency       bool
	noProgress          bool
	history             bool
}

func (h *Handler) analyzeCmd() *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a source tree for performance issues",
		Long:  "Collects matching source files under path, runs every enabled rule in parallel and writes the configured reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			f.apply(cmd, h.cfg)
			if err := h.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			progress := newProgress(!f.noProgress && isatty.IsTerminal(os.Stderr.Fd()))
			result, err := h.analysis().Analyze(ctx, controller.AnalyzeRequest{
				Root:     root,
				Started:  progress.start,
				Progress: progress.update,
			})
			progress.stop()
			if err != nil {
				util.Error("Analysis failed: %v", err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			reportCtrl := controller.NewReportController(h.cfg)
			paths, err := reportCtrl.GenerateReports(result.Report, os.Stdout)
			if err != nil {
				return fmt.Errorf("generating reports: %w", err)
			}
			for _, path := range paths {
				fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
			}
			if result.Recorded {
				util.Info("Run recorded as %s", result.Run.ID)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&f.extensions, "extensions", "e", nil, "File extensions to analyze (default swift)")
	flags.IntVarP(&f.threads, "threads", "t", 0, "Worker count (0 = number of CPUs)")
	flags.StringSliceVarP(&f.formats, "output", "o", nil, "Report formats: console, json, yaml, markdown, sarif, html")
	flags.StringVarP(&f.reportPath, "report-path", "r", "", "Report file path, or - for stdout")
	flags.IntVar(&f.complexityThreshold, "complexity-threshold", 0, "Cyclomatic complexity threshold")
	flags.IntVar(&f.nestingThreshold, "nesting-threshold", 0, "Nesting depth threshold")
	flags.StringVar(&f.minSeverity, "min-severity", "", "Least severe level to report: critical, high, medium, low")
	flags.BoolVar(&f.noClosureCaptures, "no-closure-capture-analysis", false, "Disable closure capture analysis")
	flags.BoolVar(&f.noPersistence, "no-coredata-analysis", false, "Disable persistence framework analysis")
	flags.BoolVar(&f.noPersistence, "no-persistence-analysis", false, "Alias for --no-coredata-analysis")
	flags.BoolVar(&f.noConcurrency, "no-concurrency-analysis", false, "Disable concurrency analysis")
	flags.BoolVar(&f.noProgress, "no-progress", false, "Do not show a progress spinner")
	flags.BoolVar(&f.history, "history", false, "Record this run in the history database")

	return cmd
}

// apply copies explicitly set flags onto cfg
func (f *analyzeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("extensions") {
		cfg.Scan.Extensions = f.extensions
	}
	if changed("threads") {
		cfg.Concurrency.Workers = f.threads
	}
	if changed("output") {
		cfg.Output.Formats = f.formats
	}
	if changed("report-path") {
		cfg.Output.ReportPath = f.reportPath
	}
	if changed("complexity-threshold") {
		cfg.Analysis.ComplexityThreshold = f.complexityThreshold
	}
	if changed("nesting-threshold") {
		cfg.Analysis.NestingThreshold = f.nestingThreshold
	}
	if changed("min-severity") {
		cfg.Analysis.MinSeverity = f.minSeverity
	}
	if f.noClosureCaptures {
		cfg.Analysis.Rules.ClosureCaptures = false
	}
	if f.noPersistence {
		cfg.Analysis.Rules.Persistence = false
	}
	if f.noConcurrency {
		cfg.Analysis.Rules.Concurrency = false
	}
	if changed("history") {
		cfg.History.Enabled = f.history
	}
}

// progress drives a stderr spinner during fan-out. A disabled progress
// only logs at debug level.
type progress struct {
	s *spinner.Spinner
}

func newProgress(enabled bool) *progress {
	p := &progress{}
	if enabled {
		p.s = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		p.s.Suffix = " Collecting files..."
		p.s.Start()
	}
	return p
}

func (p *progress) start(total int) {
	if p.s == nil {
		return
	}
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(" Analyzing %d files...", total)
	p.s.Unlock()
}

func (p *progress) update(done, total int, path string) {
	util.Debug("Analyzed %d/%d: %s", done, total, path)
	if p.s == nil {
		return
	}
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(" Analyzed %d/%d %s", done, total, filepath.Base(path))
	p.s.Unlock()
}

func (p *progress) stop() {
	if p.s != nil {
		p.s.Stop()
	}
}
