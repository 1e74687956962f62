package controller

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"perf-analyzer/src/config"
	"perf-analyzer/src/model"
	"perf-analyzer/src/service/report"
	"perf-analyzer/src/util"
)

// reportBaseName is the file name, without extension, of written reports
const reportBaseName = "performance-report"

// ReportController handles report generation
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// GenerateReports renders every configured format. Console output goes
// to stdout; other formats are written to files whose paths are returned.
func (c *ReportController) GenerateReports(analysisReport *model.PerformanceReport, stdout io.Writer) ([]string, error) {
	formats := c.cfg.Output.Formats
	util.Debug("Generating reports for %d formats: %v", len(formats), formats)
	reportGenerator := report.NewGenerator(c.cfg.Output, c.cfg.Agent.Version)
	var outputPaths []string

	fileFormats := 0
	for _, format := range formats {
		if !isConsole(format) {
			fileFormats++
		}
	}

	for _, format := range formats {
		util.Debug("Generating %s report", format)
		output, err := reportGenerator.Generate(analysisReport, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.getOutputPath(format, fileFormats)
		if outputPath == "" {
			if _, err := fmt.Fprintln(stdout, output); err != nil {
				return nil, err
			}
			continue
		}

		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			util.Error("Failed to create output directory: %v", err)
			return nil, err
		}

		// Write file
		if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
			util.Error("Failed to write report to %s: %v", outputPath, err)
			return nil, err
		}

		util.Info("Report written: %s", outputPath)
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// getOutputPath returns "" for output that belongs on stdout. An explicit
// report path applies when it is the only file format; "-" means stdout.
func (c *ReportController) getOutputPath(format string, fileFormats int) string {
	if isConsole(format) {
		return ""
	}

	reportPath := c.cfg.Output.ReportPath
	if reportPath == "-" {
		return ""
	}
	if reportPath != "" && fileFormats == 1 {
		return reportPath
	}

	dir := c.cfg.Output.OutputDir
	if reportPath != "" {
		// Several formats share the explicit path's directory and stem
		dir = filepath.Dir(reportPath)
		stem := strings.TrimSuffix(filepath.Base(reportPath), filepath.Ext(reportPath))
		return filepath.Join(dir, stem+"."+report.Extension(format))
	}
	return filepath.Join(dir, reportBaseName+"."+report.Extension(format))
}

func isConsole(format string) bool {
	return strings.EqualFold(format, "console")
}
