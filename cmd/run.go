package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/scenario"
)

var scenarioPath string // Scenario YAML file

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every section of a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		if scenarioPath == "" {
			logrus.Fatalf("--scenario is required")
		}
		if err := runScenario(cmd.Context(), os.Stdout, scenarioPath, outputFormat, exporter()); err != nil {
			logrus.Fatalf("Scenario failed: %v", err)
		}
	},
}

func runScenario(ctx context.Context, w io.Writer, path, format string, ex *export.Exporter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := scenario.LoadScenario(path)
	if err != nil {
		return err
	}
	report, err := s.Run(ctx)
	if err != nil {
		return err
	}

	if done, err := emit(w, format, report); err != nil {
		return err
	} else if !done {
		renderReport(w, report)
	}

	if ex != nil {
		return exportReport(ex, report)
	}
	return nil
}

func renderReport(w io.Writer, report *scenario.Report) {
	if report.Name != "" {
		_, _ = fmt.Fprintf(w, "Scenario: %s\n\n", report.Name)
	}
	for _, run := range report.CPU {
		renderCPURun(w, run)
		_, _ = fmt.Fprintln(w)
	}
	if len(report.CPU) > 1 {
		export.RenderComparison(w, report.CPU)
		_, _ = fmt.Fprintln(w)
	}
	for _, result := range report.Paging {
		export.RenderPaging(w, result)
		_, _ = fmt.Fprintln(w)
	}
	for _, result := range report.Disk {
		export.RenderDisk(w, result)
		_, _ = fmt.Fprintln(w)
	}
}

func exportReport(ex *export.Exporter, report *scenario.Report) error {
	var written []string
	for _, run := range report.CPU {
		paths, err := ex.ExportCPU(run.Result)
		if err != nil {
			return err
		}
		written = append(written, paths...)
	}
	for _, result := range report.Paging {
		path, err := ex.ExportPaging(result)
		if err != nil {
			return err
		}
		written = append(written, path)
	}
	for _, result := range report.Disk {
		path, err := ex.ExportDisk(result)
		if err != nil {
			return err
		}
		written = append(written, path)
	}
	logrus.Infof("exported %d files to %s", len(written), ex.Dir)
	return nil
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML file")
}
