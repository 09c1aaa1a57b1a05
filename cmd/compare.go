package cmd

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/scenario"
)

var comparePolicies []string // CPU policies to compare

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several CPU policies over one workload and compare their metrics",
	Run: func(cmd *cobra.Command, args []string) {
		processes, err := resolveProcesses(workloadPath, processList)
		if err != nil {
			logrus.Fatalf("Reading workload: %v", err)
		}
		if err := runCompare(cmd.Context(), os.Stdout, processes, comparePolicies, flagOr(cmd, "quantum", quantum, cfg.Quantum), outputFormat, exporter()); err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
	},
}

// runCompare schedules processes under every policy and prints a side-by-side
// comparison. Each run is exported and appended to the summary file when ex is set.
func runCompare(ctx context.Context, w io.Writer, processes []sim.Process, policies []string, q int64, format string, ex *export.Exporter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := scenario.CompareCPU(ctx, processes, policies, q)
	if err != nil {
		return err
	}

	if done, err := emit(w, format, map[string]any{"runs": runs}); err != nil {
		return err
	} else if !done {
		export.RenderComparison(w, runs)
	}

	if ex == nil {
		return nil
	}
	for _, run := range runs {
		if _, err := ex.ExportCPU(run.Result); err != nil {
			return err
		}
	}
	logrus.Infof("exported %d cpu runs to %s", len(runs), ex.Dir)
	return nil
}

func init() {
	compareCmd.Flags().StringSliceVar(&comparePolicies, "algos", []string{"fcfs", "sjf", "rr"}, "CPU policies to compare")
	compareCmd.Flags().Int64Var(&quantum, "quantum", 0, "Round-Robin time quantum (default from config)")
	addWorkloadFlags(compareCmd)
}
