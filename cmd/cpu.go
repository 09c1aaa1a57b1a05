package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/scenario"
)

var (
	cpuPolicy     string // CPU policy name
	quantum       int64  // Round-Robin quantum; the configured value when unset
	showDecisions bool   // Print the decision log
	showGantt     bool   // Print the ASCII Gantt chart
)

var cpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "Run one CPU scheduling policy",
	Run: func(cmd *cobra.Command, args []string) {
		processes, err := resolveProcesses(workloadPath, processList)
		if err != nil {
			logrus.Fatalf("Reading workload: %v", err)
		}
		if err := runCPU(os.Stdout, processes, cpuPolicy, flagOr(cmd, "quantum", quantum, cfg.Quantum), outputFormat, exporter()); err != nil {
			logrus.Fatalf("CPU scheduling failed: %v", err)
		}
	},
}

// runCPU schedules processes, prints the result and exports it when ex is set.
func runCPU(w io.Writer, processes []sim.Process, policy string, q int64, format string, ex *export.Exporter) error {
	run, err := scenario.NewCPURun(processes, policy, q)
	if err != nil {
		return err
	}

	if done, err := emit(w, format, run); err != nil {
		return err
	} else if !done {
		renderCPURun(w, run)
	}

	if ex != nil {
		paths, err := ex.ExportCPU(run.Result)
		if err != nil {
			return err
		}
		logrus.Infof("exported %v", paths)
	}
	return nil
}

func renderCPURun(w io.Writer, run scenario.CPURun) {
	export.RenderSchedule(w, run.Result)
	if showGantt {
		_, _ = fmt.Fprintln(w)
		export.WriteGantt(w, run.Result)
	}
	if showDecisions {
		_, _ = fmt.Fprintln(w)
		export.RenderDecisions(w, run.Result.Decisions)
		export.RenderTraceSummary(w, run.Trace)
	}
}

func init() {
	cpuCmd.Flags().StringVar(&cpuPolicy, "algo", "fcfs", "CPU policy (fcfs, sjf, rr)")
	cpuCmd.Flags().Int64Var(&quantum, "quantum", 0, "Round-Robin time quantum (default from config)")
	cpuCmd.Flags().BoolVar(&showDecisions, "decisions", true, "Print the decision log")
	cpuCmd.Flags().BoolVar(&showGantt, "gantt", true, "Print an ASCII Gantt chart")
	addWorkloadFlags(cpuCmd)
}
