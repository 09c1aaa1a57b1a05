package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/workload"
)

var (
	workloadSpecPath string // Workload spec YAML
	workloadSeed     int64  // Seed override; 0 keeps the spec's seed
)

var workloadCmd = &cobra.Command{
	Use:   "workload",
	Short: "Generate the process set described by a workload spec",
	Run: func(cmd *cobra.Command, args []string) {
		if workloadSpecPath == "" {
			logrus.Fatalf("--spec is required")
		}
		spec, err := workload.LoadWorkloadSpec(workloadSpecPath)
		if err != nil {
			logrus.Fatalf("Loading workload spec: %v", err)
		}
		if cmd.Flags().Changed("seed") {
			spec.Seed = workloadSeed
		}
		if err := runWorkload(os.Stdout, spec, outputFormat); err != nil {
			logrus.Fatalf("Generating workload: %v", err)
		}
	},
}

// runWorkload resolves spec and prints the processes. The yaml format is an
// inline workload spec that --workload accepts back.
func runWorkload(w io.Writer, spec *workload.WorkloadSpec, format string) error {
	processes, err := spec.Resolve()
	if err != nil {
		return err
	}
	if format == "table" {
		export.RenderProcesses(w, processes)
		return nil
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(workload.WorkloadSpec{Seed: spec.Seed, Processes: processes})
	}
	_, err = emit(w, format, map[string]any{"seed": spec.Seed, "processes": processes})
	return err
}

func init() {
	workloadCmd.Flags().StringVar(&workloadSpecPath, "spec", "", "Workload spec YAML file")
	workloadCmd.Flags().Int64Var(&workloadSeed, "seed", 0, "Override the spec's seed")
}
