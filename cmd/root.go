package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xaios/ossim/config"
	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/workload"
)

var (
	logLevel     string // Log verbosity level
	configPath   string // Optional ossim.yaml path
	outputFormat string // table, json or yaml
	exportDir    string // Directory for CSV exports (overrides config)
	noExport     bool   // Skip CSV exports

	// Workload input shared by cpu, compare and live
	processList  string // "id:arrival:burst" triples
	workloadPath string // .csv or .yaml workload file

	cfg *config.Config
)

// textbookProcesses is the workload used when none is given.
var textbookProcesses = []sim.Process{
	{ID: "P1", Arrival: 0, Burst: 5},
	{ID: "P2", Arrival: 2, Burst: 3},
	{ID: "P3", Arrival: 4, Burst: 1},
}

// validFormats is the set of recognized --format values.
var validFormats = map[string]bool{"table": true, "json": true, "yaml": true}

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ossim",
	Short: "Deterministic simulator for CPU scheduling, page replacement and disk scheduling",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !validFormats[outputFormat] {
			logrus.Fatalf("Invalid output format %q; valid: table, json, yaml", outputFormat)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			logrus.Fatalf("Loading configuration: %v", err)
		}
		if exportDir == "" {
			exportDir = cfg.ExportDir
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// exporter returns nil when exports are disabled.
func exporter() *export.Exporter {
	if noExport {
		return nil
	}
	return &export.Exporter{Dir: exportDir}
}

// resolveProcesses picks the workload: --workload, then --processes, then the
// textbook set.
func resolveProcesses(path, list string) ([]sim.Process, error) {
	switch {
	case path != "" && list != "":
		return nil, fmt.Errorf("%w: --workload and --processes are mutually exclusive", sim.ErrMalformedInput)
	case path != "":
		return workload.LoadProcesses(path)
	case list != "":
		return workload.ParseProcessList(list)
	default:
		return append([]sim.Process(nil), textbookProcesses...), nil
	}
}

// flagOr returns value when the named flag was given on the command line and
// fallback otherwise, so an explicit zero still reaches validation.
func flagOr[T any](cmd *cobra.Command, name string, value, fallback T) T {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

// emit writes v as JSON or YAML. It reports false for the table format so the
// caller renders instead.
func emit(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return true, enc.Encode(v)
	default:
		return false, nil
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to ossim.yaml (default ./ossim.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&exportDir, "out", "", "Directory for CSV exports (default from config, \".\")")
	rootCmd.PersistentFlags().BoolVar(&noExport, "no-export", false, "Do not write CSV files")

	rootCmd.AddCommand(cpuCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(pagingCmd)
	rootCmd.AddCommand(diskCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(workloadCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addWorkloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&processList, "processes", "", "Processes as id:arrival:burst triples, e.g. \"P1:0:5 P2:2:3\"")
	cmd.Flags().StringVar(&workloadPath, "workload", "", "Workload file (.csv with id,arrival,burst or .yaml workload spec)")
}
