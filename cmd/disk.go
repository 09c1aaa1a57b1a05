package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xaios/ossim/sim/disk"
	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/workload"
)

var (
	diskPolicies []string // Disk policies to run
	startHead    int      // Initial head cylinder
	direction    string   // Initial sweep direction for SCAN and C-SCAN
	maxCylinder  int      // Highest cylinder; the configured value when unset
	diskRequests string   // Cylinder request queue
)

const textbookRequests = "98 183 37 122 14 124 65 67"

var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Simulate disk-head scheduling over a request queue",
	Run: func(cmd *cobra.Command, args []string) {
		requests, err := workload.ParseIntSequence(diskRequests)
		if err != nil {
			logrus.Fatalf("Parsing --requests: %v", err)
		}
		params := disk.Params{
			Requests:    requests,
			StartHead:   startHead,
			Direction:   flagOr(cmd, "direction", direction, cfg.Direction),
			MaxCylinder: flagOr(cmd, "max-cylinder", maxCylinder, cfg.MaxCylinder),
		}
		if err := runDisk(os.Stdout, params, diskPolicies, outputFormat, exporter()); err != nil {
			logrus.Fatalf("Disk scheduling failed: %v", err)
		}
	},
}

// runDisk runs params once per policy; params.Policy is overwritten.
func runDisk(w io.Writer, params disk.Params, policies []string, format string, ex *export.Exporter) error {
	results := make([]*disk.Result, 0, len(policies))
	for _, policy := range policies {
		params.Policy = policy
		result, err := disk.RunDiskSchedule(params)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	if done, err := emit(w, format, results); err != nil {
		return err
	} else if !done {
		for i, result := range results {
			if i > 0 {
				_, _ = fmt.Fprintln(w)
			}
			export.RenderDisk(w, result)
		}
	}

	if ex == nil {
		return nil
	}
	for _, result := range results {
		path, err := ex.ExportDisk(result)
		if err != nil {
			return err
		}
		logrus.Infof("exported %s", path)
	}
	return nil
}

func init() {
	diskCmd.Flags().StringSliceVar(&diskPolicies, "algos", []string{"fcfs", "sstf", "scan", "cscan"}, "Disk policies (fcfs, sstf, scan, cscan)")
	diskCmd.Flags().IntVar(&startHead, "head", 53, "Initial head cylinder")
	diskCmd.Flags().StringVar(&direction, "direction", "", "Initial sweep direction for scan/cscan: up or down (default from config)")
	diskCmd.Flags().IntVar(&maxCylinder, "max-cylinder", disk.DefaultMaxCylinder, "Highest cylinder number (default from config)")
	diskCmd.Flags().StringVar(&diskRequests, "requests", textbookRequests, "Cylinder requests, separated by spaces or commas")
}
