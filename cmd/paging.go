package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/paging"
	"github.com/xaios/ossim/sim/workload"
)

var (
	pagingPolicies []string // Replacement policies to run
	frames         int      // Frame count; the configured value when unset
	references     string   // Page reference string
)

const textbookReferences = "7 0 1 2 0 3 0 4 2 3 0 3 2"

var pagingCmd = &cobra.Command{
	Use:   "paging",
	Short: "Simulate page replacement over a reference string",
	Run: func(cmd *cobra.Command, args []string) {
		refs, err := workload.ParseIntSequence(references)
		if err != nil {
			logrus.Fatalf("Parsing --refs: %v", err)
		}
		n := flagOr(cmd, "frames", frames, cfg.Frames)
		if err := runPaging(os.Stdout, refs, n, pagingPolicies, outputFormat, exporter()); err != nil {
			logrus.Fatalf("Paging simulation failed: %v", err)
		}
	},
}

func runPaging(w io.Writer, refs []int, n int, policies []string, format string, ex *export.Exporter) error {
	results := make([]*paging.Result, 0, len(policies))
	for _, policy := range policies {
		result, err := paging.RunPaging(refs, n, policy)
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
			export.RenderPaging(w, result)
		}
	}

	if ex == nil {
		return nil
	}
	for _, result := range results {
		path, err := ex.ExportPaging(result)
		if err != nil {
			return err
		}
		logrus.Infof("exported %s", path)
	}
	return nil
}

func init() {
	pagingCmd.Flags().StringSliceVar(&pagingPolicies, "algos", []string{"fifo", "lru"}, "Replacement policies (fifo, lru)")
	pagingCmd.Flags().IntVar(&frames, "frames", 0, "Number of physical frames (default from config)")
	pagingCmd.Flags().StringVar(&references, "refs", textbookReferences, "Page references, separated by spaces or commas")
}
