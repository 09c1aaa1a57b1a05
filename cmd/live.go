package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/export"
	"github.com/xaios/ossim/sim/workload"
)

var (
	livePolicy     string        // CPU policy for each snapshot
	liveInterval   time.Duration // Time between snapshots; the configured value when unset
	liveLimit      int           // Max host processes per snapshot; the configured value when unset
	liveIterations int           // Snapshots to take; 0 runs until interrupted
	liveSeed       int64         // Seed for synthetic arrival and burst values
)

// processSampler yields one workload per snapshot.
type processSampler interface {
	Sample(ctx context.Context) ([]sim.Process, error)
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Repeatedly schedule a snapshot of the host's running processes",
	Run: func(cmd *cobra.Command, args []string) {
		interval := flagOr(cmd, "interval", liveInterval, cfg.Interval)
		limit := flagOr(cmd, "limit", liveLimit, cfg.Limit)
		seed := flagOr(cmd, "seed", liveSeed, cfg.Seed)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sampler := workload.NewHostSampler(seed, limit)
		if err := runLive(ctx, os.Stdout, sampler, livePolicy, flagOr(cmd, "quantum", quantum, cfg.Quantum), interval, liveIterations); err != nil {
			logrus.Fatalf("Live mode failed: %v", err)
		}
	},
}

// runLive takes a snapshot, schedules it and prints the result, then repeats
// every interval. It stops after iterations snapshots (0 = unbounded) or when
// ctx is done; cancellation is not an error.
func runLive(ctx context.Context, w io.Writer, sampler processSampler, policy string, q int64, interval time.Duration, iterations int) error {
	if interval <= 0 {
		return fmt.Errorf("%w: live interval must be positive, got %s", sim.ErrMalformedInput, interval)
	}
	if _, err := sim.NewCPUScheduler(policy, q); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; iterations == 0 || i <= iterations; i++ {
		processes, err := sampler.Sample(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logrus.Infof("live mode stopped during snapshot %d", i)
				return nil
			}
			return err
		}
		result, err := sim.RunCPUSchedule(processes, policy, q)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "Snapshot %d (%d processes)\n", i, len(processes))
		export.RenderSchedule(w, result)
		_, _ = fmt.Fprintln(w)

		if iterations != 0 && i == iterations {
			break
		}
		select {
		case <-ctx.Done():
			logrus.Infof("live mode stopped after %d snapshots", i)
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func init() {
	liveCmd.Flags().StringVar(&livePolicy, "algo", "rr", "CPU policy (fcfs, sjf, rr)")
	liveCmd.Flags().Int64Var(&quantum, "quantum", 0, "Round-Robin time quantum (default from config)")
	liveCmd.Flags().DurationVar(&liveInterval, "interval", 0, "Time between snapshots (default from config, 7s)")
	liveCmd.Flags().IntVar(&liveLimit, "limit", 0, "Max host processes per snapshot (default from config, 12)")
	liveCmd.Flags().IntVar(&liveIterations, "iterations", 0, "Number of snapshots; 0 runs until interrupted")
	liveCmd.Flags().Int64Var(&liveSeed, "seed", 0, "Seed for synthetic arrival and burst values (default from config)")
}
