// Package export writes simulator traces as CSV files and renders them as
// terminal tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/disk"
	"github.com/xaios/ossim/sim/paging"
	"github.com/xaios/ossim/sim/trace"
)

// SummaryFile is the performance summary shared by every CPU run in a directory.
const SummaryFile = "performance_summary.csv"

// CSV column headers.
var (
	scheduleColumns = []string{"id", "start", "finish", "waiting", "turnaround"}
	decisionColumns = []string{"time", "candidates", "chosen", "rationale"}
	pagingColumns   = []string{"step", "page", "hit", "resident_set"}
	diskColumns     = []string{"from", "to", "movement"}
	summaryColumns  = []string{"Algorithm", "AvgWaiting", "AvgTurnaround", "CPUUtilization", "Throughput"}
)

func i64(v int64) string { return strconv.FormatInt(v, 10) }

// metric renders full precision; undefined values render as NaN.
func metric(m sim.Metric) string { return strconv.FormatFloat(m.Float(), 'f', -1, 64) }

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	return nil
}

// WriteScheduleCSV writes one row per schedule entry.
func WriteScheduleCSV(w io.Writer, schedule []sim.ScheduleEntry) error {
	rows := make([][]string, len(schedule))
	for i, e := range schedule {
		rows[i] = []string{e.ID, i64(e.Start), i64(e.Finish), i64(e.Waiting), i64(e.Turnaround)}
	}
	return writeAll(w, scheduleColumns, rows)
}

// WriteDecisionsCSV writes one row per scheduling decision. Candidates are
// space separated.
func WriteDecisionsCSV(w io.Writer, decisions []trace.DecisionRecord) error {
	rows := make([][]string, len(decisions))
	for i, d := range decisions {
		rows[i] = []string{i64(d.Time), d.CandidateList(), d.Chosen, d.Rationale.String()}
	}
	return writeAll(w, decisionColumns, rows)
}

// WritePagingCSV writes one row per reference.
func WritePagingCSV(w io.Writer, events []paging.PageEvent) error {
	rows := make([][]string, len(events))
	for i, e := range events {
		rows[i] = []string{strconv.Itoa(e.Step), strconv.Itoa(e.Page), strconv.FormatBool(e.Hit), joinInts(e.ResidentSet)}
	}
	return writeAll(w, pagingColumns, rows)
}

// WriteDiskCSV writes one row per head movement.
func WriteDiskCSV(w io.Writer, segments []disk.DiskSegment) error {
	rows := make([][]string, len(segments))
	for i, s := range segments {
		rows[i] = []string{strconv.Itoa(s.From), strconv.Itoa(s.To), strconv.Itoa(s.Movement)}
	}
	return writeAll(w, diskColumns, rows)
}

// Exporter writes run files into Dir.
type Exporter struct {
	Dir string
}

func (e Exporter) writeFile(name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(e.Dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return path, nil
}

// ExportCPU writes <policy>_log.csv and <policy>_xai_decisions.csv, replacing
// earlier files for the same policy, and appends one summary row.
// It returns the paths written.
func (e Exporter) ExportCPU(result *sim.CPUResult) ([]string, error) {
	logPath, err := e.writeFile(string(result.Policy)+"_log.csv", func(w io.Writer) error {
		return WriteScheduleCSV(w, result.Schedule)
	})
	if err != nil {
		return nil, err
	}
	decisionsPath, err := e.writeFile(string(result.Policy)+"_xai_decisions.csv", func(w io.Writer) error {
		return WriteDecisionsCSV(w, result.Decisions)
	})
	if err != nil {
		return nil, err
	}
	summaryPath, err := e.AppendSummary(result.Label(), sim.AggregateMetrics(result.Schedule))
	if err != nil {
		return nil, err
	}
	return []string{logPath, decisionsPath, summaryPath}, nil
}

// ExportPaging writes <policy>_paging.csv.
func (e Exporter) ExportPaging(result *paging.Result) (string, error) {
	return e.writeFile(string(result.Policy)+"_paging.csv", func(w io.Writer) error {
		return WritePagingCSV(w, result.Trace)
	})
}

// ExportDisk writes <policy>_disk.csv.
func (e Exporter) ExportDisk(result *disk.Result) (string, error) {
	return e.writeFile(string(result.Policy)+"_disk.csv", func(w io.Writer) error {
		return WriteDiskCSV(w, result.Segments)
	})
}

// AppendSummary appends one row to performance_summary.csv, writing the header
// only when the file is new or empty. Existing rows are never rewritten.
func (e Exporter) AppendSummary(label string, s sim.Summary) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(e.Dir, SummaryFile)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("opening performance summary: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat performance summary: %w", err)
	}
	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(summaryColumns); err != nil {
			return "", fmt.Errorf("writing summary header: %w", err)
		}
	}
	row := []string{label, metric(s.AvgWaiting), metric(s.AvgTurnaround), metric(s.CPUUtilization), metric(s.Throughput)}
	if err := writer.Write(row); err != nil {
		return "", fmt.Errorf("writing summary row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flushing performance summary: %w", err)
	}
	return path, nil
}
