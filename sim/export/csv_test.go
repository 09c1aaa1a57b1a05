package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/disk"
	"github.com/xaios/ossim/sim/paging"
)

func textbookRun(t *testing.T, policy string) *sim.CPUResult {
	t.Helper()
	result, err := sim.RunCPUSchedule([]sim.Process{
		{ID: "P1", Arrival: 0, Burst: 5},
		{ID: "P2", Arrival: 2, Burst: 3},
		{ID: "P3", Arrival: 4, Burst: 1},
	}, policy, 2)
	require.NoError(t, err)
	return result
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteScheduleCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScheduleCSV(&buf, textbookRun(t, "fcfs").Schedule))

	want := "id,start,finish,waiting,turnaround\nP1,0,5,0,5\nP2,5,8,3,6\nP3,8,9,4,5\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteDecisionsCSV_QuotesRationale(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDecisionsCSV(&buf, textbookRun(t, "fcfs").Decisions))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"time", "candidates", "chosen", "rationale"}, rows[0])
	assert.Equal(t, "5", rows[2][0])
	assert.Equal(t, "P2 P3", rows[2][1])
	assert.Equal(t, "P2", rows[2][2])
	assert.True(t, strings.HasPrefix(rows[2][3], "earliest arrival, ties broken by id order"))
}

func TestWritePagingAndDiskCSV(t *testing.T) {
	pg, err := paging.RunPaging([]int{1, 2, 1, 3}, 2, "lru")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WritePagingCSV(&buf, pg.Trace))
	assert.Equal(t, "step,page,hit,resident_set\n0,1,false,1\n1,2,false,1 2\n2,1,true,1 2\n3,3,false,1 3\n", buf.String())

	dk, err := disk.RunDiskSchedule(disk.Params{Requests: []int{10, 5}, StartHead: 7, Policy: "fcfs", MaxCylinder: 199})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, WriteDiskCSV(&buf, dk.Segments))
	assert.Equal(t, "from,to,movement\n7,10,3\n10,5,5\n", buf.String())
}

func TestExporter_ExportCPU_WritesFilesAndAppendsSummary(t *testing.T) {
	// GIVEN an empty export directory
	dir := filepath.Join(t.TempDir(), "out")
	ex := Exporter{Dir: dir}

	// WHEN two runs are exported
	paths, err := ex.ExportCPU(textbookRun(t, "fcfs"))
	require.NoError(t, err)
	_, err = ex.ExportCPU(textbookRun(t, "rr"))
	require.NoError(t, err)

	// THEN per-run files exist under the policy name
	assert.Equal(t, filepath.Join(dir, "fcfs_log.csv"), paths[0])
	assert.Equal(t, filepath.Join(dir, "fcfs_xai_decisions.csv"), paths[1])
	assert.FileExists(t, filepath.Join(dir, "rr_log.csv"))
	assert.FileExists(t, filepath.Join(dir, "rr_xai_decisions.csv"))

	// THEN the summary has one header and one row per run, in run order
	rows := readCSV(t, filepath.Join(dir, SummaryFile))
	require.Len(t, rows, 3)
	assert.Equal(t, summaryColumns, rows[0])
	assert.Equal(t, "FCFS", rows[1][0])
	assert.Equal(t, "Round Robin (q=2)", rows[2][0])
	assert.Equal(t, "3", rows[2][1])
	assert.Equal(t, "100", rows[2][3])
}

func TestExporter_AppendSummary_UndefinedIsNaN(t *testing.T) {
	ex := Exporter{Dir: t.TempDir()}
	path, err := ex.AppendSummary("FCFS", sim.AggregateMetrics(nil))
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"FCFS", "NaN", "NaN", "NaN", "NaN"}, rows[1])
}

func TestExporter_ExportPagingAndDisk(t *testing.T) {
	ex := Exporter{Dir: t.TempDir()}
	pg, err := paging.RunPaging([]int{1, 2}, 1, "FIFO")
	require.NoError(t, err)
	path, err := ex.ExportPaging(pg)
	require.NoError(t, err)
	assert.Equal(t, "fifo_paging.csv", filepath.Base(path))

	dk, err := disk.RunDiskSchedule(disk.Params{Requests: []int{1}, Policy: "c-scan", MaxCylinder: 9})
	require.NoError(t, err)
	path, err = ex.ExportDisk(dk)
	require.NoError(t, err)
	assert.Equal(t, "cscan_disk.csv", filepath.Base(path))
	assert.Len(t, readCSV(t, path), 2)
}
