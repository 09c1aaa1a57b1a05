package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaios/ossim/sim/export"
)

const cmdScenario = `
name: textbook
cpu:
  policies: [fcfs, rr]
  quantum: 2
  workload:
    processes:
      - {id: P1, arrival: 0, burst: 5}
      - {id: P2, arrival: 2, burst: 3}
      - {id: P3, arrival: 4, burst: 1}
paging:
  policies: [lru]
  frames: 3
  references: [7, 0, 1, 2, 0, 3, 0, 4, 2, 3, 0, 3, 2]
disk:
  policies: [scan]
  start_head: 53
  requests: [98, 183, 37, 122, 14, 124, 65, 67]
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cmdScenario), 0644))
	return path
}

func TestRunScenario_RendersEverySection(t *testing.T) {
	// GIVEN a scenario with cpu, paging and disk sections
	path := writeScenario(t)

	// WHEN it runs with table output
	var buf bytes.Buffer
	require.NoError(t, runScenario(context.Background(), &buf, path, "table", nil))

	// THEN every section is printed
	out := buf.String()
	assert.Contains(t, out, "Scenario: textbook")
	assert.Contains(t, out, "FCFS schedule")
	assert.Contains(t, out, "Round Robin (q=2) schedule")
	assert.Contains(t, out, "Algorithm comparison")
	assert.Contains(t, out, "lru paging (3 frames)")
	assert.Contains(t, out, "scan disk schedule (head 53, up)")
}

func TestRunScenario_ExportsEveryRun(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, runScenario(context.Background(), &buf, writeScenario(t), "yaml", &export.Exporter{Dir: dir}))

	for _, name := range []string{
		"fcfs_log.csv", "fcfs_xai_decisions.csv",
		"rr_log.csv", "rr_xai_decisions.csv",
		"lru_paging.csv", "scan_disk.csv", export.SummaryFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunScenario_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := runScenario(context.Background(), &buf, filepath.Join(t.TempDir(), "absent.yaml"), "table", nil)
	assert.Error(t, err)
}
