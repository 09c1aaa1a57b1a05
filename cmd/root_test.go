package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xaios/ossim/sim"
)

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	// GIVEN the root command
	// WHEN listing its subcommands
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	// THEN every simulator surface is reachable
	for _, want := range []string{"cpu", "compare", "paging", "disk", "run", "workload", "live", "serve"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCmd_LogFlagDefaultsToWarn(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("log")
	require.NotNil(t, flag)
	assert.Equal(t, "warn", flag.DefValue)
}

func TestFlagOr_ExplicitZeroOverridesFallback(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int64
	}{
		{"unset uses fallback", nil, 2},
		{"explicit zero is kept", []string{"--quantum", "0"}, 0},
		{"explicit value is kept", []string{"--quantum", "5"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a command with a quantum flag defaulting to 0
			var q int64
			c := &cobra.Command{Use: "ossim-test"}
			c.Flags().Int64Var(&q, "quantum", 0, "")
			require.NoError(t, c.Flags().Parse(tt.args))

			// WHEN resolved against a configured value of 2
			// THEN only an omitted flag falls back
			assert.Equal(t, tt.want, flagOr(c, "quantum", q, int64(2)))
		})
	}
}

func TestExplicitZeroQuantumAndFrames_AreRejected(t *testing.T) {
	var buf bytes.Buffer
	err := runCPU(&buf, textbookProcesses, "rr", 0, "table", nil)
	assert.True(t, errors.Is(err, sim.ErrInvalidQuantum), "got %v", err)

	err = runPaging(&buf, []int{1, 2}, 0, []string{"fifo"}, "table", nil)
	assert.True(t, errors.Is(err, sim.ErrInvalidCapacity), "got %v", err)
}

func TestResolveProcesses_DefaultsToTextbookWorkload(t *testing.T) {
	// GIVEN neither --workload nor --processes
	processes, err := resolveProcesses("", "")
	require.NoError(t, err)

	// THEN the three-process textbook set is used
	assert.Equal(t, textbookProcesses, processes)

	// AND the returned slice is a copy
	processes[0].Burst = 99
	assert.Equal(t, int64(5), textbookProcesses[0].Burst)
}

func TestResolveProcesses_ParsesInlineList(t *testing.T) {
	processes, err := resolveProcesses("", "A:0:2 B:1:6")
	require.NoError(t, err)
	assert.Equal(t, []sim.Process{{ID: "A", Arrival: 0, Burst: 2}, {ID: "B", Arrival: 1, Burst: 6}}, processes)
}

func TestResolveProcesses_ReadsCSVFile(t *testing.T) {
	// GIVEN a CSV workload with a header row
	path := filepath.Join(t.TempDir(), "procs.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,arrival,burst\nP1,0,5\nP2,2,3\n"), 0644))

	// WHEN resolved through --workload
	processes, err := resolveProcesses(path, "")

	// THEN both rows are loaded
	require.NoError(t, err)
	require.Len(t, processes, 2)
	assert.Equal(t, "P2", processes[1].ID)
}

func TestResolveProcesses_BothSourcesIsMalformed(t *testing.T) {
	_, err := resolveProcesses("procs.csv", "P1:0:5")
	assert.True(t, errors.Is(err, sim.ErrMalformedInput), "got %v", err)
}

func TestEmit_Formats(t *testing.T) {
	payload := map[string]int{"faults": 10}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		done, err := emit(&buf, "json", payload)
		require.NoError(t, err)
		assert.True(t, done)
		var got map[string]int
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, payload, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		done, err := emit(&buf, "yaml", payload)
		require.NoError(t, err)
		assert.True(t, done)
		var got map[string]int
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, payload, got)
	})

	t.Run("table leaves rendering to the caller", func(t *testing.T) {
		var buf bytes.Buffer
		done, err := emit(&buf, "table", payload)
		require.NoError(t, err)
		assert.False(t, done)
		assert.Empty(t, buf.String())
	})
}
