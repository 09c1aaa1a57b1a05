// Package testutil provides shared test infrastructure for the ossim engine.
// It holds the golden dataset types and assertion helpers used across the
// sim/, sim/paging/ and sim/disk/ test packages. It must not import sim.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	CPU    []GoldenCPUCase    `json:"cpu"`
	Paging []GoldenPagingCase `json:"paging"`
	Disk   []GoldenDiskCase   `json:"disk"`
}

// GoldenProcess mirrors sim.Process without importing it.
type GoldenProcess struct {
	ID      string `json:"id"`
	Arrival int64  `json:"arrival"`
	Burst   int64  `json:"burst"`
}

// GoldenCPUCase is a CPU scheduling run with its textbook result.
type GoldenCPUCase struct {
	Name      string          `json:"name"`
	Policy    string          `json:"policy"`
	Quantum   int64           `json:"quantum"`
	Processes []GoldenProcess `json:"processes"`
	Expected  struct {
		Order          []string `json:"order"` // process id per schedule entry
		Starts         []int64  `json:"starts"`
		Finishes       []int64  `json:"finishes"`
		AvgWaiting     float64  `json:"avg_waiting"`
		AvgTurnaround  float64  `json:"avg_turnaround"`
		CPUUtilization float64  `json:"cpu_utilization"`
		Throughput     float64  `json:"throughput"`
	} `json:"expected"`
}

// GoldenPagingCase is a page replacement run with its textbook result.
type GoldenPagingCase struct {
	Name       string `json:"name"`
	Policy     string `json:"policy"`
	Frames     int    `json:"frames"`
	References []int  `json:"references"`
	Expected   struct {
		Faults   int     `json:"faults"`
		HitRatio float64 `json:"hit_ratio"`
	} `json:"expected"`
}

// GoldenDiskCase is a disk scheduling run with its textbook result.
type GoldenDiskCase struct {
	Name        string `json:"name"`
	Policy      string `json:"policy"`
	Direction   string `json:"direction"`
	StartHead   int    `json:"start_head"`
	MaxCylinder int    `json:"max_cylinder"`
	Requests    []int  `json:"requests"`
	Expected    struct {
		Order         []int `json:"order"`
		TotalMovement int   `json:"total_movement"`
	} `json:"expected"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
