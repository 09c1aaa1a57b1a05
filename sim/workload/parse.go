package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xaios/ossim/sim"
)

// processColumns is the column order of a process CSV. A header row with these
// names is optional.
var processColumns = []string{"id", "arrival", "burst"}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// ParseIntSequence parses whitespace and/or comma separated integers, as used
// for page reference strings and disk request queues.
// An empty sequence or a non-numeric token returns ErrMalformedInput.
func ParseIntSequence(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, isSeparator)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty integer sequence", sim.ErrMalformedInput)
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d %q is not an integer", sim.ErrMalformedInput, i, f)
		}
		out[i] = n
	}
	return out, nil
}

// ParseProcessList parses "id:arrival:burst" triples separated by whitespace
// or commas, e.g. "P1:0:5 P2:2:3". The result is validated.
func ParseProcessList(s string) ([]sim.Process, error) {
	fields := strings.FieldsFunc(s, isSeparator)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty process list", sim.ErrMalformedInput)
	}
	processes := make([]sim.Process, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: process %q must be id:arrival:burst", sim.ErrMalformedInput, f)
		}
		p, err := processFromFields(parts)
		if err != nil {
			return nil, err
		}
		processes[i] = p
	}
	if err := sim.ValidateProcesses(processes); err != nil {
		return nil, err
	}
	return processes, nil
}

// LoadProcessesCSV reads id,arrival,burst rows. The first row is skipped when it
// is the header. The result is validated.
func LoadProcessesCSV(r io.Reader) ([]sim.Process, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(processColumns)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading process CSV: %v", sim.ErrMalformedInput, err)
	}
	if len(rows) > 0 && strings.EqualFold(rows[0][0], processColumns[0]) {
		rows = rows[1:]
	}

	processes := make([]sim.Process, 0, len(rows))
	for i, row := range rows {
		p, err := processFromFields(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		processes = append(processes, p)
	}
	if err := sim.ValidateProcesses(processes); err != nil {
		return nil, err
	}
	return processes, nil
}

func processFromFields(fields []string) (sim.Process, error) {
	id := strings.TrimSpace(fields[0])
	arrival, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return sim.Process{}, fmt.Errorf("%w: process %q arrival %q is not an integer", sim.ErrMalformedInput, id, fields[1])
	}
	burst, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return sim.Process{}, fmt.Errorf("%w: process %q burst %q is not an integer", sim.ErrMalformedInput, id, fields[2])
	}
	return sim.Process{ID: id, Arrival: arrival, Burst: burst}, nil
}

// LoadProcesses reads a workload file, dispatching on extension: .csv files are
// process tables, .yaml/.yml files are workload specs.
func LoadProcesses(path string) ([]sim.Process, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening process CSV: %w", err)
		}
		defer func() { _ = f.Close() }()
		return LoadProcessesCSV(f)
	case ".yaml", ".yml":
		spec, err := LoadWorkloadSpec(path)
		if err != nil {
			return nil, err
		}
		return spec.Resolve()
	default:
		return nil, fmt.Errorf("%w: workload file %q must be .csv, .yaml or .yml", sim.ErrMalformedInput, path)
	}
}
