package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xaios/ossim/sim"
)

const ganttCellWidth = 8

type ganttCell struct {
	label       string
	start, stop int64
}

// ganttCells merges schedule entries and idle gaps into one time-ordered row.
func ganttCells(result *sim.CPUResult) []ganttCell {
	cells := make([]ganttCell, 0, len(result.Schedule)+len(result.Gaps))
	gaps := result.Gaps
	for _, e := range result.Schedule {
		for len(gaps) > 0 && gaps[0].From <= e.Start {
			cells = append(cells, ganttCell{label: "idle", start: gaps[0].From, stop: gaps[0].To})
			gaps = gaps[1:]
		}
		cells = append(cells, ganttCell{label: e.ID, start: e.Start, stop: e.Finish})
	}
	for _, g := range gaps {
		cells = append(cells, ganttCell{label: "idle", start: g.From, stop: g.To})
	}
	return cells
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

// WriteGantt prints a one-line ASCII Gantt chart followed by the slice
// boundaries, e.g.
//
//	|   P1   |   P2   |
//	0        5        8
func WriteGantt(w io.Writer, result *sim.CPUResult) {
	cells := ganttCells(result)
	if len(cells) == 0 {
		_, _ = fmt.Fprintln(w, "(empty schedule)")
		return
	}

	var bar, times strings.Builder
	bar.WriteString("|")
	for _, c := range cells {
		width := max(ganttCellWidth, len(c.label)+2)
		bar.WriteString(center(c.label, width))
		bar.WriteString("|")

		mark := fmt.Sprint(c.start)
		times.WriteString(mark)
		times.WriteString(strings.Repeat(" ", max(width+1-len(mark), 1)))
	}
	times.WriteString(fmt.Sprint(cells[len(cells)-1].stop))

	_, _ = fmt.Fprintln(w, bar.String())
	_, _ = fmt.Fprintln(w, times.String())
}
