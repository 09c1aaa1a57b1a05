package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/disk"
	"github.com/xaios/ossim/sim/paging"
	"github.com/xaios/ossim/sim/scenario"
	"github.com/xaios/ossim/sim/trace"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, title)
}

// RenderSchedule prints the schedule with averages in the footer.
func RenderSchedule(w io.Writer, result *sim.CPUResult) {
	summary := sim.AggregateMetrics(result.Schedule)
	outputTitle(w, result.Label()+" schedule")

	table := newTable(w, []string{"ID", "Arrival", "Burst", "Start", "Finish", "Waiting", "Turnaround"})
	for _, e := range result.Schedule {
		table.Append([]string{e.ID, i64(e.Arrival), i64(e.Burst), i64(e.Start), i64(e.Finish), i64(e.Waiting), i64(e.Turnaround)})
	}
	table.SetFooter([]string{"", "", "", "", "",
		"Average\n" + summary.AvgWaiting.String(),
		"Average\n" + summary.AvgTurnaround.String()})
	table.Render()

	_, _ = fmt.Fprintf(w, "CPU utilization: %s%%  Throughput: %s processes/unit time\n",
		summary.CPUUtilization, summary.Throughput)
}

// RenderDecisions prints the decision log.
func RenderDecisions(w io.Writer, decisions []trace.DecisionRecord) {
	outputTitle(w, "Decision log")
	table := newTable(w, []string{"Time", "Candidates", "Chosen", "Rationale"})
	for _, d := range decisions {
		table.Append([]string{i64(d.Time), d.CandidateList(), d.Chosen, d.Rationale.String()})
	}
	table.Render()
}

// RenderTraceSummary prints decision counts and the per-process choice
// distribution, sorted by id.
func RenderTraceSummary(w io.Writer, s *trace.TraceSummary) {
	_, _ = fmt.Fprintf(w, "Decisions: %d  Unique chosen: %d  Mean candidates: %.2f  Max candidates: %d\n",
		s.TotalDecisions, s.UniqueChosen, s.MeanCandidates, s.MaxCandidates)
	ids := make([]string, 0, len(s.ChoiceDistribution))
	for id := range s.ChoiceDistribution {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	table := newTable(w, []string{"Process", "Times chosen"})
	for _, id := range ids {
		table.Append([]string{id, strconv.Itoa(s.ChoiceDistribution[id])})
	}
	table.Render()
}

// RenderComparison prints one row of metrics per CPU run.
func RenderComparison(w io.Writer, runs []scenario.CPURun) {
	outputTitle(w, "Algorithm comparison")
	table := newTable(w, []string{"Algorithm", "Avg Waiting", "Avg Turnaround", "CPU Utilization (%)", "Throughput"})
	for _, r := range runs {
		table.Append([]string{r.Label, r.Summary.AvgWaiting.String(), r.Summary.AvgTurnaround.String(),
			r.Summary.CPUUtilization.String(), r.Summary.Throughput.String()})
	}
	table.Render()
}

// RenderPaging prints the paging trace with fault and hit totals in the footer.
func RenderPaging(w io.Writer, result *paging.Result) {
	outputTitle(w, fmt.Sprintf("%s paging (%d frames)", string(result.Policy), result.Frames))
	table := newTable(w, []string{"Step", "Page", "Result", "Evicted", "Frames"})
	for _, e := range result.Trace {
		outcome, evicted := "fault", ""
		if e.Hit {
			outcome = "hit"
		}
		if e.Evicted != nil {
			evicted = strconv.Itoa(*e.Evicted)
		}
		table.Append([]string{strconv.Itoa(e.Step), strconv.Itoa(e.Page), outcome, evicted, joinInts(e.ResidentSet)})
	}
	table.SetFooter([]string{"", "", fmt.Sprintf("Faults %d", result.Faults), fmt.Sprintf("Hits %d", result.Hits),
		fmt.Sprintf("Hit ratio %.4f", result.HitRatio)})
	table.Render()
}

// RenderDisk prints the head path with the total movement in the footer.
func RenderDisk(w io.Writer, result *disk.Result) {
	outputTitle(w, fmt.Sprintf("%s disk schedule (head %d, %s)", string(result.Policy), result.StartHead, string(result.Direction)))
	table := newTable(w, []string{"From", "To", "Movement"})
	for _, s := range result.Segments {
		table.Append([]string{strconv.Itoa(s.From), strconv.Itoa(s.To), strconv.Itoa(s.Movement)})
	}
	table.SetFooter([]string{"", "Total", strconv.Itoa(result.TotalMovement)})
	table.Render()
}

// RenderProcesses prints a workload in arrival order.
func RenderProcesses(w io.Writer, processes []sim.Process) {
	outputTitle(w, fmt.Sprintf("Workload (%d processes)", len(processes)))
	table := newTable(w, []string{"ID", "Arrival", "Burst"})
	for _, p := range processes {
		table.Append([]string{p.ID, i64(p.Arrival), i64(p.Burst)})
	}
	table.Render()
}
