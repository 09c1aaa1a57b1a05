package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/disk"
	"github.com/xaios/ossim/sim/paging"
)

// Metrics holds the Prometheus collectors updated by every API run.
type Metrics struct {
	runs          *prometheus.CounterVec
	failures      *prometheus.CounterVec
	avgWaiting    *prometheus.GaugeVec
	avgTurnaround *prometheus.GaugeVec
	utilization   *prometheus.GaugeVec
	throughput    *prometheus.GaugeVec
	hitRatio      *prometheus.GaugeVec
	headMovement  *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossim_runs_total",
			Help: "Simulation runs by subsystem and policy",
		}, []string{"subsystem", "policy"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ossim_run_failures_total",
			Help: "Rejected simulation requests by subsystem",
		}, []string{"subsystem"}),
		avgWaiting: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossim_cpu_avg_waiting",
			Help: "Average waiting time of the last CPU run",
		}, []string{"policy"}),
		avgTurnaround: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossim_cpu_avg_turnaround",
			Help: "Average turnaround time of the last CPU run",
		}, []string{"policy"}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossim_cpu_utilization_percent",
			Help: "CPU utilization of the last CPU run",
		}, []string{"policy"}),
		throughput: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossim_cpu_throughput",
			Help: "Completed processes per time unit in the last CPU run",
		}, []string{"policy"}),
		hitRatio: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossim_paging_hit_ratio",
			Help: "Hit ratio of the last paging run",
		}, []string{"policy"}),
		headMovement: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ossim_disk_head_movement",
			Help: "Total head movement of the last disk run",
		}, []string{"policy"}),
	}
	reg.MustRegister(m.runs, m.failures, m.avgWaiting, m.avgTurnaround, m.utilization, m.throughput, m.hitRatio, m.headMovement)
	return m
}

func setDefined(g prometheus.Gauge, v sim.Metric) {
	if v.Defined() {
		g.Set(v.Float())
	}
}

func (m *Metrics) observeCPU(result *sim.CPUResult, s sim.Summary) {
	policy := string(result.Policy)
	m.runs.WithLabelValues("cpu", policy).Inc()
	setDefined(m.avgWaiting.WithLabelValues(policy), s.AvgWaiting)
	setDefined(m.avgTurnaround.WithLabelValues(policy), s.AvgTurnaround)
	setDefined(m.utilization.WithLabelValues(policy), s.CPUUtilization)
	setDefined(m.throughput.WithLabelValues(policy), s.Throughput)
}

func (m *Metrics) observePaging(result *paging.Result) {
	m.runs.WithLabelValues("paging", string(result.Policy)).Inc()
	m.hitRatio.WithLabelValues(string(result.Policy)).Set(result.HitRatio)
}

func (m *Metrics) observeDisk(result *disk.Result) {
	m.runs.WithLabelValues("disk", string(result.Policy)).Inc()
	m.headMovement.WithLabelValues(string(result.Policy)).Set(float64(result.TotalMovement))
}

func (m *Metrics) observeFailure(subsystem string) {
	m.failures.WithLabelValues(subsystem).Inc()
}
