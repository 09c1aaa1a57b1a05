// Package sim provides the CPU scheduling engine and shared types for ossim.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - process.go: Process descriptors and the ScheduleEntry/Gap trace types
//   - scheduler.go: FCFS, SJF and Round-Robin policies and the policy dispatch table
//   - metrics.go: the pure metrics aggregator over a schedule trace
//
// # Architecture
//
// The sim package owns the CPU scheduler and the error taxonomy; the other simulators
// live in sub-packages:
//   - sim/trace/: decision-record (explainability log) types
//   - sim/paging/: FIFO and LRU page replacement
//   - sim/disk/: FCFS, SSTF, SCAN and C-SCAN disk-head ordering
//   - sim/workload/: workload specs, seeded generation, host sampling, input parsing
//   - sim/export/: CSV export and table rendering
//
// Every run is a pure function of its inputs. Working state such as the Round-Robin
// ready queue and remaining bursts is local to a single call, so independent runs
// may execute concurrently.
package sim
