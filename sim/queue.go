// Implements the ReadyQueue used by Round-Robin. Processes are enqueued on
// arrival and re-enqueued at the tail after an unfinished quantum.

package sim

import (
	"strings"
)

// ReadyQueue is a FIFO of process ids waiting for the CPU.
// It is working state local to a single scheduling run.
type ReadyQueue struct {
	queue []string
}

// Enqueue adds a process id to the back of the queue.
func (rq *ReadyQueue) Enqueue(id string) {
	rq.queue = append(rq.queue, id)
}

// Dequeue removes and returns the id at the front of the queue.
// Returns false if the queue is empty.
func (rq *ReadyQueue) Dequeue() (string, bool) {
	if len(rq.queue) == 0 {
		return "", false
	}
	id := rq.queue[0]
	rq.queue = rq.queue[1:]
	return id, true
}

// Len returns the number of queued ids.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Snapshot returns a copy of the queue contents, front first.
func (rq *ReadyQueue) Snapshot() []string {
	return append([]string(nil), rq.queue...)
}

func (rq *ReadyQueue) String() string {
	return "[" + strings.Join(rq.queue, " ") + "]"
}
