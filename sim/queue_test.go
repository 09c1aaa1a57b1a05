package sim

import "testing"

func TestReadyQueue_FIFOOrder(t *testing.T) {
	var q ReadyQueue
	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	if q.Len() != 3 {
		t.Fatalf("expected len 3, got %d", q.Len())
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Dequeue()
		if !ok || got != want {
			t.Errorf("Dequeue() = %q, %v; want %q, true", got, ok, want)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("expected empty queue")
	}
}

func TestReadyQueue_SnapshotIsCopy(t *testing.T) {
	var q ReadyQueue
	q.Enqueue("a")
	snap := q.Snapshot()
	snap[0] = "z"

	if got, _ := q.Dequeue(); got != "a" {
		t.Errorf("snapshot mutation leaked into queue: got %q", got)
	}
}

func TestReadyQueue_String(t *testing.T) {
	var q ReadyQueue
	q.Enqueue("P1")
	q.Enqueue("P2")
	if got := q.String(); got != "[P1 P2]" {
		t.Errorf("String() = %q", got)
	}
}
