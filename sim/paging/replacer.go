package paging

import "container/list"

// replacer tracks eviction order for the resident set.
type replacer interface {
	// Admitted records that page entered a frame.
	Admitted(page int)
	// Referenced records a hit on a resident page.
	Referenced(page int)
	// Victim removes and returns the page to evict. Only called when at capacity.
	Victim() int
}

// fifoReplacer evicts the page admitted longest ago; hits do not reorder.
type fifoReplacer struct {
	order []int
}

func (f *fifoReplacer) Admitted(page int) { f.order = append(f.order, page) }

func (f *fifoReplacer) Referenced(int) {}

func (f *fifoReplacer) Victim() int {
	victim := f.order[0]
	f.order = f.order[1:]
	return victim
}

// lruReplacer evicts the page referenced longest ago. Front of the list is the
// least recently used page.
type lruReplacer struct {
	recency *list.List
	elems   map[int]*list.Element
}

func newLRUReplacer(frames int) *lruReplacer {
	return &lruReplacer{recency: list.New(), elems: make(map[int]*list.Element, frames)}
}

func (l *lruReplacer) Admitted(page int) {
	l.elems[page] = l.recency.PushBack(page)
}

func (l *lruReplacer) Referenced(page int) {
	if e, ok := l.elems[page]; ok {
		l.recency.MoveToBack(e)
	}
}

func (l *lruReplacer) Victim() int {
	front := l.recency.Front()
	page := l.recency.Remove(front).(int)
	delete(l.elems, page)
	return page
}
