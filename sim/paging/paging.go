// Package paging simulates page replacement over a reference string with a fixed
// number of frames.
package paging

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xaios/ossim/sim"
)

// Policy names a page replacement algorithm.
type Policy string

const (
	PolicyFIFO Policy = "fifo"
	PolicyLRU  Policy = "lru"
)

// ValidPolicies is the set of recognized replacement policy names.
var ValidPolicies = map[string]bool{"fifo": true, "lru": true}

// PolicyNames lists the replacement policies in presentation order.
var PolicyNames = []Policy{PolicyFIFO, PolicyLRU}

// IsValidPolicy returns true if name is a recognized policy (case-insensitive).
func IsValidPolicy(name string) bool {
	return ValidPolicies[strings.ToLower(strings.TrimSpace(name))]
}

var replacers = map[Policy]func(frames int) replacer{
	PolicyFIFO: func(int) replacer { return &fifoReplacer{} },
	PolicyLRU:  func(frames int) replacer { return newLRUReplacer(frames) },
}

// PageEvent records the outcome of one reference.
// ResidentSet is listed in frame-slot order: an admitted page takes the slot of
// the page it evicted. len(ResidentSet) never exceeds the frame count.
type PageEvent struct {
	Step        int   `json:"step"`
	Page        int   `json:"page"`
	Hit         bool  `json:"hit"`
	Evicted     *int  `json:"evicted,omitempty"`
	ResidentSet []int `json:"resident_set"`
}

// Result is the output of one paging run.
type Result struct {
	Policy   Policy      `json:"policy"`
	Frames   int         `json:"frames"`
	Trace    []PageEvent `json:"trace"`
	Faults   int         `json:"faults"`
	Hits     int         `json:"hits"`
	HitRatio float64     `json:"hit_ratio"`
}

// RunPaging replays references against frames page frames under policy.
// An empty reference string is valid and yields hit ratio 0.
func RunPaging(references []int, frames int, policy string) (*Result, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(policy)))
	newReplacer, ok := replacers[p]
	if !ok {
		return nil, fmt.Errorf("%w: unknown paging policy %q; valid: fifo, lru", sim.ErrInvalidPolicy, policy)
	}
	if frames < 1 {
		return nil, fmt.Errorf("%w: frames must be >= 1, got %d", sim.ErrInvalidCapacity, frames)
	}

	order := newReplacer(frames)
	slots := make([]int, 0, frames)
	slotOf := make(map[int]int, frames)
	result := &Result{Policy: p, Frames: frames, Trace: make([]PageEvent, 0, len(references))}

	for step, page := range references {
		event := PageEvent{Step: step, Page: page}
		if _, resident := slotOf[page]; resident {
			event.Hit = true
			result.Hits++
			order.Referenced(page)
		} else {
			result.Faults++
			if len(slots) < frames {
				slotOf[page] = len(slots)
				slots = append(slots, page)
			} else {
				victim := order.Victim()
				slot := slotOf[victim]
				delete(slotOf, victim)
				slots[slot] = page
				slotOf[page] = slot
				event.Evicted = &victim
			}
			order.Admitted(page)
		}
		event.ResidentSet = append([]int(nil), slots...)
		result.Trace = append(result.Trace, event)
	}

	result.HitRatio = HitRatio(result.Trace)
	logrus.Debugf("paging %s: %d references, %d frames, %d faults", p, len(references), frames, result.Faults)
	return result, nil
}

// HitRatio returns hits / references over a paging trace, or 0 for an empty trace.
func HitRatio(events []PageEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	hits := 0
	for _, e := range events {
		if e.Hit {
			hits++
		}
	}
	return float64(hits) / float64(len(events))
}

// FaultCount returns the number of misses in a paging trace.
func FaultCount(events []PageEvent) int {
	faults := 0
	for _, e := range events {
		if !e.Hit {
			faults++
		}
	}
	return faults
}
