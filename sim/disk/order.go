package disk

import "sort"

// orderer returns the service order for requests given the head position and
// initial direction. It may reorder the requests slice it receives.
type orderer func(requests []int, head int, dir Direction) []int

var orderers = map[Policy]orderer{
	PolicyFCFS:  orderFCFS,
	PolicySSTF:  orderSSTF,
	PolicySCAN:  orderSCAN,
	PolicyCSCAN: orderCSCAN,
}

func orderFCFS(requests []int, _ int, _ Direction) []int {
	return requests
}

// orderSSTF repeatedly serves the closest pending request; equal distances go to
// the smaller cylinder.
func orderSSTF(requests []int, head int, _ Direction) []int {
	pending := requests
	order := make([]int, 0, len(requests))
	cur := head
	for len(pending) > 0 {
		best := 0
		for i := 1; i < len(pending); i++ {
			di, db := abs(pending[i]-cur), abs(pending[best]-cur)
			if di < db || (di == db && pending[i] < pending[best]) {
				best = i
			}
		}
		cur = pending[best]
		order = append(order, cur)
		pending = append(pending[:best], pending[best+1:]...)
	}
	return order
}

// partition splits requests into those >= head (ascending) and those < head
// (descending), i.e. each set in the order a sweep away from head meets them.
func partition(requests []int, head int) (up, down []int) {
	for _, r := range requests {
		if r >= head {
			up = append(up, r)
		} else {
			down = append(down, r)
		}
	}
	sort.Ints(up)
	sort.Sort(sort.Reverse(sort.IntSlice(down)))
	return up, down
}

// orderSCAN sweeps in the initial direction, then reverses. The head turns at the
// last pending request; boundary cylinders are not inserted into the path.
func orderSCAN(requests []int, head int, dir Direction) []int {
	up, down := partition(requests, head)
	if dir == DirectionDown {
		return append(down, up...)
	}
	return append(up, down...)
}

// orderCSCAN sweeps in the initial direction, then jumps back and continues in
// the same direction over the passed requests. The jump goes straight from the
// last request of the first sweep to the first request of the second; boundary
// cylinders are not inserted and the jump counts as ordinary movement.
func orderCSCAN(requests []int, head int, dir Direction) []int {
	up, down := partition(requests, head)
	if dir == DirectionDown {
		return append(down, reversed(up)...)
	}
	return append(up, reversed(down)...)
}

func reversed(xs []int) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}
