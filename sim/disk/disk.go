// Package disk orders disk-head service over a set of cylinder requests and
// measures head movement as integer cylinder distance.
package disk

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xaios/ossim/sim"
)

// Policy names a disk scheduling algorithm.
type Policy string

const (
	PolicyFCFS  Policy = "fcfs"
	PolicySSTF  Policy = "sstf"
	PolicySCAN  Policy = "scan"
	PolicyCSCAN Policy = "cscan"
)

// Direction is the initial sweep direction for SCAN and C-SCAN.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ValidPolicies is the set of recognized disk policy names.
var ValidPolicies = map[string]bool{"fcfs": true, "sstf": true, "scan": true, "cscan": true}

// ValidDirections is the set of recognized sweep directions. Empty defaults to up.
var ValidDirections = map[string]bool{"": true, "up": true, "down": true}

// PolicyNames lists the disk policies in presentation order.
var PolicyNames = []Policy{PolicyFCFS, PolicySSTF, PolicySCAN, PolicyCSCAN}

// DefaultMaxCylinder is the highest cylinder of the default 200-cylinder disk.
const DefaultMaxCylinder = 199

// IsValidPolicy returns true if name is a recognized policy. Accepts "c-scan" as cscan.
func IsValidPolicy(name string) bool {
	return ValidPolicies[string(normalizePolicy(name))]
}

// NormalizeDirection trims and lower-cases a direction name. Empty stays empty.
func NormalizeDirection(name string) Direction {
	return Direction(strings.ToLower(strings.TrimSpace(name)))
}

// IsValidDirection reports whether name is up, down or empty after normalization.
func IsValidDirection(name string) bool {
	return ValidDirections[string(NormalizeDirection(name))]
}

func normalizePolicy(name string) Policy {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "c-scan" {
		return PolicyCSCAN
	}
	return Policy(n)
}

// DiskSegment is one head move. Movement == |To - From|.
type DiskSegment struct {
	From     int `json:"from"`
	To       int `json:"to"`
	Movement int `json:"movement"`
}

// Result is the output of one disk scheduling run.
type Result struct {
	Policy        Policy        `json:"policy"`
	Direction     Direction     `json:"direction"`
	StartHead     int           `json:"start_head"`
	MaxCylinder   int           `json:"max_cylinder"`
	Segments      []DiskSegment `json:"segments"`
	ServiceOrder  []int         `json:"service_order"`
	TotalMovement int           `json:"total_movement"`
}

// Params configures a disk run.
type Params struct {
	Requests    []int
	StartHead   int
	Policy      string
	Direction   string
	MaxCylinder int
}

// RunDiskSchedule orders the requests under the named policy and walks the head
// along [start_head] + service_order.
//
// Requests above MaxCylinder are accepted with a warning; the bound is advisory.
// Negative cylinders and a start head outside [0, MaxCylinder] are rejected.
func RunDiskSchedule(p Params) (*Result, error) {
	policy := normalizePolicy(p.Policy)
	order, ok := orderers[policy]
	if !ok {
		return nil, fmt.Errorf("%w: unknown disk policy %q; valid: fcfs, sstf, scan, cscan", sim.ErrInvalidPolicy, p.Policy)
	}
	dir := NormalizeDirection(p.Direction)
	if !ValidDirections[string(dir)] {
		return nil, fmt.Errorf("%w: unknown direction %q; valid: up, down", sim.ErrMalformedInput, p.Direction)
	}
	if dir == "" {
		dir = DirectionUp
	}
	if p.MaxCylinder < 0 {
		return nil, fmt.Errorf("%w: max cylinder must be non-negative, got %d", sim.ErrMalformedInput, p.MaxCylinder)
	}
	if p.StartHead < 0 || p.StartHead > p.MaxCylinder {
		return nil, fmt.Errorf("%w: start head %d outside [0, %d]", sim.ErrMalformedInput, p.StartHead, p.MaxCylinder)
	}
	for i, r := range p.Requests {
		if r < 0 {
			return nil, fmt.Errorf("%w: request[%d] cylinder must be non-negative, got %d", sim.ErrMalformedInput, i, r)
		}
		if r > p.MaxCylinder {
			logrus.Warnf("disk request %d exceeds max cylinder %d; servicing anyway", r, p.MaxCylinder)
		}
	}

	requests := append([]int(nil), p.Requests...)
	serviceOrder := order(requests, p.StartHead, dir)
	if serviceOrder == nil {
		serviceOrder = []int{}
	}
	segments := walk(p.StartHead, serviceOrder)

	result := &Result{
		Policy:        policy,
		Direction:     dir,
		StartHead:     p.StartHead,
		MaxCylinder:   p.MaxCylinder,
		Segments:      segments,
		ServiceOrder:  serviceOrder,
		TotalMovement: TotalMovement(segments),
	}
	logrus.Debugf("disk %s: head=%d order=%v total=%d", policy, p.StartHead, serviceOrder, result.TotalMovement)
	return result, nil
}

// walk converts a service order into head-movement segments starting at head.
func walk(head int, order []int) []DiskSegment {
	segments := make([]DiskSegment, 0, len(order))
	cur := head
	for _, to := range order {
		segments = append(segments, DiskSegment{From: cur, To: to, Movement: abs(to - cur)})
		cur = to
	}
	return segments
}

// TotalMovement sums segment movement over a disk trace.
func TotalMovement(segments []DiskSegment) int {
	total := 0
	for _, s := range segments {
		total += s.Movement
	}
	return total
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
