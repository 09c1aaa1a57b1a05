// Package api serves the simulators over HTTP.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/xaios/ossim/config"
	"github.com/xaios/ossim/sim"
	"github.com/xaios/ossim/sim/disk"
	"github.com/xaios/ossim/sim/paging"
	"github.com/xaios/ossim/sim/scenario"
)

// CPURequest runs one CPU policy. Quantum defaults to the configured value.
type CPURequest struct {
	Policy    string        `json:"policy"`
	Quantum   *int64        `json:"quantum,omitempty"`
	Processes []sim.Process `json:"processes"`
}

// CompareRequest runs several CPU policies over one workload. Empty Policies
// means every policy.
type CompareRequest struct {
	Policies  []string      `json:"policies,omitempty"`
	Quantum   *int64        `json:"quantum,omitempty"`
	Processes []sim.Process `json:"processes"`
}

// PagingRequest runs one page replacement policy.
type PagingRequest struct {
	Policy     string `json:"policy"`
	Frames     *int   `json:"frames,omitempty"`
	References []int  `json:"references"`
}

// DiskRequest runs one disk scheduling policy.
type DiskRequest struct {
	Policy      string `json:"policy"`
	Direction   string `json:"direction,omitempty"`
	StartHead   int    `json:"start_head"`
	MaxCylinder *int   `json:"max_cylinder,omitempty"`
	Requests    []int  `json:"requests"`
}

// SchedulerHandler serves the simulator endpoints.
type SchedulerHandler interface {
	CPU(ctx *fiber.Ctx) error
	Compare(ctx *fiber.Ctx) error
	Paging(ctx *fiber.Ctx) error
	Disk(ctx *fiber.Ctx) error
}

type SchedulerHandlerImpl struct {
	config  *config.Config
	metrics *Metrics
}

func NewSchedulerHandlerImpl(cfg *config.Config, metrics *Metrics) *SchedulerHandlerImpl {
	return &SchedulerHandlerImpl{config: cfg, metrics: metrics}
}

// isInputError reports whether err belongs to the engine error taxonomy.
func isInputError(err error) bool {
	return errors.Is(err, sim.ErrInvalidPolicy) || errors.Is(err, sim.ErrInvalidQuantum) ||
		errors.Is(err, sim.ErrInvalidCapacity) || errors.Is(err, sim.ErrMalformedInput)
}

func (s *SchedulerHandlerImpl) fail(ctx *fiber.Ctx, subsystem string, err error) error {
	s.metrics.observeFailure(subsystem)
	status := fiber.StatusInternalServerError
	if isInputError(err) {
		status = fiber.StatusBadRequest
	}
	logrus.Debugf("%s request rejected: %v", subsystem, err)
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *SchedulerHandlerImpl) badRequest(ctx *fiber.Ctx, subsystem string) error {
	s.metrics.observeFailure(subsystem)
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request format"})
}

func (s *SchedulerHandlerImpl) quantum(q *int64) int64 {
	if q != nil {
		return *q
	}
	return s.config.Quantum
}

func (s *SchedulerHandlerImpl) CPU(ctx *fiber.Ctx) error {
	var request CPURequest
	if err := ctx.BodyParser(&request); err != nil {
		return s.badRequest(ctx, "cpu")
	}
	run, err := scenario.NewCPURun(request.Processes, request.Policy, s.quantum(request.Quantum))
	if err != nil {
		return s.fail(ctx, "cpu", err)
	}
	s.metrics.observeCPU(run.Result, run.Summary)
	return ctx.JSON(run)
}

func (s *SchedulerHandlerImpl) Compare(ctx *fiber.Ctx) error {
	var request CompareRequest
	if err := ctx.BodyParser(&request); err != nil {
		return s.badRequest(ctx, "cpu")
	}
	policies := request.Policies
	if len(policies) == 0 {
		for _, p := range sim.CPUPolicyNames {
			policies = append(policies, string(p))
		}
	}
	runs, err := scenario.CompareCPU(ctx.UserContext(), request.Processes, policies, s.quantum(request.Quantum))
	if err != nil {
		return s.fail(ctx, "cpu", err)
	}
	for _, run := range runs {
		s.metrics.observeCPU(run.Result, run.Summary)
	}
	return ctx.JSON(fiber.Map{"runs": runs})
}

func (s *SchedulerHandlerImpl) Paging(ctx *fiber.Ctx) error {
	var request PagingRequest
	if err := ctx.BodyParser(&request); err != nil {
		return s.badRequest(ctx, "paging")
	}
	frames := s.config.Frames
	if request.Frames != nil {
		frames = *request.Frames
	}
	result, err := paging.RunPaging(request.References, frames, request.Policy)
	if err != nil {
		return s.fail(ctx, "paging", err)
	}
	s.metrics.observePaging(result)
	return ctx.JSON(result)
}

func (s *SchedulerHandlerImpl) Disk(ctx *fiber.Ctx) error {
	var request DiskRequest
	if err := ctx.BodyParser(&request); err != nil {
		return s.badRequest(ctx, "disk")
	}
	params := disk.Params{
		Requests:    request.Requests,
		StartHead:   request.StartHead,
		Policy:      request.Policy,
		Direction:   request.Direction,
		MaxCylinder: s.config.MaxCylinder,
	}
	if params.Direction == "" {
		params.Direction = s.config.Direction
	}
	if request.MaxCylinder != nil {
		params.MaxCylinder = *request.MaxCylinder
	}
	result, err := disk.RunDiskSchedule(params)
	if err != nil {
		return s.fail(ctx, "disk", err)
	}
	s.metrics.observeDisk(result)
	return ctx.JSON(result)
}
