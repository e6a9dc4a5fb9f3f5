package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/services/cron"
	"github.com/iman-school/caseload/utils/response"
)

// StorageChecker is satisfied by every slot storage adapter
type StorageChecker interface {
	HealthCheck() error
}

// GeneratorChecker probes the text generation endpoint
type GeneratorChecker interface {
	HealthCheck(ctx context.Context) error
}

// BudgetReporter is implemented by generators that throttle their calls
type BudgetReporter interface {
	GenerationBudget() (tokens float64, limited bool)
}

// JobReporter exposes the latest cron job runs
type JobReporter interface {
	Statuses() []cron.JobStatus
}

// HealthHandler reports the state of storage, the generator and scheduled jobs
type HealthHandler struct {
	storage   StorageChecker
	generator GeneratorChecker
	jobs      JobReporter
}

func NewHealthHandler(storage StorageChecker, generator GeneratorChecker, jobs JobReporter) *HealthHandler {
	return &HealthHandler{storage: storage, generator: generator, jobs: jobs}
}

// ComponentStatus is the health of one dependency
type ComponentStatus struct {
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthReport is the body of GET /health
type HealthReport struct {
	Status    string           `json:"status"`
	Storage   ComponentStatus  `json:"storage"`
	Generator ComponentStatus  `json:"generator"`
	Jobs      []cron.JobStatus `json:"jobs,omitempty"`
	// GenerationBudget is the number of generations that can start without
	// queueing; absent when the generator is not throttled
	GenerationBudget *float64 `json:"generationBudget,omitempty"`
}

func status(err error) ComponentStatus {
	if err != nil {
		return ComponentStatus{Error: err.Error()}
	}
	return ComponentStatus{Healthy: true}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Check handles GET /api/v1/health. Storage failure makes the service
// unavailable; a generator failure only degrades it.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	report := HealthReport{
		Status:  "ok",
		Storage: status(h.storage.HealthCheck()),
	}
	if h.generator != nil {
		report.Generator = status(h.generator.HealthCheck(ctx))
		if budget, ok := h.generator.(BudgetReporter); ok {
			if tokens, limited := budget.GenerationBudget(); limited {
				report.GenerationBudget = &tokens
			}
		}
	}
	if h.jobs != nil {
		report.Jobs = h.jobs.Statuses()
	}

	if !report.Storage.Healthy {
		report.Status = "unavailable"
		return response.ServiceUnavailable(c, "storage is unreachable", report)
	}
	if !report.Generator.Healthy {
		report.Status = "degraded"
	}
	return response.Success(c, report)
}
