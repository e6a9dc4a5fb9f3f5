package assistant

import (
	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/handlers"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/response"
	"github.com/iman-school/caseload/utils/validation"
)

// AssistantHandler handles chat, plan, report and diagnosis summary requests
type AssistantHandler struct {
	service   *services.AssistantService
	validator *validation.Validator
	logger    *utils.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(service *services.AssistantService, logger *utils.Logger) *AssistantHandler {
	return &AssistantHandler{
		service:   service,
		validator: validation.NewValidator(),
		logger:    logger.With("component", "assistant_handler"),
	}
}

// SendMessageRequest represents the request to ask the assistant
type SendMessageRequest struct {
	Message string `json:"message"`
}

// AcceptPlanRequest represents the request to save an assistant reply as a plan
type AcceptPlanRequest struct {
	Content string `json:"content" validate:"required"`
}

// ReportRequest selects the report period: a preset number of days ending
// today, or an explicit date range
type ReportRequest struct {
	Days      int    `json:"days" validate:"omitempty,oneof=7 30"`
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// SendMessage handles POST /api/v1/students/:id/chat
func (h *AssistantHandler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if ok, err := handlers.DecodeJSON(c, &req); !ok {
		return err
	}

	reply, err := h.service.SendChatMessage(c.UserContext(), c.Params("id"), req.Message)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, fiber.Map{
		"reply":  reply,
		"isPlan": services.IsPlan(reply.Content),
	})
}

// GetChatHistory handles GET /api/v1/students/:id/chat
func (h *AssistantHandler) GetChatHistory(c *fiber.Ctx) error {
	history, err := h.service.ChatHistory(c.Params("id"))
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, history)
}

// AcceptPlan handles POST /api/v1/students/:id/plans
func (h *AssistantHandler) AcceptPlan(c *fiber.Ctx) error {
	var req AcceptPlanRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	plan, err := h.service.AcceptPlan(c.UserContext(), c.Params("id"), req.Content)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, plan)
}

// GetPlans handles GET /api/v1/students/:id/plans
func (h *AssistantHandler) GetPlans(c *fiber.Ctx) error {
	plans, err := h.service.Plans(c.Params("id"))
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, plans)
}

// GenerateReport handles POST /api/v1/students/:id/reports
func (h *AssistantHandler) GenerateReport(c *fiber.Ctx) error {
	var req ReportRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}
	if req.Days == 0 && (req.StartDate == "" || req.EndDate == "") {
		return response.ValidationFailed(c, "يرجى اختيار فترة التقرير.", map[string]string{
			"days": "days or startDate and endDate are required",
		})
	}

	var (
		report *services.Report
		err    error
	)
	if req.Days > 0 {
		report, err = h.service.GenerateReportForLastDays(c.UserContext(), c.Params("id"), req.Days)
	} else {
		report, err = h.service.GenerateReport(c.UserContext(), c.Params("id"), req.StartDate, req.EndDate)
	}
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, report)
}

// SummarizeDiagnosisReport handles POST /api/v1/students/:id/diagnosis/report-file/summarize
func (h *AssistantHandler) SummarizeDiagnosisReport(c *fiber.Ctx) error {
	summary, err := h.service.SummarizeDiagnosisReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, fiber.Map{"summary": summary})
}
