package draft

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/handlers"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/response"
	"github.com/iman-school/caseload/utils/validation"
)

// DraftHandler exposes the section editors: a draft is opened from the stored
// record, edited, then saved or cancelled
type DraftHandler struct {
	drafts    *services.DraftRegistry
	validator *validation.Validator
	logger    *utils.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(drafts *services.DraftRegistry, logger *utils.Logger) *DraftHandler {
	return &DraftHandler{
		drafts:    drafts,
		validator: validation.NewValidator(),
		logger:    logger.With("component", "draft_handler"),
	}
}

// DraftResponse is the state of one open editor
type DraftResponse struct {
	StudentID         string        `json:"studentId"`
	Section           model.Section `json:"section"`
	Dirty             bool          `json:"dirty"`
	Draft             interface{}   `json:"draft"`
	AttachmentChanged *bool         `json:"attachmentChanged,omitempty"`
	FieldsChanged     *bool         `json:"fieldsChanged,omitempty"`
}

// SessionLogRequest represents a completed session added to the sessions draft
type SessionLogRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Duration int    `json:"duration" validate:"gte=0,lte=1440"`
	Notes    string `json:"notes" validate:"required,max=10000"`
}

// UpcomingSessionRequest represents a scheduled session added to the sessions draft
type UpcomingSessionRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Duration int    `json:"duration" validate:"gte=0,lte=1440"`
}

// AchievedGoalRequest represents a goal added to the goals draft
type AchievedGoalRequest struct {
	Description  string `json:"description" validate:"required,max=2000"`
	GoalType     string `json:"goalType" validate:"required"`
	MasteryLevel string `json:"masteryLevel" validate:"required"`
}

func view(editor services.Editor) DraftResponse {
	resp := DraftResponse{
		StudentID: editor.StudentID(),
		Section:   editor.Section(),
		Dirty:     editor.IsDirty(),
		Draft:     editor.DraftView(),
	}
	if d, ok := editor.(*services.DiagnosisEditor); ok {
		attachment, fields := d.AttachmentChanged(), d.FieldsChanged()
		resp.AttachmentChanged = &attachment
		resp.FieldsChanged = &fields
	}
	return resp
}

func section(c *fiber.Ctx) (model.Section, error) {
	s, ok := model.ParseSection(c.Params("section"))
	if !ok {
		return "", fmt.Errorf("%w: unknown section %q", services.ErrDraftNotOpen, c.Params("section"))
	}
	return s, nil
}

// openEditor returns the open editor for the route's section
func (h *DraftHandler) openEditor(c *fiber.Ctx, s model.Section) (services.Editor, error) {
	return h.drafts.Get(c.Params("id"), s)
}

// OpenDraft handles POST /api/v1/students/:id/drafts/:section.
// Opening an already open draft returns it unchanged.
func (h *DraftHandler) OpenDraft(c *fiber.Ctx) error {
	s, err := section(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	editor, err := h.drafts.Open(c.Params("id"), s)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, view(editor))
}

// GetDraft handles GET /api/v1/students/:id/drafts/:section
func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	s, err := section(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	editor, err := h.openEditor(c, s)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, view(editor))
}

// UpdateDraft handles PATCH /api/v1/students/:id/drafts/:section.
// The body replaces the whole draft value.
func (h *DraftHandler) UpdateDraft(c *fiber.Ctx) error {
	s, err := section(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	editor, err := h.openEditor(c, s)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if err := editor.ReplaceDraft(c.Body()); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, view(editor))
}

// SaveDraft handles POST /api/v1/students/:id/drafts/:section/save
func (h *DraftHandler) SaveDraft(c *fiber.Ctx) error {
	s, err := section(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	editor, err := h.openEditor(c, s)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if err := editor.Save(c.UserContext()); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.SuccessWithMessage(c, "تم حفظ التغييرات.", view(editor))
}

// CancelDraft handles POST /api/v1/students/:id/drafts/:section/cancel.
// The draft stays open, restored to the stored section.
func (h *DraftHandler) CancelDraft(c *fiber.Ctx) error {
	s, err := section(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	editor, err := h.openEditor(c, s)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	editor.Cancel()
	return response.Success(c, view(editor))
}

// CloseDraft handles DELETE /api/v1/students/:id/drafts/:section
func (h *DraftHandler) CloseDraft(c *fiber.Ctx) error {
	s, err := section(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	h.drafts.Close(c.Params("id"), s)
	return response.NoContent(c)
}

func (h *DraftHandler) sessionsEditor(c *fiber.Ctx) (*services.SessionsEditor, error) {
	editor, err := h.drafts.Get(c.Params("id"), model.SectionSessions)
	if err != nil {
		return nil, err
	}
	return editor.(*services.SessionsEditor), nil
}

// AddSessionLog handles POST /api/v1/students/:id/drafts/sessions/logs
func (h *DraftHandler) AddSessionLog(c *fiber.Ctx) error {
	var req SessionLogRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}
	editor, err := h.sessionsEditor(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if _, err := editor.AddLog(req.Date, req.Time, req.Duration, req.Notes); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, view(editor))
}

// DeleteSessionLog handles DELETE /api/v1/students/:id/drafts/sessions/logs/:entryId
func (h *DraftHandler) DeleteSessionLog(c *fiber.Ctx) error {
	editor, err := h.sessionsEditor(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if err := editor.DeleteLog(c.Params("entryId")); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, view(editor))
}

// AddUpcomingSession handles POST /api/v1/students/:id/drafts/sessions/upcoming
func (h *DraftHandler) AddUpcomingSession(c *fiber.Ctx) error {
	var req UpcomingSessionRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}
	editor, err := h.sessionsEditor(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if _, err := editor.AddUpcoming(req.Date, req.Time, req.Duration); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, view(editor))
}

// DeleteUpcomingSession handles DELETE /api/v1/students/:id/drafts/sessions/upcoming/:entryId
func (h *DraftHandler) DeleteUpcomingSession(c *fiber.Ctx) error {
	editor, err := h.sessionsEditor(c)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if err := editor.DeleteUpcoming(c.Params("entryId")); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, view(editor))
}

// AddAchievedGoal handles POST /api/v1/students/:id/drafts/achieved-goals/goals
func (h *DraftHandler) AddAchievedGoal(c *fiber.Ctx) error {
	var req AchievedGoalRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}
	editor, err := h.drafts.Get(c.Params("id"), model.SectionAchievedGoals)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	goals := editor.(*services.GoalsEditor)
	if _, err := goals.AddGoal(req.Description, model.GoalType(req.GoalType), model.MasteryLevel(req.MasteryLevel)); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, view(goals))
}
