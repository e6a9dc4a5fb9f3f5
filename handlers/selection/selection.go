package selection

import (
	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/handlers"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/response"
	"github.com/iman-school/caseload/utils/validation"
)

// SelectionHandler exposes the currently selected student
type SelectionHandler struct {
	navigator *services.Navigator
	validator *validation.Validator
	logger    *utils.Logger
}

func NewSelectionHandler(navigator *services.Navigator, logger *utils.Logger) *SelectionHandler {
	return &SelectionHandler{
		navigator: navigator,
		validator: validation.NewValidator(),
		logger:    logger.With("component", "selection_handler"),
	}
}

// SelectRequest represents the request to select a student
type SelectRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

// GetSelection handles GET /api/v1/selection. With nothing selected (or the
// selected record removed) data is null.
func (h *SelectionHandler) GetSelection(c *fiber.Ctx) error {
	student, ok := h.navigator.Current()
	if !ok {
		return response.Success(c, nil)
	}
	return response.Success(c, student)
}

// Select handles PUT /api/v1/selection
func (h *SelectionHandler) Select(c *fiber.Ctx) error {
	var req SelectRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	student, ok := h.navigator.Select(req.StudentID)
	if !ok {
		return handlers.ServiceError(c, h.logger, services.ErrStudentNotFound)
	}
	return response.Success(c, student)
}

// ClearSelection handles DELETE /api/v1/selection
func (h *SelectionHandler) ClearSelection(c *fiber.Ctx) error {
	h.navigator.Clear()
	return response.NoContent(c)
}
