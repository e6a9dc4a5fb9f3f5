package attachment

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/handlers"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/response"
)

// AttachmentHandler handles diagnosis report uploads
type AttachmentHandler struct {
	service *services.AttachmentService
	logger  *utils.Logger
}

// NewAttachmentHandler creates a new attachment handler
func NewAttachmentHandler(service *services.AttachmentService, logger *utils.Logger) *AttachmentHandler {
	return &AttachmentHandler{
		service: service,
		logger:  logger.With("component", "attachment_handler"),
	}
}

// UploadReport handles POST /api/v1/students/:id/diagnosis/report-file.
// The multipart field is "file".
func (h *AttachmentHandler) UploadReport(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "No file uploaded")
	}

	result, err := h.service.UploadFile(c.UserContext(), c.Params("id"), file)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}

	message := "تم إرفاق التقرير."
	if result.Staged {
		message = "تم إرفاق التقرير. احفظ التغييرات لاعتماده."
	}
	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Message: message,
		Data:    result,
	})
}

// DownloadReport handles GET /api/v1/students/:id/diagnosis/report-file
func (h *AttachmentHandler) DownloadReport(c *fiber.Ctx) error {
	obj, err := h.service.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename*=UTF-8''%s", url.PathEscape(obj.FileName)))
	return c.Send(obj.Data)
}

// RemoveReport handles DELETE /api/v1/students/:id/diagnosis/report-file
func (h *AttachmentHandler) RemoveReport(c *fiber.Ctx) error {
	staged, err := h.service.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, fiber.Map{"staged": staged})
}
