package handlers

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/services/inference"
	"github.com/iman-school/caseload/services/storage"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/response"
	"github.com/iman-school/caseload/utils/validation"
)

// Arabic messages for the errors the teacher can act on
const (
	msgStudentNotFound = "الطالب غير موجود."
	msgDraftNotOpen    = "لا توجد مسودة مفتوحة لهذا القسم."
	msgEntryNotFound   = "العنصر غير موجود."
	msgNoReportFile    = "لا يوجد تقرير تشخيص مرفق."
	msgNotDirty        = "لا توجد تغييرات غير محفوظة."
	msgDuplicateID     = "يوجد طالب بنفس المعرف."
	msgInvalidInput    = "البيانات المدخلة غير صالحة."
	msgInternal        = "حدث خطأ غير متوقع. يرجى المحاولة مرة أخرى."
)

var (
	notFoundErrors = []struct {
		err error
		msg string
	}{
		{services.ErrStudentNotFound, msgStudentNotFound},
		{services.ErrDraftNotOpen, msgDraftNotOpen},
		{services.ErrEntryNotFound, msgEntryNotFound},
		{services.ErrNoReportFile, msgNoReportFile},
		{storage.ErrAttachmentNotFound, msgNoReportFile},
	}

	validationErrors = []error{
		services.ErrInvalidDateRange,
		services.ErrMissingRequiredField,
		services.ErrInvalidEntry,
		services.ErrInvalidAttachment,
		services.ErrNotAPlan,
		services.ErrUnsupportedReport,
		services.ErrNoReportText,
		services.ErrGoalRemovalNotAllowed,
		services.ErrGoalEditNotAllowed,
		services.ErrDraftNotEditable,
		model.ErrInvalidStudent,
		model.ErrInvalidEnum,
	}
)

// ServiceError maps a service error to the response envelope. Unexpected
// errors are logged and answered with a generic message.
func ServiceError(c *fiber.Ctx, logger *utils.Logger, err error) error {
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf.err) {
			return response.NotFound(c, nf.msg)
		}
	}

	switch {
	case errors.Is(err, services.ErrGenerationInProgress):
		return response.Conflict(c, services.MsgGenerationInProgress)
	case errors.Is(err, services.ErrDuplicateStudentID):
		return response.Conflict(c, msgDuplicateID)
	case errors.Is(err, services.ErrNotDirty):
		return response.Conflict(c, msgNotDirty)
	case errors.Is(err, services.ErrNoSessionsInRange):
		return response.ValidationFailed(c, services.MsgNoSessionsInRange, nil)
	case errors.Is(err, services.ErrEmptyMessage):
		return response.ValidationFailed(c, services.MsgEmptyMessage, nil)
	case errors.Is(err, inference.ErrGenerationFailed):
		logger.Warn("generation failed", "path", c.Path(), "error", err)
		return response.BadGateway(c, services.MsgGenerationFailed)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return response.ValidationFailed(c, msgInvalidInput, validation.FormatValidationErrors(err))
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, msgInvalidInput, "VALIDATION_ERROR", err.Error())
		}
	}

	logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return response.InternalServerError(c, msgInternal)
}

// DecodeJSON reads the request body into v. When it fails the error response
// has been written and ok is false. Unknown enumeration values are a validation
// failure, any other decode failure is a bad request.
func DecodeJSON(c *fiber.Ctx, v interface{}) (ok bool, err error) {
	if err := json.Unmarshal(c.Body(), v); err != nil {
		if errors.Is(err, model.ErrInvalidEnum) {
			return false, response.ErrorWithDetails(c, fiber.StatusUnprocessableEntity, msgInvalidInput, "VALIDATION_ERROR", err.Error())
		}
		return false, response.BadRequest(c, "Invalid request body")
	}
	return true, nil
}

// Bind decodes and validates a request DTO, with the same contract as DecodeJSON
func Bind(c *fiber.Ctx, v *validation.Validator, req interface{}) (ok bool, err error) {
	if ok, err := DecodeJSON(c, req); !ok {
		return false, err
	}
	if err := v.ValidateStruct(req); err != nil {
		return false, response.ValidationFailed(c, msgInvalidInput, validation.FormatValidationErrors(err))
	}
	return true, nil
}
