package student

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/handlers"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/response"
	"github.com/iman-school/caseload/utils/validation"
)

// StudentHandler handles the student record routes
type StudentHandler struct {
	store     *services.RecordStore
	validator *validation.Validator
	logger    *utils.Logger
	now       func() time.Time
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(store *services.RecordStore, logger *utils.Logger) *StudentHandler {
	return &StudentHandler{
		store:     store,
		validator: validation.NewValidator(),
		logger:    logger.With("component", "student_handler"),
		now:       time.Now,
	}
}

// Summary is the list card of a student
type Summary struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Diagnosis string `json:"diagnosis"`
	Age       string `json:"age"`
	Grade     string `json:"grade"`
	PhotoURL  string `json:"photoUrl,omitempty"`
}

// SummaryOf builds the list card, with AgeUnknown for a missing birth date
func SummaryOf(s model.Student, now time.Time) Summary {
	return Summary{
		ID:        s.ID,
		FullName:  s.PersonalInfo.FullName,
		Diagnosis: s.DisplayDiagnosis(),
		Age:       model.AgeLabel(s.PersonalInfo.DOB, now),
		Grade:     s.PersonalInfo.Grade,
		PhotoURL:  s.PersonalInfo.PhotoURL,
	}
}

// SessionLogRequest represents the request to log a completed session
type SessionLogRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Duration int    `json:"duration" validate:"gte=0,lte=1440"`
	Notes    string `json:"notes" validate:"required,max=10000"`
}

// UpcomingSessionRequest represents the request to schedule a session
type UpcomingSessionRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04"`
	Duration int    `json:"duration" validate:"gte=0,lte=1440"`
}

// AchievedGoalRequest represents the request to record an achieved goal
type AchievedGoalRequest struct {
	Description  string `json:"description" validate:"required,max=2000"`
	GoalType     string `json:"goalType" validate:"required"`
	MasteryLevel string `json:"masteryLevel" validate:"required"`
}

// ListStudents handles GET /api/v1/students
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	students := h.store.All()
	now := h.now()

	if c.QueryBool("full") {
		return response.Success(c, students)
	}

	cards := make([]Summary, len(students))
	for i, s := range students {
		cards[i] = SummaryOf(s, now)
	}
	return response.Success(c, cards)
}

// CreateStudent handles POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	student, err := h.store.Create(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, student)
}

// GetStudent handles GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	student, ok := h.store.Get(c.Params("id"))
	if !ok {
		return handlers.ServiceError(c, h.logger, services.ErrStudentNotFound)
	}
	return response.Success(c, student)
}

// GetSummary handles GET /api/v1/students/:id/summary
func (h *StudentHandler) GetSummary(c *fiber.Ctx) error {
	student, ok := h.store.Get(c.Params("id"))
	if !ok {
		return handlers.ServiceError(c, h.logger, services.ErrStudentNotFound)
	}
	return response.Success(c, SummaryOf(student, h.now()))
}

// DeleteStudent handles DELETE /api/v1/students/:id?confirm=true.
// Removal is permanent, so the confirmation flag is mandatory.
func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return response.BadRequest(c, "هل أنت متأكد من حذف هذا الطالب؟ لا يمكن التراجع عن هذا الإجراء. أعد الطلب مع confirm=true.")
	}
	if err := h.store.Remove(c.UserContext(), c.Params("id")); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.NoContent(c)
}

// UpdateSection handles PUT /api/v1/students/:id/:section. The body replaces
// the whole section.
func (h *StudentHandler) UpdateSection(c *fiber.Ctx) error {
	section, ok := model.ParseSection(c.Params("section"))
	if !ok {
		return response.NotFound(c, "Unknown section")
	}

	var update model.SectionUpdate
	switch section {
	case model.SectionPersonalInfo:
		var v model.PersonalInfo
		if ok, err := handlers.DecodeJSON(c, &v); !ok {
			return err
		}
		update = model.PersonalInfoUpdate{PersonalInfo: v}
	case model.SectionDiagnosis:
		var v model.MedicalDiagnosis
		if ok, err := handlers.DecodeJSON(c, &v); !ok {
			return err
		}
		// the attachment only changes through the upload routes
		update = model.DiagnosisFieldsUpdate{Diagnosis: v}
	case model.SectionCaseStudy:
		var v model.CaseStudy
		if ok, err := handlers.DecodeJSON(c, &v); !ok {
			return err
		}
		update = model.CaseStudyUpdate{CaseStudy: v}
	case model.SectionAssessments:
		var v model.Assessments
		if ok, err := handlers.DecodeJSON(c, &v); !ok {
			return err
		}
		update = model.AssessmentsUpdate{Assessments: v}
	case model.SectionSessions:
		var v services.SessionCalendar
		if ok, err := handlers.DecodeJSON(c, &v); !ok {
			return err
		}
		update = model.SessionsUpdate{Logs: v.Logs, Upcoming: v.Upcoming}
	case model.SectionAchievedGoals:
		var v []model.AchievedGoal
		if ok, err := handlers.DecodeJSON(c, &v); !ok {
			return err
		}
		update = model.AchievedGoalsUpdate{Goals: v}
	}

	student, err := h.store.ApplySection(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Success(c, student)
}

// AddSessionLog handles POST /api/v1/students/:id/session-logs
func (h *StudentHandler) AddSessionLog(c *fiber.Ctx) error {
	var req SessionLogRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	log, err := services.NewSessionLog(req.Date, req.Time, req.Duration, req.Notes)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if _, err := h.store.ApplySection(c.UserContext(), c.Params("id"), model.SessionLogAppend{Log: log}); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, log)
}

// AddUpcomingSession handles POST /api/v1/students/:id/upcoming-sessions
func (h *StudentHandler) AddUpcomingSession(c *fiber.Ctx) error {
	var req UpcomingSessionRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	session, err := services.NewUpcomingSession(req.Date, req.Time, req.Duration)
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if _, err := h.store.ApplySection(c.UserContext(), c.Params("id"), model.UpcomingSessionAppend{Session: session}); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, session)
}

// AddAchievedGoal handles POST /api/v1/students/:id/achieved-goals
func (h *StudentHandler) AddAchievedGoal(c *fiber.Ctx) error {
	var req AchievedGoalRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	goal, err := services.NewAchievedGoal(req.Description, model.GoalType(req.GoalType), model.MasteryLevel(req.MasteryLevel), h.now())
	if err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	if _, err := h.store.ApplySection(c.UserContext(), c.Params("id"), model.GoalAppend{Goal: goal}); err != nil {
		return handlers.ServiceError(c, h.logger, err)
	}
	return response.Created(c, goal)
}
