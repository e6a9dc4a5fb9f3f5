package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/handlers"
	assistant_handlers "github.com/iman-school/caseload/handlers/assistant"
	attachment_handlers "github.com/iman-school/caseload/handlers/attachment"
	draft_handlers "github.com/iman-school/caseload/handlers/draft"
	selection_handlers "github.com/iman-school/caseload/handlers/selection"
	student_handlers "github.com/iman-school/caseload/handlers/student"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/middleware"
)

// Dependencies are the services the routes are served from
type Dependencies struct {
	Records     *services.RecordStore
	Drafts      *services.DraftRegistry
	Navigator   *services.Navigator
	Assistant   *services.AssistantService
	Attachments *services.AttachmentService

	Storage   handlers.StorageChecker
	Generator handlers.GeneratorChecker
	Jobs      handlers.JobReporter

	Security middleware.SecurityConfig
	Logger   *utils.Logger
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	studentHandler := student_handlers.NewStudentHandler(deps.Records, deps.Logger)
	draftHandler := draft_handlers.NewDraftHandler(deps.Drafts, deps.Logger)
	assistantHandler := assistant_handlers.NewAssistantHandler(deps.Assistant, deps.Logger)
	attachmentHandler := attachment_handlers.NewAttachmentHandler(deps.Attachments, deps.Logger)
	selectionHandler := selection_handlers.NewSelectionHandler(deps.Navigator, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Storage, deps.Generator, deps.Jobs)

	// Apply security middleware
	middleware.SetupSecurity(app, deps.Security)

	// generation calls are slow and paid for; they get their own budget
	generation := func(c *fiber.Ctx) error { return c.Next() }
	if deps.Security.GenerationRateLimit > 0 {
		generation = middleware.RateLimit(deps.Security.GenerationRateLimit, time.Minute)
	}

	// Health check endpoint (public)
	app.Get("/ping", healthHandler.Ping)

	// API v1 group
	api := app.Group("/api/v1")
	api.Get("/health", healthHandler.Check)
	api.Get("/options", handlers.GetOptions)
	api.Get("/quick-prompts", handlers.GetQuickPrompts)

	// Selection routes
	selection := api.Group("/selection")
	selection.Get("/", selectionHandler.GetSelection)
	selection.Put("/", selectionHandler.Select)
	selection.Delete("/", selectionHandler.ClearSelection)

	// Student routes
	students := api.Group("/students")
	students.Get("/", studentHandler.ListStudents)
	students.Post("/", studentHandler.CreateStudent)
	students.Get("/:id", studentHandler.GetStudent)
	students.Delete("/:id", studentHandler.DeleteStudent)
	students.Get("/:id/summary", studentHandler.GetSummary)

	// Append-only entries, written straight to the record
	students.Post("/:id/session-logs", studentHandler.AddSessionLog)
	students.Post("/:id/upcoming-sessions", studentHandler.AddUpcomingSession)
	students.Post("/:id/achieved-goals", studentHandler.AddAchievedGoal)

	// Diagnosis report attachment
	students.Post("/:id/diagnosis/report-file", attachmentHandler.UploadReport)
	students.Get("/:id/diagnosis/report-file", attachmentHandler.DownloadReport)
	students.Delete("/:id/diagnosis/report-file", attachmentHandler.RemoveReport)
	students.Post("/:id/diagnosis/report-file/summarize", generation, assistantHandler.SummarizeDiagnosisReport)

	// Assistant routes
	students.Get("/:id/chat", assistantHandler.GetChatHistory)
	students.Post("/:id/chat", generation, assistantHandler.SendMessage)
	students.Get("/:id/plans", assistantHandler.GetPlans)
	students.Post("/:id/plans", assistantHandler.AcceptPlan)
	students.Post("/:id/reports", generation, assistantHandler.GenerateReport)

	// Draft routes (section form editors)
	drafts := students.Group("/:id/drafts")
	drafts.Post("/sessions/logs", draftHandler.AddSessionLog)
	drafts.Delete("/sessions/logs/:entryId", draftHandler.DeleteSessionLog)
	drafts.Post("/sessions/upcoming", draftHandler.AddUpcomingSession)
	drafts.Delete("/sessions/upcoming/:entryId", draftHandler.DeleteUpcomingSession)
	drafts.Post("/achieved-goals/goals", draftHandler.AddAchievedGoal)
	drafts.Post("/:section", draftHandler.OpenDraft)
	drafts.Get("/:section", draftHandler.GetDraft)
	drafts.Patch("/:section", draftHandler.UpdateDraft)
	drafts.Delete("/:section", draftHandler.CloseDraft)
	drafts.Post("/:section/save", draftHandler.SaveDraft)
	drafts.Post("/:section/cancel", draftHandler.CancelDraft)

	// Whole-section replacement; registered last so the literal paths above win
	students.Put("/:id/:section", studentHandler.UpdateSection)
}
