package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services/inference"
	"github.com/iman-school/caseload/services/storage"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/pdfvalidation"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/semaphore"
)

var (
	ErrGenerationInProgress = errors.New("a generation request is already running for this student")
	ErrEmptyMessage         = errors.New("message is empty")
	ErrNotAPlan             = errors.New("content is not an education plan")
	ErrUnsupportedReport    = errors.New("only PDF reports can be summarized")
)

// ReportRangeDays are the preset report periods
var ReportRangeDays = []int{7, 30}

// Report is a generated progress report; it is returned, never stored
type Report struct {
	StudentID    string `json:"studentId"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	SessionCount int    `json:"sessionCount"`
	Markdown     string `json:"markdown"`
	HTML         string `json:"html"`
}

// reportRenderer turns report markdown into printable HTML
var reportRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// AssistantService runs the generation features: chat, plan acceptance,
// progress reports and diagnosis report summaries. Each student has a single
// task slot, so a second request while one is running is rejected.
type AssistantService struct {
	store      *RecordStore
	generator  inference.TextGenerator
	files      storage.AttachmentStore
	extractor  *PDFExtractor
	schoolName string
	logger     *utils.Logger
	now        func() time.Time

	mu    sync.Mutex
	slots map[string]*semaphore.Weighted
}

func NewAssistantService(store *RecordStore, generator inference.TextGenerator, files storage.AttachmentStore, schoolName string, logger *utils.Logger) *AssistantService {
	logger = logger.With("component", "assistant_service")
	s := &AssistantService{
		store:      store,
		generator:  generator,
		files:      files,
		extractor:  NewPDFExtractor(logger),
		schoolName: schoolName,
		logger:     logger,
		now:        time.Now,
		slots:      make(map[string]*semaphore.Weighted),
	}
	store.Subscribe(s.onRecordChange)
	return s
}

func (s *AssistantService) onRecordChange(change RecordChange) {
	if change.Removed {
		s.dropSlot(change.ID)
	}
}

// acquire takes the student's task slot without waiting
func (s *AssistantService) acquire(studentID string) (release func(), err error) {
	s.mu.Lock()
	slot, ok := s.slots[studentID]
	if !ok {
		slot = semaphore.NewWeighted(1)
		s.slots[studentID] = slot
	}
	s.mu.Unlock()

	if !slot.TryAcquire(1) {
		return nil, ErrGenerationInProgress
	}
	return func() {
		slot.Release(1)
		if _, ok := s.store.Get(studentID); !ok {
			s.dropSlot(studentID)
		}
	}, nil
}

// dropSlot forgets the slot of a student that no longer exists. A slot that
// is still held is left for its holder's release to drop.
func (s *AssistantService) dropSlot(studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[studentID]
	if !ok || !slot.TryAcquire(1) {
		return
	}
	delete(s.slots, studentID)
}

// Busy reports whether a generation request is running for the student
func (s *AssistantService) Busy(studentID string) bool {
	s.mu.Lock()
	slot, ok := s.slots[studentID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if !slot.TryAcquire(1) {
		return true
	}
	slot.Release(1)
	return false
}

// SendChatMessage asks the assistant about a student and records both turns
func (s *AssistantService) SendChatMessage(ctx context.Context, studentID, message string) (model.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatMessage{}, ErrEmptyMessage
	}

	release, err := s.acquire(studentID)
	if err != nil {
		return model.ChatMessage{}, err
	}
	defer release()

	student, ok := s.store.Get(studentID)
	if !ok {
		return model.ChatMessage{}, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}

	prompt := BuildChatPrompt(student, student.ChatHistory, message)
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("chat generation failed", "student_id", studentID, "error", err)
		return model.ChatMessage{}, err
	}

	answer := model.AssistantMessage(reply)
	update := model.ChatAppend{Messages: []model.ChatMessage{model.UserMessage(message), answer}}
	if _, err := s.store.ApplySection(ctx, studentID, update); err != nil {
		return model.ChatMessage{}, err
	}
	return answer, nil
}

// ChatHistory returns the stored transcript
func (s *AssistantService) ChatHistory(studentID string) ([]model.ChatMessage, error) {
	student, ok := s.store.Get(studentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	return student.ChatHistory, nil
}

// AcceptPlan appends an assistant-written education plan to the plan history
func (s *AssistantService) AcceptPlan(ctx context.Context, studentID, content string) (model.GeneratedPlan, error) {
	if !IsPlan(content) {
		return model.GeneratedPlan{}, ErrNotAPlan
	}
	plan := model.GeneratedPlan{Content: content, CreatedAt: s.now().UTC()}
	if _, err := s.store.ApplySection(ctx, studentID, model.PlanAppend{Plan: plan}); err != nil {
		return model.GeneratedPlan{}, err
	}
	s.logger.Info("plan accepted", "student_id", studentID)
	return plan, nil
}

// Plans returns the accepted plans, oldest first
func (s *AssistantService) Plans(studentID string) ([]model.GeneratedPlan, error) {
	student, ok := s.store.Get(studentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	return student.PlanHistory, nil
}

// GenerateReportForLastDays covers the period ending today
func (s *AssistantService) GenerateReportForLastDays(ctx context.Context, studentID string, days int) (*Report, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", ErrInvalidDateRange)
	}
	today := s.now()
	start := today.AddDate(0, 0, -days)
	return s.GenerateReport(ctx, studentID, start.Format(model.DateLayout), today.Format(model.DateLayout))
}

// GenerateReport writes a progress report for the sessions logged in [start, end]
func (s *AssistantService) GenerateReport(ctx context.Context, studentID, start, end string) (*Report, error) {
	student, ok := s.store.Get(studentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}

	prompt, err := BuildReportPrompt(student, student.SessionLogs, start, end)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(studentID)
	if err != nil {
		return nil, err
	}
	defer release()

	body, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("report generation failed", "student_id", studentID, "error", err)
		return nil, err
	}

	markdown := ReportHeader(s.schoolName, student.PersonalInfo.FullName, start, end) + body
	var html bytes.Buffer
	if err := reportRenderer.Convert([]byte(markdown), &html); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &Report{
		StudentID:    studentID,
		StartDate:    start,
		EndDate:      end,
		SessionCount: len(FilterLogsByRange(student.SessionLogs, start, end)),
		Markdown:     markdown,
		HTML:         html.String(),
	}, nil
}

// SummarizeDiagnosisReport extracts the attached PDF's text, asks for a
// summary and stores it on the diagnosis section
func (s *AssistantService) SummarizeDiagnosisReport(ctx context.Context, studentID string) (string, error) {
	student, ok := s.store.Get(studentID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	file := student.MedicalDiagnosis.ReportFile
	if file == nil || file.StorageKey == "" {
		return "", ErrNoReportFile
	}
	if file.MimeType != pdfvalidation.MimePDF {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedReport, file.MimeType)
	}

	release, err := s.acquire(studentID)
	if err != nil {
		return "", err
	}
	defer release()

	obj, err := s.files.Get(ctx, file.StorageKey)
	if err != nil {
		return "", err
	}
	text, err := s.extractor.ExtractText(obj.Data)
	if err != nil {
		return "", err
	}
	prompt, err := BuildDiagnosisSummaryPrompt(student, text)
	if err != nil {
		return "", err
	}

	summary, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("diagnosis summary failed", "student_id", studentID, "error", err)
		return "", err
	}
	summary = strings.TrimSpace(summary)

	// the record may have changed while generating; only touch the summary
	current, ok := s.store.Get(studentID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	if current.MedicalDiagnosis.ReportFile == nil || current.MedicalDiagnosis.ReportFile.StorageKey != file.StorageKey {
		s.logger.Warn("report file changed while summarizing, summary not stored", "student_id", studentID)
		return summary, nil
	}
	update := model.ReportSummaryUpdate{StorageKey: file.StorageKey, Summary: summary}
	if _, err := s.store.ApplySection(ctx, studentID, update); err != nil {
		return "", err
	}
	return summary, nil
}

// GeneratorHealthy probes the text generation endpoint
func (s *AssistantService) GeneratorHealthy(ctx context.Context) error {
	return s.generator.HealthCheck(ctx)
}
