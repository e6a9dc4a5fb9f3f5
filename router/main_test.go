package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/database"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/services/inference"
	"github.com/iman-school/caseload/services/storage"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/middleware"
	"github.com/iman-school/caseload/utils/pdfvalidation"
	"github.com/iman-school/caseload/utils/pdfvalidation/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

type stubGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reply, g.err
}

func (g *stubGenerator) HealthCheck(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *stubGenerator) set(reply string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reply, g.err = reply, err
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type testApp struct {
	app       *fiber.App
	generator *stubGenerator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithSecurity(t, middleware.SecurityConfig{AllowedOrigins: "*", DisableAccessLog: true})
}

func newTestAppWithSecurity(t *testing.T, security middleware.SecurityConfig) *testApp {
	t.Helper()
	logger := utils.NewNopLogger()

	backend := database.NewMemoryStore()
	records := services.NewRecordStore(backend, "students", logger)
	records.Load(context.Background())
	drafts := services.NewDraftRegistry(records, logger)

	blobs, err := database.NewGORMStore(sqlite.Open(":memory:"), "test")
	require.NoError(t, err)
	require.NoError(t, blobs.Init())
	t.Cleanup(func() { blobs.Close() })
	files := storage.NewDBStore(blobs.GetDB())

	generator := &stubGenerator{}
	app := fiber.New()
	SetupRoutes(app, Dependencies{
		Records:     records,
		Drafts:      drafts,
		Navigator:   services.NewNavigator(records),
		Assistant:   services.NewAssistantService(records, generator, files, "مدرسة الإيمان", logger),
		Attachments: services.NewAttachmentService(records, drafts, files, pdfvalidation.DefaultLimits, logger),
		Storage:     backend,
		Generator:   generator,
		Security:    security,
		Logger:      logger,
	})
	return &testApp{app: app, generator: generator}
}

func (a *testApp) send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	status, raw := a.send(t, req)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return status, env
}

func (a *testApp) upload(t *testing.T, studentID, name string, content []byte) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+studentID+"/diagnosis/report-file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, raw := a.send(t, req)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return status, env
}

func (a *testApp) createStudent(t *testing.T) model.Student {
	t.Helper()
	status, env := a.do(t, http.MethodPost, "/api/v1/students", nil)
	require.Equal(t, http.StatusCreated, status)
	var student model.Student
	require.NoError(t, json.Unmarshal(env.Data, &student))
	return student
}

func (a *testApp) getStudent(t *testing.T, id string) model.Student {
	t.Helper()
	status, env := a.do(t, http.MethodGet, "/api/v1/students/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	var student model.Student
	require.NoError(t, json.Unmarshal(env.Data, &student))
	return student
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestStudentLifecycle(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	assert.Equal(t, model.DefaultStudentName, student.PersonalInfo.FullName)

	status, env := a.do(t, http.MethodGet, "/api/v1/students", nil)
	require.Equal(t, http.StatusOK, status)
	cards := decode[[]map[string]string](t, env.Data)
	require.Len(t, cards, 1)
	assert.Equal(t, model.NoDiagnosisLabel, cards[0]["diagnosis"])

	status, _ = a.do(t, http.MethodPut, "/api/v1/students/"+student.ID+"/personal-info", model.PersonalInfo{
		FullName: "ليلى",
		DOB:      "2016-04-02",
		Grade:    "الثالث",
	})
	require.Equal(t, http.StatusOK, status)

	status, env = a.do(t, http.MethodGet, "/api/v1/students/"+student.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, status)
	summary := decode[map[string]string](t, env.Data)
	assert.Equal(t, "ليلى", summary["fullName"])
	assert.Equal(t, "الثالث", summary["grade"])

	status, _ = a.do(t, http.MethodDelete, "/api/v1/students/"+student.ID, nil)
	assert.Equal(t, http.StatusBadRequest, status, "removal needs confirmation")

	status, _ = a.do(t, http.MethodDelete, "/api/v1/students/"+student.ID+"?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, env = a.do(t, http.MethodGet, "/api/v1/students/"+student.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestUpdateSectionRejections(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	base := "/api/v1/students/" + student.ID

	status, _ := a.do(t, http.MethodPut, base+"/chat", map[string]string{})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = a.do(t, http.MethodPut, base+"/achieved-goals", []map[string]string{
		{"id": "g1", "description": "d", "goalType": "other", "masteryLevel": "متقن"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = a.do(t, http.MethodPut, base+"/assessments", map[string]interface{}{
		"socialSkills": map[string]interface{}{"level": 9},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAppendEntries(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	base := "/api/v1/students/" + student.ID

	status, env := a.do(t, http.MethodPost, base+"/session-logs", map[string]interface{}{
		"date": "2024-05-10", "time": "09:00", "duration": 45,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(env.Error.Details), "notes")

	for _, date := range []string{"2024-05-10", "2024-05-12"} {
		status, _ = a.do(t, http.MethodPost, base+"/session-logs", map[string]interface{}{
			"date": date, "time": "09:00", "duration": 45, "notes": "قراءة",
		})
		require.Equal(t, http.StatusCreated, status)
	}
	status, _ = a.do(t, http.MethodPost, base+"/upcoming-sessions", map[string]interface{}{
		"date": "2024-06-01", "time": "10:00", "duration": 30,
	})
	require.Equal(t, http.StatusCreated, status)
	status, _ = a.do(t, http.MethodPost, base+"/achieved-goals", map[string]string{
		"description": "يقرأ جملة", "goalType": string(model.GoalTypeAcademic), "masteryLevel": string(model.MasteryAdvanced),
	})
	require.Equal(t, http.StatusCreated, status)

	got := a.getStudent(t, student.ID)
	require.Len(t, got.SessionLogs, 2)
	assert.Equal(t, "2024-05-12", got.SessionLogs[0].Date, "newest first")
	assert.Len(t, got.UpcomingSessions, 1)
	assert.Len(t, got.AchievedGoals, 1)

	status, _ = a.do(t, http.MethodPut, base+"/achieved-goals", []model.AchievedGoal{})
	assert.Equal(t, http.StatusUnprocessableEntity, status, "goals cannot be removed")
}

func TestDraftEditing(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	drafts := "/api/v1/students/" + student.ID + "/drafts"

	status, _ := a.do(t, http.MethodGet, drafts+"/case-study", nil)
	assert.Equal(t, http.StatusNotFound, status, "not opened yet")

	status, env := a.do(t, http.MethodPost, drafts+"/case-study", nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[map[string]interface{}](t, env.Data)["dirty"].(bool))

	status, _ = a.do(t, http.MethodPost, drafts+"/case-study/save", nil)
	assert.Equal(t, http.StatusConflict, status, "clean drafts cannot be saved")

	status, env = a.do(t, http.MethodPatch, drafts+"/case-study", model.CaseStudy{Strengths: "ذاكرة بصرية"})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[map[string]interface{}](t, env.Data)["dirty"].(bool))

	status, env = a.do(t, http.MethodPost, drafts+"/case-study/save", nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[map[string]interface{}](t, env.Data)["dirty"].(bool))
	assert.Equal(t, "ذاكرة بصرية", a.getStudent(t, student.ID).CaseStudy.Strengths)

	status, _ = a.do(t, http.MethodPatch, drafts+"/case-study", model.CaseStudy{Strengths: "x"})
	require.Equal(t, http.StatusOK, status)
	status, env = a.do(t, http.MethodPost, drafts+"/case-study/cancel", nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[map[string]interface{}](t, env.Data)["dirty"].(bool))

	status, _ = a.do(t, http.MethodDelete, drafts+"/case-study", nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestSessionsDraftEntries(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	drafts := "/api/v1/students/" + student.ID + "/drafts"

	status, _ := a.do(t, http.MethodPost, drafts+"/sessions/logs", map[string]interface{}{
		"date": "2024-05-10", "time": "09:00", "duration": 30, "notes": "n",
	})
	assert.Equal(t, http.StatusNotFound, status, "the sessions draft is not open")

	status, _ = a.do(t, http.MethodPost, drafts+"/sessions", nil)
	require.Equal(t, http.StatusOK, status)

	status, env := a.do(t, http.MethodPost, drafts+"/sessions/logs", map[string]interface{}{
		"date": "2024-05-10", "time": "09:00", "duration": 30, "notes": "n",
	})
	require.Equal(t, http.StatusCreated, status)
	type calendarView struct {
		Dirty bool                     `json:"dirty"`
		Draft services.SessionCalendar `json:"draft"`
	}
	view := decode[calendarView](t, env.Data)
	assert.True(t, view.Dirty)
	require.Len(t, view.Draft.Logs, 1)

	status, _ = a.do(t, http.MethodDelete, drafts+"/sessions/logs/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = a.do(t, http.MethodDelete, drafts+"/sessions/logs/"+view.Draft.Logs[0].ID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[calendarView](t, env.Data).Dirty)

	status, _ = a.do(t, http.MethodPost, drafts+"/sessions/upcoming", map[string]interface{}{
		"date": "2024-06-01", "time": "10:00", "duration": 30,
	})
	require.Equal(t, http.StatusCreated, status)
	status, _ = a.do(t, http.MethodPost, drafts+"/sessions/save", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, a.getStudent(t, student.ID).UpcomingSessions, 1)
}

func TestGoalsDraftOnlyAppends(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	drafts := "/api/v1/students/" + student.ID + "/drafts"

	status, _ := a.do(t, http.MethodPost, drafts+"/achieved-goals", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodPatch, drafts+"/achieved-goals", []model.AchievedGoal{})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = a.do(t, http.MethodPost, drafts+"/achieved-goals/goals", map[string]string{
		"description": "يرتدي حذاءه", "goalType": string(model.GoalTypeSelfCare), "masteryLevel": string(model.MasteryInitial),
	})
	require.Equal(t, http.StatusCreated, status)
	status, _ = a.do(t, http.MethodPost, drafts+"/achieved-goals/save", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, a.getStudent(t, student.ID).AchievedGoals, 1)
}

func TestChatAndPlans(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	base := "/api/v1/students/" + student.ID
	plan := services.PlanHeading + "\n1. هدف"
	a.generator.set(plan, nil)

	status, env := a.do(t, http.MethodPost, base+"/chat", map[string]string{"message": "اقترح خطة"})
	require.Equal(t, http.StatusOK, status)
	reply := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, true, reply["isPlan"])

	status, env = a.do(t, http.MethodGet, base+"/chat", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]model.ChatMessage](t, env.Data), 2)

	status, env = a.do(t, http.MethodPost, base+"/chat", map[string]string{"message": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, services.MsgEmptyMessage, env.Error.Message)

	status, _ = a.do(t, http.MethodPost, base+"/plans", map[string]string{"content": "مرحبا"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = a.do(t, http.MethodPost, base+"/plans", map[string]string{"content": plan})
	require.Equal(t, http.StatusCreated, status)
	status, env = a.do(t, http.MethodGet, base+"/plans", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]model.GeneratedPlan](t, env.Data), 1)

	a.generator.set("", fmt.Errorf("%w: status 500", inference.ErrGenerationFailed))
	status, env = a.do(t, http.MethodPost, base+"/chat", map[string]string{"message": "سؤال"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, services.MsgGenerationFailed, env.Error.Message)
	assert.Len(t, a.getStudent(t, student.ID).ChatHistory, 2, "failed turns are not recorded")
}

func TestReports(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	base := "/api/v1/students/" + student.ID
	status, _ := a.do(t, http.MethodPost, base+"/session-logs", map[string]interface{}{
		"date": "2024-05-10", "time": "09:00", "duration": 45, "notes": "تحسن في القراءة",
	})
	require.Equal(t, http.StatusCreated, status)
	a.generator.set("تقدم ملحوظ", nil)

	status, env := a.do(t, http.MethodPost, base+"/reports", map[string]string{"startDate": "2024-05-01", "endDate": "2024-05-31"})
	require.Equal(t, http.StatusOK, status)
	report := decode[services.Report](t, env.Data)
	assert.Equal(t, 1, report.SessionCount)
	assert.True(t, strings.HasSuffix(report.Markdown, "تقدم ملحوظ"))
	assert.Contains(t, report.HTML, "تقدم ملحوظ")

	status, env = a.do(t, http.MethodPost, base+"/reports", map[string]string{"startDate": "2024-06-01", "endDate": "2024-06-30"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, services.MsgNoSessionsInRange, env.Error.Message)

	status, _ = a.do(t, http.MethodPost, base+"/reports", map[string]int{"days": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	status, _ = a.do(t, http.MethodPost, base+"/reports", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestReportFileFlow(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	base := "/api/v1/students/" + student.ID
	doc := pdftest.Build("Diagnosis: autism spectrum disorder, level one. Recommendations: visual schedules and speech therapy.")

	status, _ := a.upload(t, student.ID, "notes.txt", []byte("plain text is not a report"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, env := a.upload(t, student.ID, "تقرير.pdf", doc)
	require.Equal(t, http.StatusCreated, status)
	result := decode[services.AttachmentResult](t, env.Data)
	assert.False(t, result.Staged)
	assert.Equal(t, pdfvalidation.MimePDF, result.Attachment.MimeType)

	status, body := a.send(t, httptest.NewRequest(http.MethodGet, base+"/diagnosis/report-file", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, doc, body)

	a.generator.set("ملخص التشخيص", nil)
	status, env = a.do(t, http.MethodPost, base+"/diagnosis/report-file/summarize", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ملخص التشخيص", decode[map[string]string](t, env.Data)["summary"])
	assert.Equal(t, "ملخص التشخيص", a.getStudent(t, student.ID).MedicalDiagnosis.ReportFileSummary)

	status, _ = a.do(t, http.MethodDelete, base+"/diagnosis/report-file", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, a.getStudent(t, student.ID).MedicalDiagnosis.ReportFile)

	status, _ = a.send(t, httptest.NewRequest(http.MethodGet, base+"/diagnosis/report-file", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUploadIsStagedInOpenDiagnosisDraft(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)
	drafts := "/api/v1/students/" + student.ID + "/drafts"

	status, _ := a.do(t, http.MethodPost, drafts+"/diagnosis", nil)
	require.Equal(t, http.StatusOK, status)

	status, env := a.upload(t, student.ID, "r.pdf", pdftest.Build("report"))
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, decode[services.AttachmentResult](t, env.Data).Staged)
	assert.Nil(t, a.getStudent(t, student.ID).MedicalDiagnosis.ReportFile, "not saved yet")

	status, env = a.do(t, http.MethodGet, drafts+"/diagnosis", nil)
	require.Equal(t, http.StatusOK, status)
	view := decode[map[string]interface{}](t, env.Data)
	assert.Equal(t, true, view["attachmentChanged"])
	assert.Equal(t, false, view["fieldsChanged"])

	status, _ = a.do(t, http.MethodPost, drafts+"/diagnosis/save", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, a.getStudent(t, student.ID).MedicalDiagnosis.ReportFile)
}

func TestSelection(t *testing.T) {
	a := newTestApp(t)
	student := a.createStudent(t)

	status, env := a.do(t, http.MethodGet, "/api/v1/selection", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.Data)

	status, _ = a.do(t, http.MethodPut, "/api/v1/selection", map[string]string{"studentId": "missing"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = a.do(t, http.MethodPut, "/api/v1/selection", map[string]string{"studentId": student.ID})
	require.Equal(t, http.StatusOK, status)
	status, env = a.do(t, http.MethodGet, "/api/v1/selection", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, student.ID, decode[model.Student](t, env.Data).ID)

	status, _ = a.do(t, http.MethodDelete, "/api/v1/students/"+student.ID+"?confirm=true", nil)
	require.Equal(t, http.StatusNoContent, status)
	_, env = a.do(t, http.MethodGet, "/api/v1/selection", nil)
	assert.Empty(t, env.Data, "a removed record is never returned")

	status, _ = a.do(t, http.MethodDelete, "/api/v1/selection", nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestHealthAndOptions(t *testing.T) {
	a := newTestApp(t)

	status, body := a.send(t, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	status, env := a.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", decode[map[string]interface{}](t, env.Data)["status"])

	a.generator.set("", fmt.Errorf("unreachable"))
	status, env = a.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "degraded", decode[map[string]interface{}](t, env.Data)["status"])

	status, env = a.do(t, http.MethodGet, "/api/v1/options", nil)
	require.Equal(t, http.StatusOK, status)
	options := decode[map[string]json.RawMessage](t, env.Data)
	assert.Len(t, decode[[]string](t, options["goalTypes"]), 6)
	assert.Len(t, decode[[]string](t, options["masteryLevels"]), 3)

	status, env = a.do(t, http.MethodGet, "/api/v1/quick-prompts", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[[]string](t, env.Data))
}

func TestGenerationRoutesAreRateLimited(t *testing.T) {
	a := newTestAppWithSecurity(t, middleware.SecurityConfig{
		AllowedOrigins:      "*",
		DisableAccessLog:    true,
		GenerationRateLimit: 1,
	})
	a.generator.set("أهلا", nil)
	student := a.createStudent(t)

	status, _ := a.do(t, http.MethodPost, "/api/v1/students/"+student.ID+"/chat", map[string]string{"message": "مرحبا"})
	require.Equal(t, http.StatusOK, status)

	status, env := a.do(t, http.MethodPost, "/api/v1/students/"+student.ID+"/chat", map[string]string{"message": "مرة أخرى"})
	assert.Equal(t, http.StatusTooManyRequests, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)

	status, _ = a.do(t, http.MethodGet, "/api/v1/students/"+student.ID+"/chat", nil)
	assert.Equal(t, http.StatusOK, status)
}
