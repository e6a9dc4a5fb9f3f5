package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iman-school/caseload/model"
)

const (
	// ChatContextTurns is how many earlier turns accompany a new chat message
	ChatContextTurns = 6
	// ChatContextPlans is how many of the latest accepted plans are quoted
	ChatContextPlans = 2
	// maxDiagnosisTextRunes caps the extracted report text sent for summarizing
	maxDiagnosisTextRunes = 20000
)

var (
	ErrNoSessionsInRange = errors.New("no sessions in the selected range")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrNoReportText      = errors.New("diagnosis report has no extractable text")
)

// promptDiagnosis replaces the attachment with a short placeholder naming the file
type promptDiagnosis struct {
	model.MedicalDiagnosis
	ReportFile string `json:"reportFile,omitempty"`
}

// promptSnapshot is the record as the generator sees it: no transcript, no photo
type promptSnapshot struct {
	ID               string                  `json:"id"`
	PersonalInfo     model.PersonalInfo      `json:"personalInfo"`
	MedicalDiagnosis promptDiagnosis         `json:"medicalDiagnosis"`
	CaseStudy        model.CaseStudy         `json:"caseStudy"`
	Assessments      model.Assessments       `json:"assessments"`
	PlanHistory      []model.GeneratedPlan   `json:"planHistory"`
	SessionLogs      []model.SessionLog      `json:"sessionLogs"`
	UpcomingSessions []model.UpcomingSession `json:"upcomingSessions"`
	AchievedGoals    []model.AchievedGoal    `json:"achievedGoals"`
}

func sanitizeForPrompt(student model.Student) promptSnapshot {
	personal := student.PersonalInfo
	personal.PhotoURL = ""

	diagnosis := promptDiagnosis{MedicalDiagnosis: student.MedicalDiagnosis.Clone()}
	if f := student.MedicalDiagnosis.ReportFile; f != nil {
		diagnosis.ReportFile = fmt.Sprintf("[تم رفع ملف باسم: %s]", f.Name)
	}

	return promptSnapshot{
		ID:               student.ID,
		PersonalInfo:     personal,
		MedicalDiagnosis: diagnosis,
		CaseStudy:        student.CaseStudy,
		Assessments:      student.Assessments,
		PlanHistory:      student.PlanHistory,
		SessionLogs:      student.SessionLogs,
		UpcomingSessions: student.UpcomingSessions,
		AchievedGoals:    student.AchievedGoals,
	}
}

// indentJSON renders v for embedding in a prompt without HTML escaping
func indentJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// GoalsSummary lists every achieved goal, one per line
func GoalsSummary(goals []model.AchievedGoal) string {
	if len(goals) == 0 {
		return "لا توجد أهداف محققة مسجلة بعد."
	}
	lines := make([]string, len(goals))
	for i, g := range goals {
		lines[i] = fmt.Sprintf("- %s (النوع: %s, الإتقان: %s, التاريخ: %s)",
			g.Description, g.GoalType, g.MasteryLevel, g.AchievedAt.Format(model.DateLayout))
	}
	return strings.Join(lines, "\n")
}

// RecentPlans quotes the last ChatContextPlans plans, oldest first
func RecentPlans(plans []model.GeneratedPlan) string {
	if len(plans) == 0 {
		return "لا توجد خطط سابقة."
	}
	recent := plans[max(0, len(plans)-ChatContextPlans):]
	parts := make([]string, len(recent))
	for i, p := range recent {
		parts[i] = fmt.Sprintf("### الخطة السابقة %d (%s)\n\n%s", i+1, p.CreatedAt.Format(model.DateLayout), p.Content)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// BuildChatPrompt assembles the chat request: instructions, the sanitized
// record, goals, the two latest plans, the last six turns and the new message
// followed by an open assistant turn.
func BuildChatPrompt(student model.Student, recentMessages []model.ChatMessage, newMessage string) string {
	var b strings.Builder

	b.WriteString(ChatAssistantSystemPrompt)
	b.WriteString("\n\n## سياق الطالب الحالي\n\n### بيانات الطالب\n```json\n")
	b.WriteString(indentJSON(sanitizeForPrompt(student)))
	b.WriteString("\n```\n\n### سجل الأهداف التي تم تحقيقها (للإطلاع ومنع التكرار)\n")
	b.WriteString(GoalsSummary(student.AchievedGoals))
	b.WriteString("\n\n### ملخص آخر خطتين (إن وجد)\n")
	b.WriteString(RecentPlans(student.PlanHistory))
	b.WriteString("\n\n## المحادثة الحالية\n\n")

	turns := recentMessages[max(0, len(recentMessages)-ChatContextTurns):]
	for _, msg := range turns {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	fmt.Fprintf(&b, "%s: %s\n", model.MessageRoleUser, newMessage)
	fmt.Fprintf(&b, "%s: ", model.MessageRoleAssistant)

	return b.String()
}

// FilterLogsByRange keeps the logs dated within [start, end], both inclusive.
// Dates are ISO calendar dates, so string order is date order.
func FilterLogsByRange(logs []model.SessionLog, start, end string) []model.SessionLog {
	filtered := make([]model.SessionLog, 0, len(logs))
	for _, l := range logs {
		if l.Date >= start && l.Date <= end {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// ValidateDateRange checks both bounds are ISO dates and start is not after end
func ValidateDateRange(start, end string) error {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start date %q", ErrInvalidDateRange, start)
	}
	e, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end date %q", ErrInvalidDateRange, end)
	}
	if s.After(e) {
		return fmt.Errorf("%w: start date is after end date", ErrInvalidDateRange)
	}
	return nil
}

// reportLog is the subset of a log the report generator sees
type reportLog struct {
	Date     string `json:"date"`
	Duration int    `json:"duration"`
	Notes    string `json:"notes"`
}

// BuildReportPrompt filters logs to [start, end] and assembles the report request.
// An empty selection returns ErrNoSessionsInRange and nothing should be sent.
func BuildReportPrompt(student model.Student, logs []model.SessionLog, start, end string) (string, error) {
	if err := ValidateDateRange(start, end); err != nil {
		return "", err
	}
	filtered := FilterLogsByRange(logs, start, end)
	if len(filtered) == 0 {
		return "", ErrNoSessionsInRange
	}

	entries := make([]reportLog, len(filtered))
	for i, l := range filtered {
		entries[i] = reportLog{Date: l.Date, Duration: l.Duration, Notes: l.Notes}
	}

	name := student.PersonalInfo.FullName
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(ReportGeneratorSystemPrompt, "${studentName}", name))
	fmt.Fprintf(&b, "\n\n## بيانات الطالب\n- **الاسم:** %s\n\n## سجل الجلسات للفترة المحددة\n```json\n", name)
	b.WriteString(indentJSON(entries))
	b.WriteString("\n```\n\n## المطلوب\n")
	fmt.Fprintf(&b, "بناءً على السجل أعلاه فقط، قم بكتابة \"تقرير التقدم\" لولي الأمر عن الفترة من %s إلى %s.\n", start, end)

	return b.String(), nil
}

// ReportHeader is prepended to every generated report
func ReportHeader(school, studentName, start, end string) string {
	return fmt.Sprintf("### **%s**\n\n**تقرير التقدم للطالب/ة:** %s\n**عن الفترة من:** %s **إلى:** %s\n\n---\n\n",
		school, studentName, start, end)
}

// BuildDiagnosisSummaryPrompt asks for a summary of the text extracted from the attached report
func BuildDiagnosisSummaryPrompt(student model.Student, extractedText string) (string, error) {
	text := strings.TrimSpace(extractedText)
	if text == "" {
		return "", ErrNoReportText
	}
	if utf8.RuneCountInString(text) > maxDiagnosisTextRunes {
		text = string([]rune(text)[:maxDiagnosisTextRunes])
	}

	var b strings.Builder
	b.WriteString(DiagnosisSummarySystemPrompt)
	fmt.Fprintf(&b, "\n\n## الطالب\n- **الاسم:** %s\n- **التشخيص المسجل:** %s\n",
		student.PersonalInfo.FullName, student.DisplayDiagnosis())
	if f := student.MedicalDiagnosis.ReportFile; f != nil {
		fmt.Fprintf(&b, "- **اسم الملف:** %s\n", f.Name)
	}
	b.WriteString("\n## نص التقرير\n")
	b.WriteString(text)
	b.WriteString("\n")
	return b.String(), nil
}

// IsPlan reports whether an assistant reply is an individual education plan
func IsPlan(content string) bool {
	return strings.Contains(content, PlanHeading)
}
