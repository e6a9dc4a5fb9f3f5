package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/iman-school/caseload/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptStudent() model.Student {
	s := model.NewStudent(testNow)
	s.PersonalInfo.FullName = "خالد"
	s.MedicalDiagnosis.ReportFile = &model.Attachment{Name: "تقرير-المستشفى.pdf", StorageKey: "secret/key"}
	s.ChatHistory = []model.ChatMessage{model.UserMessage("سؤال قديم جدا")}
	return s
}

func TestBuildChatPromptSanitizesRecord(t *testing.T) {
	s := promptStudent()
	prompt := BuildChatPrompt(s, nil, "ما الخطة؟")

	assert.Contains(t, prompt, "[تم رفع ملف باسم: تقرير-المستشفى.pdf]")
	assert.NotContains(t, prompt, "secret/key")
	assert.NotContains(t, prompt, "picsum.photos")
	assert.NotContains(t, prompt, "chatHistory")
	assert.Contains(t, prompt, "لا توجد أهداف محققة مسجلة بعد.")
	assert.True(t, strings.HasSuffix(prompt, "user: ما الخطة؟\nassistant: "))
}

func TestBuildChatPromptWindows(t *testing.T) {
	s := promptStudent()
	for i := 1; i <= 3; i++ {
		s.PlanHistory = append(s.PlanHistory, model.GeneratedPlan{Content: fmt.Sprintf("plan-%d", i), CreatedAt: testNow})
	}
	var history []model.ChatMessage
	for i := 1; i <= 8; i++ {
		history = append(history, model.UserMessage(fmt.Sprintf("turn-%d", i)))
	}

	prompt := BuildChatPrompt(s, history, "new")

	assert.NotContains(t, prompt, "plan-1")
	assert.Less(t, strings.Index(prompt, "plan-2"), strings.Index(prompt, "plan-3"))
	assert.NotContains(t, prompt, "turn-2\n")
	for i := 3; i <= 8; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("user: turn-%d\n", i))
	}
}

func TestGoalsSummary(t *testing.T) {
	goals := []model.AchievedGoal{{
		Description:  "يعد حتى عشرة",
		AchievedAt:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		GoalType:     model.GoalTypeAcademic,
		MasteryLevel: model.MasteryMastered,
	}}
	assert.Equal(t, "- يعد حتى عشرة (النوع: أكاديمي, الإتقان: متقن, التاريخ: 2024-04-01)", GoalsSummary(goals))
}

func TestFilterLogsByRangeIsInclusive(t *testing.T) {
	logs := []model.SessionLog{
		{ID: "a", Date: "2024-05-31"},
		{ID: "b", Date: "2024-05-20"},
		{ID: "c", Date: "2024-05-13"},
		{ID: "d", Date: "2024-05-12"},
	}
	filtered := FilterLogsByRange(logs, "2024-05-13", "2024-05-20")
	require.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].ID)
	assert.Equal(t, "c", filtered[1].ID)
}

func TestBuildReportPrompt(t *testing.T) {
	s := promptStudent()
	s.SessionLogs = []model.SessionLog{
		{ID: "a", Date: "2024-05-15", Time: "09:00", Duration: 40, Notes: "تحسن في القراءة"},
		{ID: "b", Date: "2024-04-01", Time: "09:00", Duration: 30, Notes: "خارج الفترة"},
	}

	prompt, err := BuildReportPrompt(s, s.SessionLogs, "2024-05-01", "2024-05-20")
	require.NoError(t, err)
	assert.Contains(t, prompt, "تحسن في القراءة")
	assert.Contains(t, prompt, `"duration": 40`)
	assert.NotContains(t, prompt, "خارج الفترة")
	assert.NotContains(t, prompt, "${studentName}")
	assert.Contains(t, prompt, "خالد")

	_, err = BuildReportPrompt(s, s.SessionLogs, "2024-05-16", "2024-05-20")
	assert.ErrorIs(t, err, ErrNoSessionsInRange)

	_, err = BuildReportPrompt(s, s.SessionLogs, "2024-05-20", "2024-05-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = BuildReportPrompt(s, s.SessionLogs, "yesterday", "2024-05-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestReportHeader(t *testing.T) {
	header := ReportHeader("مدرسة الإيمان", "خالد", "2024-05-01", "2024-05-20")
	assert.True(t, strings.HasPrefix(header, "### **مدرسة الإيمان**"))
	assert.Contains(t, header, "خالد")
	assert.Contains(t, header, "2024-05-01")
}

func TestBuildDiagnosisSummaryPrompt(t *testing.T) {
	s := promptStudent()
	_, err := BuildDiagnosisSummaryPrompt(s, "  \n")
	assert.ErrorIs(t, err, ErrNoReportText)

	long := strings.Repeat("ن", maxDiagnosisTextRunes+100)
	prompt, err := BuildDiagnosisSummaryPrompt(s, long)
	require.NoError(t, err)
	assert.Contains(t, prompt, model.NoDiagnosisLabel)
	assert.NotContains(t, prompt, strings.Repeat("ن", maxDiagnosisTextRunes+1))
}

func TestIsPlan(t *testing.T) {
	assert.True(t, IsPlan(PlanHeading+"\n\n- هدف"))
	assert.False(t, IsPlan("## خطة"))
}
