package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// NoDiagnosisLabel is shown when a record has no primary diagnosis yet
const NoDiagnosisLabel = "لا يوجد تشخيص محدد"

// DiagnosisOptions is the suggested list for the primary diagnosis.
// Free text outside this list is still accepted.
var DiagnosisOptions = []string{
	"اضطراب طيف التوحد",
	"صعوبات التعلم",
	"بطء التعلم",
	"تأخر نمائي",
	"فرط الحركة وتشتت الانتباه (ADHD)",
	"متلازمة داون",
	"أخرى",
}

// AssessmentAreaLabel pairs an assessment field key with its display label
type AssessmentAreaLabel struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// AssessmentAreaLabels lists the six skill areas in display order
var AssessmentAreaLabels = []AssessmentAreaLabel{
	{Key: "academicSkills", Label: "المهارات الأكاديمية"},
	{Key: "languageAndCommunication", Label: "اللغة والتواصل"},
	{Key: "sensoryAndCognitiveSkills", Label: "المهارات الحسية والإدراكية"},
	{Key: "socialSkills", Label: "المهارات الاجتماعية"},
	{Key: "behaviorAndSelfRegulation", Label: "السلوك والتنظيم الذاتي"},
	{Key: "motorSkills", Label: "المهارات الحركية"},
}

// GoalType is the closed set of achieved-goal categories
type GoalType string

const (
	GoalTypeAcademic   GoalType = "أكاديمي"
	GoalTypeLanguage   GoalType = "لغوي"
	GoalTypeBehavioral GoalType = "سلوكي"
	GoalTypeMotor      GoalType = "حركي"
	GoalTypeSocial     GoalType = "اجتماعي"
	GoalTypeSelfCare   GoalType = "رعاية ذاتية"
)

// GoalTypes lists every goal type in display order
var GoalTypes = []GoalType{
	GoalTypeAcademic,
	GoalTypeLanguage,
	GoalTypeBehavioral,
	GoalTypeMotor,
	GoalTypeSocial,
	GoalTypeSelfCare,
}

// IsValid reports whether g is one of GoalTypes
func (g GoalType) IsValid() bool {
	return slices.Contains(GoalTypes, g)
}

// UnmarshalJSON rejects values outside the closed set
func (g *GoalType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value := GoalType(raw)
	if !value.IsValid() {
		return fmt.Errorf("%w: goal type %q", ErrInvalidEnum, raw)
	}
	*g = value
	return nil
}

// MasteryLevel is the closed three-level scale for achieved goals
type MasteryLevel string

const (
	MasteryInitial  MasteryLevel = "مبدئي"
	MasteryAdvanced MasteryLevel = "متقدم"
	MasteryMastered MasteryLevel = "متقن"
)

// MasteryLevels lists the levels from weakest to strongest
var MasteryLevels = []MasteryLevel{MasteryInitial, MasteryAdvanced, MasteryMastered}

// IsValid reports whether m is one of MasteryLevels
func (m MasteryLevel) IsValid() bool {
	return slices.Contains(MasteryLevels, m)
}

// UnmarshalJSON rejects values outside the closed set
func (m *MasteryLevel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value := MasteryLevel(raw)
	if !value.IsValid() {
		return fmt.Errorf("%w: mastery level %q", ErrInvalidEnum, raw)
	}
	*m = value
	return nil
}
