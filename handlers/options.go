package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services"
	"github.com/iman-school/caseload/utils/response"
)

// Options lists the closed value sets the client renders as selects
type Options struct {
	Diagnoses        []string                    `json:"diagnoses"`
	NoDiagnosisLabel string                      `json:"noDiagnosisLabel"`
	AssessmentAreas  []model.AssessmentAreaLabel `json:"assessmentAreas"`
	AssessmentLevels []int                       `json:"assessmentLevels"`
	GoalTypes        []model.GoalType            `json:"goalTypes"`
	MasteryLevels    []model.MasteryLevel        `json:"masteryLevels"`
	ReportRangeDays  []int                       `json:"reportRangeDays"`
	Sections         []model.Section             `json:"sections"`
}

// GetOptions handles GET /api/v1/options
func GetOptions(c *fiber.Ctx) error {
	return response.Success(c, Options{
		Diagnoses:        model.DiagnosisOptions,
		NoDiagnosisLabel: model.NoDiagnosisLabel,
		AssessmentAreas:  model.AssessmentAreaLabels,
		AssessmentLevels: []int{1, 2, 3, 4, 5},
		GoalTypes:        model.GoalTypes,
		MasteryLevels:    model.MasteryLevels,
		ReportRangeDays:  services.ReportRangeDays,
		Sections:         model.EditableSections,
	})
}

// GetQuickPrompts handles GET /api/v1/quick-prompts
func GetQuickPrompts(c *fiber.Ctx) error {
	return response.Success(c, services.QuickPrompts)
}
