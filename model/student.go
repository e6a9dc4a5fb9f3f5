package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// DateLayout is the ISO calendar date format used for every date field
	DateLayout = "2006-01-02"
	// TimeLayout is the time-of-day format used by session entries
	TimeLayout = "15:04"

	// DefaultStudentName is the placeholder name given to freshly created records
	DefaultStudentName = "طالب جديد"
	// DefaultAssessmentLevel is the level every skill area starts at
	DefaultAssessmentLevel = 1
)

// PersonalInfo holds the identity section of a student record
type PersonalInfo struct {
	FullName       string `json:"fullName" validate:"max=255"`
	StudentID      string `json:"studentId" validate:"max=100"`
	DOB            string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Grade          string `json:"grade" validate:"max=100"`
	PhotoURL       string `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
	ParentContact  string `json:"parentContact" validate:"max=255"`
	EnrollmentDate string `json:"enrollmentDate" validate:"omitempty,datetime=2006-01-02"`
}

// Attachment describes an uploaded diagnosis report.
// The raw bytes live in the attachment store, never in the persisted slot.
type Attachment struct {
	Name       string `json:"name"`
	MimeType   string `json:"type,omitempty"`
	Size       int64  `json:"size,omitempty"`
	StorageKey string `json:"storageKey,omitempty"`
}

// MedicalDiagnosis holds the diagnosis section of a student record
type MedicalDiagnosis struct {
	PrimaryDiagnosis   string      `json:"primaryDiagnosis" validate:"max=255"`
	SecondaryDiagnoses string      `json:"secondaryDiagnoses"`
	ReportFile         *Attachment `json:"reportFile"`
	ReportFileSummary  string      `json:"reportFileSummary,omitempty"`
	DiagnosisDate      string      `json:"diagnosisDate" validate:"omitempty,datetime=2006-01-02"`
	DiagnosingEntity   string      `json:"diagnosingEntity" validate:"max=255"`
}

// CaseStudy holds the seven narrative fields of a case file
type CaseStudy struct {
	MedicalHistory         string `json:"medicalHistory"`
	DevelopmentalHistory   string `json:"developmentalHistory"`
	FamilySituation        string `json:"familySituation"`
	Strengths              string `json:"strengths"`
	Challenges             string `json:"challenges"`
	ProminentBehaviors     string `json:"prominentBehaviors"`
	InterestsAndMotivators string `json:"interestsAndMotivators"`
}

// AssessmentArea is one skill area rated on a 1 (weak) to 5 (excellent) scale
type AssessmentArea struct {
	Level int    `json:"level" validate:"gte=1,lte=5"`
	Notes string `json:"notes"`
}

// Assessments holds the six fixed skill areas
type Assessments struct {
	AcademicSkills            AssessmentArea `json:"academicSkills"`
	LanguageAndCommunication  AssessmentArea `json:"languageAndCommunication"`
	SensoryAndCognitiveSkills AssessmentArea `json:"sensoryAndCognitiveSkills"`
	SocialSkills              AssessmentArea `json:"socialSkills"`
	BehaviorAndSelfRegulation AssessmentArea `json:"behaviorAndSelfRegulation"`
	MotorSkills               AssessmentArea `json:"motorSkills"`
}

// GeneratedPlan is an AI-authored education plan the teacher accepted
type GeneratedPlan struct {
	Content   string    `json:"content" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionLog is a completed session
type SessionLog struct {
	ID       string `json:"id" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"omitempty,datetime=15:04"`
	Duration int    `json:"duration" validate:"gte=0"` // minutes
	Notes    string `json:"notes"`
}

// UpcomingSession is a scheduled future session
type UpcomingSession struct {
	ID       string `json:"id" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"omitempty,datetime=15:04"`
	Duration int    `json:"duration" validate:"gte=0"` // minutes
}

// AchievedGoal is an entry of the append-only goals log
type AchievedGoal struct {
	ID           string       `json:"id" validate:"required"`
	Description  string       `json:"description" validate:"required"`
	AchievedAt   time.Time    `json:"achievedAt"`
	GoalType     GoalType     `json:"goalType"`
	MasteryLevel MasteryLevel `json:"masteryLevel"`
}

// Student is the root aggregate: one student's complete case file
type Student struct {
	ID               string            `json:"id" validate:"required"`
	PersonalInfo     PersonalInfo      `json:"personalInfo"`
	MedicalDiagnosis MedicalDiagnosis  `json:"medicalDiagnosis"`
	CaseStudy        CaseStudy         `json:"caseStudy"`
	Assessments      Assessments       `json:"assessments"`
	PlanHistory      []GeneratedPlan   `json:"planHistory" validate:"dive"`
	ChatHistory      []ChatMessage     `json:"chatHistory"`
	SessionLogs      []SessionLog      `json:"sessionLogs" validate:"dive"`
	UpcomingSessions []UpcomingSession `json:"upcomingSessions" validate:"dive"`
	AchievedGoals    []AchievedGoal    `json:"achievedGoals" validate:"dive"`
}

// NewStudentID derives a record id from the creation timestamp
func NewStudentID(now time.Time) string {
	return fmt.Sprintf("student-%d", now.UnixMilli())
}

// NewStudent returns a record with empty sections and the default placeholders
func NewStudent(now time.Time) Student {
	return Student{
		ID: NewStudentID(now),
		PersonalInfo: PersonalInfo{
			FullName:       DefaultStudentName,
			PhotoURL:       fmt.Sprintf("https://picsum.photos/seed/%d/200", now.UnixMilli()),
			EnrollmentDate: now.Format(DateLayout),
		},
		Assessments: Assessments{
			AcademicSkills:            AssessmentArea{Level: DefaultAssessmentLevel},
			LanguageAndCommunication:  AssessmentArea{Level: DefaultAssessmentLevel},
			SensoryAndCognitiveSkills: AssessmentArea{Level: DefaultAssessmentLevel},
			SocialSkills:              AssessmentArea{Level: DefaultAssessmentLevel},
			BehaviorAndSelfRegulation: AssessmentArea{Level: DefaultAssessmentLevel},
			MotorSkills:               AssessmentArea{Level: DefaultAssessmentLevel},
		},
		PlanHistory:      []GeneratedPlan{},
		ChatHistory:      []ChatMessage{},
		SessionLogs:      []SessionLog{},
		UpcomingSessions: []UpcomingSession{},
		AchievedGoals:    []AchievedGoal{},
	}
}

// Clone returns a deep copy that shares no mutable state with s
func (s Student) Clone() Student {
	out := s
	out.MedicalDiagnosis = s.MedicalDiagnosis.Clone()
	out.PlanHistory = slices.Clone(s.PlanHistory)
	out.ChatHistory = slices.Clone(s.ChatHistory)
	out.SessionLogs = slices.Clone(s.SessionLogs)
	out.UpcomingSessions = slices.Clone(s.UpcomingSessions)
	out.AchievedGoals = slices.Clone(s.AchievedGoals)
	return out
}

// Clone returns a deep copy of the diagnosis section
func (d MedicalDiagnosis) Clone() MedicalDiagnosis {
	out := d
	if d.ReportFile != nil {
		file := *d.ReportFile
		out.ReportFile = &file
	}
	return out
}

// Normalize repairs shapes left behind by older writers: nil lists become empty,
// an attachment without a name (a browser File object serializes to {}) is dropped,
// a missing assessment level falls back to the default, session times are
// zero-padded and the list sort orders are restored.
func (s *Student) Normalize() {
	if s.PlanHistory == nil {
		s.PlanHistory = []GeneratedPlan{}
	}
	if s.ChatHistory == nil {
		s.ChatHistory = []ChatMessage{}
	}
	if s.SessionLogs == nil {
		s.SessionLogs = []SessionLog{}
	}
	if s.UpcomingSessions == nil {
		s.UpcomingSessions = []UpcomingSession{}
	}
	if s.AchievedGoals == nil {
		s.AchievedGoals = []AchievedGoal{}
	}
	if f := s.MedicalDiagnosis.ReportFile; f != nil && strings.TrimSpace(f.Name) == "" {
		s.MedicalDiagnosis.ReportFile = nil
	}
	for _, area := range s.Assessments.areas() {
		if area.Level == 0 {
			area.Level = DefaultAssessmentLevel
		}
	}
	canonicalizeSessionTimes(s.SessionLogs, s.UpcomingSessions)
	SortSessionLogs(s.SessionLogs)
	SortUpcomingSessions(s.UpcomingSessions)
	SortAchievedGoals(s.AchievedGoals)
}

func (a *Assessments) areas() []*AssessmentArea {
	return []*AssessmentArea{
		&a.AcademicSkills,
		&a.LanguageAndCommunication,
		&a.SensoryAndCognitiveSkills,
		&a.SocialSkills,
		&a.BehaviorAndSelfRegulation,
		&a.MotorSkills,
	}
}

// DisplayDiagnosis returns the primary diagnosis or the "no diagnosis" label
func (s Student) DisplayDiagnosis() string {
	if strings.TrimSpace(s.MedicalDiagnosis.PrimaryDiagnosis) == "" {
		return NoDiagnosisLabel
	}
	return s.MedicalDiagnosis.PrimaryDiagnosis
}
