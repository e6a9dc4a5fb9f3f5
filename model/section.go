package model

import "slices"

// Section names one replaceable sub-structure of a student record
type Section string

const (
	SectionPersonalInfo  Section = "personal-info"
	SectionDiagnosis     Section = "diagnosis"
	SectionCaseStudy     Section = "case-study"
	SectionAssessments   Section = "assessments"
	SectionSessions      Section = "sessions"
	SectionAchievedGoals Section = "achieved-goals"
	SectionPlans         Section = "plans"
	SectionChat          Section = "chat"
)

// EditableSections are the sections that have a form editor
var EditableSections = []Section{
	SectionPersonalInfo,
	SectionDiagnosis,
	SectionCaseStudy,
	SectionAssessments,
	SectionSessions,
	SectionAchievedGoals,
}

// ParseSection maps a URL segment to an editable section
func ParseSection(raw string) (Section, bool) {
	s := Section(raw)
	return s, slices.Contains(EditableSections, s)
}

// SectionUpdate replaces (or, for the append-only lists, extends) exactly one
// section of a record. Updates never patch individual fields: the last save wins.
type SectionUpdate interface {
	Section() Section
	apply(s *Student)
}

// Apply copies the update into s
func (s *Student) Apply(u SectionUpdate) {
	u.apply(s)
}

type PersonalInfoUpdate struct{ PersonalInfo PersonalInfo }

func (PersonalInfoUpdate) Section() Section   { return SectionPersonalInfo }
func (u PersonalInfoUpdate) apply(s *Student) { s.PersonalInfo = u.PersonalInfo }

type DiagnosisUpdate struct{ Diagnosis MedicalDiagnosis }

func (DiagnosisUpdate) Section() Section   { return SectionDiagnosis }
func (u DiagnosisUpdate) apply(s *Student) { s.MedicalDiagnosis = u.Diagnosis.Clone() }

// ReportFileUpdate swaps only the attached report of the diagnosis and drops
// the summary of the old one. A nil File detaches the report.
type ReportFileUpdate struct{ File *Attachment }

func (ReportFileUpdate) Section() Section { return SectionDiagnosis }
func (u ReportFileUpdate) apply(s *Student) {
	s.MedicalDiagnosis.ReportFile = nil
	if u.File != nil {
		file := *u.File
		s.MedicalDiagnosis.ReportFile = &file
	}
	s.MedicalDiagnosis.ReportFileSummary = ""
}

// DiagnosisFieldsUpdate replaces the diagnosis text fields and keeps whatever
// report is attached at the time it is applied
type DiagnosisFieldsUpdate struct{ Diagnosis MedicalDiagnosis }

func (DiagnosisFieldsUpdate) Section() Section { return SectionDiagnosis }
func (u DiagnosisFieldsUpdate) apply(s *Student) {
	file := s.MedicalDiagnosis.ReportFile
	s.MedicalDiagnosis = u.Diagnosis.Clone()
	s.MedicalDiagnosis.ReportFile = file
}

// ReportSummaryUpdate stores a summary for the report under StorageKey. It is
// a no-op when a different report is attached by the time it is applied.
type ReportSummaryUpdate struct {
	StorageKey string
	Summary    string
}

func (ReportSummaryUpdate) Section() Section { return SectionDiagnosis }
func (u ReportSummaryUpdate) apply(s *Student) {
	if f := s.MedicalDiagnosis.ReportFile; f != nil && f.StorageKey == u.StorageKey {
		s.MedicalDiagnosis.ReportFileSummary = u.Summary
	}
}

type CaseStudyUpdate struct{ CaseStudy CaseStudy }

func (CaseStudyUpdate) Section() Section   { return SectionCaseStudy }
func (u CaseStudyUpdate) apply(s *Student) { s.CaseStudy = u.CaseStudy }

type AssessmentsUpdate struct{ Assessments Assessments }

func (AssessmentsUpdate) Section() Section   { return SectionAssessments }
func (u AssessmentsUpdate) apply(s *Student) { s.Assessments = u.Assessments }

// SessionsUpdate replaces both session lists together, as the calendar form saves them
type SessionsUpdate struct {
	Logs     []SessionLog
	Upcoming []UpcomingSession
}

func (SessionsUpdate) Section() Section { return SectionSessions }
func (u SessionsUpdate) apply(s *Student) {
	s.SessionLogs = nonNil(slices.Clone(u.Logs))
	s.UpcomingSessions = nonNil(slices.Clone(u.Upcoming))
	canonicalizeSessionTimes(s.SessionLogs, s.UpcomingSessions)
	SortSessionLogs(s.SessionLogs)
	SortUpcomingSessions(s.UpcomingSessions)
}

type AchievedGoalsUpdate struct{ Goals []AchievedGoal }

func (AchievedGoalsUpdate) Section() Section { return SectionAchievedGoals }
func (u AchievedGoalsUpdate) apply(s *Student) {
	s.AchievedGoals = nonNil(slices.Clone(u.Goals))
	SortAchievedGoals(s.AchievedGoals)
}

// SessionLogAppend inserts one completed session into the logs current at apply time
type SessionLogAppend struct{ Log SessionLog }

func (SessionLogAppend) Section() Section { return SectionSessions }
func (u SessionLogAppend) apply(s *Student) {
	log := u.Log
	log.Time = CanonicalTime(log.Time)
	s.SessionLogs = InsertSessionLog(s.SessionLogs, log)
}

// UpcomingSessionAppend inserts one scheduled session into the current list
type UpcomingSessionAppend struct{ Session UpcomingSession }

func (UpcomingSessionAppend) Section() Section { return SectionSessions }
func (u UpcomingSessionAppend) apply(s *Student) {
	session := u.Session
	session.Time = CanonicalTime(session.Time)
	s.UpcomingSessions = InsertUpcomingSession(s.UpcomingSessions, session)
}

// GoalAppend records one achieved goal on top of the current log
type GoalAppend struct{ Goal AchievedGoal }

func (GoalAppend) Section() Section { return SectionAchievedGoals }
func (u GoalAppend) apply(s *Student) {
	s.AchievedGoals = InsertAchievedGoal(s.AchievedGoals, u.Goal)
}

// PlanAppend adds an accepted plan to the end of the plan history
type PlanAppend struct{ Plan GeneratedPlan }

func (PlanAppend) Section() Section { return SectionPlans }
func (u PlanAppend) apply(s *Student) {
	s.PlanHistory = append(slices.Clone(s.PlanHistory), u.Plan)
}

// ChatAppend adds turns to the end of the transcript
type ChatAppend struct{ Messages []ChatMessage }

func (ChatAppend) Section() Section { return SectionChat }
func (u ChatAppend) apply(s *Student) {
	s.ChatHistory = append(slices.Clone(s.ChatHistory), u.Messages...)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
