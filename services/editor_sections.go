package services

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iman-school/caseload/model"
)

// NewPersonalInfoEditor edits the identity section
func NewPersonalInfoEditor(sink SectionSink, student model.Student) *SectionEditor[model.PersonalInfo] {
	return newSectionEditor(sink, student, sectionBinding[model.PersonalInfo]{
		section:  model.SectionPersonalInfo,
		extract:  func(s model.Student) model.PersonalInfo { return s.PersonalInfo },
		clone:    identity[model.PersonalInfo],
		equal:    comparableEqual[model.PersonalInfo],
		toUpdate: func(v model.PersonalInfo) model.SectionUpdate { return model.PersonalInfoUpdate{PersonalInfo: v} },
	})
}

// NewCaseStudyEditor edits the seven narrative fields
func NewCaseStudyEditor(sink SectionSink, student model.Student) *SectionEditor[model.CaseStudy] {
	return newSectionEditor(sink, student, sectionBinding[model.CaseStudy]{
		section:  model.SectionCaseStudy,
		extract:  func(s model.Student) model.CaseStudy { return s.CaseStudy },
		clone:    identity[model.CaseStudy],
		equal:    comparableEqual[model.CaseStudy],
		toUpdate: func(v model.CaseStudy) model.SectionUpdate { return model.CaseStudyUpdate{CaseStudy: v} },
	})
}

// NewAssessmentsEditor edits the six skill areas; Save rejects levels outside 1..5
func NewAssessmentsEditor(sink SectionSink, student model.Student) *SectionEditor[model.Assessments] {
	return newSectionEditor(sink, student, sectionBinding[model.Assessments]{
		section:  model.SectionAssessments,
		extract:  func(s model.Student) model.Assessments { return s.Assessments },
		clone:    identity[model.Assessments],
		equal:    comparableEqual[model.Assessments],
		toUpdate: func(v model.Assessments) model.SectionUpdate { return model.AssessmentsUpdate{Assessments: v} },
		validate: func(v model.Assessments) error {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("%w: assessment level must be between 1 and 5", ErrInvalidEntry)
			}
			return nil
		},
	})
}

// DiagnosisEditor tracks the attached report separately from the other fields:
// the attachment is compared by presence and file name only.
type DiagnosisEditor struct {
	*SectionEditor[model.MedicalDiagnosis]
}

func NewDiagnosisEditor(sink SectionSink, student model.Student) *DiagnosisEditor {
	return &DiagnosisEditor{newSectionEditor(sink, student, sectionBinding[model.MedicalDiagnosis]{
		section: model.SectionDiagnosis,
		extract: func(s model.Student) model.MedicalDiagnosis { return s.MedicalDiagnosis },
		clone:   model.MedicalDiagnosis.Clone,
		equal: func(a, b model.MedicalDiagnosis) bool {
			return !attachmentChanged(a, b) && !diagnosisFieldsChanged(a, b)
		},
		toUpdate: func(v model.MedicalDiagnosis) model.SectionUpdate { return model.DiagnosisUpdate{Diagnosis: v} },
	})}
}

func attachmentKey(d model.MedicalDiagnosis) (bool, string) {
	if d.ReportFile == nil {
		return false, ""
	}
	return true, d.ReportFile.Name
}

func attachmentChanged(a, b model.MedicalDiagnosis) bool {
	aHas, aName := attachmentKey(a)
	bHas, bName := attachmentKey(b)
	return aHas != bHas || aName != bName
}

func diagnosisFieldsChanged(a, b model.MedicalDiagnosis) bool {
	a.ReportFile, b.ReportFile = nil, nil
	return a != b
}

// AttachmentChanged reports whether the draft's attachment differs from the source
func (e *DiagnosisEditor) AttachmentChanged() bool {
	return attachmentChanged(e.Value(), e.Source())
}

// FieldsChanged reports whether any non-attachment field differs from the source
func (e *DiagnosisEditor) FieldsChanged() bool {
	return diagnosisFieldsChanged(e.Value(), e.Source())
}

// ReplaceDraft updates the text fields; the attachment only changes through AttachFile/DetachFile
func (e *DiagnosisEditor) ReplaceDraft(raw []byte) error {
	current := e.Value().ReportFile
	if err := e.SectionEditor.ReplaceDraft(raw); err != nil {
		return err
	}
	return e.edit(func(d *model.MedicalDiagnosis) error {
		d.ReportFile = current
		return nil
	})
}

// AttachFile puts an uploaded report on the draft. The previous summary no longer applies.
func (e *DiagnosisEditor) AttachFile(file model.Attachment) {
	_ = e.edit(func(d *model.MedicalDiagnosis) error {
		d.ReportFile = &file
		d.ReportFileSummary = ""
		return nil
	})
}

// DetachFile removes the report from the draft
func (e *DiagnosisEditor) DetachFile() {
	_ = e.edit(func(d *model.MedicalDiagnosis) error {
		d.ReportFile = nil
		d.ReportFileSummary = ""
		return nil
	})
}

// SessionCalendar is the draft of the sessions section: completed logs and upcoming sessions
type SessionCalendar struct {
	Logs     []model.SessionLog      `json:"sessionLogs"`
	Upcoming []model.UpcomingSession `json:"upcomingSessions"`
}

func (c SessionCalendar) clone() SessionCalendar {
	return SessionCalendar{Logs: slices.Clone(c.Logs), Upcoming: slices.Clone(c.Upcoming)}
}

// SessionsEditor keeps logs newest first and upcoming sessions soonest first
// after every add or delete
type SessionsEditor struct {
	*SectionEditor[SessionCalendar]
}

func NewSessionsEditor(sink SectionSink, student model.Student) *SessionsEditor {
	return &SessionsEditor{newSectionEditor(sink, student, sectionBinding[SessionCalendar]{
		section: model.SectionSessions,
		extract: func(s model.Student) SessionCalendar {
			return SessionCalendar{Logs: s.SessionLogs, Upcoming: s.UpcomingSessions}
		},
		clone: SessionCalendar.clone,
		equal: func(a, b SessionCalendar) bool {
			return slices.Equal(a.Logs, b.Logs) && slices.Equal(a.Upcoming, b.Upcoming)
		},
		toUpdate: func(v SessionCalendar) model.SectionUpdate {
			return model.SessionsUpdate{Logs: v.Logs, Upcoming: v.Upcoming}
		},
		validate: func(v SessionCalendar) error {
			for _, l := range v.Logs {
				if err := l.Validate(); err != nil {
					return fmt.Errorf("%w: session log %s: %v", ErrInvalidEntry, l.ID, err)
				}
			}
			for _, u := range v.Upcoming {
				if err := u.Validate(); err != nil {
					return fmt.Errorf("%w: upcoming session %s: %v", ErrInvalidEntry, u.ID, err)
				}
			}
			return nil
		},
	})}
}

// ReplaceDraft accepts a whole calendar and restores both sort orders
func (e *SessionsEditor) ReplaceDraft(raw []byte) error {
	if err := e.SectionEditor.ReplaceDraft(raw); err != nil {
		return err
	}
	return e.edit(func(c *SessionCalendar) error {
		if c.Logs == nil {
			c.Logs = []model.SessionLog{}
		}
		if c.Upcoming == nil {
			c.Upcoming = []model.UpcomingSession{}
		}
		for i := range c.Logs {
			c.Logs[i].Time = model.CanonicalTime(c.Logs[i].Time)
		}
		for i := range c.Upcoming {
			c.Upcoming[i].Time = model.CanonicalTime(c.Upcoming[i].Time)
		}
		model.SortSessionLogs(c.Logs)
		model.SortUpcomingSessions(c.Upcoming)
		return nil
	})
}

// NewSessionLog validates the form fields of a completed session; notes, date and time are required
func NewSessionLog(date, clock string, duration int, notes string) (model.SessionLog, error) {
	date, clock, notes = strings.TrimSpace(date), model.CanonicalTime(clock), strings.TrimSpace(notes)
	if date == "" || clock == "" || notes == "" {
		return model.SessionLog{}, fmt.Errorf("%w: date, time and notes are required", ErrMissingRequiredField)
	}
	log := model.SessionLog{ID: uuid.NewString(), Date: date, Time: clock, Duration: duration, Notes: notes}
	if err := log.Validate(); err != nil {
		return model.SessionLog{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return log, nil
}

// NewUpcomingSession validates the form fields of a scheduled session; date and time are required
func NewUpcomingSession(date, clock string, duration int) (model.UpcomingSession, error) {
	date, clock = strings.TrimSpace(date), model.CanonicalTime(clock)
	if date == "" || clock == "" {
		return model.UpcomingSession{}, fmt.Errorf("%w: date and time are required", ErrMissingRequiredField)
	}
	session := model.UpcomingSession{ID: uuid.NewString(), Date: date, Time: clock, Duration: duration}
	if err := session.Validate(); err != nil {
		return model.UpcomingSession{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return session, nil
}

// AddLog inserts a completed session at its sorted position in the draft
func (e *SessionsEditor) AddLog(date, clock string, duration int, notes string) (model.SessionLog, error) {
	log, err := NewSessionLog(date, clock, duration, notes)
	if err != nil {
		return model.SessionLog{}, err
	}
	_ = e.edit(func(c *SessionCalendar) error {
		c.Logs = model.InsertSessionLog(c.Logs, log)
		return nil
	})
	return log, nil
}

// DeleteLog removes a completed session from the draft
func (e *SessionsEditor) DeleteLog(id string) error {
	return e.edit(func(c *SessionCalendar) error {
		logs, ok := model.RemoveSessionLog(c.Logs, id)
		if !ok {
			return fmt.Errorf("%w: session log %s", ErrEntryNotFound, id)
		}
		c.Logs = logs
		return nil
	})
}

// AddUpcoming inserts a scheduled session at its sorted position in the draft
func (e *SessionsEditor) AddUpcoming(date, clock string, duration int) (model.UpcomingSession, error) {
	session, err := NewUpcomingSession(date, clock, duration)
	if err != nil {
		return model.UpcomingSession{}, err
	}
	_ = e.edit(func(c *SessionCalendar) error {
		c.Upcoming = model.InsertUpcomingSession(c.Upcoming, session)
		return nil
	})
	return session, nil
}

// DeleteUpcoming removes a scheduled session from the draft
func (e *SessionsEditor) DeleteUpcoming(id string) error {
	return e.edit(func(c *SessionCalendar) error {
		sessions, ok := model.RemoveUpcomingSession(c.Upcoming, id)
		if !ok {
			return fmt.Errorf("%w: upcoming session %s", ErrEntryNotFound, id)
		}
		c.Upcoming = sessions
		return nil
	})
}

// GoalsEditor only appends: goals are never edited or removed once recorded
type GoalsEditor struct {
	*SectionEditor[[]model.AchievedGoal]
	now func() time.Time
}

func NewGoalsEditor(sink SectionSink, student model.Student) *GoalsEditor {
	return &GoalsEditor{
		SectionEditor: newSectionEditor(sink, student, sectionBinding[[]model.AchievedGoal]{
			section: model.SectionAchievedGoals,
			extract: func(s model.Student) []model.AchievedGoal { return s.AchievedGoals },
			clone:   slices.Clone[[]model.AchievedGoal],
			equal: func(a, b []model.AchievedGoal) bool {
				return slices.EqualFunc(a, b, goalsEqual)
			},
			toUpdate: func(v []model.AchievedGoal) model.SectionUpdate { return model.AchievedGoalsUpdate{Goals: v} },
		}),
		now: time.Now,
	}
}

func goalsEqual(a, b model.AchievedGoal) bool {
	return a.ID == b.ID &&
		a.Description == b.Description &&
		a.AchievedAt.Equal(b.AchievedAt) &&
		a.GoalType == b.GoalType &&
		a.MasteryLevel == b.MasteryLevel
}

// NewAchievedGoal validates the form fields of a goal stamped at now
func NewAchievedGoal(description string, goalType model.GoalType, mastery model.MasteryLevel, now time.Time) (model.AchievedGoal, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return model.AchievedGoal{}, fmt.Errorf("%w: description is required", ErrMissingRequiredField)
	}
	goal := model.AchievedGoal{
		ID:           uuid.NewString(),
		Description:  description,
		AchievedAt:   now.UTC(),
		GoalType:     goalType,
		MasteryLevel: mastery,
	}
	if err := goal.Validate(); err != nil {
		return model.AchievedGoal{}, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return goal, nil
}

// AddGoal puts a new goal at the front of the draft
func (e *GoalsEditor) AddGoal(description string, goalType model.GoalType, mastery model.MasteryLevel) (model.AchievedGoal, error) {
	goal, err := NewAchievedGoal(description, goalType, mastery, e.now())
	if err != nil {
		return model.AchievedGoal{}, err
	}
	_ = e.edit(func(goals *[]model.AchievedGoal) error {
		*goals = model.InsertAchievedGoal(*goals, goal)
		return nil
	})
	return goal, nil
}

// ReplaceDraft is refused: a wholesale replacement could drop recorded goals
func (e *GoalsEditor) ReplaceDraft([]byte) error {
	return fmt.Errorf("%w: %s", ErrDraftNotEditable, model.SectionAchievedGoals)
}
