package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/utils"
)

var ErrDraftNotOpen = errors.New("no open draft for this section")

type draftKey struct {
	studentID string
	section   model.Section
}

// DraftRegistry keeps at most one open editor per record section. It follows
// the record store: when a saved section differs from an editor's source the
// editor is reset, and editors of removed records are dropped.
type DraftRegistry struct {
	store  *RecordStore
	logger *utils.Logger

	mu      sync.Mutex
	editors map[draftKey]Editor
}

func NewDraftRegistry(store *RecordStore, logger *utils.Logger) *DraftRegistry {
	r := &DraftRegistry{
		store:   store,
		logger:  logger.With("component", "draft_registry"),
		editors: make(map[draftKey]Editor),
	}
	store.Subscribe(r.onChange)
	return r
}

// Open returns the open editor for the section, creating it from the stored record if needed
func (r *DraftRegistry) Open(studentID string, section model.Section) (Editor, error) {
	key := draftKey{studentID, section}

	r.mu.Lock()
	defer r.mu.Unlock()
	if editor, ok := r.editors[key]; ok {
		return editor, nil
	}

	student, ok := r.store.Get(studentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	editor, err := newEditor(r.store, student, section)
	if err != nil {
		return nil, err
	}
	r.editors[key] = editor
	return editor, nil
}

// Get returns an already open editor
func (r *DraftRegistry) Get(studentID string, section model.Section) (Editor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	editor, ok := r.editors[draftKey{studentID, section}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrDraftNotOpen, studentID, section)
	}
	return editor, nil
}

// Close forgets the editor, dropping any unsaved edits
func (r *DraftRegistry) Close(studentID string, section model.Section) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.editors, draftKey{studentID, section})
}

func (r *DraftRegistry) onChange(change RecordChange) {
	r.mu.Lock()
	var affected []Editor
	for key, editor := range r.editors {
		if key.studentID != change.ID {
			continue
		}
		if change.Removed {
			if editor.IsDirty() {
				r.logger.Warn("record removed while its draft had unsaved edits",
					"student_id", change.ID, "section", key.section)
			}
			delete(r.editors, key)
			continue
		}
		affected = append(affected, editor)
	}
	r.mu.Unlock()

	for _, editor := range affected {
		if editor.Reset(change.Student) {
			r.logger.Warn("unsaved draft discarded after the record changed",
				"student_id", change.ID, "section", editor.Section())
		}
	}
}

func newEditor(sink SectionSink, student model.Student, section model.Section) (Editor, error) {
	switch section {
	case model.SectionPersonalInfo:
		return NewPersonalInfoEditor(sink, student), nil
	case model.SectionDiagnosis:
		return NewDiagnosisEditor(sink, student), nil
	case model.SectionCaseStudy:
		return NewCaseStudyEditor(sink, student), nil
	case model.SectionAssessments:
		return NewAssessmentsEditor(sink, student), nil
	case model.SectionSessions:
		return NewSessionsEditor(sink, student), nil
	case model.SectionAchievedGoals:
		return NewGoalsEditor(sink, student), nil
	default:
		return nil, fmt.Errorf("%w: section %q has no editor", ErrDraftNotEditable, section)
	}
}
