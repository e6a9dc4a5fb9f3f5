package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/iman-school/caseload/model"
)

var (
	ErrNotDirty             = errors.New("draft has no unsaved changes")
	ErrDraftNotEditable     = errors.New("draft cannot be replaced as a whole")
	ErrMissingRequiredField = errors.New("required field is empty")
	ErrEntryNotFound        = errors.New("entry not found")
	ErrInvalidEntry         = errors.New("invalid entry")
)

// SectionSink receives whole-section updates; the record store implements it
type SectionSink interface {
	ApplySection(ctx context.Context, id string, update model.SectionUpdate) (model.Student, error)
}

// Editor is the section-independent view of a form editor
type Editor interface {
	StudentID() string
	Section() model.Section
	IsDirty() bool
	// DraftView returns a copy of the draft for display
	DraftView() any
	// ReplaceDraft decodes raw JSON into the draft
	ReplaceDraft(raw []byte) error
	Save(ctx context.Context) error
	Cancel()
	// Reset takes the section from student as the new source when it differs
	// from the current one. It reports whether unsaved edits were thrown away.
	Reset(student model.Student) (discarded bool)
}

// sectionBinding describes how one section is read, copied, compared and written
type sectionBinding[T any] struct {
	section  model.Section
	extract  func(model.Student) T
	clone    func(T) T
	equal    func(a, b T) bool
	toUpdate func(T) model.SectionUpdate
	validate func(T) error
}

// SectionEditor holds a draft copy of one section of one record. The draft
// never shares memory with the source or with the store.
type SectionEditor[T any] struct {
	sink      SectionSink
	studentID string
	binding   sectionBinding[T]

	mu     sync.Mutex
	source T
	draft  T
}

func newSectionEditor[T any](sink SectionSink, student model.Student, binding sectionBinding[T]) *SectionEditor[T] {
	source := binding.extract(student)
	return &SectionEditor[T]{
		sink:      sink,
		studentID: student.ID,
		binding:   binding,
		source:    binding.clone(source),
		draft:     binding.clone(source),
	}
}

func (e *SectionEditor[T]) StudentID() string { return e.studentID }

func (e *SectionEditor[T]) Section() model.Section { return e.binding.section }

// Source returns a copy of the section the draft was cloned from
func (e *SectionEditor[T]) Source() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.binding.clone(e.source)
}

// Value returns a copy of the draft
func (e *SectionEditor[T]) Value() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.binding.clone(e.draft)
}

func (e *SectionEditor[T]) DraftView() any {
	return e.Value()
}

// SetValue replaces the draft
func (e *SectionEditor[T]) SetValue(v T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = e.binding.clone(v)
}

func (e *SectionEditor[T]) ReplaceDraft(raw []byte) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	e.SetValue(v)
	return nil
}

// edit mutates the draft in place under the editor lock
func (e *SectionEditor[T]) edit(fn func(draft *T) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.draft)
}

func (e *SectionEditor[T]) IsDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.binding.equal(e.draft, e.source)
}

// ResetSource unconditionally adopts source and drops the draft
func (e *SectionEditor[T]) ResetSource(source T) (discarded bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	discarded = !e.binding.equal(e.draft, e.source) && !e.binding.equal(e.draft, source)
	e.source = e.binding.clone(source)
	e.draft = e.binding.clone(source)
	return discarded
}

func (e *SectionEditor[T]) Reset(student model.Student) bool {
	next := e.binding.extract(student)

	e.mu.Lock()
	unchanged := e.binding.equal(next, e.source)
	e.mu.Unlock()
	if unchanged {
		return false
	}
	return e.ResetSource(next)
}

// Save writes the draft to the store. It is rejected while the draft equals its source.
func (e *SectionEditor[T]) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.binding.equal(e.draft, e.source) {
		e.mu.Unlock()
		return ErrNotDirty
	}
	draft := e.binding.clone(e.draft)
	e.mu.Unlock()

	if e.binding.validate != nil {
		if err := e.binding.validate(draft); err != nil {
			return err
		}
	}

	updated, err := e.sink.ApplySection(ctx, e.studentID, e.binding.toUpdate(draft))
	if err != nil {
		return err
	}

	saved := e.binding.extract(updated)
	e.mu.Lock()
	e.source = e.binding.clone(saved)
	e.draft = e.binding.clone(saved)
	e.mu.Unlock()
	return nil
}

// Cancel drops the draft and restores the source
func (e *SectionEditor[T]) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = e.binding.clone(e.source)
}

func identity[T any](v T) T { return v }

func comparableEqual[T comparable](a, b T) bool { return a == b }
