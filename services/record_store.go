package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iman-school/caseload/database"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/utils"
)

var (
	ErrStudentNotFound       = errors.New("student not found")
	ErrDuplicateStudentID    = errors.New("student id already exists")
	ErrGoalRemovalNotAllowed = errors.New("achieved goals cannot be removed")
	ErrGoalEditNotAllowed    = errors.New("achieved goals cannot be edited")
)

// RecordChange is delivered to subscribers after every committed mutation.
// Previous holds the record as it was before the mutation and is zero for
// inserts.
type RecordChange struct {
	ID       string
	Student  model.Student
	Previous model.Student
	Removed  bool
}

// RecordStoreOption configures a RecordStore
type RecordStoreOption func(*RecordStore)

// WithRecordClock overrides the time source used for ids and quarantine keys
func WithRecordClock(now func() time.Time) RecordStoreOption {
	return func(s *RecordStore) {
		s.now = now
	}
}

// RecordStore owns the student collection and mirrors it to one storage slot.
// Every mutation builds a new collection, swaps it in and writes the whole
// collection before returning. A failed write is logged and the in-memory
// state is kept.
type RecordStore struct {
	storage database.SlotStorage
	slot    string
	logger  *utils.Logger
	now     func() time.Time

	mu       sync.RWMutex
	students []model.Student

	subMu       sync.RWMutex
	subscribers []func(RecordChange)
}

// NewRecordStore creates an empty store; call Load to restore the persisted collection
func NewRecordStore(storage database.SlotStorage, slot string, logger *utils.Logger, opts ...RecordStoreOption) *RecordStore {
	s := &RecordStore{
		storage:  storage,
		slot:     slot,
		logger:   logger.With("component", "record_store", "slot", slot),
		now:      time.Now,
		students: []model.Student{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slot returns the storage key the collection is persisted under
func (s *RecordStore) Slot() string {
	return s.slot
}

// Load restores the collection from storage. A missing slot yields an empty
// collection. A payload that cannot be decoded or validated also yields an
// empty collection, after being copied to a quarantine slot.
func (s *RecordStore) Load(ctx context.Context) []model.Student {
	students := s.read(ctx)

	s.mu.Lock()
	s.students = students
	s.mu.Unlock()

	s.logger.Info("student records loaded", "count", len(students))
	return cloneStudents(students)
}

func (s *RecordStore) read(ctx context.Context) []model.Student {
	raw, err := s.storage.Read(ctx, s.slot)
	if errors.Is(err, database.ErrSlotNotFound) {
		return []model.Student{}
	}
	if err != nil {
		s.logger.Error("failed to read student records, starting empty", "error", err)
		return []model.Student{}
	}

	students, err := DecodeStudents(raw)
	if err != nil {
		s.quarantine(ctx, raw, err)
		return []model.Student{}
	}
	return students
}

// DecodeStudents parses a serialized collection, including exports written by
// the browser app, and normalizes and validates every record
func DecodeStudents(raw []byte) ([]model.Student, error) {
	var students []model.Student
	if err := json.Unmarshal(raw, &students); err != nil {
		return nil, fmt.Errorf("failed to decode student records: %w", err)
	}
	if students == nil {
		return []model.Student{}, nil
	}

	seen := make(map[string]struct{}, len(students))
	for i := range students {
		students[i].Normalize()
		if err := students[i].Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[students[i].ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStudentID, students[i].ID)
		}
		seen[students[i].ID] = struct{}{}
	}
	return students, nil
}

// quarantine keeps an unreadable payload so the data loss is recoverable by hand
func (s *RecordStore) quarantine(ctx context.Context, raw []byte, cause error) {
	key := fmt.Sprintf("%s.corrupt.%d", s.slot, s.now().Unix())
	if err := s.storage.Write(ctx, key, raw); err != nil {
		s.logger.Error("student records are unreadable and could not be quarantined, starting empty",
			"cause", cause, "error", err)
		return
	}
	s.logger.Error("student records are unreadable, starting empty", "cause", cause, "quarantine_slot", key)
}

// persist writes the collection; callers hold s.mu
func (s *RecordStore) persist(ctx context.Context) {
	payload, err := json.Marshal(s.students)
	if err != nil {
		s.logger.Error("failed to encode student records", "error", err)
		return
	}
	if err := s.storage.Write(ctx, s.slot, payload); err != nil {
		s.logger.Error("failed to persist student records", "error", err, "count", len(s.students))
	}
}

// All returns a deep copy of the collection in insertion order
func (s *RecordStore) All() []model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStudents(s.students)
}

// Get returns a deep copy of one record
func (s *RecordStore) Get(id string) (model.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Student{}, false
	}
	return s.students[idx].Clone(), true
}

// Create adds a record with default sections and a fresh id
func (s *RecordStore) Create(ctx context.Context) (model.Student, error) {
	student := model.NewStudent(s.now())

	s.mu.Lock()
	if s.indexOf(student.ID) >= 0 {
		student.ID = fmt.Sprintf("%s-%s", student.ID, uuid.NewString()[:8])
	}
	err := s.insertLocked(ctx, student)
	s.mu.Unlock()
	if err != nil {
		return model.Student{}, err
	}

	s.notify(RecordChange{ID: student.ID, Student: student.Clone()})
	return student.Clone(), nil
}

// Add appends a complete record
func (s *RecordStore) Add(ctx context.Context, student model.Student) error {
	student = student.Clone()
	student.Normalize()
	if err := student.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	err := s.insertLocked(ctx, student)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(RecordChange{ID: student.ID, Student: student.Clone()})
	return nil
}

func (s *RecordStore) insertLocked(ctx context.Context, student model.Student) error {
	if s.indexOf(student.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateStudentID, student.ID)
	}
	next := make([]model.Student, 0, len(s.students)+1)
	next = append(next, s.students...)
	s.students = append(next, student)
	s.persist(ctx)
	return nil
}

// Replace swaps a whole record
func (s *RecordStore) Replace(ctx context.Context, id string, student model.Student) (model.Student, error) {
	student = student.Clone()
	student.ID = id
	student.Normalize()
	if err := student.Validate(); err != nil {
		return model.Student{}, err
	}

	s.mu.Lock()
	previous, err := s.replaceLocked(ctx, student)
	s.mu.Unlock()
	if err != nil {
		return model.Student{}, err
	}

	s.notify(RecordChange{ID: id, Student: student.Clone(), Previous: previous.Clone()})
	return student.Clone(), nil
}

// replaceLocked swaps the record and returns the one it replaced
func (s *RecordStore) replaceLocked(ctx context.Context, student model.Student) (model.Student, error) {
	idx := s.indexOf(student.ID)
	if idx < 0 {
		return model.Student{}, fmt.Errorf("%w: %s", ErrStudentNotFound, student.ID)
	}
	previous := s.students[idx]
	next := slices.Clone(s.students)
	next[idx] = student
	s.students = next
	s.persist(ctx)
	return previous, nil
}

// ApplySection replaces (or appends to) one section of a record
func (s *RecordStore) ApplySection(ctx context.Context, id string, update model.SectionUpdate) (model.Student, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.Student{}, fmt.Errorf("%w: %s", ErrStudentNotFound, id)
	}

	current := s.students[idx]
	if goals, ok := update.(model.AchievedGoalsUpdate); ok {
		if err := checkGoalsAppendOnly(current.AchievedGoals, goals.Goals); err != nil {
			s.mu.Unlock()
			return model.Student{}, err
		}
	}

	updated := current.Clone()
	updated.Apply(update)
	if err := updated.Validate(); err != nil {
		s.mu.Unlock()
		return model.Student{}, err
	}

	previous, err := s.replaceLocked(ctx, updated)
	s.mu.Unlock()
	if err != nil {
		return model.Student{}, err
	}

	s.logger.Debug("section saved", "student_id", id, "section", update.Section())
	s.notify(RecordChange{ID: id, Student: updated.Clone(), Previous: previous.Clone()})
	return updated.Clone(), nil
}

// checkGoalsAppendOnly rejects an update that drops or rewrites a recorded goal
func checkGoalsAppendOnly(current, next []model.AchievedGoal) error {
	for _, goal := range current {
		idx := slices.IndexFunc(next, func(g model.AchievedGoal) bool { return g.ID == goal.ID })
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrGoalRemovalNotAllowed, goal.ID)
		}
		if !goalsEqual(goal, next[idx]) {
			return fmt.Errorf("%w: %s", ErrGoalEditNotAllowed, goal.ID)
		}
	}
	return nil
}

// Remove deletes a record permanently
func (s *RecordStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrStudentNotFound, id)
	}
	previous := s.students[idx]
	next := make([]model.Student, 0, len(s.students)-1)
	next = append(next, s.students[:idx]...)
	s.students = append(next, s.students[idx+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.Info("student removed", "student_id", id)
	s.notify(RecordChange{ID: id, Previous: previous.Clone(), Removed: true})
	return nil
}

// Subscribe registers fn to run after every committed mutation, outside the store lock
func (s *RecordStore) Subscribe(fn func(RecordChange)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *RecordStore) notify(change RecordChange) {
	s.subMu.RLock()
	subscribers := slices.Clone(s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subscribers {
		fn(change)
	}
}

func (s *RecordStore) indexOf(id string) int {
	return slices.IndexFunc(s.students, func(st model.Student) bool { return st.ID == id })
}

func cloneStudents(in []model.Student) []model.Student {
	out := make([]model.Student, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
