package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/iman-school/caseload/database"
	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services/storage"
	"github.com/iman-school/caseload/utils"
	"github.com/stretchr/testify/require"
)

const testSlot = "students"

var testNow = time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*RecordStore, *database.MemoryStore) {
	t.Helper()
	backend := database.NewMemoryStore()
	store := NewRecordStore(backend, testSlot, utils.NewNopLogger(), WithRecordClock(func() time.Time { return testNow }))
	store.Load(context.Background())
	return store, backend
}

func seedStudent(t *testing.T, store *RecordStore, mutate func(*model.Student)) model.Student {
	t.Helper()
	student, err := store.Create(context.Background())
	require.NoError(t, err)
	if mutate == nil {
		return student
	}
	mutate(&student)
	saved, err := store.Replace(context.Background(), student.ID, student)
	require.NoError(t, err)
	return saved
}

func persistedStudents(t *testing.T, backend *database.MemoryStore) []model.Student {
	t.Helper()
	raw, err := backend.Read(context.Background(), testSlot)
	require.NoError(t, err)
	var students []model.Student
	require.NoError(t, json.Unmarshal(raw, &students))
	return students
}

// fakeGenerator records prompts and returns canned replies
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	// block, when set, holds Generate until it is closed
	block   chan struct{}
	started chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	block, started := g.block, g.started
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *fakeGenerator) HealthCheck(context.Context) error {
	return g.err
}

func (g *fakeGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

// memoryFiles is an in-process AttachmentStore
type memoryFiles struct {
	mu      sync.Mutex
	objects map[string]storage.Object
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{objects: make(map[string]storage.Object)}
}

func (m *memoryFiles) Put(_ context.Context, obj storage.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[obj.Key] = obj
	return nil
}

func (m *memoryFiles) Get(_ context.Context, key string) (*storage.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrAttachmentNotFound
	}
	return &obj, nil
}

func (m *memoryFiles) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryFiles) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
