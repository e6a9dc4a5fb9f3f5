package services

import (
	"context"
	"testing"

	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRegistryOpenIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	registry := NewDraftRegistry(store, utils.NewNopLogger())

	first, err := registry.Open(student.ID, model.SectionCaseStudy)
	require.NoError(t, err)
	second, err := registry.Open(student.ID, model.SectionCaseStudy)
	require.NoError(t, err)
	assert.Same(t, first, second)

	got, err := registry.Get(student.ID, model.SectionCaseStudy)
	require.NoError(t, err)
	assert.Same(t, first, got)

	registry.Close(student.ID, model.SectionCaseStudy)
	_, err = registry.Get(student.ID, model.SectionCaseStudy)
	assert.ErrorIs(t, err, ErrDraftNotOpen)
}

func TestDraftRegistryErrors(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	registry := NewDraftRegistry(store, utils.NewNopLogger())

	_, err := registry.Open("missing", model.SectionCaseStudy)
	assert.ErrorIs(t, err, ErrStudentNotFound)
	_, err = registry.Open(student.ID, model.SectionChat)
	assert.ErrorIs(t, err, ErrDraftNotEditable)
}

func TestDraftRegistryBuildsEveryEditableSection(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	registry := NewDraftRegistry(store, utils.NewNopLogger())

	for _, section := range model.EditableSections {
		editor, err := registry.Open(student.ID, section)
		require.NoError(t, err, section)
		assert.Equal(t, section, editor.Section())
		assert.Equal(t, student.ID, editor.StudentID())
		assert.False(t, editor.IsDirty())
	}
	_, ok := mustOpen(t, registry, student.ID, model.SectionDiagnosis).(*DiagnosisEditor)
	assert.True(t, ok)
}

func mustOpen(t *testing.T, registry *DraftRegistry, id string, section model.Section) Editor {
	t.Helper()
	editor, err := registry.Open(id, section)
	require.NoError(t, err)
	return editor
}

func TestDraftRegistryResetsOnExternalSave(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	registry := NewDraftRegistry(store, utils.NewNopLogger())

	editor := mustOpen(t, registry, student.ID, model.SectionCaseStudy)
	require.NoError(t, editor.ReplaceDraft([]byte(`{"strengths": "draft"}`)))

	_, err := store.ApplySection(ctx, student.ID, model.CaseStudyUpdate{CaseStudy: model.CaseStudy{Strengths: "external"}})
	require.NoError(t, err)

	assert.False(t, editor.IsDirty())
	assert.Equal(t, model.CaseStudy{Strengths: "external"}, editor.DraftView())
}

func TestDraftRegistryKeepsDraftOfOtherSections(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	registry := NewDraftRegistry(store, utils.NewNopLogger())

	editor := mustOpen(t, registry, student.ID, model.SectionCaseStudy)
	require.NoError(t, editor.ReplaceDraft([]byte(`{"strengths": "draft"}`)))

	_, err := store.ApplySection(ctx, student.ID, model.ChatAppend{Messages: []model.ChatMessage{model.UserMessage("hi")}})
	require.NoError(t, err)
	assert.True(t, editor.IsDirty())
}

func TestDraftRegistrySaveThroughEditor(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	registry := NewDraftRegistry(store, utils.NewNopLogger())

	editor := mustOpen(t, registry, student.ID, model.SectionCaseStudy)
	require.NoError(t, editor.ReplaceDraft([]byte(`{"strengths": "saved"}`)))
	require.NoError(t, editor.Save(ctx))

	assert.False(t, editor.IsDirty())
	assert.Equal(t, model.CaseStudy{Strengths: "saved"}, editor.DraftView())
}

func TestDraftRegistryDropsRemovedRecords(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	registry := NewDraftRegistry(store, utils.NewNopLogger())

	mustOpen(t, registry, student.ID, model.SectionPersonalInfo)
	require.NoError(t, store.Remove(context.Background(), student.ID))

	_, err := registry.Get(student.ID, model.SectionPersonalInfo)
	assert.ErrorIs(t, err, ErrDraftNotOpen)
}
