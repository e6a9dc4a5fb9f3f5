package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigatorSelectAndClear(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	nav := NewNavigator(store)

	_, ok := nav.Current()
	assert.False(t, ok)

	selected, ok := nav.Select(student.ID)
	require.True(t, ok)
	assert.Equal(t, student.ID, selected.ID)
	assert.Equal(t, student.ID, nav.SelectedID())

	nav.Clear()
	_, ok = nav.Current()
	assert.False(t, ok)
	assert.Empty(t, nav.SelectedID())
}

func TestNavigatorUnknownIDClearsSelection(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	nav := NewNavigator(store)

	nav.Select(student.ID)
	_, ok := nav.Select("missing")
	assert.False(t, ok)
	assert.Empty(t, nav.SelectedID())
}

func TestNavigatorNeverReturnsRemovedRecord(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	nav := NewNavigator(store)
	nav.Select(student.ID)

	require.NoError(t, store.Remove(context.Background(), student.ID))

	_, ok := nav.Current()
	assert.False(t, ok)
}

func TestNavigatorSeesLatestSave(t *testing.T) {
	store, _ := newTestStore(t)
	student := seedStudent(t, store, nil)
	nav := NewNavigator(store)
	nav.Select(student.ID)

	student.PersonalInfo.FullName = "ليلى"
	_, err := store.Replace(context.Background(), student.ID, student)
	require.NoError(t, err)

	current, ok := nav.Current()
	require.True(t, ok)
	assert.Equal(t, "ليلى", current.PersonalInfo.FullName)
}
