package services

import (
	"sync"

	"github.com/iman-school/caseload/model"
)

// RecordReader is the read side of the record store
type RecordReader interface {
	Get(id string) (model.Student, bool)
}

// Navigator tracks which record is open. It stores only the id and resolves
// it against the store on every call, so a removed record is never returned.
type Navigator struct {
	store RecordReader

	mu         sync.RWMutex
	selectedID string
}

func NewNavigator(store RecordReader) *Navigator {
	return &Navigator{store: store}
}

// Select opens the record with id; an unknown id clears the selection
func (n *Navigator) Select(id string) (model.Student, bool) {
	student, ok := n.store.Get(id)

	n.mu.Lock()
	defer n.mu.Unlock()
	if !ok {
		n.selectedID = ""
		return model.Student{}, false
	}
	n.selectedID = id
	return student, true
}

// Clear returns to the list view
func (n *Navigator) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.selectedID = ""
}

// Current resolves the selected id against the store
func (n *Navigator) Current() (model.Student, bool) {
	n.mu.RLock()
	id := n.selectedID
	n.mu.RUnlock()

	if id == "" {
		return model.Student{}, false
	}
	return n.store.Get(id)
}

// SelectedID returns the raw selection, which may point at a removed record
func (n *Navigator) SelectedID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.selectedID
}
