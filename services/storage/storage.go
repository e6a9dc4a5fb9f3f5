package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iman-school/caseload/utils/crypto"
)

// ErrAttachmentNotFound is returned by Get for an unknown key
var ErrAttachmentNotFound = errors.New("attachment not found")

// Object is one stored file and its metadata
type Object struct {
	Key         string
	StudentID   string
	FileName    string
	ContentType string
	Data        []byte
}

// AttachmentStore keeps the bytes of uploaded reports outside the student slot
type AttachmentStore interface {
	Put(ctx context.Context, obj Object) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// GenerateKey builds a unique object key under the student's prefix
func GenerateKey(studentID, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("students/%s/reports/%d_%s%s", studentID, now.Unix(), uuid.NewString()[:8], ext)
}

// EncryptedStore seals object bytes with AES-256-GCM before handing them to the wrapped store
type EncryptedStore struct {
	inner  AttachmentStore
	sealer *crypto.Sealer
}

func NewEncryptedStore(inner AttachmentStore, passphrase string) *EncryptedStore {
	return &EncryptedStore{inner: inner, sealer: crypto.NewSealer(passphrase, crypto.DefaultKeyParams)}
}

func (s *EncryptedStore) Put(ctx context.Context, obj Object) error {
	sealed, err := s.sealer.Seal(obj.Data)
	if err != nil {
		return fmt.Errorf("failed to encrypt attachment: %w", err)
	}
	obj.Data = sealed
	return s.inner.Put(ctx, obj)
}

func (s *EncryptedStore) Get(ctx context.Context, key string) (*Object, error) {
	obj, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := s.sealer.Open(obj.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt attachment %q: %w", key, err)
	}
	obj.Data = plain
	return obj, nil
}

func (s *EncryptedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
