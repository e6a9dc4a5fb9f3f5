package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iman-school/caseload/model"
	"gorm.io/gorm"
)

// DBStore keeps attachments in the attachment_blobs table
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Put(ctx context.Context, obj Object) error {
	blob := model.AttachmentBlob{
		Key:         obj.Key,
		StudentID:   obj.StudentID,
		FileName:    obj.FileName,
		ContentType: obj.ContentType,
		Size:        int64(len(obj.Data)),
		Data:        obj.Data,
	}
	if err := s.db.WithContext(ctx).Save(&blob).Error; err != nil {
		return fmt.Errorf("failed to store attachment: %w", err)
	}
	return nil
}

func (s *DBStore) Get(ctx context.Context, key string) (*Object, error) {
	var blob model.AttachmentBlob
	err := s.db.WithContext(ctx).Where("blob_key = ?", key).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttachmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attachment: %w", err)
	}
	return &Object{
		Key:         blob.Key,
		StudentID:   blob.StudentID,
		FileName:    blob.FileName,
		ContentType: blob.ContentType,
		Data:        blob.Data,
	}, nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("blob_key = ?", key).Delete(&model.AttachmentBlob{}).Error; err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
