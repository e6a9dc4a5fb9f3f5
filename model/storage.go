package model

import (
	"time"

	"gorm.io/datatypes"
)

// StorageSlot is one named JSON document (the student collection lives in one slot)
type StorageSlot struct {
	Key       string         `gorm:"column:slot_key;primaryKey;size:255"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

func (StorageSlot) TableName() string {
	return "storage_slots"
}

// AttachmentBlob holds the raw bytes of an uploaded diagnosis report
type AttachmentBlob struct {
	Key         string `gorm:"column:blob_key;primaryKey;size:255"`
	StudentID   string `gorm:"size:100;index"`
	FileName    string `gorm:"size:512"`
	ContentType string `gorm:"size:100"`
	Size        int64
	Data        []byte `gorm:"not null"`
	CreatedAt   time.Time
}

func (AttachmentBlob) TableName() string {
	return "attachment_blobs"
}
