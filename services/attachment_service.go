package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/iman-school/caseload/model"
	"github.com/iman-school/caseload/services/storage"
	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/pdfvalidation"
)

var (
	ErrInvalidAttachment = errors.New("invalid attachment")
	ErrNoReportFile      = errors.New("student has no diagnosis report attached")
)

// AttachmentResult reports where an uploaded file ended up
type AttachmentResult struct {
	Attachment model.Attachment `json:"attachment"`
	// Staged is true when the file was placed in an open diagnosis draft and
	// still needs a save; otherwise it was written to the record directly.
	Staged    bool `json:"staged"`
	PageCount int  `json:"pageCount,omitempty"`
}

// AttachmentService accepts diagnosis reports. The bytes go to the attachment
// store and only the metadata lands in the student record. A stored file is
// deleted once no saved record refers to it any more.
type AttachmentService struct {
	store  *RecordStore
	drafts *DraftRegistry
	files  storage.AttachmentStore
	limits pdfvalidation.Limits
	logger *utils.Logger
	now    func() time.Time
}

func NewAttachmentService(store *RecordStore, drafts *DraftRegistry, files storage.AttachmentStore, limits pdfvalidation.Limits, logger *utils.Logger) *AttachmentService {
	s := &AttachmentService{
		store:  store,
		drafts: drafts,
		files:  files,
		limits: limits,
		logger: logger.With("component", "attachment_service"),
		now:    time.Now,
	}
	store.Subscribe(s.onRecordChange)
	return s
}

// onRecordChange deletes the report a committed change stopped referring to,
// whichever path saved it: a direct write, a diagnosis draft or a removal.
func (s *AttachmentService) onRecordChange(change RecordChange) {
	oldKey := reportKey(change.Previous)
	if oldKey == "" {
		return
	}
	if !change.Removed && reportKey(change.Student) == oldKey {
		return
	}
	s.discard(context.Background(), oldKey)
}

func reportKey(student model.Student) string {
	if f := student.MedicalDiagnosis.ReportFile; f != nil {
		return f.StorageKey
	}
	return ""
}

// UploadFile validates a multipart upload and attaches it
func (s *AttachmentService) UploadFile(ctx context.Context, studentID string, file *multipart.FileHeader) (*AttachmentResult, error) {
	if _, ok := s.store.Get(studentID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	result, content, err := pdfvalidation.ValidateFile(file, s.limits)
	if err != nil {
		return nil, err
	}
	return s.attach(ctx, studentID, file.Filename, content, result)
}

// Upload validates raw bytes and attaches them
func (s *AttachmentService) Upload(ctx context.Context, studentID, fileName string, content []byte) (*AttachmentResult, error) {
	if _, ok := s.store.Get(studentID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	return s.attach(ctx, studentID, fileName, content, pdfvalidation.ValidateBytes(content, s.limits))
}

func (s *AttachmentService) attach(ctx context.Context, studentID, fileName string, content []byte, result *pdfvalidation.ValidationResult) (*AttachmentResult, error) {
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAttachment, result.Error)
	}

	key := storage.GenerateKey(studentID, fileName, s.now())
	err := s.files.Put(ctx, storage.Object{
		Key:         key,
		StudentID:   studentID,
		FileName:    fileName,
		ContentType: result.MimeType,
		Data:        content,
	})
	if err != nil {
		return nil, err
	}

	attachment := model.Attachment{
		Name:       fileName,
		MimeType:   result.MimeType,
		Size:       result.FileSize,
		StorageKey: key,
	}

	if editor := s.openDiagnosisDraft(studentID); editor != nil {
		s.dropStaged(ctx, editor)
		editor.AttachFile(attachment)
		s.logger.Info("report staged in diagnosis draft", "student_id", studentID, "key", key)
		return &AttachmentResult{Attachment: attachment, Staged: true, PageCount: result.PageCount}, nil
	}

	if _, err := s.store.ApplySection(ctx, studentID, model.ReportFileUpdate{File: &attachment}); err != nil {
		s.discard(ctx, key)
		return nil, err
	}

	s.logger.Info("report attached", "student_id", studentID, "key", key, "size", attachment.Size)
	return &AttachmentResult{Attachment: attachment, PageCount: result.PageCount}, nil
}

// Remove detaches the report, staging the removal in an open draft if there is one
func (s *AttachmentService) Remove(ctx context.Context, studentID string) (staged bool, err error) {
	student, ok := s.store.Get(studentID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}

	if editor := s.openDiagnosisDraft(studentID); editor != nil {
		s.dropStaged(ctx, editor)
		editor.DetachFile()
		return true, nil
	}

	if student.MedicalDiagnosis.ReportFile == nil {
		return false, ErrNoReportFile
	}
	if _, err := s.store.ApplySection(ctx, studentID, model.ReportFileUpdate{}); err != nil {
		return false, err
	}
	return false, nil
}

// Download returns the stored report of a student
func (s *AttachmentService) Download(ctx context.Context, studentID string) (*storage.Object, error) {
	student, ok := s.store.Get(studentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	file := student.MedicalDiagnosis.ReportFile
	if file == nil || file.StorageKey == "" {
		return nil, ErrNoReportFile
	}
	obj, err := s.files.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, err
	}
	if obj.FileName == "" {
		obj.FileName = file.Name
	}
	if obj.ContentType == "" {
		obj.ContentType = file.MimeType
	}
	return obj, nil
}

func (s *AttachmentService) openDiagnosisDraft(studentID string) *DiagnosisEditor {
	if s.drafts == nil {
		return nil
	}
	editor, err := s.drafts.Get(studentID, model.SectionDiagnosis)
	if err != nil {
		return nil
	}
	diagnosis, _ := editor.(*DiagnosisEditor)
	return diagnosis
}

// dropStaged deletes a report that was uploaded into the draft and is about to
// be replaced before it was ever saved
func (s *AttachmentService) dropStaged(ctx context.Context, editor *DiagnosisEditor) {
	staged := editor.Value().ReportFile
	if staged == nil || staged.StorageKey == "" {
		return
	}
	if saved := editor.Source().ReportFile; saved != nil && saved.StorageKey == staged.StorageKey {
		return
	}
	s.discard(ctx, staged.StorageKey)
}

func (s *AttachmentService) discard(ctx context.Context, key string) {
	if err := s.files.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete stored report", "key", key, "error", err)
	}
}
