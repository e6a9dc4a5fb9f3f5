package pdfvalidation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// AllowedMimeTypes are the diagnosis report formats accepted for upload
var AllowedMimeTypes = []string{MimePDF, MimePNG, MimeJPEG}

// Limits defines the validation limits for report uploads
type Limits struct {
	MaxFileSizeMB int // Maximum file size in MB
	MaxPages      int // Maximum number of pages for PDFs
}

// DefaultLimits apply when no size is configured
var DefaultLimits = Limits{
	MaxFileSizeMB: 10,
	MaxPages:      100,
}

// ValidationResult contains the result of an upload validation
type ValidationResult struct {
	Valid     bool
	MimeType  string
	PageCount int
	FileSize  int64
	Error     string
}

// ValidateFile reads a multipart upload and validates its content
func ValidateFile(file *multipart.FileHeader, limits Limits) (*ValidationResult, []byte, error) {
	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return &ValidationResult{
			FileSize: file.Size,
			Error:    fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB),
		}, nil, nil
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer fileContent.Close()

	content, err := io.ReadAll(io.LimitReader(fileContent, maxSize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	result := ValidateBytes(content, limits)
	return result, content, nil
}

// ValidateBytes sniffs the real content type (the client-declared type is
// ignored) and, for PDFs, checks that the document parses and has pages
func ValidateBytes(content []byte, limits Limits) *ValidationResult {
	result := &ValidationResult{
		FileSize: int64(len(content)),
	}

	// 1. Validate file size
	maxSize := int64(limits.MaxFileSizeMB) * 1024 * 1024
	if result.FileSize > maxSize {
		result.Error = fmt.Sprintf("File size exceeds maximum allowed size of %dMB", limits.MaxFileSizeMB)
		return result
	}
	if result.FileSize == 0 {
		result.Error = "File is empty"
		return result
	}

	// 2. Validate content type
	detected := mimetype.Detect(content)
	result.MimeType = detected.String()
	if !slices.ContainsFunc(AllowedMimeTypes, detected.Is) {
		result.Error = fmt.Sprintf("Unsupported file type %s: only PDF, PNG and JPEG are accepted", result.MimeType)
		return result
	}
	result.MimeType = baseMime(detected)

	if result.MimeType != MimePDF {
		result.Valid = true
		return result
	}

	// 3. Get page count
	pageCount, err := PageCount(content)
	if err != nil {
		result.Error = fmt.Sprintf("Failed to read PDF: %v", err)
		return result
	}
	result.PageCount = pageCount

	// 4. Validate page count
	if pageCount == 0 {
		result.Error = "PDF has no pages"
		return result
	}
	if limits.MaxPages > 0 && pageCount > limits.MaxPages {
		result.Error = fmt.Sprintf("PDF has %d pages, which exceeds the maximum of %d pages", pageCount, limits.MaxPages)
		return result
	}

	result.Valid = true
	return result
}

// baseMime drops parameters such as "; charset=" from the detected type
func baseMime(m *mimetype.MIME) string {
	for _, allowed := range AllowedMimeTypes {
		if m.Is(allowed) {
			return allowed
		}
	}
	return m.String()
}

// SanitizePDF removes trailing garbage data after the last %%EOF marker
func SanitizePDF(content []byte) []byte {
	if len(content) == 0 {
		return content
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)

	if lastEOF == -1 {
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)

	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}

	if pdfEnd < len(content) {
		return content[:pdfEnd]
	}

	return content
}

// PageCount returns the number of pages in a PDF
func PageCount(content []byte) (int, error) {
	content = SanitizePDF(content)
	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}

	return pdfReader.NumPage(), nil
}
