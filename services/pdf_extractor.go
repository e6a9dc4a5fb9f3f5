package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/iman-school/caseload/utils"
	"github.com/iman-school/caseload/utils/pdfvalidation"
	"github.com/ledongthuc/pdf"
)

// minExtractedChars is the least text a report must yield to be worth summarizing
const minExtractedChars = 50

// PDFExtractor handles PDF text extraction using ledongthuc/pdf
type PDFExtractor struct {
	logger *utils.Logger
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor(logger *utils.Logger) *PDFExtractor {
	return &PDFExtractor{logger: logger.With("component", "pdf_extractor")}
}

// ExtractText extracts text from PDF bytes row by row, falling back to plain
// text for pages whose rows cannot be read
func (p *PDFExtractor) ExtractText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	content = pdfvalidation.SanitizePDF(content)

	pdfReader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var textBuilder strings.Builder

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			p.logger.Debug("pdf page is null, skipping", "page", i)
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			text, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				p.logger.Warn("pdf page text extraction failed", "page", i, "error", plainErr)
				continue
			}
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n")
			continue
		}

		for _, row := range rows {
			var rowText strings.Builder
			for _, word := range row.Content {
				rowText.WriteString(word.S)
			}
			line := strings.TrimSpace(rowText.String())
			if line != "" {
				textBuilder.WriteString(line)
				textBuilder.WriteString("\n")
			}
		}
		textBuilder.WriteString("\n") // Separate pages
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if len(extracted) < minExtractedChars {
		return "", fmt.Errorf("%w: only %d characters extracted, the PDF may be scanned", ErrNoReportText, len(extracted))
	}

	p.logger.Info("pdf text extracted", "characters", len(extracted), "pages", numPages)
	return extracted, nil
}
