package services

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// ExtractionError means no usable text could be pulled out of a document.
// It is distinct from a successful extraction.
type ExtractionError struct {
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("text extraction failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("text extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

type PDFParserService interface {
	ExtractText(r io.ReaderAt, size int64) (string, error)
	ExtractResumeText(mime string, data []byte) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText concatenates the plain text of every page in page order with no
// separator between pages.
func (p *pdfParserService) ExtractText(r io.ReaderAt, size int64) (text string, err error) {
	// The PDF library panics on some malformed inputs
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &ExtractionError{Reason: "corrupt PDF", Cause: fmt.Errorf("%v", rec)}
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", &ExtractionError{Reason: "failed to open PDF", Cause: err}
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Reason: fmt.Sprintf("failed to read page %d", pageIndex), Cause: err}
		}

		textBuilder.WriteString(pageText)
	}

	text = textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Reason: "no text content found in PDF"}
	}

	return text, nil
}

// ExtractResumeText dispatches on the MIME type of an uploaded resume.
func (p *pdfParserService) ExtractResumeText(mime string, data []byte) (string, error) {
	switch mime {
	case MimePDF:
		return p.ExtractText(bytes.NewReader(data), int64(len(data)))
	case MimeDOCX:
		return extractDocxText(data)
	case MimeText:
		if strings.TrimSpace(string(data)) == "" {
			return "", &ExtractionError{Reason: "empty text document"}
		}
		return string(data), nil
	default:
		return "", &ExtractionError{Reason: fmt.Sprintf("unsupported file type: %s", mime)}
	}
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Reason: "failed to parse DOCX", Cause: err}
	}
	defer doc.Close()

	text := docxXMLToText(doc.Editable().GetContent())
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Reason: "no text content found in DOCX"}
	}
	return text, nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

// docxXMLToText turns WordprocessingML into plain text, one line per paragraph.
func docxXMLToText(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = strings.ReplaceAll(content, "<w:tab/>", "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}

// DetectMimeType prefers the file extension and falls back to content sniffing.
func DetectMimeType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	}

	sniffed := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(sniffed, MimePDF):
		return MimePDF
	case strings.HasPrefix(sniffed, MimeText):
		return MimeText
	default:
		return sniffed
	}
}
