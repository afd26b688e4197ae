package services

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	// DefaultMinTextLength separates usable extractions from failed ones.
	DefaultMinTextLength = 50

	MethodPDFReader     = "ledongthuc_pdf"
	MethodContentStream = "content_stream_scan"
	MethodNone          = "none"

	// the PDF header may be preceded by junk bytes; readers look for it in the first KB
	pdfHeaderWindow = 1024
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCorruptDocument   = errors.New("corrupt document")
	ErrEmptyContent      = errors.New("empty content")
)

var pdfMIMETypes = map[string]bool{
	"":                         true,
	"application/pdf":          true,
	"application/x-pdf":        true,
	"application/octet-stream": true,
}

// TextExtractor turns a document into plain text. The returned result is never nil;
// on error it carries Success=false, an empty Text and the elapsed time.
type TextExtractor interface {
	Extract(doc models.DocumentBuffer) (*models.ExtractionResult, error)
}

type pdfTextExtractor struct {
	minTextLength int
	log           *zap.Logger
}

// NewTextExtractor builds the PDF extractor. A non-positive minTextLength falls back to
// DefaultMinTextLength.
func NewTextExtractor(minTextLength int, log *zap.Logger) TextExtractor {
	if minTextLength <= 0 {
		minTextLength = DefaultMinTextLength
	}
	return &pdfTextExtractor{
		minTextLength: minTextLength,
		log:           logger.OrNop(log),
	}
}

// Extract implements TextExtractor.
func (e *pdfTextExtractor) Extract(doc models.DocumentBuffer) (*models.ExtractionResult, error) {
	start := time.Now()
	result := &models.ExtractionResult{Method: MethodNone}

	fail := func(err error) (*models.ExtractionResult, error) {
		result.Elapsed = time.Since(start)
		e.log.Warn("text extraction failed",
			zap.String("filename", doc.Filename),
			zap.Int("bytes", len(doc.Data)),
			zap.Duration("elapsed", result.Elapsed),
			zap.Error(err),
		)
		return result, err
	}

	if len(doc.Data) == 0 {
		return fail(fmt.Errorf("%w: document is empty", ErrEmptyContent))
	}

	if err := ValidatePDF(doc); err != nil {
		return fail(err)
	}

	text, pages, parseErr := readPDFText(doc.Data)
	result.PageCount = pages
	method := MethodPDFReader

	if parseErr != nil || !e.usable(text) {
		if parseErr != nil {
			e.log.Debug("pdf reader failed, scanning content streams", zap.Error(parseErr))
		}
		text = scanContentStreams(doc.Data)
		method = MethodContentStream
	}

	text = CleanText(text)
	if !e.usable(text) {
		if parseErr != nil {
			return fail(fmt.Errorf("%w: %v", ErrCorruptDocument, parseErr))
		}
		return fail(fmt.Errorf("%w: extracted %d characters, need at least %d",
			ErrEmptyContent, utf8.RuneCountInString(text), e.minTextLength))
	}

	result.Text = text
	result.Method = method
	result.Success = true
	result.TextLength = utf8.RuneCountInString(text)
	result.Elapsed = time.Since(start)

	e.log.Info("text extracted",
		zap.String("filename", doc.Filename),
		zap.String("method", method),
		zap.Int("pages", pages),
		zap.Int("text_length", result.TextLength),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

func (e *pdfTextExtractor) usable(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= e.minTextLength
}

// ValidatePDF checks the declared content type, the file extension and the PDF header.
func ValidatePDF(doc models.DocumentBuffer) error {
	contentType := strings.ToLower(strings.TrimSpace(doc.ContentType))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !pdfMIMETypes[contentType] {
		return fmt.Errorf("%w: content type %q", ErrUnsupportedFormat, doc.ContentType)
	}

	if ext := strings.ToLower(filepath.Ext(doc.Filename)); ext != "" && ext != ".pdf" {
		return fmt.Errorf("%w: file extension %q", ErrUnsupportedFormat, ext)
	}

	window := doc.Data
	if len(window) > pdfHeaderWindow {
		window = window[:pdfHeaderWindow]
	}
	if !bytes.Contains(window, []byte("%PDF-")) {
		return fmt.Errorf("%w: missing PDF header", ErrUnsupportedFormat)
	}

	return nil
}

// readPDFText walks every page with the PDF reader. Pages that fail are skipped.
// The reader panics on some malformed inputs; that is reported as an error.
func readPDFText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), totalPage, nil
}

var (
	showTextOp      = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*(?:Tj|'|")`)
	showTextArrayOp = regexp.MustCompile(`\[((?:\\.|[^\]\\])*)\]\s*TJ`)
	arrayStringPart = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	textBlock       = regexp.MustCompile(`(?s)BT(.*?)ET`)
)

// scanContentStreams recovers text from uncompressed content streams by reading the
// string operands of text-showing operators. Each BT/ET block becomes one line.
func scanContentStreams(data []byte) string {
	var lines []string

	for _, block := range textBlock.FindAllSubmatch(data, -1) {
		body := block[1]
		var parts []string

		for _, m := range showTextOp.FindAllSubmatch(body, -1) {
			parts = append(parts, unescapePDFString(m[1]))
		}

		for _, m := range showTextArrayOp.FindAllSubmatch(body, -1) {
			var sb strings.Builder
			for _, s := range arrayStringPart.FindAllSubmatch(m[1], -1) {
				sb.WriteString(unescapePDFString(s[1]))
			}
			parts = append(parts, sb.String())
		}

		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

func unescapePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(raw) && j < i+3 && raw[j] >= '0' && raw[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(string(raw[i:j]), 8, 8)
			sb.WriteByte(byte(v))
			i = j - 1
		case '\n':
			// line continuation
		default:
			sb.WriteByte(raw[i])
		}
	}

	return strings.ToValidUTF8(sb.String(), "")
}

// CleanText trims every line and drops empty ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
