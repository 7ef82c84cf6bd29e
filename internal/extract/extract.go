// Package extract converts stored submission and rubric files into plain text
// for prompt construction.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/korean"
)

// Kind identifies the declared format of a stored file.
type Kind string

const (
	// KindText is a plain-text document.
	KindText Kind = "text"
	// KindPDF is a PDF document.
	KindPDF Kind = "pdf"
	// KindWord is a word-processor document.
	KindWord Kind = "word"
	// KindUnknown is any format the extractor cannot handle.
	KindUnknown Kind = "unknown"
)

var (
	// ErrUnsupportedFormat indicates the file format is not extractable.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEncodingFailure indicates the text could not be decoded as UTF-8 or CP949.
	ErrEncodingFailure = errors.New("failed to decode text encoding")
	// ErrEmptyContent indicates extraction succeeded but produced no usable text.
	ErrEmptyContent = errors.New("file contains no extractable text")
	// ErrReadFailure indicates an I/O or format-parsing failure.
	ErrReadFailure = errors.New("failed to read file")
)

// DetectKind maps a filename extension to an extraction kind.
func DetectKind(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return KindText
	case ".pdf":
		return KindPDF
	case ".docx", ".doc":
		return KindWord
	default:
		return KindUnknown
	}
}

// Extract reads the file at path and returns its plain-text content. The
// declared kind decides the extraction strategy; unsupported kinds fail
// without the file being opened.
func Extract(path string, kind Kind) (string, error) {
	switch kind {
	case KindText, KindPDF, KindWord:
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFailure, err)
	}

	if info.Size() == 0 {
		return "", ErrEmptyContent
	}

	switch kind {
	case KindText:
		return extractText(path)
	case KindPDF:
		return extractPDF(path)
	default:
		return extractWord(path, info.Size())
	}
}

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFailure, err)
	}

	content := string(data)
	if !utf8.Valid(data) {
		// Legacy Korean uploads predate the UTF-8 requirement. The decoder
		// substitutes U+FFFD for undecodable bytes instead of erroring, and
		// EUC-KR cannot encode U+FFFD itself, so any replacement rune in the
		// output means the input was valid in neither encoding.
		decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
		if err != nil || bytes.ContainsRune(decoded, utf8.RuneError) {
			return "", fmt.Errorf("%w: not valid utf-8 or cp949", ErrEncodingFailure)
		}
		content = string(decoded)
	}

	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}

	return content, nil
}

func extractPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	defer file.Close()

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrReadFailure, pageNum, err)
		}

		builder.WriteString(text)
		builder.WriteString("\n")
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", ErrEmptyContent
	}

	return builder.String(), nil
}

func extractWord(path string, size int64) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	defer file.Close()

	doc, err := docx.Parse(file, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFailure, err)
	}

	var builder strings.Builder
	for _, item := range doc.Document.Body.Items {
		paragraph, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := strings.TrimRight(paragraph.String(), "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		builder.WriteString(text)
		builder.WriteString("\n")
	}

	if builder.Len() == 0 {
		return "", ErrEmptyContent
	}

	return builder.String(), nil
}
