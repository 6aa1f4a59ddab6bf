// Package document turns an input document into a single text string.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/saivivek-01/VISION/internal/types"
)

// Detect maps a file extension to a document format.
func Detect(path string) (types.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return types.FormatPlain, nil
	case ".md":
		return types.FormatMarkdown, nil
	case ".pdf":
		return types.FormatPDF, nil
	case ".docx":
		return types.FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, ext)
	}
}

// Extract reads the document at path and returns its text.
func Extract(path string) (types.Document, string, error) {
	format, err := Detect(path)
	if err != nil {
		return types.Document{}, "", err
	}
	doc := types.Document{Path: path, Format: format}

	var text string
	switch format {
	case types.FormatPDF:
		text, err = extractPDF(path)
	case types.FormatDOCX:
		text, err = extractDOCX(path)
	default:
		var b []byte
		b, err = os.ReadFile(path)
		text = string(b)
	}
	if err != nil {
		return doc, "", fmt.Errorf("extract %s: %w", format, err)
	}
	return doc, text, nil
}
