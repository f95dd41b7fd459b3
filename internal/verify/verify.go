// Package verify re-reads a generated .docx with an independent parser, so
// a document the formatter wrote but Word-compatible readers cannot load is
// caught before the user opens it.
package verify

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// ErrVerify indicates the output document could not be read back.
var ErrVerify = errors.New("output verification failed")

// Summary describes the body of a verified document.
type Summary struct {
	Paragraphs int
	Tables     int
	Headings   int
	Characters int
}

// File parses the .docx at path.
func File(path string) (Summary, error) {
	f, err := os.Open(path) // #nosec G304 -- path is the file we just wrote
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrVerify, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrVerify, err)
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %s: %v", ErrVerify, path, err)
	}
	return summarize(doc)
}

// Bytes parses an in-memory .docx.
func Bytes(data []byte) (Summary, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrVerify, err)
	}
	return summarize(doc)
}

func summarize(doc *docx.Docx) (Summary, error) {
	var s Summary
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			s.Paragraphs++
			s.Characters += len([]rune(strings.TrimSpace(it.String())))
			if isHeading(it) {
				s.Headings++
			}
		case *docx.Table:
			s.Tables++
		}
	}
	if s.Paragraphs == 0 && s.Tables == 0 {
		return s, fmt.Errorf("%w: document body is empty", ErrVerify)
	}
	return s, nil
}

func isHeading(p *docx.Paragraph) bool {
	if p.Properties == nil || p.Properties.Style == nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(p.Properties.Style.Val), "heading")
}
