// Package format applies thesis formatting conventions to a pandoc-generated
// Word document.
//
// Each convention is a Pass: a stateless transformation of the shared
// ooxml.Document. A Pipeline runs the passes selected by Options in order
// and accumulates counters in a Report. Passes fail fast with a wrapped
// sentinel error when the document does not have the expected shape.
package format

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Sentinel errors for document shape violations.
var (
	ErrSectionCount   = errors.New("unexpected number of sections")
	ErrMarkerNotFound = errors.New("marker paragraph not found")
	ErrAbstractFormat = errors.New("malformed abstract paragraph")
	ErrEquationLabel  = errors.New("malformed equation label")
	ErrTableShape     = errors.New("table has no rows or columns")
	ErrInvalidOption  = errors.New("invalid format option")
	ErrUnknownPass    = errors.New("unknown pass")
)

// Pass is one formatting step.
type Pass interface {
	Name() string
	Apply(ctx context.Context, doc *ooxml.Document, r *Report) error
}

// Report collects what the passes changed. It is only read for end-of-run
// reporting.
type Report struct {
	Tables        int
	PageBreaks    int
	SectionBreaks int
	Sections      int
	Headers       int
	TOC           int
	Equations     int
	Abstracts     int
	Hyperlinks    int
	CrossRefs     int
	References    int

	// Citations counts citation link occurrences per key.
	Citations map[string]int
	// SourceCitations lists keys cited in the Markdown source, when known.
	SourceCitations []string
	Warnings        []string
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Citations: make(map[string]int)}
}

// Cite records one occurrence of a citation key.
func (r *Report) Cite(key string) {
	if r.Citations == nil {
		r.Citations = make(map[string]int)
	}
	r.Citations[key]++
}

// Warn records a non-fatal finding.
func (r *Report) Warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// CitationKeys returns the cited keys, sorted.
func (r *Report) CitationKeys() []string {
	keys := make([]string, 0, len(r.Citations))
	for k := range r.Citations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnlinkedCitations returns keys cited in the source that never appeared as
// a citation link in the document, sorted.
func (r *Report) UnlinkedCitations() []string {
	var out []string
	seen := make(map[string]bool)
	for _, k := range r.SourceCitations {
		if r.Citations[k] == 0 && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	sort.Strings(out)
	return out
}

// paragraphsWithStyle returns body paragraphs whose style id is id.
func paragraphsWithStyle(doc *ooxml.Document, id string) []*etree.Element {
	var out []*etree.Element
	for _, p := range doc.BodyParagraphs() {
		if ooxml.StyleID(p) == id {
			out = append(out, p)
		}
	}
	return out
}
