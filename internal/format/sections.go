package format

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Sections assigns a page number format and start value to each section.
type Sections struct {
	specs []SectionSpec
}

// NewSections returns the page numbering pass.
func NewSections(specs []SectionSpec) *Sections { return &Sections{specs: specs} }

func (*Sections) Name() string { return PassSections }

func (s *Sections) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	secs, err := matchSections(doc, s.specs)
	if err != nil {
		return err
	}
	for i, sec := range secs {
		setPageNumbering(sec, s.specs[i])
		r.Sections++
	}
	return nil
}

// matchSections returns the document sections, checking there is exactly
// one per spec.
func matchSections(doc *ooxml.Document, specs []SectionSpec) ([]*etree.Element, error) {
	if _, err := doc.FinalSection(); err != nil {
		return nil, err
	}
	secs := doc.Sections()
	if len(secs) != len(specs) {
		return nil, fmt.Errorf("%w: document has %d sections, want %d", ErrSectionCount, len(secs), len(specs))
	}
	return secs, nil
}

func setPageNumbering(sec *etree.Element, spec SectionSpec) {
	ooxml.RemoveChildren(sec, "w:pgNumType")
	if spec.Format == PageNumberNone {
		return
	}
	pg := etree.NewElement("w:pgNumType")
	pg.CreateAttr("w:fmt", spec.Format)
	if spec.Start > 0 {
		pg.CreateAttr("w:start", strconv.Itoa(spec.Start))
	}
	ooxml.InsertOrdered(sec, pg, ooxml.SectPrOrder)
}
