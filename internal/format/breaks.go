package format

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/hints"
	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// PageBreaks starts paragraphs of the configured styles on a new page.
type PageBreaks struct {
	opts        PageBreakOptions
	markerStyle string
}

// NewPageBreaks returns the page break pass. markerStyle is the section
// break marker: a paragraph right after one already starts a new page.
func NewPageBreaks(o PageBreakOptions, markerStyle string) *PageBreaks {
	return &PageBreaks{opts: o, markerStyle: markerStyle}
}

func (*PageBreaks) Name() string { return PassPageBreaks }

func (pb *PageBreaks) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	targets := make(map[string]bool, len(pb.opts.Styles))
	for _, name := range pb.opts.Styles {
		id, err := doc.Styles.Require(name)
		if err != nil {
			return err
		}
		targets[id] = true
	}
	markerID, _ := doc.Styles.Lookup(pb.markerStyle)

	afterBreak := true // the first paragraph never needs one
	for _, p := range doc.BodyParagraphs() {
		style := ooxml.StyleID(p)
		if targets[style] && !afterBreak {
			ooxml.EnsureChild(ooxml.ParagraphProps(p), "w:pageBreakBefore", ooxml.PPrOrder).RemoveAttr("w:val")
			r.PageBreaks++
		}
		afterBreak = (markerID != "" && style == markerID) || hasSectPr(p)
	}
	return nil
}

// SectionBreaks turns every marker paragraph into an empty paragraph that
// closes a section and starts the next one on a new page.
type SectionBreaks struct {
	opts SectionBreakOptions
}

// NewSectionBreaks returns the section break pass.
func NewSectionBreaks(o SectionBreakOptions) *SectionBreaks { return &SectionBreaks{opts: o} }

func (*SectionBreaks) Name() string { return PassSectionBreaks }

func (sb *SectionBreaks) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	id, err := doc.Styles.Require(sb.opts.Style)
	if err != nil {
		return err
	}
	markers := paragraphsWithStyle(doc, id)
	if sb.opts.Expected > 0 && len(markers) != sb.opts.Expected {
		return fmt.Errorf("%w: found %d %q paragraphs, want %d%s",
			ErrSectionCount, len(markers), sb.opts.Style, sb.opts.Expected,
			hints.ForSectionCount(len(markers), sb.opts.Expected))
	}

	final, err := doc.FinalSection()
	if err != nil {
		return err
	}
	for _, p := range markers {
		ooxml.ClearContent(p)
		pPr := ooxml.ParagraphProps(p)
		ooxml.RemoveChildren(pPr, "w:sectPr")
		ooxml.InsertOrdered(pPr, breakSection(final), ooxml.PPrOrder)
		r.SectionBreaks++
	}
	return nil
}

// breakSection copies the page setup of final without its header and
// footer references, as a next-page section break.
func breakSection(final *etree.Element) *etree.Element {
	s := final.Copy()
	ooxml.RemoveChildren(s, "w:headerReference")
	ooxml.RemoveChildren(s, "w:footerReference")
	ooxml.RemoveChildren(s, "w:titlePg")
	ooxml.SetAttrs(ooxml.ReplaceChild(s, "w:type", ooxml.SectPrOrder), "w:val", "nextPage")
	return s
}

func hasSectPr(p *etree.Element) bool {
	pPr := p.SelectElement("w:pPr")
	return pPr != nil && pPr.SelectElement("w:sectPr") != nil
}
