package format

import (
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// TOC inserts a table of contents field after the single marker paragraph.
type TOC struct {
	opts TOCOptions
}

// NewTOC returns the table of contents pass.
func NewTOC(o TOCOptions) *TOC { return &TOC{opts: o} }

func (*TOC) Name() string { return PassTOC }

func (t *TOC) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	id, err := doc.Styles.Require(t.opts.Style)
	if err != nil {
		return err
	}
	markers := paragraphsWithStyle(doc, id)
	if len(markers) != 1 {
		return fmt.Errorf("%w: found %d %q paragraphs, want exactly one", ErrMarkerNotFound, len(markers), t.opts.Style)
	}

	p := etree.NewElement("w:p")
	for _, run := range ooxml.FieldRuns(t.Instruction(), t.opts.Placeholder) {
		p.AddChild(run)
	}
	ooxml.InsertAfter(markers[0], p)
	r.TOC++
	return nil
}

// Instruction returns the TOC field code: outline levels 1-N, hyperlinked
// entries, no page numbers in web view, outline levels of paragraphs.
func (t *TOC) Instruction() string {
	return fmt.Sprintf(`TOC \o "1-%d" \h \z \u`, t.opts.Levels)
}

// Fields asks Word to recalculate every field when the document opens.
type Fields struct{}

// NewFields returns the field update pass.
func NewFields() *Fields { return &Fields{} }

func (*Fields) Name() string { return PassFields }

func (*Fields) Apply(_ context.Context, doc *ooxml.Document, _ *Report) error {
	settings, err := doc.Settings()
	if err != nil {
		return err
	}
	ooxml.SetAttrs(ooxml.EnsureChild(settings, "w:updateFields", ooxml.SettingsOrder), "w:val", "true")
	return nil
}
