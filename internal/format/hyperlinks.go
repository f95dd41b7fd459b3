package format

import (
	"context"
	"strings"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Hyperlinks restyles the internal links citeproc wraps around citations
// (anchor "ref-<key>"), and counts citation occurrences per key.
type Hyperlinks struct {
	opts HyperlinkOptions
}

// NewHyperlinks returns the citation link pass.
func NewHyperlinks(o HyperlinkOptions) *Hyperlinks { return &Hyperlinks{opts: o} }

func (*Hyperlinks) Name() string { return PassHyperlinks }

func (h *Hyperlinks) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	linkStyle, ok := doc.Styles.Lookup("Hyperlink")
	if !ok {
		linkStyle = "Hyperlink"
	}

	for _, link := range doc.Body.FindElements(".//w:hyperlink") {
		anchor := link.SelectAttrValue("w:anchor", "")
		key, ok := strings.CutPrefix(anchor, h.opts.AnchorPrefix)
		if !ok || key == "" {
			continue
		}

		for _, run := range link.SelectElements("w:r") {
			rPr := run.SelectElement("w:rPr")
			if rPr != nil {
				if rs := rPr.SelectElement("w:rStyle"); rs != nil && rs.SelectAttrValue("w:val", "") == linkStyle {
					rPr.RemoveChild(rs)
				}
			}
			if h.opts.Mode == LinkSuperscript {
				ooxml.SetAttrs(ooxml.ReplaceChild(ooxml.RunProps(run), "w:vertAlign", ooxml.RPrOrder), "w:val", "superscript")
			}
			if rPr != nil && len(rPr.ChildElements()) == 0 && len(rPr.Attr) == 0 {
				run.RemoveChild(rPr)
			}
		}
		if h.opts.Mode == LinkUnlink {
			unwrap(link)
		}

		r.Cite(key)
		r.Hyperlinks++
	}
	return nil
}

// unwrap replaces el with its children.
func unwrap(el *etree.Element) {
	parent := el.Parent()
	pos := el.Index()
	children := append([]etree.Token(nil), el.Child...)
	parent.RemoveChild(el)
	for i, c := range children {
		el.RemoveChild(c)
		parent.InsertChildAt(pos+i, c)
	}
}
