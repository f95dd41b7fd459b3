package ooxml

import (
	"strings"

	"github.com/beevik/etree"
)

// StyleID returns the paragraph style id of p, or "".
func StyleID(p *etree.Element) string {
	pPr := p.SelectElement("w:pPr")
	if pPr == nil {
		return ""
	}
	if ps := pPr.SelectElement("w:pStyle"); ps != nil {
		return ps.SelectAttrValue("w:val", "")
	}
	return ""
}

// ParagraphProps returns the pPr of p, creating it when missing.
func ParagraphProps(p *etree.Element) *etree.Element {
	return EnsureFirst(p, "w:pPr")
}

// RunProps returns the rPr of r, creating it when missing.
func RunProps(r *etree.Element) *etree.Element {
	return EnsureFirst(r, "w:rPr")
}

// Text returns the visible text of an element the way Word shows it:
// w:t content, tabs as "\t" and breaks as "\n". Math text is not included.
func Text(el *etree.Element) string {
	var b strings.Builder
	writeText(&b, el)
	return b.String()
}

func writeText(b *strings.Builder, el *etree.Element) {
	for _, c := range el.ChildElements() {
		if c.Space != "w" {
			continue
		}
		switch c.Tag {
		case "t":
			b.WriteString(c.Text())
		case "tab":
			if c.Parent() != nil && c.Parent().Tag == "r" {
				b.WriteByte('\t')
			}
		case "br", "cr":
			b.WriteByte('\n')
		case "pPr", "rPr", "instrText", "delText":
		default:
			writeText(b, c)
		}
	}
}

// TextNodes returns the w:t elements under el in document order.
func TextNodes(el *etree.Element) []*etree.Element {
	return el.FindElements(".//w:t")
}

// SetText replaces the text of a w:t element and keeps leading or trailing
// whitespace significant.
func SetText(t *etree.Element, s string) {
	t.SetText(s)
	if s != strings.TrimSpace(s) {
		t.CreateAttr("xml:space", "preserve")
	}
}

// ClearContent removes everything from p except its properties.
func ClearContent(p *etree.Element) {
	for _, tok := range append([]etree.Token(nil), p.Child...) {
		if c, ok := tok.(*etree.Element); ok && c.Space == "w" && c.Tag == "pPr" {
			continue
		}
		p.RemoveChild(tok)
	}
}

// NewRun creates a run holding text.
func NewRun(text string) *etree.Element {
	r := etree.NewElement("w:r")
	if text != "" {
		SetText(r.CreateElement("w:t"), text)
	}
	return r
}

// AddRun appends a text run to p and returns it.
func AddRun(p *etree.Element, text string) *etree.Element {
	r := NewRun(text)
	p.AddChild(r)
	return r
}

// NewTabRun creates a run holding a single tab character.
func NewTabRun() *etree.Element {
	r := etree.NewElement("w:r")
	r.CreateElement("w:tab")
	return r
}

// FieldRuns builds the runs of a complex field: begin, instruction,
// separate, placeholder result, end. The field is marked dirty so Word
// recalculates it on open.
func FieldRuns(instr, placeholder string) []*etree.Element {
	begin := etree.NewElement("w:r")
	SetAttrs(begin.CreateElement("w:fldChar"), "w:fldCharType", "begin", "w:dirty", "true")

	code := etree.NewElement("w:r")
	it := code.CreateElement("w:instrText")
	it.CreateAttr("xml:space", "preserve")
	it.SetText(" " + strings.TrimSpace(instr) + " ")

	sep := etree.NewElement("w:r")
	SetAttrs(sep.CreateElement("w:fldChar"), "w:fldCharType", "separate")

	end := etree.NewElement("w:r")
	SetAttrs(end.CreateElement("w:fldChar"), "w:fldCharType", "end")

	runs := []*etree.Element{begin, code, sep}
	if placeholder != "" {
		runs = append(runs, NewRun(placeholder))
	}
	return append(runs, end)
}

// InsertAfter inserts el as the next sibling of ref.
func InsertAfter(ref, el *etree.Element) {
	parent := ref.Parent()
	parent.InsertChildAt(ref.Index()+1, el)
}
