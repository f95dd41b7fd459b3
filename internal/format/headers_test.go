package format_test

import (
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/ooxml"
	"github.com/alnah/go-md2thesis/internal/ooxml/ooxmltest"
)

// refPart resolves the part referenced by a header or footer reference.
func refPart(t *testing.T, doc *ooxml.Document, ref *etree.Element) *etree.Element {
	t.Helper()

	if ref == nil {
		t.Fatal("missing reference")
	}
	id := ref.SelectAttrValue("r:id", "")
	rels, err := doc.Package.XML("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("rels: %v", err)
	}
	rel := rels.FindElement(`//Relationship[@Id='` + id + `']`)
	if rel == nil {
		t.Fatalf("relationship %s not found", id)
	}
	part, err := doc.Package.XML("word/" + rel.SelectAttrValue("Target", ""))
	if err != nil {
		t.Fatalf("part for %s: %v", id, err)
	}
	return part.Root()
}

func instr(root *etree.Element) string {
	var out []string
	for _, it := range root.FindElements(".//w:instrText") {
		out = append(out, strings.TrimSpace(it.Text()))
	}
	return strings.Join(out, "|")
}

// ---------------------------------------------------------------------------
// TestHeaders - Fresh header and footer parts per section
// ---------------------------------------------------------------------------

func TestHeaders(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, threeSections, ooxmltest.WithHeader(ooxmltest.P("Header", "reference header")))
	opts := format.Defaults().Headers
	opts.Border = true
	opts.FooterDistance = 850

	r := apply(t, format.NewHeaders(opts, threeSpecs, "面向优秀论文标准的研究"), doc)
	if r.Headers != 3 {
		t.Errorf("Headers = %d, want 3", r.Headers)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}

	doc = ooxmltest.Reopen(t, doc)
	secs := doc.Sections()

	for i, sec := range secs {
		if n := len(sec.SelectElements("w:headerReference")); n != 1 {
			t.Errorf("section %d: %d header references, want 1", i, n)
		}
		if n := len(sec.SelectElements("w:footerReference")); n != 1 {
			t.Errorf("section %d: %d footer references, want 1", i, n)
		}
		if got := attr(sec, "w:pgMar", "w:header"); got != "1134" {
			t.Errorf("section %d: header distance = %s, want 1134", i, got)
		}
		if got := attr(sec, "w:pgMar", "w:footer"); got != "850" {
			t.Errorf("section %d: footer distance = %s, want 850", i, got)
		}
		if got := tags(sec); !strings.HasPrefix(got, "headerReference,footerReference,") {
			t.Errorf("section %d: references must lead sectPr, got %s", i, got)
		}
	}

	coverHdr := refPart(t, doc, secs[0].SelectElement("w:headerReference"))
	if got := ooxml.Text(coverHdr); got != "" {
		t.Errorf("cover header text = %q, want empty", got)
	}
	if coverHdr.FindElement(".//w:pBdr") != nil {
		t.Error("empty header must not draw a border")
	}
	if got := instr(refPart(t, doc, secs[0].SelectElement("w:footerReference"))); got != "" {
		t.Errorf("cover footer fields = %q, want none", got)
	}

	frontHdr := refPart(t, doc, secs[1].SelectElement("w:headerReference"))
	if got := ooxml.Text(frontHdr.SelectElement("w:p")); got != "面向优秀论文标准的研究" {
		t.Errorf("front header text = %q", got)
	}
	if got := attr(frontHdr, "w:p/w:pPr/w:pStyle", "w:val"); got != "Header" {
		t.Errorf("header style = %s, want Header", got)
	}
	if frontHdr.FindElement("w:p/w:pPr/w:pBdr/w:bottom") == nil {
		t.Error("front header border missing")
	}
	frontFtr := refPart(t, doc, secs[1].SelectElement("w:footerReference"))
	if got := instr(frontFtr); got != `PAGE \* MERGEFORMAT` {
		t.Errorf("front footer field = %q", got)
	}
	if got := attr(frontFtr, "w:p/w:pPr/w:jc", "w:val"); got != "center" {
		t.Errorf("footer alignment = %s, want center", got)
	}

	bodyHdr := refPart(t, doc, secs[2].SelectElement("w:headerReference"))
	if got := instr(bodyHdr); got != `STYLEREF "Heading 1"` {
		t.Errorf("body header field = %q", got)
	}
	if got := ooxml.Text(refPart(t, doc, secs[2].SelectElement("w:headerReference")).SelectElement("w:p")); got != "面向优秀论文标准的研究" {
		t.Errorf("body header text = %q", got)
	}
	if strings.Contains(ooxml.Text(bodyHdr), "reference header") {
		t.Error("final section still shows the reference document header")
	}

	ct, err := doc.Package.XML(ooxml.ContentTypesPart)
	if err != nil {
		t.Fatalf("content types: %v", err)
	}
	if n := len(ct.FindElements(`//Override[@ContentType='` + ooxml.CTHeader + `']`)); n != 3 {
		t.Errorf("header overrides = %d, want 3 (one per section)", n)
	}
	if doc.Package.Has("word/header1.xml") {
		t.Error("replaced reference header part still in the package")
	}
	rels, err := doc.Package.XML("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("rels: %v", err)
	}
	if rels.FindElement(`//Relationship[@Target='header1.xml']`) != nil {
		t.Error("relationship to the replaced header part survived")
	}
}

func TestHeaders_EvenPages(t *testing.T) {
	t.Parallel()

	specs := append([]format.SectionSpec(nil), threeSpecs...)
	specs[2].EvenHeader = "华中科技大学硕士学位论文"

	doc := ooxmltest.Open(t, threeSections)
	apply(t, format.NewHeaders(format.Defaults().Headers, specs, "Title"), doc)
	doc = ooxmltest.Reopen(t, doc)

	for i, sec := range doc.Sections() {
		if sec.FindElement(`w:headerReference[@w:type='even']`) == nil {
			t.Errorf("section %d: even header missing", i)
		}
		if sec.FindElement(`w:footerReference[@w:type='even']`) == nil {
			t.Errorf("section %d: even footer missing", i)
		}
	}

	body := doc.Sections()[2]
	even := refPart(t, doc, body.FindElement(`w:headerReference[@w:type='even']`))
	if got := ooxml.Text(even.SelectElement("w:p")); got != "华中科技大学硕士学位论文" {
		t.Errorf("even header text = %q", got)
	}
	front := doc.Sections()[1]
	frontEven := refPart(t, doc, front.FindElement(`w:headerReference[@w:type='even']`))
	if got := ooxml.Text(frontEven.SelectElement("w:p")); got != "Title" {
		t.Errorf("front even header text = %q, want the odd header text", got)
	}

	settings, err := doc.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if settings.SelectElement("w:evenAndOddHeaders") == nil {
		t.Error("evenAndOddHeaders not enabled")
	}
}

func TestHeaders_MissingStylesWarn(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "x"))
	opts := format.Defaults().Headers
	opts.Style = "Page Header"
	r := apply(t, format.NewHeaders(opts, []format.SectionSpec{{Format: format.PageNumberDecimal, Header: "x"}}, ""), doc)

	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], "Page Header") {
		t.Errorf("Warnings = %v, want one about Page Header", r.Warnings)
	}
}
