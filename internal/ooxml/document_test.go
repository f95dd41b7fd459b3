package ooxml_test

// Notes:
// - Fixtures are built in memory with ooxmltest; no .docx files are checked in.
// - Zip write errors in Package.Bytes are not tested: bytes.Buffer never fails.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
	"github.com/alnah/go-md2thesis/internal/ooxml/ooxmltest"
)

// ---------------------------------------------------------------------------
// TestRead - Package validation
// ---------------------------------------------------------------------------

func TestRead_NotAZip(t *testing.T) {
	t.Parallel()

	data := []byte("# just markdown")
	_, err := ooxml.Read(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ooxml.ErrNotPackage) {
		t.Errorf("Read() error = %v, want ErrNotPackage", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := ooxml.Open("/nonexistent/thesis.docx"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRead_RoundTripKeepsParts(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "hello"))
	before := doc.Package.Names()

	again := ooxmltest.Reopen(t, doc)
	after := again.Package.Names()

	if after[0] != ooxml.ContentTypesPart {
		t.Errorf("first part = %q, want %q", after[0], ooxml.ContentTypesPart)
	}
	if len(after) != len(before) {
		t.Errorf("part count changed: %d -> %d", len(before), len(after))
	}
	if got := ooxml.Text(again.BodyParagraphs()[0]); got != "hello" {
		t.Errorf("text = %q, want %q", got, "hello")
	}
}

// ---------------------------------------------------------------------------
// TestSections - Section discovery and text width
// ---------------------------------------------------------------------------

func TestSections(t *testing.T) {
	t.Parallel()

	body := ooxmltest.P("", "cover") +
		`<w:p><w:pPr><w:sectPr><w:type w:val="nextPage"/></w:sectPr></w:pPr></w:p>` +
		ooxmltest.P("", "body")
	doc := ooxmltest.Open(t, body)

	secs := doc.Sections()
	if len(secs) != 2 {
		t.Fatalf("len(Sections()) = %d, want 2", len(secs))
	}
	final, err := doc.FinalSection()
	if err != nil {
		t.Fatalf("FinalSection: %v", err)
	}
	if secs[1] != final {
		t.Error("last section should be the body-final sectPr")
	}

	w, ok := doc.TextWidth()
	if !ok || w != ooxmltest.TextWidth {
		t.Errorf("TextWidth() = %d, %v; want %d, true", w, ok, ooxmltest.TextWidth)
	}
}

func TestFinalSection_Missing(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "x"), ooxmltest.WithoutSectPr())
	if _, err := doc.FinalSection(); !errors.Is(err, ooxml.ErrNoSection) {
		t.Errorf("FinalSection() error = %v, want ErrNoSection", err)
	}
	if _, ok := doc.TextWidth(); ok {
		t.Error("TextWidth() ok = true without sectPr")
	}
}

// ---------------------------------------------------------------------------
// TestSettings - Settings part creation
// ---------------------------------------------------------------------------

func TestSettings_CreatedWhenMissing(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "x"))
	settings, err := doc.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	ooxml.SetAttrs(ooxml.EnsureChild(settings, "w:updateFields", ooxml.SettingsOrder), "w:val", "true")

	again := ooxmltest.Reopen(t, doc)
	if !again.Package.Has("word/settings.xml") {
		t.Fatal("settings part not written")
	}
	got, err := again.Settings()
	if err != nil {
		t.Fatalf("Settings after reopen: %v", err)
	}
	if got.SelectElement("w:updateFields") == nil {
		t.Error("updateFields lost on round trip")
	}

	ct, err := again.Package.XML(ooxml.ContentTypesPart)
	if err != nil {
		t.Fatalf("content types: %v", err)
	}
	if ct.FindElement(`//Override[@PartName='/word/settings.xml']`) == nil {
		t.Error("settings override missing from content types")
	}
}

func TestSettings_Existing(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "x"), ooxmltest.WithSettings(`<w:zoom w:percent="100"/>`))
	settings, err := doc.Settings()
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if settings.SelectElement("w:zoom") == nil {
		t.Error("existing settings part not returned")
	}
}

// ---------------------------------------------------------------------------
// TestAddHeaderFooter - New parts and relationships
// ---------------------------------------------------------------------------

func TestAddHeaderFooter(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "x"), ooxmltest.WithHeader(ooxmltest.P("Header", "old")))

	hdr := ooxml.NewHeaderFooterRoot(ooxml.HeaderPart)
	hdr.AddChild(etree.NewElement("w:p"))
	hid, err := doc.AddHeaderFooter(ooxml.HeaderPart, hdr)
	if err != nil {
		t.Fatalf("AddHeaderFooter(header): %v", err)
	}
	fid, err := doc.AddHeaderFooter(ooxml.FooterPart, ooxml.NewHeaderFooterRoot(ooxml.FooterPart))
	if err != nil {
		t.Fatalf("AddHeaderFooter(footer): %v", err)
	}
	if hid == fid {
		t.Errorf("relationship ids collide: %s", hid)
	}

	again := ooxmltest.Reopen(t, doc)
	for _, name := range []string{"word/header1.xml", "word/header2.xml", "word/footer1.xml"} {
		if !again.Package.Has(name) {
			t.Errorf("missing part %s", name)
		}
	}

	rels, err := again.Package.XML("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("rels: %v", err)
	}
	rel := rels.FindElement(`//Relationship[@Id='` + hid + `']`)
	if rel == nil {
		t.Fatalf("relationship %s missing", hid)
	}
	if got := rel.SelectAttrValue("Target", ""); got != "header2.xml" {
		t.Errorf("Target = %q, want header2.xml", got)
	}
}

func TestPruneHeaderFooters(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "x"), ooxmltest.WithHeader(ooxmltest.P("Header", "old")))
	sec, err := doc.FinalSection()
	if err != nil {
		t.Fatalf("FinalSection: %v", err)
	}

	// Still referenced: nothing to drop.
	if n, err := doc.PruneHeaderFooters(); err != nil || n != 0 {
		t.Fatalf("PruneHeaderFooters() = %d, %v, want 0, nil", n, err)
	}

	id, err := doc.AddHeaderFooter(ooxml.HeaderPart, ooxml.NewHeaderFooterRoot(ooxml.HeaderPart))
	if err != nil {
		t.Fatalf("AddHeaderFooter: %v", err)
	}
	ooxml.RemoveChildren(sec, "w:headerReference")
	ref := etree.NewElement("w:headerReference")
	ooxml.SetAttrs(ref, "w:type", "default", "r:id", id)
	ooxml.InsertOrdered(sec, ref, ooxml.SectPrOrder)

	n, err := doc.PruneHeaderFooters()
	if err != nil {
		t.Fatalf("PruneHeaderFooters() error = %v", err)
	}
	if n != 1 {
		t.Errorf("PruneHeaderFooters() = %d, want 1", n)
	}

	again := ooxmltest.Reopen(t, doc)
	if again.Package.Has("word/header1.xml") {
		t.Error("word/header1.xml still in package")
	}
	if !again.Package.Has("word/header2.xml") {
		t.Error("word/header2.xml missing")
	}
	ct, err := again.Package.XML(ooxml.ContentTypesPart)
	if err != nil {
		t.Fatalf("content types: %v", err)
	}
	if ct.FindElement(`//Override[@PartName='/word/header1.xml']`) != nil {
		t.Error("content type override for header1.xml survived")
	}
	rels, err := again.Package.XML("word/_rels/document.xml.rels")
	if err != nil {
		t.Fatalf("rels: %v", err)
	}
	if rels.FindElement(`//Relationship[@Target='header1.xml']`) != nil {
		t.Error("relationship to header1.xml survived")
	}
}

// ---------------------------------------------------------------------------
// TestStyles - Name and id lookups
// ---------------------------------------------------------------------------

func TestStyles_Lookup(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, "", ooxmltest.WithStyles("Section Break"))

	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{name: "built-in lower case name", input: "Heading 1", wantID: "Heading1", wantOK: true},
		{name: "custom name", input: "section break", wantID: "SectionBreak", wantOK: true},
		{name: "by id", input: "Heading2", wantID: "Heading2", wantOK: true},
		{name: "missing", input: "Abstract"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, ok := doc.Styles.Lookup(tt.input)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestStyles_RequireHint(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, "", ooxmltest.WithStyles("TOC Heading"))

	_, err := doc.Styles.Require("TOC Headng")
	if !errors.Is(err, ooxml.ErrStyleNotFound) {
		t.Fatalf("Require() error = %v, want ErrStyleNotFound", err)
	}
	if !strings.Contains(err.Error(), `"TOC Heading"`) {
		t.Errorf("error lacks suggestion: %v", err)
	}
}

func TestStyles_EnsureParagraphStyle(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, "", ooxmltest.WithStyle("KeyWords", "Something Else"))

	id, created := doc.Styles.EnsureParagraphStyle("Key Words", "Normal")
	if !created {
		t.Fatal("expected the style to be created")
	}
	if id != "KeyWords1" {
		t.Errorf("id = %q, want KeyWords1 (KeyWords is taken)", id)
	}

	again := ooxmltest.Reopen(t, doc)
	gotID, ok := again.Styles.Lookup("Key Words")
	if !ok || gotID != "KeyWords1" {
		t.Fatalf("Lookup after reopen = %q, %v", gotID, ok)
	}
	st := again.Styles.Style(gotID)
	if st.SelectElement("w:basedOn").SelectAttrValue("w:val", "") != "Normal" {
		t.Error("style not based on Normal")
	}

	if _, created := again.Styles.EnsureParagraphStyle("key words", "Normal"); created {
		t.Error("second call must not create a duplicate")
	}
}

func TestStyles_MissingPartCreated(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.P("", "x"), ooxmltest.WithoutStyles())
	if len(doc.Styles.Names()) != 0 {
		t.Errorf("Names() = %v, want none", doc.Styles.Names())
	}
	doc.Styles.EnsureParagraphStyle("Bibliography", "Normal")

	again := ooxmltest.Reopen(t, doc)
	if _, ok := again.Styles.Lookup("Bibliography"); !ok {
		t.Error("style written to a new styles part was lost")
	}
}

// ---------------------------------------------------------------------------
// TestText - Visible text extraction
// ---------------------------------------------------------------------------

func TestText(t *testing.T) {
	t.Parallel()

	body := `<w:p><w:pPr><w:tabs><w:tab w:val="center" w:pos="100"/></w:tabs></w:pPr>` +
		`<w:r><w:t>图</w:t></w:r><w:r><w:tab/><w:t>1.2</w:t></w:r>` +
		`<w:hyperlink w:anchor="ref-a"><w:r><w:t>[1]</w:t></w:r></w:hyperlink>` +
		`<w:r><w:instrText> PAGE </w:instrText></w:r>` +
		`<m:oMath><m:r><m:t>x</m:t></m:r></m:oMath></w:p>`
	doc := ooxmltest.Open(t, body)

	if got, want := ooxml.Text(doc.BodyParagraphs()[0]), "图\t1.2[1]"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestFieldRuns(t *testing.T) {
	t.Parallel()

	runs := ooxml.FieldRuns(`TOC \o "1-3"`, "Update field")
	if len(runs) != 5 {
		t.Fatalf("len(runs) = %d, want 5", len(runs))
	}
	types := []string{"begin", "", "separate", "", "end"}
	for i, want := range types {
		if want == "" {
			continue
		}
		fc := runs[i].SelectElement("w:fldChar")
		if fc == nil || fc.SelectAttrValue("w:fldCharType", "") != want {
			t.Errorf("run %d: want fldChar %s", i, want)
		}
	}
	if got := runs[1].SelectElement("w:instrText").Text(); got != ` TOC \o "1-3" ` {
		t.Errorf("instrText = %q", got)
	}
	if got := ooxml.FieldRuns("PAGE", ""); len(got) != 4 {
		t.Errorf("without placeholder: len = %d, want 4", len(got))
	}
}

// ---------------------------------------------------------------------------
// TestInsertOrdered - Schema positions
// ---------------------------------------------------------------------------

func TestInsertOrdered(t *testing.T) {
	t.Parallel()

	pPr := etree.NewElement("w:pPr")
	pPr.CreateElement("w:pStyle")
	pPr.CreateElement("w:jc")
	pPr.CreateElement("w:rPr")

	ooxml.EnsureChild(pPr, "w:spacing", ooxml.PPrOrder)
	ooxml.EnsureChild(pPr, "w:pageBreakBefore", ooxml.PPrOrder)
	ooxml.EnsureChild(pPr, "w:spacing", ooxml.PPrOrder)

	var got []string
	for _, c := range pPr.ChildElements() {
		got = append(got, c.Tag)
	}
	want := []string{"pStyle", "pageBreakBefore", "spacing", "jc", "rPr"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}

	ooxml.ReplaceChild(pPr, "w:jc", ooxml.PPrOrder)
	if n := len(pPr.SelectElements("w:jc")); n != 1 {
		t.Errorf("ReplaceChild left %d jc elements", n)
	}
}
