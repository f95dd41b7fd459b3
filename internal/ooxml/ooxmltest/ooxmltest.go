// Package ooxmltest builds small in-memory .docx packages for tests.
//
// A fixture is a body fragment plus a style list; everything else a Word
// package needs (content types, relationships, final sectPr) is filled in
// with pandoc-like defaults.
package ooxmltest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
	"testing"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// A4 page with 1800 twip side margins, as in pandoc's Chinese reference
// documents. Text width is 8306 twips.
const FinalSectPr = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
	`<w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800" w:header="851" w:footer="992" w:gutter="0"/>` +
	`<w:cols w:space="425"/><w:docGrid w:type="lines" w:linePitch="312"/></w:sectPr>`

// TextWidth is the usable width of FinalSectPr.
const TextWidth = 11906 - 1800 - 1800

// Style is a style definition for a fixture.
type Style struct {
	ID   string
	Name string
	Type string // paragraph when empty
}

// DefaultStyles mirrors the styles pandoc writes into every document.
var DefaultStyles = []Style{
	{ID: "Normal", Name: "Normal"},
	{ID: "Heading1", Name: "heading 1"},
	{ID: "Heading2", Name: "heading 2"},
	{ID: "Header", Name: "header"},
	{ID: "Footer", Name: "footer"},
	{ID: "Hyperlink", Name: "Hyperlink", Type: "character"},
}

// Fixture describes a package to build.
type Fixture struct {
	Body        string // inner XML of w:body, without the final sectPr
	Styles      []Style
	NoSectPr    bool
	NoStyles    bool
	Settings    string // inner XML of w:settings; part omitted when empty
	ExtraHeader string // existing header1.xml body, referenced from the final sectPr
}

// Option customizes a Fixture.
type Option func(*Fixture)

// WithStyles adds paragraph styles whose id is the name without spaces.
func WithStyles(names ...string) Option {
	return func(f *Fixture) {
		for _, n := range names {
			f.Styles = append(f.Styles, Style{ID: strings.ReplaceAll(n, " ", ""), Name: n})
		}
	}
}

// WithStyle adds a style with an explicit id.
func WithStyle(id, name string) Option {
	return func(f *Fixture) { f.Styles = append(f.Styles, Style{ID: id, Name: name}) }
}

// WithoutSectPr omits the body-final sectPr.
func WithoutSectPr() Option { return func(f *Fixture) { f.NoSectPr = true } }

// WithoutStyles omits the styles part and its relationship.
func WithoutStyles() Option { return func(f *Fixture) { f.NoStyles = true } }

// WithSettings includes a settings part with the given children.
func WithSettings(inner string) Option { return func(f *Fixture) { f.Settings = inner } }

// WithHeader includes an existing default header referenced by the final
// sectPr, as left behind by a reference document.
func WithHeader(inner string) Option { return func(f *Fixture) { f.ExtraHeader = inner } }

const (
	nsDecl = `xmlns:w="` + ooxml.NSMain + `" xmlns:r="` + ooxml.NSRelationships + `" xmlns:m="` + ooxml.NSMath + `"`
	xmlHdr = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Build returns the bytes of a .docx for body.
func Build(t testing.TB, body string, opts ...Option) []byte {
	t.Helper()

	f := &Fixture{Body: body, Styles: append([]Style(nil), DefaultStyles...)}
	for _, o := range opts {
		o(f)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	var ct, rels strings.Builder
	ct.WriteString(xmlHdr + `<Types xmlns="` + ooxml.NSContentTypes + `">`)
	ct.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	ct.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	ct.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)

	rels.WriteString(xmlHdr + `<Relationships xmlns="` + ooxml.NSPackageRels + `">`)
	nextID := 1
	addRel := func(relType, target string) string {
		id := fmt.Sprintf("rId%d", nextID)
		nextID++
		fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relType, target)
		return id
	}

	if !f.NoStyles {
		fmt.Fprintf(&ct, `<Override PartName="/word/styles.xml" ContentType="%s"/>`, ooxml.CTStyles)
		addRel(ooxml.RelStyles, "styles.xml")
		write("word/styles.xml", stylesXML(f.Styles))
	}
	if f.Settings != "" {
		fmt.Fprintf(&ct, `<Override PartName="/word/settings.xml" ContentType="%s"/>`, ooxml.CTSettings)
		addRel(ooxml.RelSettings, "settings.xml")
		write("word/settings.xml", xmlHdr+`<w:settings `+nsDecl+`>`+f.Settings+`</w:settings>`)
	}

	sectPr := FinalSectPr
	if f.ExtraHeader != "" {
		fmt.Fprintf(&ct, `<Override PartName="/word/header1.xml" ContentType="%s"/>`, ooxml.CTHeader)
		id := addRel(ooxml.RelHeader, "header1.xml")
		write("word/header1.xml", xmlHdr+`<w:hdr `+nsDecl+`>`+f.ExtraHeader+`</w:hdr>`)
		sectPr = strings.Replace(sectPr, "<w:sectPr>",
			`<w:sectPr><w:headerReference w:type="default" r:id="`+id+`"/>`, 1)
	}
	if f.NoSectPr {
		sectPr = ""
	}

	ct.WriteString(`</Types>`)
	rels.WriteString(`</Relationships>`)

	write(ooxml.ContentTypesPart, ct.String())
	write(ooxml.RootRelsPart, xmlHdr+`<Relationships xmlns="`+ooxml.NSPackageRels+`">`+
		`<Relationship Id="rId1" Type="`+ooxml.RelOfficeDocument+`" Target="word/document.xml"/></Relationships>`)
	write("word/_rels/document.xml.rels", rels.String())
	write("word/document.xml", xmlHdr+`<w:document `+nsDecl+`><w:body>`+f.Body+sectPr+`</w:body></w:document>`)

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// Open builds a fixture and loads it as a Document.
func Open(t testing.TB, body string, opts ...Option) *ooxml.Document {
	t.Helper()

	data := Build(t, body, opts...)
	doc, err := ooxml.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("ooxml.Read: %v", err)
	}
	return doc
}

// Reopen serializes doc and reads it back, so assertions see exactly what
// would be written to disk.
func Reopen(t testing.TB, doc *ooxml.Document) *ooxml.Document {
	t.Helper()

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	out, err := ooxml.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("re-reading document: %v", err)
	}
	return out
}

func stylesXML(styles []Style) string {
	var b strings.Builder
	b.WriteString(xmlHdr + `<w:styles ` + nsDecl + `>`)
	for _, s := range styles {
		typ := s.Type
		if typ == "" {
			typ = "paragraph"
		}
		fmt.Fprintf(&b, `<w:style w:type="%s" w:styleId="%s"><w:name w:val="%s"/>`, typ, s.ID, html.EscapeString(s.Name))
		if s.ID != "Normal" && typ == "paragraph" {
			b.WriteString(`<w:basedOn w:val="Normal"/>`)
		}
		b.WriteString(`</w:style>`)
	}
	b.WriteString(`</w:styles>`)
	return b.String()
}

// P returns a paragraph with the given style id (none when empty) holding
// one run per text argument.
func P(styleID string, texts ...string) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if styleID != "" {
		fmt.Fprintf(&b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, styleID)
	}
	for _, t := range texts {
		b.WriteString(R(t))
	}
	b.WriteString("</w:p>")
	return b.String()
}

// R returns a run holding text.
func R(text string) string {
	return `<w:r><w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t></w:r>`
}

// Table returns a rows x cols table whose cells hold "rXcY" text.
func Table(rows, cols int) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="Table"/><w:tblW w:w="5000" w:type="pct"/><w:tblLook w:firstRow="1"/></w:tblPr><w:tblGrid>`)
	for c := 0; c < cols; c++ {
		b.WriteString(`<w:gridCol w:w="1000"/>`)
	}
	b.WriteString(`</w:tblGrid>`)
	for r := 0; r < rows; r++ {
		b.WriteString("<w:tr>")
		for c := 0; c < cols; c++ {
			fmt.Fprintf(&b, `<w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr>%s</w:tc>`, P("Compact", fmt.Sprintf("r%dc%d", r, c)))
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
	return b.String()
}
