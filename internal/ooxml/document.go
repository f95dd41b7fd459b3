package ooxml

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// Document is the main document part of a package plus the parts the
// formatting passes touch.
type Document struct {
	Package *Package
	Body    *etree.Element
	Styles  *Styles

	part string
	root *etree.Element
	rels *Relationships
}

// Open loads a document from a .docx file.
func Open(path string) (*Document, error) {
	pkg, err := OpenPackage(path)
	if err != nil {
		return nil, err
	}
	return FromPackage(pkg)
}

// Read loads a document from an in-memory .docx.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	pkg, err := ReadPackage(r, size)
	if err != nil {
		return nil, err
	}
	return FromPackage(pkg)
}

// FromPackage resolves the main document part of pkg.
func FromPackage(pkg *Package) (*Document, error) {
	name, err := pkg.mainPart()
	if err != nil {
		return nil, err
	}
	doc, err := pkg.XML(name)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	if root.Tag != "document" {
		return nil, fmt.Errorf("%w: %s root is <%s>", ErrInvalidElement, name, root.FullTag())
	}
	body := root.SelectElement("w:body")
	if body == nil {
		return nil, fmt.Errorf("%w: %s has no body", ErrInvalidElement, name)
	}

	rels, err := pkg.relationships(name)
	if err != nil {
		return nil, err
	}

	d := &Document{Package: pkg, Body: body, part: name, root: root, rels: rels}
	if d.Styles, err = d.loadStyles(); err != nil {
		return nil, err
	}
	return d, nil
}

// Part returns the name of the main document part.
func (d *Document) Part() string { return d.part }

// BodyParagraphs returns the paragraphs that are direct children of the
// body, in document order.
func (d *Document) BodyParagraphs() []*etree.Element {
	return d.Body.SelectElements("w:p")
}

// Paragraphs returns every paragraph in the body, including those nested in
// tables and content controls.
func (d *Document) Paragraphs() []*etree.Element {
	return d.Body.FindElements(".//w:p")
}

// Tables returns body-level tables.
func (d *Document) Tables() []*etree.Element {
	return d.Body.SelectElements("w:tbl")
}

// Sections returns section property elements in document order: those
// closing a paragraph, then the body-final one.
func (d *Document) Sections() []*etree.Element {
	var out []*etree.Element
	for _, p := range d.BodyParagraphs() {
		if pPr := p.SelectElement("w:pPr"); pPr != nil {
			if s := pPr.SelectElement("w:sectPr"); s != nil {
				out = append(out, s)
			}
		}
	}
	if s := d.Body.SelectElement("w:sectPr"); s != nil {
		out = append(out, s)
	}
	return out
}

// FinalSection returns the body-level section properties.
func (d *Document) FinalSection() (*etree.Element, error) {
	s := d.Body.SelectElement("w:sectPr")
	if s == nil {
		return nil, ErrNoSection
	}
	return s, nil
}

// TextWidth returns the usable width in twips of the final section
// (page width minus left and right margins).
func (d *Document) TextWidth() (int, bool) {
	s, err := d.FinalSection()
	if err != nil {
		return 0, false
	}
	pgSz := s.SelectElement("w:pgSz")
	pgMar := s.SelectElement("w:pgMar")
	if pgSz == nil || pgMar == nil {
		return 0, false
	}
	w, err1 := strconv.Atoi(pgSz.SelectAttrValue("w:w", ""))
	left, err2 := strconv.Atoi(pgMar.SelectAttrValue("w:left", ""))
	right, err3 := strconv.Atoi(pgMar.SelectAttrValue("w:right", ""))
	if err1 != nil || err2 != nil || err3 != nil || w-left-right <= 0 {
		return 0, false
	}
	return w - left - right, true
}

// Settings returns the root of the settings part, creating the part when
// the package has none.
func (d *Document) Settings() (*etree.Element, error) {
	if name, ok := d.rels.Target(RelSettings); ok && d.Package.Has(name) {
		doc, err := d.Package.XML(name)
		if err != nil {
			return nil, err
		}
		return doc.Root(), nil
	}

	doc := newPartDocument("w:settings")
	name := "word/settings.xml"
	if d.Package.Has(name) {
		name = d.Package.NextPartName("word", "settings", ".xml")
	}
	if _, err := d.addPart(name, doc, RelSettings, CTSettings); err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// PartKind selects header or footer parts.
type PartKind int

const (
	HeaderPart PartKind = iota
	FooterPart
)

// AddHeaderFooter stores root as a new header or footer part and returns
// the relationship id to reference from a sectPr.
func (d *Document) AddHeaderFooter(kind PartKind, root *etree.Element) (string, error) {
	prefix, relType, ct := "header", RelHeader, CTHeader
	if kind == FooterPart {
		prefix, relType, ct = "footer", RelFooter, CTFooter
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	doc.SetRoot(root)

	name := d.Package.NextPartName("word", prefix, ".xml")
	id, err := d.addPart(name, doc, relType, ct)
	if err != nil {
		return "", err
	}
	d.EnsureNamespace("r", NSRelationships)
	return id, nil
}

// PruneHeaderFooters removes header and footer parts no section refers
// to any more and returns how many were dropped.
func (d *Document) PruneHeaderFooters() (int, error) {
	used := make(map[string]bool)
	for _, tag := range []string{"w:headerReference", "w:footerReference"} {
		for _, ref := range d.root.FindElements(".//" + tag) {
			used[ref.SelectAttrValue("r:id", "")] = true
		}
	}

	var stale []string
	targets := make(map[string]int)
	for _, rel := range d.rels.root.SelectElements("Relationship") {
		typ := rel.SelectAttrValue("Type", "")
		if (typ != RelHeader && typ != RelFooter) || rel.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		target := resolveTarget(d.part, rel.SelectAttrValue("Target", ""))
		if used[rel.SelectAttrValue("Id", "")] {
			targets[target]++
			continue
		}
		d.rels.root.RemoveChild(rel)
		stale = append(stale, target)
	}

	removed := 0
	for _, name := range stale {
		if targets[name] > 0 || !d.Package.Has(name) {
			continue
		}
		if err := d.Package.Remove(name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (d *Document) addPart(name string, doc *etree.Document, relType, contentType string) (string, error) {
	d.Package.SetXML(name, doc)
	if err := d.Package.addOverride(name, contentType); err != nil {
		return "", err
	}
	return d.rels.Add(relType, name), nil
}

// EnsureNamespace declares xmlns:prefix on the document root if missing.
func (d *Document) EnsureNamespace(prefix, uri string) {
	if d.root.SelectAttr("xmlns:"+prefix) == nil {
		d.root.CreateAttr("xmlns:"+prefix, uri)
	}
}

// Bytes serializes the whole package.
func (d *Document) Bytes() ([]byte, error) {
	return d.Package.Bytes()
}

// WriteTo writes the serialized package to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	return bytes.NewReader(data).WriteTo(w)
}

// NewHeaderFooterRoot creates an empty w:hdr or w:ftr root with the
// namespaces header content needs.
func NewHeaderFooterRoot(kind PartKind) *etree.Element {
	tag := "w:hdr"
	if kind == FooterPart {
		tag = "w:ftr"
	}
	root := etree.NewElement(tag)
	SetAttrs(root, "xmlns:w", NSMain, "xmlns:r", NSRelationships)
	return root
}

func newPartDocument(rootTag string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement(rootTag)
	SetAttrs(root, "xmlns:w", NSMain, "xmlns:r", NSRelationships)
	return doc
}
