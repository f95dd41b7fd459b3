package ooxml

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/alnah/go-md2thesis/internal/hints"
	"github.com/beevik/etree"
)

// Styles indexes the style definitions of a document by id and by name.
// Names are matched case-insensitively because Word stores built-in names
// in lower case ("heading 1") while users write "Heading 1".
type Styles struct {
	root   *etree.Element
	byID   map[string]*etree.Element
	byName map[string]string
}

func (d *Document) loadStyles() (*Styles, error) {
	name, ok := d.rels.Target(RelStyles)
	if !ok || !d.Package.Has(name) {
		doc := newPartDocument("w:styles")
		styleName := "word/styles.xml"
		if d.Package.Has(styleName) {
			styleName = d.Package.NextPartName("word", "styles", ".xml")
		}
		if _, err := d.addPart(styleName, doc, RelStyles, CTStyles); err != nil {
			return nil, err
		}
		return indexStyles(doc.Root()), nil
	}

	doc, err := d.Package.XML(name)
	if err != nil {
		return nil, err
	}
	return indexStyles(doc.Root()), nil
}

func indexStyles(root *etree.Element) *Styles {
	s := &Styles{
		root:   root,
		byID:   make(map[string]*etree.Element),
		byName: make(map[string]string),
	}
	for _, st := range root.SelectElements("w:style") {
		s.index(st)
	}
	return s
}

func (s *Styles) index(st *etree.Element) {
	id := st.SelectAttrValue("w:styleId", "")
	if id == "" {
		return
	}
	s.byID[id] = st
	if n := st.SelectElement("w:name"); n != nil {
		s.byName[strings.ToLower(n.SelectAttrValue("w:val", ""))] = id
	}
}

// Lookup resolves a style name (or id) to its style id.
func (s *Styles) Lookup(name string) (string, bool) {
	if id, ok := s.byName[strings.ToLower(name)]; ok {
		return id, true
	}
	if _, ok := s.byID[name]; ok {
		return name, true
	}
	return "", false
}

// Require is Lookup returning ErrStyleNotFound with suggestions.
func (s *Styles) Require(name string) (string, error) {
	if id, ok := s.Lookup(name); ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q%s", ErrStyleNotFound, name, hints.ForStyleNotFound(name, s.Names()))
}

// Style returns the style element for an id, or nil.
func (s *Styles) Style(id string) *etree.Element {
	return s.byID[id]
}

// Names returns all style display names, sorted.
func (s *Styles) Names() []string {
	names := make([]string, 0, len(s.byID))
	for _, st := range s.byID {
		if n := st.SelectElement("w:name"); n != nil {
			names = append(names, n.SelectAttrValue("w:val", ""))
		}
	}
	sort.Strings(names)
	return names
}

// EnsureParagraphStyle defines a custom paragraph style based on basedOn
// unless a style with that name already exists. It returns the style id
// and whether the style was created.
func (s *Styles) EnsureParagraphStyle(name, basedOn string) (string, bool) {
	if id, ok := s.Lookup(name); ok {
		return id, false
	}

	id := s.uniqueID(name)
	st := s.root.CreateElement("w:style")
	SetAttrs(st, "w:type", "paragraph", "w:customStyle", "1", "w:styleId", id)
	SetAttrs(st.CreateElement("w:name"), "w:val", name)
	if base, ok := s.Lookup(basedOn); ok {
		SetAttrs(st.CreateElement("w:basedOn"), "w:val", base)
	}
	st.CreateElement("w:qFormat")
	s.index(st)
	return id, true
}

// uniqueID derives a style id the way Word does (letters and digits of the
// name) and disambiguates with a numeric suffix.
func (s *Styles) uniqueID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if base == "" {
		base = "Style"
	}
	id := base
	for n := 1; s.byID[id] != nil; n++ {
		id = fmt.Sprintf("%s%d", base, n)
	}
	return id
}
