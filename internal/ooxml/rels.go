package ooxml

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Relationships is the relationship list of one source part.
type Relationships struct {
	source string
	root   *etree.Element
}

// relationships loads (or creates) the relationships part of source.
func (p *Package) relationships(source string) (*Relationships, error) {
	name := relsPartFor(source)
	if source == "" {
		name = RootRelsPart
	}

	if !p.Has(name) {
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		root := doc.CreateElement("Relationships")
		root.CreateAttr("xmlns", NSPackageRels)
		p.SetXML(name, doc)
	}

	doc, err := p.XML(name)
	if err != nil {
		return nil, err
	}
	return &Relationships{source: source, root: doc.Root()}, nil
}

// Target returns the resolved part name of the first relationship of the
// given type.
func (r *Relationships) Target(relType string) (string, bool) {
	for _, rel := range r.root.SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") != relType {
			continue
		}
		if rel.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		target := rel.SelectAttrValue("Target", "")
		if r.source == "" {
			return strings.TrimPrefix(target, "/"), true
		}
		return resolveTarget(r.source, target), true
	}
	return "", false
}

// Add appends a relationship to a part in the same directory as the source
// and returns its id.
func (r *Relationships) Add(relType, partName string) string {
	id := r.nextID()
	rel := r.root.CreateElement("Relationship")
	SetAttrs(rel,
		"Id", id,
		"Type", relType,
		"Target", relativeTarget(r.source, partName),
	)
	return id
}

func (r *Relationships) nextID() string {
	highest := 0
	for _, rel := range r.root.SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}

func relativeTarget(source, partName string) string {
	dir := path.Dir(source)
	if source == "" || dir == "." {
		return partName
	}
	if rest, ok := strings.CutPrefix(partName, dir+"/"); ok {
		return rest
	}
	return "/" + partName
}

// addOverride registers a content type for a part.
func (p *Package) addOverride(partName, contentType string) error {
	doc, err := p.XML(ContentTypesPart)
	if err != nil {
		return err
	}
	root := doc.Root()
	want := "/" + partName
	for _, o := range root.SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == want {
			o.CreateAttr("ContentType", contentType)
			return nil
		}
	}
	SetAttrs(root.CreateElement("Override"), "PartName", want, "ContentType", contentType)
	return nil
}

// mainPart returns the name of the main document part.
func (p *Package) mainPart() (string, error) {
	rels, err := p.relationships("")
	if err != nil {
		return "", err
	}
	if name, ok := rels.Target(RelOfficeDocument); ok && p.Has(name) {
		return name, nil
	}
	if p.Has(DefaultMainPart) {
		return DefaultMainPart, nil
	}
	return "", fmt.Errorf("%w: main document part", ErrPartNotFound)
}
