package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/beevik/etree"
)

// maxPartSize bounds a single decompressed part (zip bomb guard).
const maxPartSize = 256 << 20

// Package is an OOXML zip container. Part order is preserved on save so
// [Content_Types].xml stays first.
type Package struct {
	parts []*part
	index map[string]*part
}

type part struct {
	name     string
	modified time.Time
	data     []byte
	xml      *etree.Document // authoritative once parsed
}

// OpenPackage reads a package from disk.
func OpenPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided document path
	if err != nil {
		return nil, err
	}
	return ReadPackage(bytes.NewReader(data), int64(len(data)))
}

// ReadPackage reads a package from r.
func ReadPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPackage, err)
	}

	pkg := &Package{index: make(map[string]*part, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		p := &part{name: f.Name, modified: f.Modified, data: data}
		pkg.parts = append(pkg.parts, p)
		pkg.index[f.Name] = p
	}

	if _, ok := pkg.index[ContentTypesPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrNotPackage, ContentTypesPart)
	}
	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxPartSize {
		return nil, fmt.Errorf("%w: %s is too large (%d bytes)", ErrNotPackage, f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("%w: %s is too large", ErrNotPackage, f.Name)
	}
	return data, nil
}

// Has reports whether the package contains a part with the given name.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Names returns part names in package order.
func (p *Package) Names() []string {
	names := make([]string, len(p.parts))
	for i, pt := range p.parts {
		names[i] = pt.name
	}
	return names
}

// XML returns the parsed XML of a part. The returned document is live:
// edits are written back on Save.
func (p *Package) XML(name string) (*etree.Document, error) {
	pt, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	if pt.xml != nil {
		return pt.xml, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(pt.data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPartParse, name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrPartParse, name)
	}
	pt.xml = doc
	return doc, nil
}

// SetXML adds a new XML part or replaces an existing one.
func (p *Package) SetXML(name string, doc *etree.Document) {
	if pt, ok := p.index[name]; ok {
		pt.xml = doc
		pt.data = nil
		return
	}
	pt := &part{name: name, xml: doc}
	p.parts = append(p.parts, pt)
	p.index[name] = pt
}

// Remove drops a part together with its relationships part and its
// content type override. Missing parts are ignored.
func (p *Package) Remove(name string) error {
	for _, n := range []string{name, relsPartFor(name)} {
		if _, ok := p.index[n]; !ok {
			continue
		}
		delete(p.index, n)
		p.parts = slices.DeleteFunc(p.parts, func(pt *part) bool { return pt.name == n })
	}

	if !p.Has(ContentTypesPart) {
		return nil
	}
	doc, err := p.XML(ContentTypesPart)
	if err != nil {
		return err
	}
	root := doc.Root()
	for _, o := range root.SelectElements("Override") {
		if o.SelectAttrValue("PartName", "") == "/"+name {
			root.RemoveChild(o)
		}
	}
	return nil
}

// NextPartName returns the first unused name of the form dir/prefixN.ext.
func (p *Package) NextPartName(dir, prefix, ext string) string {
	for n := 1; ; n++ {
		name := path.Join(dir, fmt.Sprintf("%s%d%s", prefix, n, ext))
		if !p.Has(name) {
			return name
		}
	}
}

// Bytes serializes the package.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, pt := range p.ordered() {
		data := pt.data
		if pt.xml != nil {
			b, err := pt.xml.WriteToBytes()
			if err != nil {
				return nil, fmt.Errorf("serializing %s: %w", pt.name, err)
			}
			data = b
		}

		modified := pt.modified
		if modified.IsZero() {
			modified = time.Now()
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     pt.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", pt.name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", pt.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}

// ordered returns parts with [Content_Types].xml first, the rest in
// their original order.
func (p *Package) ordered() []*part {
	out := make([]*part, len(p.parts))
	copy(out, p.parts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].name == ContentTypesPart && out[j].name != ContentTypesPart
	})
	return out
}

// resolveTarget resolves a relationship target relative to the part that
// owns the relationship.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// relsPartFor returns the relationships part name for a source part.
func relsPartFor(source string) string {
	return path.Join(path.Dir(source), "_rels", path.Base(source)+".rels")
}
