package format

import (
	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// MarkerStyles returns the marker paragraph style names configured in o, in
// a stable order and without duplicates.
func MarkerStyles(o Options) []string {
	names := []string{
		o.Abstract.Style,
		o.SectionBreaks.Style,
		o.TOC.Style,
		o.Bibliography.Style,
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// PrepareReference makes sure a pandoc reference document defines every
// marker style, so custom-style divs in Markdown map onto real Word styles.
// It returns the names of the styles it created.
func PrepareReference(doc *ooxml.Document, o Options) []string {
	var created []string
	for _, name := range MarkerStyles(o) {
		if _, ok := doc.Styles.EnsureParagraphStyle(name, "Normal"); ok {
			created = append(created, name)
		}
	}
	return created
}
