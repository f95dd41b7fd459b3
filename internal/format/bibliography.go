package format

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Bibliography cleans up punctuation left by CSL styles in the reference
// list and checks that every cited key has an entry to link to.
type Bibliography struct {
	opts BibliographyOptions
}

// NewBibliography returns the reference list pass.
func NewBibliography(o BibliographyOptions) *Bibliography { return &Bibliography{opts: o} }

func (*Bibliography) Name() string { return PassBibliography }

func (b *Bibliography) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	id, ok := doc.Styles.Lookup(b.opts.Style)
	if !ok {
		r.Warn("style %q not found; reference list left unchanged", b.opts.Style)
		return nil
	}

	for _, p := range paragraphsWithStyle(doc, id) {
		cleanReference(ooxml.TextNodes(p))
		if b.opts.HangingIndent > 0 {
			h := strconv.Itoa(b.opts.HangingIndent)
			ooxml.SetAttrs(ooxml.ReplaceChild(ooxml.ParagraphProps(p), "w:ind", ooxml.PPrOrder), "w:left", h, "w:hanging", h)
		}
		r.References++
	}

	if b.opts.WarnUnresolved {
		b.checkTargets(doc, r)
	}
	return nil
}

func (b *Bibliography) checkTargets(doc *ooxml.Document, r *Report) {
	marks := make(map[string]bool)
	for _, bm := range doc.Body.FindElements(".//w:bookmarkStart") {
		marks[bm.SelectAttrValue("w:name", "")] = true
	}
	for _, key := range r.CitationKeys() {
		if !marks[b.opts.AnchorPrefix+key] {
			r.Warn("citation %q has no reference list entry", key)
		}
	}
	if len(r.Citations) > 0 {
		for _, key := range r.UnlinkedCitations() {
			r.Warn("citation %q in the source was not linked by citeproc", key)
		}
	}
}

type refChar struct {
	r    rune
	node int
}

// cleanReference removes doubled periods, spaces before punctuation and
// repeated spaces across the text nodes of one entry.
func cleanReference(nodes []*etree.Element) {
	var chars []refChar
	for i, t := range nodes {
		for _, r := range t.Text() {
			chars = append(chars, refChar{r, i})
		}
	}

	keep := make([]bool, len(chars))
	prev := rune(0) // last kept non-space rune
	for i, c := range chars {
		if c.r == '.' && prev == '.' {
			continue
		}
		keep[i] = true
		if !unicode.IsSpace(c.r) {
			prev = c.r
		}
	}

	last := rune(0)
	for i, c := range chars {
		if !keep[i] {
			continue
		}
		if unicode.IsSpace(c.r) && (unicode.IsSpace(last) || punctAhead(chars, keep, i)) {
			keep[i] = false
			continue
		}
		last = c.r
	}

	texts := make([]strings.Builder, len(nodes))
	for i, c := range chars {
		if keep[i] {
			texts[c.node].WriteRune(c.r)
		}
	}
	for i, t := range nodes {
		if s := texts[i].String(); s != t.Text() {
			ooxml.SetText(t, s)
		}
	}
}

// punctAhead reports whether the first kept non-space rune after i is a
// punctuation mark that must not be preceded by a space.
func punctAhead(chars []refChar, keep []bool, i int) bool {
	for j := i + 1; j < len(chars); j++ {
		c := chars[j]
		if !keep[j] || unicode.IsSpace(c.r) {
			continue
		}
		return strings.ContainsRune(",.;:，。；：", c.r)
	}
	return false
}
