package format

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Abstract splits keyword paragraphs ("关键词：…", "Keywords: …") into a
// prefix run and a body run set in the configured font.
type Abstract struct {
	opts AbstractOptions
}

// NewAbstract returns the abstract pass.
func NewAbstract(o AbstractOptions) *Abstract { return &Abstract{opts: o} }

func (*Abstract) Name() string { return PassAbstract }

func (a *Abstract) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	id, ok := doc.Styles.Lookup(a.opts.Style)
	if !ok {
		r.Warn("style %q not found; abstract paragraphs left unchanged", a.opts.Style)
		return nil
	}

	for _, p := range paragraphsWithStyle(doc, id) {
		text := strings.TrimSpace(ooxml.Text(p))
		prefix, rest, err := a.split(text)
		if err != nil {
			return err
		}

		ooxml.ClearContent(p)
		pre := ooxml.AddRun(p, prefix)
		if a.opts.BoldPrefix {
			rPr := ooxml.RunProps(pre)
			ooxml.EnsureChild(rPr, "w:b", ooxml.RPrOrder)
			ooxml.EnsureChild(rPr, "w:bCs", ooxml.RPrOrder)
		}
		if rest != "" {
			body := ooxml.AddRun(p, rest)
			if a.opts.Font != "" {
				setFont(ooxml.RunProps(body), a.opts.Font)
			}
		}
		r.Abstracts++
	}

	if a.opts.SpaceBefore != nil {
		setSpaceBefore(doc.Styles.Style(id), *a.opts.SpaceBefore)
	}
	return nil
}

// split cuts text after its first ASCII or full-width colon.
func (a *Abstract) split(text string) (prefix, rest string, err error) {
	idx := strings.IndexAny(text, ":：")
	if idx < 0 {
		return "", "", fmt.Errorf("%w: no colon in %q", ErrAbstractFormat, excerpt(text))
	}
	_, size := utf8.DecodeRuneInString(text[idx:])
	prefix, rest = text[:idx+size], text[idx+size:]

	if len(a.opts.Prefixes) == 0 {
		return prefix, rest, nil
	}
	word := strings.TrimSpace(text[:idx])
	for _, allowed := range a.opts.Prefixes {
		if strings.EqualFold(word, strings.TrimRight(allowed, ":：")) {
			return prefix, rest, nil
		}
	}
	return "", "", fmt.Errorf("%w: prefix %q not in %s", ErrAbstractFormat, word, strings.Join(a.opts.Prefixes, ", "))
}

func setFont(rPr *etree.Element, font string) {
	ooxml.SetAttrs(ooxml.EnsureChild(rPr, "w:rFonts", ooxml.RPrOrder),
		"w:ascii", font, "w:hAnsi", font, "w:eastAsia", font, "w:cs", font)
}

func setSpaceBefore(style *etree.Element, twips int) {
	if style == nil {
		return
	}
	pPr := ooxml.EnsureChild(style, "w:pPr", ooxml.StyleOrder)
	spacing := ooxml.EnsureChild(pPr, "w:spacing", ooxml.PPrOrder)
	spacing.RemoveAttr("w:beforeLines")
	spacing.RemoveAttr("w:beforeAutospacing")
	spacing.CreateAttr("w:before", strconv.Itoa(twips))
}

// excerpt shortens text for error messages.
func excerpt(s string) string {
	const limit = 40
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
