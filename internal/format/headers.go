package format

import (
	"context"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

const pageField = `PAGE \* MERGEFORMAT`

// Headers gives every section its own header and footer parts, so running
// heads never leak from one section into the next.
type Headers struct {
	opts  HeaderOptions
	specs []SectionSpec
	title string
}

// NewHeaders returns the header and footer pass. title replaces {title}
// in header text.
func NewHeaders(o HeaderOptions, specs []SectionSpec, title string) *Headers {
	return &Headers{opts: o, specs: specs, title: title}
}

func (*Headers) Name() string { return PassHeaders }

func (h *Headers) Apply(_ context.Context, doc *ooxml.Document, r *Report) error {
	secs, err := matchSections(doc, h.specs)
	if err != nil {
		return err
	}

	headerStyle, _ := doc.Styles.Lookup(h.opts.Style)
	footerStyle, _ := doc.Styles.Lookup(h.opts.FooterStyle)
	if h.opts.Style != "" && headerStyle == "" {
		r.Warn("header style %q not found; headers use Normal", h.opts.Style)
	}
	if h.opts.FooterStyle != "" && footerStyle == "" {
		r.Warn("footer style %q not found; footers use Normal", h.opts.FooterStyle)
	}

	even := false
	for _, s := range h.specs {
		even = even || s.EvenHeader != ""
	}

	for i, sec := range secs {
		spec := h.specs[i]
		ooxml.RemoveChildren(sec, "w:headerReference")
		ooxml.RemoveChildren(sec, "w:footerReference")
		ooxml.RemoveChildren(sec, "w:titlePg")

		text := h.expand(spec.Header)
		if err := h.addHeader(doc, sec, "default", headerStyle, text, spec.HeaderField); err != nil {
			return err
		}
		if err := h.addFooter(doc, sec, "default", footerStyle, spec.Format); err != nil {
			return err
		}
		if even {
			evenText := text
			if spec.EvenHeader != "" {
				evenText = h.expand(spec.EvenHeader)
			}
			if err := h.addHeader(doc, sec, "even", headerStyle, evenText, spec.HeaderField); err != nil {
				return err
			}
			if err := h.addFooter(doc, sec, "even", footerStyle, spec.Format); err != nil {
				return err
			}
		}
		h.setDistances(sec)
		r.Headers++
	}

	if even {
		settings, err := doc.Settings()
		if err != nil {
			return err
		}
		ooxml.EnsureChild(settings, "w:evenAndOddHeaders", ooxml.SettingsOrder).RemoveAttr("w:val")
	}
	_, err = doc.PruneHeaderFooters()
	return err
}

func (h *Headers) expand(text string) string {
	return strings.ReplaceAll(text, "{title}", h.title)
}

func (h *Headers) addHeader(doc *ooxml.Document, sec *etree.Element, kind, style, text, field string) error {
	root := ooxml.NewHeaderFooterRoot(ooxml.HeaderPart)
	p := root.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	if style != "" {
		ooxml.SetAttrs(pPr.CreateElement("w:pStyle"), "w:val", style)
	}
	hasContent := text != "" || field != ""
	if h.opts.Border && hasContent {
		bdr := pPr.CreateElement("w:pBdr")
		ooxml.SetAttrs(bdr.CreateElement("w:bottom"), "w:val", "single", "w:sz", "6", "w:space", "1", "w:color", "auto")
	}
	ooxml.SetAttrs(pPr.CreateElement("w:jc"), "w:val", "center")

	if text != "" {
		ooxml.AddRun(p, text)
	}
	if field != "" {
		for _, run := range ooxml.FieldRuns(field, "") {
			p.AddChild(run)
		}
	}

	id, err := doc.AddHeaderFooter(ooxml.HeaderPart, root)
	if err != nil {
		return err
	}
	addReference(sec, "w:headerReference", kind, id)
	return nil
}

func (h *Headers) addFooter(doc *ooxml.Document, sec *etree.Element, kind, style, format string) error {
	root := ooxml.NewHeaderFooterRoot(ooxml.FooterPart)
	p := root.CreateElement("w:p")
	pPr := p.CreateElement("w:pPr")
	if style != "" {
		ooxml.SetAttrs(pPr.CreateElement("w:pStyle"), "w:val", style)
	}
	ooxml.SetAttrs(pPr.CreateElement("w:jc"), "w:val", h.opts.FooterAlign)

	if format != PageNumberNone {
		for _, run := range ooxml.FieldRuns(pageField, "1") {
			p.AddChild(run)
		}
	}

	id, err := doc.AddHeaderFooter(ooxml.FooterPart, root)
	if err != nil {
		return err
	}
	addReference(sec, "w:footerReference", kind, id)
	return nil
}

func (h *Headers) setDistances(sec *etree.Element) {
	pgMar := sec.SelectElement("w:pgMar")
	if pgMar == nil {
		return
	}
	if h.opts.Distance > 0 {
		pgMar.CreateAttr("w:header", strconv.Itoa(h.opts.Distance))
	}
	if h.opts.FooterDistance > 0 {
		pgMar.CreateAttr("w:footer", strconv.Itoa(h.opts.FooterDistance))
	}
}

func addReference(sec *etree.Element, tag, kind, id string) {
	ref := etree.NewElement(tag)
	ooxml.SetAttrs(ref, "w:type", kind, "r:id", id)
	ooxml.InsertOrdered(sec, ref, ooxml.SectPrOrder)
}
