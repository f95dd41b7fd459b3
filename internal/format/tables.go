package format

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Tables turns every body table into a centered three-line table with
// equal column widths and uniform cell text.
type Tables struct {
	opts TableOptions
}

// NewTables returns the tables pass.
func NewTables(o TableOptions) *Tables { return &Tables{opts: o} }

func (*Tables) Name() string { return PassTables }

func (t *Tables) Apply(ctx context.Context, doc *ooxml.Document, r *Report) error {
	styleID := ""
	if t.opts.Style != "" {
		id, err := doc.Styles.Require(t.opts.Style)
		if err != nil {
			return err
		}
		styleID = id
	}

	for i, tbl := range doc.Tables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.format(tbl, styleID); err != nil {
			return fmt.Errorf("table %d: %w", i+1, err)
		}
		r.Tables++
	}
	return nil
}

func (t *Tables) format(tbl *etree.Element, styleID string) error {
	rows := tbl.SelectElements("w:tr")
	if len(rows) == 0 {
		return ErrTableShape
	}
	cols := 0
	for _, row := range rows {
		n := 0
		for _, tc := range row.SelectElements("w:tc") {
			n += gridSpan(tc)
		}
		cols = max(cols, n)
	}
	if cols == 0 {
		return ErrTableShape
	}
	if grid := tbl.SelectElement("w:tblGrid"); grid != nil {
		cols = max(cols, len(grid.SelectElements("w:gridCol")))
	}
	colWidth := t.opts.TotalWidth / cols

	tblPr := ooxml.EnsureFirst(tbl, "w:tblPr")
	if styleID != "" {
		ooxml.SetAttrs(ooxml.ReplaceChild(tblPr, "w:tblStyle", ooxml.TblPrOrder), "w:val", styleID)
	}
	ooxml.SetAttrs(ooxml.ReplaceChild(tblPr, "w:tblW", ooxml.TblPrOrder), "w:w", "0", "w:type", "auto")
	ooxml.SetAttrs(ooxml.ReplaceChild(tblPr, "w:jc", ooxml.TblPrOrder), "w:val", "center")

	borders := ooxml.ReplaceChild(tblPr, "w:tblBorders", ooxml.TblPrOrder)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		if side == "top" || side == "bottom" {
			border(borders, side, t.opts.BorderSize)
		} else {
			ooxml.SetAttrs(borders.CreateElement("w:"+side), "w:val", "none", "w:sz", "0", "w:space", "0", "w:color", "auto")
		}
	}

	ooxml.SetAttrs(ooxml.ReplaceChild(tblPr, "w:tblLook", ooxml.TblPrOrder),
		"w:val", "04A0",
		"w:firstRow", "1",
		"w:lastRow", "0",
		"w:firstColumn", "1",
		"w:lastColumn", "0",
		"w:noHBand", "0",
		"w:noVBand", "1",
	)

	grid := ooxml.ReplaceChild(tbl, "w:tblGrid", ooxml.TblOrder)
	for range cols {
		ooxml.SetAttrs(grid.CreateElement("w:gridCol"), "w:w", strconv.Itoa(colWidth))
	}

	for i, row := range rows {
		for _, tc := range row.SelectElements("w:tc") {
			t.formatCell(tc, colWidth, i == 0)
		}
	}
	return nil
}

func (t *Tables) formatCell(tc *etree.Element, width int, header bool) {
	span := gridSpan(tc)
	tcPr := ooxml.EnsureFirst(tc, "w:tcPr")
	ooxml.SetAttrs(ooxml.ReplaceChild(tcPr, "w:tcW", ooxml.TcPrOrder), "w:w", strconv.Itoa(width*span), "w:type", "dxa")

	if header {
		borders := ooxml.ReplaceChild(tcPr, "w:tcBorders", ooxml.TcPrOrder)
		border(borders, "bottom", t.opts.HeaderBorderSize)
		ooxml.SetAttrs(ooxml.ReplaceChild(tcPr, "w:shd", ooxml.TcPrOrder), "w:val", "clear", "w:color", "auto", "w:fill", "auto")
	}

	size := strconv.Itoa(t.opts.FontSize)
	for _, p := range tc.FindElements(".//w:p") {
		pPr := ooxml.ParagraphProps(p)
		ooxml.SetAttrs(ooxml.ReplaceChild(pPr, "w:snapToGrid", ooxml.PPrOrder), "w:val", "0")
		ooxml.SetAttrs(ooxml.ReplaceChild(pPr, "w:ind", ooxml.PPrOrder), "w:firstLine", strconv.Itoa(t.opts.FirstLineIndent))
		ooxml.SetAttrs(ooxml.ReplaceChild(pPr, "w:jc", ooxml.PPrOrder), "w:val", "center")

		for _, run := range p.FindElements(".//w:r") {
			rPr := ooxml.RunProps(run)
			ooxml.SetAttrs(ooxml.ReplaceChild(rPr, "w:sz", ooxml.RPrOrder), "w:val", size)
			ooxml.SetAttrs(ooxml.ReplaceChild(rPr, "w:szCs", ooxml.RPrOrder), "w:val", size)
		}
	}
}

// gridSpan returns the number of grid columns tc covers.
func gridSpan(tc *etree.Element) int {
	gs := tc.FindElement("./w:tcPr/w:gridSpan")
	if gs == nil {
		return 1
	}
	n, err := strconv.Atoi(gs.SelectAttrValue("w:val", "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func border(parent *etree.Element, side string, size int) {
	el := etree.NewElement("w:" + side)
	ooxml.SetAttrs(el, "w:val", "single", "w:sz", strconv.Itoa(size), "w:space", "0", "w:color", "000000")
	ooxml.InsertOrdered(parent, el, ooxml.BordersOrder)
}
