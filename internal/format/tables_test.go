package format_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/ooxml"
	"github.com/alnah/go-md2thesis/internal/ooxml/ooxmltest"
)

// ---------------------------------------------------------------------------
// TestTables - Three-line table normalization
// ---------------------------------------------------------------------------

func TestTables_ThreeLine(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.Table(3, 2), ooxmltest.WithStyle("Compact", "Compact"))
	r := apply(t, format.NewTables(format.Defaults().Tables), doc)
	if r.Tables != 1 {
		t.Errorf("Tables = %d, want 1", r.Tables)
	}

	doc = ooxmltest.Reopen(t, doc)
	tbl := doc.Tables()[0]
	tblPr := tbl.SelectElement("w:tblPr")

	if got, want := tags(tblPr), "tblStyle,tblW,jc,tblBorders,tblLook"; got != want {
		t.Errorf("tblPr children = %s, want %s", got, want)
	}

	tests := []struct {
		path, key, want string
	}{
		{"w:tblPr/w:tblW", "w:type", "auto"},
		{"w:tblPr/w:tblW", "w:w", "0"},
		{"w:tblPr/w:jc", "w:val", "center"},
		{"w:tblPr/w:tblBorders/w:top", "w:sz", "12"},
		{"w:tblPr/w:tblBorders/w:bottom", "w:val", "single"},
		{"w:tblPr/w:tblBorders/w:insideH", "w:val", "none"},
		{"w:tblPr/w:tblBorders/w:left", "w:val", "none"},
		{"w:tblPr/w:tblLook", "w:val", "04A0"},
		{"w:tblPr/w:tblLook", "w:noVBand", "1"},
		{"w:tblGrid/w:gridCol", "w:w", "4643"},
		{"w:tr[1]/w:tc/w:tcPr/w:tcW", "w:w", "4643"},
		{"w:tr[1]/w:tc/w:tcPr/w:tcW", "w:type", "dxa"},
		{"w:tr[1]/w:tc/w:tcPr/w:tcBorders/w:bottom", "w:sz", "6"},
		{"w:tr[1]/w:tc/w:tcPr/w:shd", "w:val", "clear"},
		{"w:tr[2]/w:tc/w:tcPr/w:tcBorders", "w:val", "<missing>"},
		{"w:tr[2]/w:tc/w:p/w:pPr/w:jc", "w:val", "center"},
		{"w:tr[2]/w:tc/w:p/w:pPr/w:snapToGrid", "w:val", "0"},
		{"w:tr[2]/w:tc/w:p/w:pPr/w:ind", "w:firstLine", "0"},
		{"w:tr[3]/w:tc/w:p/w:r/w:rPr/w:sz", "w:val", "21"},
		{"w:tr[3]/w:tc/w:p/w:r/w:rPr/w:szCs", "w:val", "21"},
	}
	for _, tt := range tests {
		if got := attr(tbl, tt.path, tt.key); got != tt.want {
			t.Errorf("%s@%s = %q, want %q", tt.path, tt.key, got, tt.want)
		}
	}

	if n := len(tbl.FindElements("w:tblGrid/w:gridCol")); n != 2 {
		t.Errorf("gridCol count = %d, want 2", n)
	}
	pPr := tbl.FindElement("w:tr/w:tc/w:p/w:pPr")
	if got, want := tags(pPr), "pStyle,snapToGrid,ind,jc"; got != want {
		t.Errorf("cell pPr children = %s, want %s", got, want)
	}
}

func TestTables_Idempotent(t *testing.T) {
	t.Parallel()

	doc := ooxmltest.Open(t, ooxmltest.Table(2, 3))
	pass := format.NewTables(format.Defaults().Tables)
	apply(t, pass, doc)
	apply(t, pass, doc)

	tbl := doc.Tables()[0]
	for _, tag := range []string{"w:tblW", "w:jc", "w:tblBorders", "w:tblLook"} {
		if n := len(tbl.SelectElement("w:tblPr").SelectElements(tag)); n != 1 {
			t.Errorf("%s count = %d, want 1", tag, n)
		}
	}
	if n := len(tbl.SelectElements("w:tblGrid")); n != 1 {
		t.Errorf("tblGrid count = %d, want 1", n)
	}
	if n := len(tbl.FindElements("w:tr[1]/w:tc[1]/w:tcPr/w:tcBorders")); n != 1 {
		t.Errorf("tcBorders count = %d, want 1", n)
	}
}

func TestTables_GridSpan(t *testing.T) {
	t.Parallel()

	body := `<w:tbl><w:tblPr/><w:tblGrid/>` +
		`<w:tr><w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr>` + ooxmltest.P("", "merged") + `</w:tc></w:tr>` +
		`<w:tr><w:tc>` + ooxmltest.P("", "a") + `</w:tc><w:tc>` + ooxmltest.P("", "b") + `</w:tc></w:tr>` +
		`</w:tbl>`
	doc := ooxmltest.Open(t, body)

	opts := format.Defaults().Tables
	opts.TotalWidth = 8000
	apply(t, format.NewTables(opts), doc)

	tbl := doc.Tables()[0]
	if got := attr(tbl, "w:tr[1]/w:tc/w:tcPr/w:tcW", "w:w"); got != "8000" {
		t.Errorf("spanned cell width = %s, want 8000", got)
	}
	if got := attr(tbl, "w:tr[2]/w:tc/w:tcPr/w:tcW", "w:w"); got != "4000" {
		t.Errorf("cell width = %s, want 4000", got)
	}
}

func TestTables_StaggeredSpans(t *testing.T) {
	t.Parallel()

	span := func(n int, text string) string {
		return `<w:tc><w:tcPr><w:gridSpan w:val="` + strconv.Itoa(n) + `"/></w:tcPr>` + ooxmltest.P("", text) + `</w:tc>`
	}
	cell := func(text string) string { return `<w:tc>` + ooxmltest.P("", text) + `</w:tc>` }
	body := `<w:tbl><w:tblPr/><w:tblGrid><w:gridCol w:w="4000"/><w:gridCol w:w="4000"/></w:tblGrid>` +
		`<w:tr>` + span(2, "ab") + cell("c") + `</w:tr>` +
		`<w:tr>` + cell("a") + span(2, "bc") + `</w:tr>` +
		`</w:tbl>`
	doc := ooxmltest.Open(t, body)

	opts := format.Defaults().Tables
	opts.TotalWidth = 9000
	apply(t, format.NewTables(opts), doc)

	tbl := doc.Tables()[0]
	if n := len(tbl.FindElements("w:tblGrid/w:gridCol")); n != 3 {
		t.Fatalf("gridCol count = %d, want 3", n)
	}
	for i, row := range tbl.SelectElements("w:tr") {
		total := 0
		for _, tcW := range row.FindElements("w:tc/w:tcPr/w:tcW") {
			w, err := strconv.Atoi(tcW.SelectAttrValue("w:w", ""))
			if err != nil {
				t.Fatalf("row %d: tcW = %v", i+1, err)
			}
			total += w
		}
		if total != 9000 {
			t.Errorf("row %d width = %d, want 9000", i+1, total)
		}
	}
}

func TestTables_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		style   string
		wantErr error
	}{
		{
			name:    "no rows",
			body:    `<w:tbl><w:tblPr/><w:tblGrid/></w:tbl>`,
			wantErr: format.ErrTableShape,
		},
		{
			name:    "rows without cells",
			body:    `<w:tbl><w:tblPr/><w:tr/></w:tbl>`,
			wantErr: format.ErrTableShape,
		},
		{
			name:    "unknown table style",
			body:    ooxmltest.Table(1, 1),
			style:   "Three Line Table",
			wantErr: ooxml.ErrStyleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := ooxmltest.Open(t, tt.body)
			opts := format.Defaults().Tables
			opts.Style = tt.style
			err := format.NewTables(opts).Apply(context.Background(), doc, format.NewReport())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Apply() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
