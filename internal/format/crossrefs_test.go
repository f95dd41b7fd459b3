package format_test

import (
	"testing"

	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/ooxml"
	"github.com/alnah/go-md2thesis/internal/ooxml/ooxmltest"
)

// ---------------------------------------------------------------------------
// TestCrossRefs - Chapter-dot-number to chapter-dash-number
// ---------------------------------------------------------------------------

func TestCrossRefs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		runs  []string
		sep   string
		want  string
		count int
	}{
		{"figure caption", []string{"图 1.2 系统结构"}, "-", "图 1-2 系统结构", 1},
		{"table no space", []string{"见表3.1。"}, "-", "见表3-1。", 1},
		{"equation parenthesized", []string{"由式(2.4)可得"}, "-", "由式(2-4)可得", 1},
		{"longer label wins", []string{"公式 2.4"}, "-", "公式 2-4", 1},
		{"split across runs", []string{"如图", " 4", ".", "5 所示"}, "-", "如图 4-5 所示", 1},
		{"several in one paragraph", []string{"图 1.1 和图 1.2 及 Table 2.3"}, "-", "图 1-1 和图 1-2 及 Table 2-3", 3},
		{"english figure", []string{"Figure 5.6"}, "-", "Figure 5-6", 1},
		{"multi-byte separator", []string{"图 1.2 与图 3.4"}, "–", "图 1–2 与图 3–4", 2},
		{"plain number untouched", []string{"版本 1.2 发布"}, "-", "版本 1.2 发布", 0},
		{"only first dot", []string{"图 1.2.3"}, "-", "图 1-2.3", 1},
		{"word ending in label", []string{"采用方式 1.5 倍行距，HTTP 模式 2.0"}, "-", "采用方式 1.5 倍行距，HTTP 模式 2.0", 0},
		{"list is not a table", []string{"列表 3.1 项"}, "-", "列表 3.1 项", 0},
		{"label after lead", []string{"见式 2.1，如图 3.2"}, "-", "见式 2-1，如图 3-2", 2},
		{"label after punctuation", []string{"（图 1.3）"}, "-", "（图 1-3）", 1},
		{"lowercase prefixes", []string{"see fig. 1.2 and eq. 2.3 and tbl. 3.1"}, "-", "see fig. 1-2 and eq. 2-3 and tbl. 3-1", 3},
		{"latin label inside word", []string{"subtable 1.2"}, "-", "subtable 1.2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := ooxmltest.Open(t, ooxmltest.P("", tt.runs...))
			opts := format.Defaults().CrossRefs
			opts.Separator = tt.sep
			r := apply(t, format.NewCrossRefs(opts), doc)

			if r.CrossRefs != tt.count {
				t.Errorf("CrossRefs = %d, want %d", r.CrossRefs, tt.count)
			}
			p := ooxmltest.Reopen(t, doc).BodyParagraphs()[0]
			if got := ooxml.Text(p); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if n := len(p.SelectElements("w:r")); n != len(tt.runs) {
				t.Errorf("runs = %d, want %d (formatting must survive)", n, len(tt.runs))
			}
		})
	}
}

func TestCrossRefs_TablesAndMath(t *testing.T) {
	t.Parallel()

	body := `<w:tbl><w:tr><w:tc>` + ooxmltest.P("", "见图 2.1") + `</w:tc></w:tr></w:tbl>` +
		`<w:p><m:oMath><m:r><m:t>图 1.2</m:t></m:r></m:oMath></w:p>`
	doc := ooxmltest.Open(t, body)
	r := apply(t, format.NewCrossRefs(format.Defaults().CrossRefs), doc)

	if r.CrossRefs != 1 {
		t.Errorf("CrossRefs = %d, want 1", r.CrossRefs)
	}
	if got := ooxml.Text(doc.Tables()[0]); got != "见图 2-1" {
		t.Errorf("table cell text = %q", got)
	}
	if got := doc.Body.FindElement(".//m:t").Text(); got != "图 1.2" {
		t.Errorf("math text = %q, want it untouched", got)
	}
}
