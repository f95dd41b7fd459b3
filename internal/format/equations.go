package format

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/hints"
	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// mathSpace matches the spaces TeX spacing commands turn into (\quad,
// \qquad, \,) besides ordinary whitespace.
const mathSpace = `[\s\x{00A0}\x{2000}-\x{200B}\x{202F}\x{205F}\x{3000}]`

var (
	// trailingLabel finds a parenthesized number at the end of the math
	// text, separated from the formula by at least one space.
	trailingLabel = regexp.MustCompile(mathSpace + `+\(([0-9][0-9.\-]*)\)` + mathSpace + `*$`)
	labelNumber   = regexp.MustCompile(`^([0-9]+)(?:[.\-]([0-9]+))?$`)
)

// fallbackTextWidth is the A4 text width with 1800 twip side margins.
const fallbackTextWidth = 8306

// Equations moves numbered display equations onto a tabbed line: formula
// centered, number flush right.
type Equations struct {
	opts EquationOptions
}

// NewEquations returns the equation pass.
func NewEquations(o EquationOptions) *Equations { return &Equations{opts: o} }

func (*Equations) Name() string { return PassEquations }

func (e *Equations) Apply(ctx context.Context, doc *ooxml.Document, r *Report) error {
	width := e.opts.TextWidth
	if width == 0 {
		w, ok := doc.TextWidth()
		if !ok {
			w = fallbackTextWidth
			r.Warn("page size unknown; equation tabs assume a text width of %d twips", w)
		}
		width = w
	}

	for _, p := range doc.BodyParagraphs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		para := p.SelectElement("m:oMathPara")
		if para == nil {
			continue
		}
		maths := para.SelectElements("m:oMath")
		if len(maths) == 0 {
			continue
		}

		label, err := takeLabel(maths[len(maths)-1], e.opts.Separator)
		if err != nil {
			return err
		}
		if label == "" {
			continue
		}
		layoutEquation(p, para, maths, label, width)
		r.Equations++
	}
	return nil
}

// takeLabel removes a trailing "(N.M)" label and the space before it from
// the math text and returns it as "(N<sep>M)". It returns "" when the math
// carries no label.
func takeLabel(math *etree.Element, sep string) (string, error) {
	nodes := math.FindElements(".//m:t")
	if len(nodes) == 0 {
		return "", nil
	}

	var b strings.Builder
	starts := make([]int, len(nodes))
	for i, t := range nodes {
		starts[i] = b.Len()
		b.WriteString(t.Text())
	}
	text := b.String()

	loc := trailingLabel.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", nil
	}
	raw := text[loc[2]:loc[3]]
	m := labelNumber.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("%w: (%s)%s", ErrEquationLabel, raw, hints.ForEquationLabel())
	}

	cut := loc[0]
	for i := len(nodes) - 1; i >= 0; i-- {
		t := nodes[i]
		if starts[i] >= cut {
			removeMathRun(t)
			continue
		}
		keep := cut - starts[i]
		if keep < len(t.Text()) {
			t.SetText(t.Text()[:keep])
		}
		break
	}

	if m[2] == "" {
		return "(" + m[1] + ")", nil
	}
	return "(" + m[1] + sep + m[2] + ")", nil
}

// removeMathRun drops a math text node, and its run when nothing else is
// left in it.
func removeMathRun(t *etree.Element) {
	run := t.Parent()
	run.RemoveChild(t)
	if run.Tag != "r" || len(run.SelectElements("m:t")) > 0 {
		return
	}
	if parent := run.Parent(); parent != nil {
		parent.RemoveChild(run)
	}
}

// layoutEquation replaces the oMathPara with tab, formula, tab, label.
func layoutEquation(p, para *etree.Element, maths []*etree.Element, label string, width int) {
	pos := para.Index()
	p.RemoveChild(para)

	seq := []*etree.Element{ooxml.NewTabRun()}
	for _, m := range maths {
		para.RemoveChild(m)
		seq = append(seq, m)
	}
	seq = append(seq, ooxml.NewTabRun(), ooxml.NewRun(label))
	for i, el := range seq {
		p.InsertChildAt(pos+i, el)
	}

	pPr := ooxml.ParagraphProps(p)
	tabs := ooxml.ReplaceChild(pPr, "w:tabs", ooxml.PPrOrder)
	ooxml.SetAttrs(tabs.CreateElement("w:tab"), "w:val", "center", "w:pos", strconv.Itoa(width/2))
	ooxml.SetAttrs(tabs.CreateElement("w:tab"), "w:val", "right", "w:pos", strconv.Itoa(width))
	ooxml.SetAttrs(ooxml.ReplaceChild(pPr, "w:ind", ooxml.PPrOrder), "w:firstLine", "0", "w:firstLineChars", "0")
	ooxml.SetAttrs(ooxml.ReplaceChild(pPr, "w:jc", ooxml.PPrOrder), "w:val", "left")
}
