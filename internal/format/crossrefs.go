package format

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// crossRefLeads are the characters that may directly precede a one
// character Chinese label ("见图", "由式", "如表"). Any other Han character
// makes the label the tail of a word such as 方式 or 列表.
const crossRefLeads = "见如由和与及或将据在按至到从对同自于即入照比较详参附"

// CrossRefs rewrites "图 1.2" style references to "图 1-2". Only the dot
// changes, so run formatting and hyperlinks around the number survive.
type CrossRefs struct {
	opts CrossRefOptions
	re   *regexp.Regexp
}

// NewCrossRefs returns the cross-reference pass.
func NewCrossRefs(o CrossRefOptions) *CrossRefs {
	labels := append([]string(nil), o.Labels...)
	// Longest first so "公式" wins over "式" and "Figure" over "Fig.".
	sort.SliceStable(labels, func(i, j int) bool { return len(labels[i]) > len(labels[j]) })
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	re := regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)[\s\x{00A0}]*\(?([0-9]+)\.([0-9]+)`)
	return &CrossRefs{opts: o, re: re}
}

// standalone reports whether the label starting at start in text begins a
// reference rather than ending a longer word.
func standalone(text string, start int, label string) bool {
	if start == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:start])
	first, size := utf8.DecodeRuneInString(label)
	switch {
	case unicode.IsLetter(first) && first < utf8.RuneSelf:
		return !unicode.IsLetter(prev) && !unicode.IsDigit(prev)
	case unicode.Is(unicode.Han, first) && size == len(label):
		return !unicode.Is(unicode.Han, prev) || strings.ContainsRune(crossRefLeads, prev)
	}
	return true
}

func (*CrossRefs) Name() string { return PassCrossRefs }

func (c *CrossRefs) Apply(ctx context.Context, doc *ooxml.Document, r *Report) error {
	for _, p := range doc.Paragraphs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.CrossRefs += c.rewrite(p)
	}
	return nil
}

// rewrite replaces the separator dot of every match in p and returns the
// number of matches. Math text (m:t) is never part of the run text.
func (c *CrossRefs) rewrite(p *etree.Element) int {
	nodes := ooxml.TextNodes(p)
	if len(nodes) == 0 {
		return 0
	}
	var b strings.Builder
	starts := make([]int, len(nodes))
	for i, t := range nodes {
		starts[i] = b.Len()
		b.WriteString(t.Text())
	}

	text := b.String()
	var matches [][]int
	for _, m := range c.re.FindAllStringSubmatchIndex(text, -1) {
		if standalone(text, m[2], text[m[2]:m[3]]) {
			matches = append(matches, m)
		}
	}
	// Back to front: a multi-byte separator must not shift earlier offsets.
	for k := len(matches) - 1; k >= 0; k-- {
		dot := matches[k][5] // end of the first number
		i := sort.Search(len(starts), func(i int) bool { return starts[i] > dot }) - 1
		t := nodes[i]
		off := dot - starts[i]
		s := t.Text()
		ooxml.SetText(t, s[:off]+c.opts.Separator+s[off+1:])
	}
	return len(matches)
}
