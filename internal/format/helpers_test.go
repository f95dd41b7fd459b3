package format_test

import (
	"context"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// apply runs a single pass and fails the test on error.
func apply(t *testing.T, pass format.Pass, doc *ooxml.Document) *format.Report {
	t.Helper()

	r := format.NewReport()
	if err := pass.Apply(context.Background(), doc, r); err != nil {
		t.Fatalf("%s.Apply() error = %v", pass.Name(), err)
	}
	return r
}

// attr returns the value of attribute key on the first element matching
// path under root, or "<missing>".
func attr(root *etree.Element, path, key string) string {
	el := root.FindElement(path)
	if el == nil {
		return "<missing>"
	}
	return el.SelectAttrValue(key, "<unset>")
}

// tags lists the child element tags of el.
func tags(el *etree.Element) string {
	var out []string
	for _, c := range el.ChildElements() {
		out = append(out, c.Tag)
	}
	return strings.Join(out, ",")
}

func intPtr(n int) *int { return &n }
