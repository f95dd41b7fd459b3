// Package mdmeta reads what the formatter needs to know about a Markdown
// source before pandoc runs: its title and the citation keys it uses.
package mdmeta

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2thesis/internal/yamlutil"
)

// Meta is the metadata extracted from one Markdown source.
type Meta struct {
	// FrontTitle is the title key of the YAML front matter.
	FrontTitle string
	// Heading is the text of the first level-one heading.
	Heading string
	// Bibliography and CSL are the front matter keys pandoc reads itself.
	Bibliography []string
	CSL          string
	// Citations lists bracketed citation keys in first-use order.
	Citations []string
}

type frontMatter struct {
	Title        string     `yaml:"title"`
	Bibliography stringList `yaml:"bibliography"`
	CSL          string     `yaml:"csl"`
}

// stringList accepts a scalar or a sequence, as pandoc does for
// bibliography.
type stringList []string

func (l *stringList) UnmarshalYAML(unmarshal func(any) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		if one != "" {
			*l = stringList{one}
		}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*l = many
	return nil
}

var (
	// citeGroup matches a bracketed citation group such as
	// "[see @wang2020, p. 3; -@li2019]".
	citeGroup = regexp.MustCompile(`\[[^\[\]]*@[^\[\]]*\]`)
	// citeKey matches one key inside a group. Keys start with a letter,
	// digit or underscore and may contain internal punctuation.
	citeKey = regexp.MustCompile(`(?:^|[\s\[;\-])@([\pL\pN_](?:[\pL\pN_:.#$%&\-+?<>~/]*[\pL\pN_])?)`)
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))

// Parse extracts metadata from Markdown source. Code spans and code blocks
// are never scanned for citations.
func Parse(ctx context.Context, src []byte) (*Meta, error) {
	var fm frontMatter
	body, err := yamlutil.UnmarshalFrontMatter(src, &fm)
	if err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}
	m := &Meta{
		FrontTitle:   strings.TrimSpace(fm.Title),
		Bibliography: fm.Bibliography,
		CSL:          fm.CSL,
	}

	doc := md.Parser().Parse(text.NewReader(body))
	seen := make(map[string]bool)
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if err := ctx.Err(); err != nil {
			return ast.WalkStop, err
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			t := inlineText(node, body)
			if node.Level == 1 && m.Heading == "" {
				m.Heading = strings.TrimSpace(t)
			}
			m.addCitations(t, seen)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock, *east.TableCell:
			m.addCitations(inlineText(node, body), seen)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Title resolves the document title: override, then front matter, then
// the first level-one heading, then the file name without extension.
func (m *Meta) Title(override, path string) string {
	for _, t := range []string{override, m.FrontTitle, m.Heading} {
		if t = strings.TrimSpace(t); t != "" {
			return t
		}
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func (m *Meta) addCitations(s string, seen map[string]bool) {
	for _, group := range citeGroup.FindAllString(s, -1) {
		for _, sub := range citeKey.FindAllStringSubmatch(group, -1) {
			if key := sub[1]; !seen[key] {
				seen[key] = true
				m.Citations = append(m.Citations, key)
			}
		}
	}
}

// inlineText concatenates the text of n's inline descendants, leaving out
// code spans and raw HTML.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.CodeSpan, *ast.RawHTML:
			continue
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
