package format

import (
	"fmt"
	"slices"
	"strings"
)

// Pass names, in the order a full thesis profile runs them.
const (
	PassTables        = "tables"
	PassTOC           = "toc"
	PassPageBreaks    = "pageBreaks"
	PassSectionBreaks = "sectionBreaks"
	PassSections      = "sections"
	PassHeaders       = "headers"
	PassEquations     = "equations"
	PassAbstract      = "abstract"
	PassHyperlinks    = "hyperlinks"
	PassCrossRefs     = "crossrefs"
	PassFields        = "fields"
	PassBibliography  = "bibliography"
)

// PassNames lists every known pass.
var PassNames = []string{
	PassTables, PassTOC, PassPageBreaks, PassSectionBreaks, PassSections,
	PassHeaders, PassEquations, PassAbstract, PassHyperlinks, PassCrossRefs,
	PassFields, PassBibliography,
}

// Page number formats accepted by SectionSpec.Format.
const (
	PageNumberNone        = "none"
	PageNumberDecimal     = "decimal"
	PageNumberUpperRoman  = "upperRoman"
	PageNumberLowerRoman  = "lowerRoman"
	PageNumberUpperLetter = "upperLetter"
	PageNumberLowerLetter = "lowerLetter"
)

var pageNumberFormats = []string{
	PageNumberNone, PageNumberDecimal, PageNumberUpperRoman,
	PageNumberLowerRoman, PageNumberUpperLetter, PageNumberLowerLetter,
}

// Hyperlink modes.
const (
	LinkSuperscript = "superscript"
	LinkPlain       = "plain"
	LinkUnlink      = "unlink"
)

// Defaults.
const (
	DefaultTableWidth        = 9286
	DefaultTableBorderSize   = 12
	DefaultHeaderBorderSize  = 6
	DefaultTableFontSize     = 21
	DefaultTOCLevels         = 3
	DefaultSeparator         = "-"
	DefaultAnchorPrefix      = "ref-"
	DefaultHeaderDistance    = 1134 // 2 cm
	DefaultSectionBreakStyle = "Section Break"
	DefaultTOCStyle          = "TOC Heading"
	DefaultAbstractStyle     = "Abstract"
	DefaultBibliographyStyle = "Bibliography"
	DefaultHeaderStyle       = "Header"
	DefaultFooterStyle       = "Footer"
	DefaultTOCPlaceholder    = "Right-click to update the table of contents."
	maxTOCLevels             = 9
	maxSizeHalfPoints        = 1638
)

// DefaultCrossRefLabels are the caption and reference words pandoc-crossref
// emits for Chinese and English documents. Latin labels match in any case.
var DefaultCrossRefLabels = []string{"图", "表", "式", "公式", "Figure", "Fig.", "Table", "Tbl.", "Eq.", "Equation"}

// Options selects and parameterizes passes.
type Options struct {
	// Passes lists pass names in run order.
	Passes []string `yaml:"passes"`
	// Title replaces {title} in header text.
	Title string `yaml:"title"`

	Tables        TableOptions        `yaml:"tables"`
	PageBreaks    PageBreakOptions    `yaml:"pageBreaks"`
	SectionBreaks SectionBreakOptions `yaml:"sectionBreaks"`
	Sections      []SectionSpec       `yaml:"sections"`
	Headers       HeaderOptions       `yaml:"headers"`
	TOC           TOCOptions          `yaml:"toc"`
	Abstract      AbstractOptions     `yaml:"abstract"`
	Equations     EquationOptions     `yaml:"equations"`
	Hyperlinks    HyperlinkOptions    `yaml:"hyperlinks"`
	CrossRefs     CrossRefOptions     `yaml:"crossrefs"`
	Bibliography  BibliographyOptions `yaml:"bibliography"`
}

// TableOptions configures three-line table normalization. Sizes are in
// eighths of a point for borders and half-points for text, widths in twips.
type TableOptions struct {
	Style            string `yaml:"style"`
	TotalWidth       int    `yaml:"totalWidth"`
	BorderSize       int    `yaml:"borderSize"`
	HeaderBorderSize int    `yaml:"headerBorderSize"`
	FontSize         int    `yaml:"fontSize"`
	FirstLineIndent  int    `yaml:"firstLineIndent"`
}

// PageBreakOptions lists the styles that start on a new page.
type PageBreakOptions struct {
	Styles []string `yaml:"styles"`
}

// SectionBreakOptions configures marker-driven section breaks.
type SectionBreakOptions struct {
	Style    string `yaml:"style"`
	Expected int    `yaml:"expected"`
}

// SectionSpec describes the numbering and running heads of one section.
type SectionSpec struct {
	Name        string `yaml:"name"`
	Format      string `yaml:"format"`
	Start       int    `yaml:"start"`
	Header      string `yaml:"header"`
	HeaderField string `yaml:"headerField"`
	EvenHeader  string `yaml:"evenHeader"`
}

// HeaderOptions configures header and footer parts shared by all sections.
type HeaderOptions struct {
	Style          string `yaml:"style"`
	FooterStyle    string `yaml:"footerStyle"`
	Border         bool   `yaml:"border"`
	FooterAlign    string `yaml:"footerAlign"`
	Distance       int    `yaml:"distance"`
	FooterDistance int    `yaml:"footerDistance"`
}

// TOCOptions configures the table of contents field.
type TOCOptions struct {
	Style       string `yaml:"style"`
	Levels      int    `yaml:"levels"`
	Placeholder string `yaml:"placeholder"`
}

// AbstractOptions configures keyword paragraph splitting.
type AbstractOptions struct {
	Style       string   `yaml:"style"`
	Font        string   `yaml:"font"`
	BoldPrefix  bool     `yaml:"boldPrefix"`
	Prefixes    []string `yaml:"prefixes"`
	SpaceBefore *int     `yaml:"spaceBefore"`
}

// EquationOptions configures display equation numbering.
type EquationOptions struct {
	Separator string `yaml:"separator"`
	TextWidth int    `yaml:"textWidth"`
}

// HyperlinkOptions configures citation link rewriting.
type HyperlinkOptions struct {
	AnchorPrefix string `yaml:"anchorPrefix"`
	Mode         string `yaml:"mode"`
}

// CrossRefOptions configures caption label rewriting.
type CrossRefOptions struct {
	Labels    []string `yaml:"labels"`
	Separator string   `yaml:"separator"`
}

// BibliographyOptions configures reference list cleanup.
type BibliographyOptions struct {
	Style          string `yaml:"style"`
	HangingIndent  int    `yaml:"hangingIndent"`
	AnchorPrefix   string `yaml:"anchorPrefix"`
	WarnUnresolved bool   `yaml:"warnUnresolved"`
}

// Defaults returns options with every default filled in and no passes
// selected.
func Defaults() Options {
	return Options{
		Tables: TableOptions{
			TotalWidth:       DefaultTableWidth,
			BorderSize:       DefaultTableBorderSize,
			HeaderBorderSize: DefaultHeaderBorderSize,
			FontSize:         DefaultTableFontSize,
		},
		PageBreaks:    PageBreakOptions{Styles: []string{"Heading 1"}},
		SectionBreaks: SectionBreakOptions{Style: DefaultSectionBreakStyle},
		Headers: HeaderOptions{
			Style:       DefaultHeaderStyle,
			FooterStyle: DefaultFooterStyle,
			FooterAlign: "center",
			Distance:    DefaultHeaderDistance,
		},
		TOC:        TOCOptions{Style: DefaultTOCStyle, Levels: DefaultTOCLevels, Placeholder: DefaultTOCPlaceholder},
		Abstract:   AbstractOptions{Style: DefaultAbstractStyle},
		Equations:  EquationOptions{Separator: DefaultSeparator},
		Hyperlinks: HyperlinkOptions{AnchorPrefix: DefaultAnchorPrefix, Mode: LinkSuperscript},
		CrossRefs:  CrossRefOptions{Labels: DefaultCrossRefLabels, Separator: DefaultSeparator},
		Bibliography: BibliographyOptions{
			Style:          DefaultBibliographyStyle,
			AnchorPrefix:   DefaultAnchorPrefix,
			WarnUnresolved: true,
		},
	}
}

// Validate checks option ranges for the selected passes.
func (o *Options) Validate() error {
	seen := make(map[string]bool, len(o.Passes))
	for _, name := range o.Passes {
		if !slices.Contains(PassNames, name) {
			return fmt.Errorf("%w: %q (known: %s)", ErrUnknownPass, name, strings.Join(PassNames, ", "))
		}
		if seen[name] {
			return fmt.Errorf("%w: pass %q listed twice", ErrInvalidOption, name)
		}
		seen[name] = true
	}

	if seen[PassTables] {
		t := o.Tables
		if t.TotalWidth <= 0 || t.BorderSize < 0 || t.HeaderBorderSize < 0 || t.FirstLineIndent < 0 {
			return fmt.Errorf("%w: tables sizes must be positive", ErrInvalidOption)
		}
		if t.FontSize <= 0 || t.FontSize > maxSizeHalfPoints {
			return fmt.Errorf("%w: tables.fontSize %d out of range 1-%d", ErrInvalidOption, t.FontSize, maxSizeHalfPoints)
		}
	}
	if seen[PassSectionBreaks] {
		if o.SectionBreaks.Style == "" {
			return fmt.Errorf("%w: sectionBreaks.style is empty", ErrInvalidOption)
		}
		if o.SectionBreaks.Expected < 0 {
			return fmt.Errorf("%w: sectionBreaks.expected is negative", ErrInvalidOption)
		}
	}
	if seen[PassSections] || seen[PassHeaders] {
		if len(o.Sections) == 0 {
			return fmt.Errorf("%w: sections must not be empty", ErrInvalidOption)
		}
		for i, s := range o.Sections {
			if !slices.Contains(pageNumberFormats, s.Format) {
				return fmt.Errorf("%w: sections[%d].format %q (want one of %s)",
					ErrInvalidOption, i, s.Format, strings.Join(pageNumberFormats, ", "))
			}
			if s.Start < 0 {
				return fmt.Errorf("%w: sections[%d].start is negative", ErrInvalidOption, i)
			}
		}
		if seen[PassSectionBreaks] && o.SectionBreaks.Expected > 0 && o.SectionBreaks.Expected+1 != len(o.Sections) {
			return fmt.Errorf("%w: %d section breaks make %d sections, but %d are described",
				ErrInvalidOption, o.SectionBreaks.Expected, o.SectionBreaks.Expected+1, len(o.Sections))
		}
	}
	if seen[PassHeaders] {
		switch o.Headers.FooterAlign {
		case "left", "center", "right":
		default:
			return fmt.Errorf("%w: headers.footerAlign %q (want left, center or right)", ErrInvalidOption, o.Headers.FooterAlign)
		}
		if o.Headers.Distance < 0 || o.Headers.FooterDistance < 0 {
			return fmt.Errorf("%w: header distances must not be negative", ErrInvalidOption)
		}
	}
	if seen[PassTOC] {
		if o.TOC.Levels < 1 || o.TOC.Levels > maxTOCLevels {
			return fmt.Errorf("%w: toc.levels %d out of range 1-%d", ErrInvalidOption, o.TOC.Levels, maxTOCLevels)
		}
		if o.TOC.Style == "" {
			return fmt.Errorf("%w: toc.style is empty", ErrInvalidOption)
		}
	}
	if seen[PassAbstract] && o.Abstract.Style == "" {
		return fmt.Errorf("%w: abstract.style is empty", ErrInvalidOption)
	}
	if seen[PassAbstract] && o.Abstract.SpaceBefore != nil && *o.Abstract.SpaceBefore < 0 {
		return fmt.Errorf("%w: abstract.spaceBefore is negative", ErrInvalidOption)
	}
	if seen[PassEquations] && o.Equations.TextWidth < 0 {
		return fmt.Errorf("%w: equations.textWidth is negative", ErrInvalidOption)
	}
	if seen[PassHyperlinks] {
		switch o.Hyperlinks.Mode {
		case LinkSuperscript, LinkPlain, LinkUnlink:
		default:
			return fmt.Errorf("%w: hyperlinks.mode %q (want superscript, plain or unlink)", ErrInvalidOption, o.Hyperlinks.Mode)
		}
		if o.Hyperlinks.AnchorPrefix == "" {
			return fmt.Errorf("%w: hyperlinks.anchorPrefix is empty", ErrInvalidOption)
		}
	}
	if seen[PassCrossRefs] && len(o.CrossRefs.Labels) == 0 {
		return fmt.Errorf("%w: crossrefs.labels is empty", ErrInvalidOption)
	}
	if seen[PassBibliography] && o.Bibliography.Style == "" {
		return fmt.Errorf("%w: bibliography.style is empty", ErrInvalidOption)
	}
	return nil
}
