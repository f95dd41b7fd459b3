package format

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Pipeline runs passes in order over one document.
type Pipeline struct {
	passes []Pass
	logger *slog.Logger
}

// NewPipeline validates opts and builds the passes they select. A nil
// logger discards log output.
func NewPipeline(opts Options, logger *slog.Logger) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	passes := make([]Pass, 0, len(opts.Passes))
	for _, name := range opts.Passes {
		p, err := newPass(name, opts)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return &Pipeline{passes: passes, logger: logger}, nil
}

func newPass(name string, o Options) (Pass, error) {
	switch name {
	case PassTables:
		return NewTables(o.Tables), nil
	case PassTOC:
		return NewTOC(o.TOC), nil
	case PassPageBreaks:
		return NewPageBreaks(o.PageBreaks, o.SectionBreaks.Style), nil
	case PassSectionBreaks:
		return NewSectionBreaks(o.SectionBreaks), nil
	case PassSections:
		return NewSections(o.Sections), nil
	case PassHeaders:
		return NewHeaders(o.Headers, o.Sections, o.Title), nil
	case PassEquations:
		return NewEquations(o.Equations), nil
	case PassAbstract:
		return NewAbstract(o.Abstract), nil
	case PassHyperlinks:
		return NewHyperlinks(o.Hyperlinks), nil
	case PassCrossRefs:
		return NewCrossRefs(o.CrossRefs), nil
	case PassFields:
		return NewFields(), nil
	case PassBibliography:
		return NewBibliography(o.Bibliography), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPass, name)
}

// Names returns the pass names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// Run applies every pass to doc. It stops at the first failing pass or when
// ctx is cancelled; doc is then partially formatted and must not be saved.
func (p *Pipeline) Run(ctx context.Context, doc *ooxml.Document, r *Report) error {
	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := pass.Apply(ctx, doc, r); err != nil {
			return fmt.Errorf("%s: %w", pass.Name(), err)
		}
		p.logger.Debug("pass applied", "pass", pass.Name(), "elapsed", time.Since(start))
	}
	return nil
}
