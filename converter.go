package md2thesis

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2thesis/internal/dateutil"
	"github.com/alnah/go-md2thesis/internal/fileutil"
	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/hints"
	"github.com/alnah/go-md2thesis/internal/mdmeta"
	"github.com/alnah/go-md2thesis/internal/ooxml"
	"github.com/alnah/go-md2thesis/internal/verify"
)

// File permissions for written documents and created directories.
const (
	filePermissions = 0o644
	dirPermissions  = 0o750
)

// Converter compiles Markdown to .docx through pandoc and applies the
// configured formatting passes to the result.
// A Converter is safe for concurrent use: every call works on its own
// document and temporary files.
type Converter struct {
	cfg     *Config
	runner  CommandRunner
	logger  *slog.Logger
	binary  string
	timeout time.Duration
	verify  bool
	now     func() time.Time
}

// New creates a Converter for cfg. A nil cfg uses the default profile.
// Returns error if cfg is invalid.
func New(cfg *Config, opts ...Option) (*Converter, error) {
	if cfg == nil {
		var err error
		if cfg, err = DefaultConfig(""); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout, err := cfg.Pandoc.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	c := &Converter{
		cfg:     cfg,
		runner:  &ExecRunner{},
		logger:  slog.New(slog.DiscardHandler),
		binary:  cmp.Or(cfg.Pandoc.Binary, DefaultPandocBinary),
		timeout: timeout,
		verify:  true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the configuration the converter was built with.
func (c *Converter) Config() *Config { return c.cfg }

// Convert compiles in.Path with pandoc, formats the generated document and
// writes it to the output path.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	meta, err := readMeta(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	title := meta.Title(cmp.Or(in.Title, c.cfg.Title), in.Path)
	output, err := c.outputFor(in, title)
	if err != nil {
		return nil, err
	}
	log := c.logger.With("input", in.Path)
	log.Debug("resolved document", "title", title, "output", output, "citations", len(meta.Citations))

	referenceDoc := c.cfg.Pandoc.ReferenceDoc
	if c.cfg.Pandoc.PrepareReference {
		path, cleanup, err := c.preparedReference(ctx, referenceDoc)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		referenceDoc = path
	}

	tmp, cleanup, err := fileutil.TempPath("docx")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	args := pandocArgs(c.cfg.Pandoc, in.Path, tmp, referenceDoc, filepath.Dir(in.Path))
	log.Debug("running pandoc", "binary", c.binary, "args", args)
	start := time.Now()
	pctx, cancel := context.WithTimeout(ctx, c.timeout)
	_, err = runPandoc(pctx, c.runner, c.binary, args...)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}
	log.Debug("pandoc finished", "elapsed", time.Since(start))

	res := &Result{Output: output, Title: title}
	if in.KeepPandocOutput {
		raw := strings.TrimSuffix(output, filepath.Ext(output)) + ".pandoc.docx"
		if err := copyFile(tmp, raw); err != nil {
			return nil, err
		}
		res.PandocOutput = raw
	}

	report := format.NewReport()
	report.SourceCitations = meta.Citations
	if len(meta.Citations) > 0 && c.cfg.Pandoc.Citeproc &&
		len(meta.Bibliography) == 0 && len(c.cfg.Pandoc.Bibliography) == 0 {
		report.Warn("%d citation key(s) but no bibliography in front matter or config", len(meta.Citations))
	}

	if err := c.formatFile(ctx, tmp, res, report); err != nil {
		return nil, err
	}
	return res, nil
}

// Format applies the formatting passes to an existing .docx, typically
// one pandoc produced earlier. in.Output defaults to <stem>-formatted.docx
// beside in.Path, or in in.OutputDir; in.KeepPandocOutput is ignored.
func (c *Converter) Format(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if in.Path == "" {
		return nil, ErrEmptyInput
	}
	output := in.Output
	if output == "" {
		output = strings.TrimSuffix(in.Path, filepath.Ext(in.Path)) + "-formatted.docx"
		if in.OutputDir != "" {
			output = filepath.Join(in.OutputDir, filepath.Base(output))
		}
	}
	res := &Result{Output: output, Title: cmp.Or(in.Title, c.cfg.Title)}
	if err := c.formatFile(ctx, in.Path, res, format.NewReport()); err != nil {
		return nil, err
	}
	return res, nil
}

// formatFile runs the passes over the document at src and writes
// res.Output. An empty res.Title is taken from the document properties or
// the file name.
func (c *Converter) formatFile(ctx context.Context, src string, res *Result, report *Report) error {
	doc, err := ooxml.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if res.Title == "" {
		res.Title = cmp.Or(coreTitle(doc.Package), strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
	}

	opts := c.cfg.Format
	opts.Title = res.Title
	pipeline, err := format.NewPipeline(opts, c.logger)
	if err != nil {
		return err
	}
	if err := pipeline.Run(ctx, doc, report); err != nil {
		return err
	}
	res.Report = report

	data, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("serializing document: %w", err)
	}
	if err := writeOutput(res.Output, data); err != nil {
		return err
	}
	c.logger.Info("document written", "output", res.Output, "passes", len(opts.Passes), "warnings", len(report.Warnings))

	if !c.verify {
		return nil
	}
	summary, err := verify.File(res.Output)
	if err != nil {
		return err
	}
	res.Summary = summary
	res.Verified = true
	return nil
}

// PrepareReference adds the marker styles the configured passes rely on
// to a pandoc reference document and returns the names it created. An
// empty in starts from pandoc's built-in reference.docx; an empty out
// rewrites in, or writes reference.docx when in is empty too.
func (c *Converter) PrepareReference(ctx context.Context, in, out string) ([]string, error) {
	data, err := c.referenceSource(ctx, in)
	if err != nil {
		return nil, err
	}
	created, prepared, err := c.prepare(data)
	if err != nil {
		return nil, err
	}
	if out == "" {
		out = cmp.Or(in, "reference.docx")
	}
	if err := writeOutput(out, prepared); err != nil {
		return nil, err
	}
	c.logger.Info("reference document written", "output", out, "created", created)
	return created, nil
}

// preparedReference writes a prepared copy of referenceDoc to a temporary
// file for one pandoc run.
func (c *Converter) preparedReference(ctx context.Context, referenceDoc string) (string, func(), error) {
	data, err := c.referenceSource(ctx, referenceDoc)
	if err != nil {
		return "", nil, err
	}
	created, prepared, err := c.prepare(data)
	if err != nil {
		return "", nil, err
	}
	if len(created) > 0 {
		c.logger.Debug("added marker styles to reference document", "styles", created)
	}
	return fileutil.WriteTempFile(prepared, "docx")
}

// referenceSource reads path, or asks pandoc for its default reference
// document when path is empty.
func (c *Converter) referenceSource(ctx context.Context, path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- reference path is user-provided
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReference, err)
		}
		return data, nil
	}

	pctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	stdout, err := runPandoc(pctx, c.runner, c.binary, "--print-default-data-file", "reference.docx")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReference, err)
	}
	return []byte(stdout), nil
}

func (c *Converter) prepare(data []byte) ([]string, []byte, error) {
	doc, err := ooxml.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReference, err)
	}
	created := format.PrepareReference(doc, c.cfg.Format)
	out, err := doc.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReference, err)
	}
	return created, out, nil
}

// ResolveOutput returns the file Convert would write for in, without
// running pandoc. Batches use it to reject inputs that collide.
func (c *Converter) ResolveOutput(ctx context.Context, in Input) (string, error) {
	if in.Output != "" {
		return in.Output, nil
	}
	meta, err := readMeta(ctx, in.Path)
	if err != nil {
		return "", err
	}
	return c.outputFor(in, meta.Title(cmp.Or(in.Title, c.cfg.Title), in.Path))
}

func (c *Converter) outputFor(in Input, title string) (string, error) {
	if in.Output != "" {
		return in.Output, nil
	}
	date, err := dateutil.Format(cmp.Or(c.cfg.DateFormat, dateutil.DefaultFormat), c.now())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	output := OutputPath(c.cfg.Output, title, date, in.Path)
	if in.OutputDir != "" {
		output = filepath.Join(in.OutputDir, filepath.Base(output))
	}
	return output, nil
}

func readMeta(ctx context.Context, path string) (*mdmeta.Meta, error) {
	if path == "" {
		return nil, ErrEmptyInput
	}
	src, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	meta, err := mdmeta.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	return meta, nil
}

// OutputPath expands an output pattern for the Markdown file at input.
// {title} is replaced by title made safe for file names, {stem} by the
// input name without extension and {date} by date. Relative results are
// placed beside input; a missing .docx extension is added.
func OutputPath(pattern, title, date, input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := strings.NewReplacer(
		"{title}", sanitizeFileName(title),
		"{stem}", stem,
		"{date}", date,
	).Replace(cmp.Or(pattern, "{stem}.docx"))
	if !strings.EqualFold(filepath.Ext(name), ".docx") {
		name += ".docx"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(input), name)
}

// sanitizeFileName replaces characters that are invalid in file names on
// any supported OS.
func sanitizeFileName(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, s)
	s = strings.Trim(s, " .")
	if s == "" {
		return "untitled"
	}
	return s
}

// coreTitle returns dc:title from the package's core properties.
func coreTitle(pkg *ooxml.Package) string {
	const core = "docProps/core.xml"
	if !pkg.Has(core) {
		return ""
	}
	doc, err := pkg.XML(core)
	if err != nil {
		return ""
	}
	if el := doc.FindElement("//dc:title"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// writeOutput creates the parent directory and writes data atomically.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: creating %s: %w%s", ErrWriteOutput, dir, err, hints.ForOutputDirectory())
		}
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) // #nosec G304 -- temp file we created
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return writeOutput(dst, data)
}
