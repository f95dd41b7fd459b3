package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	profile string
	quiet   bool
	verbose bool
}

// pandocFlags override the pandoc section of the config.
type pandocFlags struct {
	bibliography []string
	csl          string
	referenceDoc string
	timeout      string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common           commonFlags
	pandoc           pandocFlags
	output           string
	workers          int
	title            string
	keepPandocOutput bool
	noVerify         bool
}

// formatFlags holds flags for the format command.
type formatFlags struct {
	common   commonFlags
	output   string
	title    string
	noVerify bool
}

// prepareRefFlags holds flags for the prepare-ref command.
type prepareRefFlags struct {
	common commonFlags
	output string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.profile, "profile", "p", "", "formatting profile: thesis, proposal, generic")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show pass details and timing")
}

// addPandocFlags adds pandoc override flags to a FlagSet.
func addPandocFlags(fs *flag.FlagSet, f *pandocFlags) {
	fs.StringSliceVar(&f.bibliography, "bibliography", nil, "bibliography file (repeatable)")
	fs.StringVar(&f.csl, "csl", "", "citation style file")
	fs.StringVar(&f.referenceDoc, "reference-doc", "", "Word reference document")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "pandoc timeout (e.g., 90s, 5m)")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
func newFlagSet(name string, usage func(io.Writer), w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", printConvertUsage, w)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = front matter, then H1)")
	fs.BoolVar(&f.keepPandocOutput, "keep-pandoc-output", false, "keep pandoc's unformatted .docx")
	fs.BoolVar(&f.noVerify, "no-verify", false, "skip re-reading the output")
	addCommonFlags(fs, &f.common)
	addPandocFlags(fs, &f.pandoc)

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return f, fs.Args(), nil
}

// parseFormatFlags parses format command flags and returns positional args.
func parseFormatFlags(args []string, w io.Writer) (*formatFlags, []string, error) {
	f := &formatFlags{}
	fs := newFlagSet("format", printFormatUsage, w)

	fs.StringVarP(&f.output, "output", "o", "", "output file")
	fs.StringVar(&f.title, "title", "", "title used in headers")
	fs.BoolVar(&f.noVerify, "no-verify", false, "skip re-reading the output")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return f, fs.Args(), nil
}

// parsePrepareRefFlags parses prepare-ref command flags and returns positional args.
func parsePrepareRefFlags(args []string, w io.Writer) (*prepareRefFlags, []string, error) {
	f := &prepareRefFlags{}
	fs := newFlagSet("prepare-ref", printPrepareRefUsage, w)

	fs.StringVarP(&f.output, "output", "o", "", "output file (default: rewrite input)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return f, fs.Args(), nil
}
