package main

import (
	"fmt"
	"io"
	"log/slog"

	md2thesis "github.com/alnah/go-md2thesis"
	"github.com/alnah/go-md2thesis/internal/config"
)

// loadConfig resolves the configuration for a command.
// Precedence: CLI flags > env vars > config file > profile > defaults.
// Command-specific flags are merged by the caller.
func loadConfig(f commonFlags, envCfg *envConfig) (*config.Config, error) {
	name := f.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	profile := f.profile
	if profile == "" {
		profile = envCfg.Profile
	}

	var cfg *config.Config
	var err error
	if name != "" {
		cfg, err = config.LoadConfig(name, profile)
	} else {
		cfg, err = config.Resolve(nil, profile)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// newLogger returns a text logger on w: errors only with quiet, debug with
// verbose, warnings otherwise.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newConverter builds a converter with the environment's runner and clock
// and a logger matching the verbosity flags.
func newConverter(cfg *config.Config, f commonFlags, env *Environment, opts ...md2thesis.Option) (*md2thesis.Converter, error) {
	opts = append([]md2thesis.Option{
		md2thesis.WithRunner(env.Runner),
		md2thesis.WithLogger(newLogger(env.Stderr, f.quiet, f.verbose)),
		md2thesis.WithClock(env.Now),
	}, opts...)
	return md2thesis.New(cfg, opts...)
}

// printReport writes warnings and, when verbose, pass counters for one
// document.
func printReport(env *Environment, res *md2thesis.Result, quiet, verbose bool) {
	if res.Report == nil || quiet {
		return
	}
	r := res.Report
	for _, w := range r.Warnings {
		fmt.Fprintf(env.Stderr, "warning: %s: %s\n", res.Output, w)
	}
	if !verbose {
		return
	}
	fmt.Fprintf(env.Stdout, "  tables=%d sections=%d headers=%d toc=%d equations=%d crossrefs=%d references=%d hyperlinks=%d\n",
		r.Tables, r.Sections, r.Headers, r.TOC, r.Equations, r.CrossRefs, r.References, r.Hyperlinks)
	if keys := r.CitationKeys(); len(keys) > 0 {
		fmt.Fprintf(env.Stdout, "  citations: %d key(s)\n", len(keys))
	}
	if res.Verified {
		s := res.Summary
		fmt.Fprintf(env.Stdout, "  verified: %d paragraphs, %d headings, %d tables, %d characters\n",
			s.Paragraphs, s.Headings, s.Tables, s.Characters)
	}
}
