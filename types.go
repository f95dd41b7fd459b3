package md2thesis

import (
	"github.com/alnah/go-md2thesis/internal/assets"
	"github.com/alnah/go-md2thesis/internal/config"
	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/verify"
)

// Config is the resolved configuration of a Converter: profile defaults,
// user overrides and pandoc settings.
type Config = config.Config

// PandocConfig defines how pandoc is invoked.
type PandocConfig = config.PandocConfig

// FormatOptions selects the formatting passes and their parameters.
type FormatOptions = format.Options

// Report collects what the formatting passes changed.
type Report = format.Report

// Summary describes the body of a verified output document.
type Summary = verify.Summary

// Input describes one Markdown conversion.
type Input struct {
	// Path is the Markdown source. Required.
	Path string
	// Output is the .docx to write. Empty expands Config.Output beside Path,
	// or in OutputDir when set.
	Output    string
	OutputDir string
	// Title overrides Config.Title, the front matter and the first heading.
	Title string
	// KeepPandocOutput saves pandoc's unformatted document as
	// <output stem>.pandoc.docx.
	KeepPandocOutput bool
}

// Result describes a finished conversion or formatting run.
type Result struct {
	Output string
	Title  string
	// PandocOutput is the kept unformatted document, if any.
	PandocOutput string
	Report       *Report
	// Summary is zero when verification is disabled.
	Summary  Summary
	Verified bool
}

// LoadConfig loads a config file by path or name and resolves it over its
// profile. A non-empty profile overrides the one the file names.
func LoadConfig(nameOrPath, profile string) (*Config, error) {
	return config.LoadConfig(nameOrPath, profile)
}

// DefaultConfig returns the configuration of an embedded profile with no
// user overrides. Empty profile selects the default.
func DefaultConfig(profile string) (*Config, error) {
	return config.Resolve(nil, profile)
}

// ProfileNames lists the embedded profiles.
func ProfileNames() []string {
	return assets.ProfileNames()
}
