package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-md2thesis/internal/assets"
	"github.com/alnah/go-md2thesis/internal/dateutil"
	"github.com/alnah/go-md2thesis/internal/fileutil"
	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/hints"
	"github.com/alnah/go-md2thesis/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxProfileLength = 64
	MaxTitleLength   = 300  // Chinese thesis titles run long
	MaxPathLength    = 4096 // PATH_MAX
	MaxPatternLength = 255  // single file name
	MaxArgLength     = 1024
	MaxFilters       = 16
	MaxExtraArgs     = 64
)

// DefaultProfile is used when neither config nor flags name one.
const DefaultProfile = "thesis"

// DefaultTimeout bounds one pandoc run.
const DefaultTimeout = 2 * time.Minute

// DefaultOutputPattern names the output after the Markdown file.
const DefaultOutputPattern = "{stem}.docx"

// Config holds all configuration for one conversion run.
type Config struct {
	// Profile names the formatting profile the rest of the file overrides.
	Profile string `yaml:"profile"`
	// ProfileDir is an optional directory of custom {name}.yaml profiles.
	ProfileDir string `yaml:"profileDir"`
	// Title overrides front matter and the first heading.
	Title string `yaml:"title"`
	// Output is the output file name pattern; {title}, {stem} and {date}
	// expand.
	Output string `yaml:"output"`
	// DateFormat is the layout or preset {date} expands with.
	DateFormat string `yaml:"dateFormat"`

	Pandoc PandocConfig   `yaml:"pandoc"`
	Format format.Options `yaml:"format"`
}

// PandocConfig defines how pandoc is invoked.
type PandocConfig struct {
	Binary       string   `yaml:"binary"`       // Empty = "pandoc" on PATH
	Filters      []string `yaml:"filters"`      // Run in order, e.g. pandoc-crossref
	ReferenceDoc string   `yaml:"referenceDoc"` // Word template with the marker styles
	CSL          string   `yaml:"csl"`
	Bibliography []string `yaml:"bibliography"`
	Citeproc     bool     `yaml:"citeproc"`
	ExtraArgs    []string `yaml:"extraArgs"`
	// PrepareReference adds missing marker styles to a temporary copy of
	// ReferenceDoc (or of pandoc's built-in reference.docx) before the
	// conversion.
	PrepareReference bool   `yaml:"prepareReference"`
	Timeout          string `yaml:"timeout"` // Go duration, e.g. "90s"
}

// TimeoutDuration parses Timeout, falling back to DefaultTimeout when empty.
func (p PandocConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pandoc.timeout %q: %v", ErrInvalidConfig, p.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: pandoc.timeout must be positive, got %s", ErrInvalidConfig, d)
	}
	return d, nil
}

// Validate checks field lengths and the format options.
// Called automatically by LoadConfig and Resolve, but available for
// consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("profile", c.Profile, MaxProfileLength); err != nil {
		return err
	}
	if err := validateFieldLength("profileDir", c.ProfileDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("output", c.Output, MaxPatternLength); err != nil {
		return err
	}
	if c.DateFormat != "" {
		if err := dateutil.Validate(c.DateFormat); err != nil {
			return fmt.Errorf("%w: dateFormat: %w", ErrInvalidConfig, err)
		}
	}

	p := c.Pandoc
	if err := validateFieldLength("pandoc.binary", p.Binary, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("pandoc.referenceDoc", p.ReferenceDoc, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("pandoc.csl", p.CSL, MaxPathLength); err != nil {
		return err
	}
	if len(p.Filters) > MaxFilters {
		return fmt.Errorf("%w: pandoc.filters has %d entries (max %d)", ErrInvalidConfig, len(p.Filters), MaxFilters)
	}
	for i, f := range p.Filters {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: pandoc.filters[%d] is empty", ErrInvalidConfig, i)
		}
		if err := validateFieldLength(fmt.Sprintf("pandoc.filters[%d]", i), f, MaxPathLength); err != nil {
			return err
		}
	}
	for i, b := range p.Bibliography {
		if err := validateFieldLength(fmt.Sprintf("pandoc.bibliography[%d]", i), b, MaxPathLength); err != nil {
			return err
		}
	}
	if len(p.ExtraArgs) > MaxExtraArgs {
		return fmt.Errorf("%w: pandoc.extraArgs has %d entries (max %d)", ErrInvalidConfig, len(p.ExtraArgs), MaxExtraArgs)
	}
	for i, a := range p.ExtraArgs {
		if err := validateFieldLength(fmt.Sprintf("pandoc.extraArgs[%d]", i), a, MaxArgLength); err != nil {
			return err
		}
	}
	if _, err := p.TimeoutDuration(); err != nil {
		return err
	}

	if err := c.Format.Validate(); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration every profile is layered on:
// format defaults, no passes, pandoc on PATH with citeproc.
func DefaultConfig() *Config {
	return &Config{
		Profile: DefaultProfile,
		Output:  DefaultOutputPattern,
		Pandoc: PandocConfig{
			Citeproc: true,
		},
		Format: format.Defaults(),
	}
}

// ApplyProfile decodes the named profile from loader over c. Fields the
// profile does not mention keep their current values.
func (c *Config) ApplyProfile(loader assets.ProfileLoader, name string) error {
	data, err := loader.LoadProfile(name)
	if err != nil {
		return err
	}
	if err := yamlutil.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("%w: profile %q: %v", ErrConfigParse, name, err)
	}
	c.Profile = name
	return nil
}

// Resolve builds a Config from a user config document: the profile it
// names (or profile, when non-empty, which wins) is applied over the
// defaults, then data is decoded strictly on top. data may be empty.
func Resolve(data []byte, profile string) (*Config, error) {
	return resolve(data, profile, "")
}

// resolve is Resolve with a relative profileDir taken from dir.
func resolve(data []byte, profile, dir string) (*Config, error) {
	var head struct {
		Profile    string `yaml:"profile"`
		ProfileDir string `yaml:"profileDir"`
	}
	if len(data) > 0 {
		if err := yamlutil.Unmarshal(data, &head); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	name := DefaultProfile
	switch {
	case profile != "":
		name = profile
	case head.Profile != "":
		name = head.Profile
	}

	profileDir := head.ProfileDir
	if profileDir != "" && dir != "" && !filepath.IsAbs(profileDir) {
		profileDir = filepath.Join(dir, profileDir)
	}
	loader, err := assets.NewResolver(profileDir)
	if err != nil {
		return nil, fmt.Errorf("profileDir: %w", err)
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyProfile(loader, name); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}
	cfg.Profile = name

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a file path or config name and
// resolves it against its profile. If nameOrPath contains a path
// separator, it's treated as a file path. Otherwise, it's treated as a
// config name and searched in standard locations. profile, when non-empty,
// overrides the profile the file names.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath, profile string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := resolve(data, profile, filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	cfg.resolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

// resolvePaths makes relative file settings relative to dir, the
// directory of the config file.
func (c *Config) resolvePaths(dir string) {
	rel := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.ProfileDir = rel(c.ProfileDir)
	c.Pandoc.ReferenceDoc = rel(c.Pandoc.ReferenceDoc)
	c.Pandoc.CSL = rel(c.Pandoc.CSL)
	for i, b := range c.Pandoc.Bibliography {
		c.Pandoc.Bibliography[i] = rel(b)
	}
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/md2thesis/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "md2thesis", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}
