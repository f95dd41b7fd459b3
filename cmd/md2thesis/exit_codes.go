package main

import (
	"errors"
	"os"

	md2thesis "github.com/alnah/go-md2thesis"
	"github.com/alnah/go-md2thesis/internal/assets"
	"github.com/alnah/go-md2thesis/internal/config"
	"github.com/alnah/go-md2thesis/internal/dateutil"
	"github.com/alnah/go-md2thesis/internal/ooxml"
)

// Exit codes for the md2thesis CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitPandoc   = 4 // pandoc missing or failed
	ExitDocument = 5 // Document structure does not match the profile
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Pandoc errors (exit 4)
	if errors.Is(err, md2thesis.ErrPandoc) ||
		errors.Is(err, md2thesis.ErrPandocNotFound) {
		return ExitPandoc
	}

	// Document structure errors (exit 5)
	if errors.Is(err, md2thesis.ErrSectionCount) ||
		errors.Is(err, md2thesis.ErrMarkerNotFound) ||
		errors.Is(err, md2thesis.ErrAbstractFormat) ||
		errors.Is(err, md2thesis.ErrEquationLabel) ||
		errors.Is(err, md2thesis.ErrTableShape) ||
		errors.Is(err, md2thesis.ErrStyleNotFound) ||
		errors.Is(err, md2thesis.ErrNoSection) ||
		errors.Is(err, md2thesis.ErrNotPackage) ||
		errors.Is(err, md2thesis.ErrPartNotFound) ||
		errors.Is(err, ooxml.ErrPartParse) ||
		errors.Is(err, ooxml.ErrInvalidElement) ||
		errors.Is(err, md2thesis.ErrVerify) {
		return ExitDocument
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2thesis.ErrReadInput) ||
		errors.Is(err, md2thesis.ErrWriteOutput) ||
		errors.Is(err, md2thesis.ErrReference) ||
		errors.Is(err, assets.ErrProfileRead) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, md2thesis.ErrInvalidOption) ||
		errors.Is(err, md2thesis.ErrUnknownPass) ||
		errors.Is(err, md2thesis.ErrEmptyInput) ||
		errors.Is(err, assets.ErrProfileNotFound) ||
		errors.Is(err, assets.ErrInvalidProfileName) ||
		errors.Is(err, assets.ErrInvalidProfileDir) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) {
		return ExitUsage
	}

	return ExitGeneral
}
