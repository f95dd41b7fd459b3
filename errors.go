package md2thesis

import (
	"errors"

	"github.com/alnah/go-md2thesis/internal/config"
	"github.com/alnah/go-md2thesis/internal/format"
	"github.com/alnah/go-md2thesis/internal/ooxml"
	"github.com/alnah/go-md2thesis/internal/verify"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("input path cannot be empty")
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")
	ErrPandoc         = errors.New("pandoc failed")
	ErrPandocNotFound = errors.New("pandoc not found")
	ErrReference      = errors.New("failed to prepare reference document")
)

// Document structure errors, re-exported so callers need not import
// internal packages to classify failures.
var (
	ErrNotPackage     = ooxml.ErrNotPackage
	ErrPartNotFound   = ooxml.ErrPartNotFound
	ErrStyleNotFound  = ooxml.ErrStyleNotFound
	ErrNoSection      = ooxml.ErrNoSection
	ErrSectionCount   = format.ErrSectionCount
	ErrMarkerNotFound = format.ErrMarkerNotFound
	ErrAbstractFormat = format.ErrAbstractFormat
	ErrEquationLabel  = format.ErrEquationLabel
	ErrTableShape     = format.ErrTableShape
	ErrVerify         = verify.ErrVerify
)

// Configuration errors.
var (
	ErrConfigNotFound = config.ErrConfigNotFound
	ErrConfigParse    = config.ErrConfigParse
	ErrInvalidConfig  = config.ErrInvalidConfig
	ErrInvalidOption  = format.ErrInvalidOption
	ErrUnknownPass    = format.ErrUnknownPass
)
