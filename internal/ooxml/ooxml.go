// Package ooxml exposes the parts of a WordprocessingML package that the
// formatting passes mutate.
//
// A Package is the zip container with lazily parsed XML parts. A Document
// wraps the main document part together with its styles, settings and
// relationships. Elements are plain etree nodes: prefixes written by the
// producer (w:, m:, r:) are kept as-is on round trips, so every query in
// this package uses the conventional prefixes.
package ooxml

import "errors"

// Sentinel errors for package and document operations.
var (
	ErrNotPackage     = errors.New("not an OOXML package")
	ErrPartNotFound   = errors.New("part not found")
	ErrPartParse      = errors.New("failed to parse part")
	ErrStyleNotFound  = errors.New("style not found")
	ErrNoSection      = errors.New("document has no section properties")
	ErrInvalidElement = errors.New("unexpected element")
)

// XML namespaces used by WordprocessingML parts.
const (
	NSMain          = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSMath          = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	NSPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	RelHeader         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

// Content types.
const (
	CTSettings = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	CTStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	CTHeader   = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	CTFooter   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
)

// Well-known part names.
const (
	ContentTypesPart = "[Content_Types].xml"
	RootRelsPart     = "_rels/.rels"
	DefaultMainPart  = "word/document.xml"
)
