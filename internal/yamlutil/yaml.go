// Package yamlutil wraps YAML parsing to isolate the external dependency.
// Configuration files, embedded profiles and Markdown front matter all go
// through here.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, ignoring unknown fields. Fields of v that
// the input does not mention keep their current values, which is how
// profile defaults are layered under user settings.
func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

var (
	utf8BOM    = []byte("\xef\xbb\xbf")
	fenceOpen  = []byte("---")
	fenceClose = [][]byte{[]byte("---"), []byte("...")}
)

// SplitFrontMatter separates a leading YAML metadata block from Markdown
// source. The block opens with a "---" line and closes with "---" or "...".
// ok is false when src has no well-formed block; body is then src itself.
func SplitFrontMatter(src []byte) (meta, body []byte, ok bool) {
	rest := bytes.TrimPrefix(src, utf8BOM)
	first, rest, found := cutLine(rest)
	if !found || !bytes.Equal(bytes.TrimRight(first, " \t"), fenceOpen) {
		return nil, src, false
	}

	start := len(src) - len(rest)
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		trimmed := bytes.TrimRight(line, " \t")
		for _, f := range fenceClose {
			if bytes.Equal(trimmed, f) {
				end := len(src) - len(rest)
				return src[start:end], next, true
			}
		}
		rest = next
	}
	return nil, src, false
}

// UnmarshalFrontMatter decodes the front matter of src into v and returns
// the remaining Markdown body. A document without front matter leaves v
// untouched.
func UnmarshalFrontMatter(src []byte, v any) (body []byte, err error) {
	meta, body, ok := SplitFrontMatter(src)
	if !ok || len(bytes.TrimSpace(meta)) == 0 {
		return body, nil
	}
	if err := Unmarshal(meta, v); err != nil {
		return src, err
	}
	return body, nil
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found || len(line) > 0
}
