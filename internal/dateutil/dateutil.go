// Package dateutil formats dates for output file names.
//
// Layouts use the tokens YYYY, YY, MM, M, DD and D; anything else is
// copied as is, so "YYYY年M月" yields "2026年6月". Text in brackets is
// always literal: "[v]YYYYMMDD" yields "v20260601".
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date layout.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits layout length.
const MaxDateFormatLength = 50

// DefaultFormat is used when a pattern references {date} without a layout.
const DefaultFormat = "iso"

// Presets are named layouts.
var Presets = map[string]string{
	"iso":     "YYYY-MM-DD",
	"compact": "YYYYMMDD",
	"month":   "YYYY-MM",
	"zh":      "YYYY年M月D日",
}

// tokens are tried longest first.
var tokens = []struct {
	token string
	value func(time.Time) string
}{
	{"YYYY", func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }},
	{"YY", func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) }},
	{"MM", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"DD", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
}

// Validate checks a layout or preset name without formatting anything.
func Validate(layout string) error {
	_, err := Format(layout, time.Time{})
	return err
}

// Format renders t with layout, which may be a preset name.
// Returns ErrInvalidDateFormat if the layout is empty, too long, has an
// unclosed bracket or contains a path separator.
func Format(layout string, t time.Time) (string, error) {
	if preset, ok := Presets[strings.ToLower(layout)]; ok {
		layout = preset
	}
	if layout == "" {
		return "", fmt.Errorf("%w: layout cannot be empty", ErrInvalidDateFormat)
	}
	if len(layout) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: layout exceeds %d bytes", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if strings.ContainsAny(layout, `/\`) {
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidDateFormat, layout)
	}

	var b strings.Builder
	for i := 0; i < len(layout); {
		if layout[i] == '[' {
			end := strings.IndexByte(layout[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(layout[i+1 : i+1+end])
			i += end + 2
			continue
		}
		if tok, ok := matchToken(layout[i:]); ok {
			b.WriteString(tokens[tok].value(t))
			i += len(tokens[tok].token)
			continue
		}
		b.WriteByte(layout[i])
		i++
	}
	return b.String(), nil
}

func matchToken(s string) (int, bool) {
	for i, tok := range tokens {
		if strings.HasPrefix(s, tok.token) {
			return i, true
		}
	}
	return 0, false
}
