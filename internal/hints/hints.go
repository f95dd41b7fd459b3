// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/alnah/go-md2thesis/internal/fileutil"
)

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForPandocNotFound returns hints for a missing pandoc binary.
func ForPandocNotFound() string {
	hints := []string{"install pandoc from https://pandoc.org/installing.html"}
	switch {
	case IsInContainer():
		hints = []string{"apt-get install pandoc (or use the pandoc/core image)"}
	case runtime.GOOS == "darwin":
		hints = append(hints, "or run: brew install pandoc")
	}
	hints = append(hints, "set MD2THESIS_PANDOC to use a custom binary")
	return formatHints(hints)
}

// ForPandocFilter returns a hint when pandoc failed to load a filter.
func ForPandocFilter(stderr string) string {
	if strings.Contains(stderr, "pandoc-crossref") {
		return format("install pandoc-crossref or drop it from pandoc.filters")
	}
	if strings.Contains(stderr, "Could not find executable") {
		return format("check that every entry in pandoc.filters is on PATH")
	}
	return ""
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/md2thesis/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/md2thesis") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for a paragraph style missing from the
// document. The closest style names are suggested first.
func ForStyleNotFound(name string, available []string) string {
	if len(available) == 0 {
		return format("the reference document defines no styles; run md2thesis prepare-ref")
	}
	if near := Closest(name, available); len(near) > 0 {
		return format("did you mean " + quoteJoin(near) + "?")
	}
	return format("define the style in the reference document or run md2thesis prepare-ref")
}

// ForProfileNotFound returns hints for an unknown profile name.
func ForProfileNotFound(name string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	hint := "available: " + strings.Join(available, ", ")
	if near := Closest(name, available); len(near) > 0 {
		hint = "did you mean " + quoteJoin(near) + "? " + hint
	}
	return format(hint)
}

// ForSectionCount returns hints when the number of section break markers
// does not match the profile.
func ForSectionCount(got, want int) string {
	if got < want {
		return format(fmt.Sprintf("add %d more paragraph(s) styled \"Section Break\"", want-got))
	}
	return format(fmt.Sprintf("remove %d paragraph(s) styled \"Section Break\" or set sections.expected", got-want))
}

// ForEquationLabel returns a hint for labels the formatter cannot rewrite.
func ForEquationLabel() string {
	return format("equation labels must look like (3) or (3.1)")
}

// Closest returns up to three candidates within an edit distance scaled to
// the length of name, nearest first. Comparison is case-insensitive.
func Closest(name string, candidates []string) []string {
	type scored struct {
		s string
		d int
	}
	limit := max(2, len([]rune(name))/3)
	lower := strings.ToLower(name)

	var found []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c))
		if d <= limit {
			found = append(found, scored{c, d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].d < found[j].d })

	out := make([]string, 0, maxSuggestions)
	for i := 0; i < len(found) && i < maxSuggestions; i++ {
		out = append(out, found[i].s)
	}
	return out
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, " or ")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
