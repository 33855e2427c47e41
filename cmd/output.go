package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

func printHeading(w io.Writer, title string) {
	fmt.Fprintf(w, "  %s\n", headingStyle.Render(title))
	fmt.Fprintln(w, "  ────────────────────────────────────────")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func plural(n int, word string) string {
	if n == 1 {
		return count(n) + " " + word
	}
	return count(n) + " " + word + "s"
}

func truncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

// memberList renders up to limit members, noting how many were left out.
func memberList(members []string, limit int) string {
	if len(members) <= limit {
		return strings.Join(members, ", ")
	}
	return strings.Join(members[:limit], ", ") + fmt.Sprintf(", ... (+%s)", count(len(members)-limit))
}
