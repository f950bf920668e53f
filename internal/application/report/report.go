// Package report turns a model response and a session history into the
// views shown to the user.
package report

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
)

const (
	// Filename of the downloadable report.
	Filename = "acne_report.txt"
	// SummaryLines is how many leading lines the summary keeps.
	SummaryLines = 8
	// EmptyHistory is shown when the session has no records yet.
	EmptyHistory = "No history yet."
	// Divider separates history entries.
	Divider = "---"
)

// View is everything the result tabs need.
type View struct {
	FullReport   string
	Summary      string
	History      []history.Record
	HistoryEmpty bool
}

// Build renders the three views. records must already be most-recent-first.
func Build(text string, records []history.Record) View {
	return View{
		FullReport:   text,
		Summary:      Summary(text),
		History:      records,
		HistoryEmpty: len(records) == 0,
	}
}

// Summary returns the first SummaryLines lines of text, or all of it.
func Summary(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > SummaryLines {
		lines = lines[:SummaryLines]
	}
	return strings.Join(lines, "\n")
}

// EntryHeading is the one-line caption above a history entry.
func EntryHeading(r history.Record) string {
	return fmt.Sprintf("**%s** — Age: %s | Skin Type: %s", r.Time(), r.Age, r.SkinType)
}

// HistoryMarkdown renders records as text, in the order given.
func HistoryMarkdown(records []history.Record) string {
	if len(records) == 0 {
		return EmptyHistory
	}
	var b strings.Builder
	for _, r := range records {
		b.WriteString(EntryHeading(r))
		b.WriteString("\n\n")
		b.WriteString(r.Response)
		b.WriteString("\n\n")
		b.WriteString(Divider)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
