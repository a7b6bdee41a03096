package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/imgshield/internal/model"
)

// HistoryWriter renders the privacy score history.
type HistoryWriter interface {
	WriteHistory(entries []model.ScoreEntry) (int, error)
}

var (
	_ HistoryWriter = (*SimpleWriter)(nil)
	_ HistoryWriter = (*MarkdownWriter)(nil)
	_ HistoryWriter = (*JSONWriter)(nil)
)

const historyTimeFormat = "2006-01-02 15:04"

// WriteHistory prints one bar per score, oldest first.
func (w *SimpleWriter) WriteHistory(entries []model.ScoreEntry) (int, error) {
	var sb strings.Builder

	sb.WriteString("PRIVACY SCORE HISTORY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	if len(entries) == 0 {
		sb.WriteString("  No scores recorded yet.\n")
		return w.output.Write([]byte(sb.String()))
	}

	for _, e := range entries {
		filled := max(0, min(barWidth, e.Score*barWidth/100))
		fmt.Fprintf(&sb, "  %s  %3d [%s%s] %s",
			e.Timestamp.Local().Format(historyTimeFormat),
			e.Score,
			strings.Repeat("#", filled),
			strings.Repeat(".", barWidth-filled),
			e.Band(),
		)
		if w.verbose && e.Image != "" {
			fmt.Fprintf(&sb, "  %s", e.Image)
		}
		sb.WriteString("\n")
	}

	if len(entries) >= 2 {
		delta := entries[len(entries)-1].Score - entries[len(entries)-2].Score
		fmt.Fprintf(&sb, "\n  Change since previous: %s\n", formatDelta(delta))
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteHistory writes the score history as a table.
func (w *MarkdownWriter) WriteHistory(entries []model.ScoreEntry) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Privacy Score History")
	md.PlainText("")

	if len(entries) == 0 {
		md.PlainText("No scores recorded yet.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		image := e.Image
		if image == "" {
			image = "-"
		}
		rows = append(rows, []string{
			e.Timestamp.Local().Format(historyTimeFormat),
			strconv.Itoa(e.Score),
			string(e.Band()),
			image,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Date", "Score", "Band", "Image"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// formatDelta formats a score change with a sign.
func formatDelta(delta int) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("+%d (improved)", delta)
	case delta < 0:
		return fmt.Sprintf("%d (worse)", delta)
	default:
		return "0 (unchanged)"
	}
}
