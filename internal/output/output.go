// Package output renders CLI output for search results and status messages.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hybridrank/hybridrank/internal/search"
)

// Color palette, single lime accent.
const (
	colorLime     = "154"
	colorGray     = "245"
	colorDarkGray = "238"
	colorRed      = "196"
	colorYellow   = "220"
)

// Writer renders formatted CLI output.
type Writer struct {
	out io.Writer

	header   lipgloss.Style
	label    lipgloss.Style
	dim      lipgloss.Style
	warning  lipgloss.Style
	errStyle lipgloss.Style
	panel    lipgloss.Style
}

// New creates a Writer rendering to out.
func New(out io.Writer) *Writer {
	return &Writer{
		out:      out,
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorLime)),
		label:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(colorDarkGray)),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorDarkGray)).
			Padding(0, 1),
	}
}

// Results renders search results in narrative order with their scores.
func (w *Writer) Results(query string, results []search.SearchResult) {
	fmt.Fprintln(w.out, w.header.Render(fmt.Sprintf("Results for %q", query)))

	if len(results) == 0 {
		fmt.Fprintln(w.out, w.dim.Render("no results"))
		return
	}

	for i, res := range results {
		title := res.Title
		if res.ChunkID > 0 {
			title = fmt.Sprintf("%s  %s", title, w.dim.Render(fmt.Sprintf("[chunk %d]", res.ChunkID)))
		}

		scores := w.label.Render(fmt.Sprintf(
			"combined %.3f · oracle %.2f · semantic %.2f · tfidf %.3f",
			res.CombinedScore, res.ClaudeScore, res.SemanticScore, res.TfidfScore))

		body := fmt.Sprintf("%d. %s\n%s\n%s\n%s",
			i+1, title, scores, truncateLine(res.Content, 240), w.dim.Render(res.Explanation))
		fmt.Fprintln(w.out, w.panel.Render(body))
	}
}

// Context renders a chunk-context window.
func (w *Writer) Context(chunkID int, chunks []search.ContextChunk) {
	fmt.Fprintln(w.out, w.header.Render(fmt.Sprintf("Context around chunk %d", chunkID)))

	if len(chunks) == 0 {
		fmt.Fprintln(w.out, w.dim.Render("no surrounding chunks"))
		return
	}

	for _, c := range chunks {
		marker := fmt.Sprintf("chunk %d (distance %d)", c.ChunkID, c.Distance)
		if c.ChunkID == chunkID {
			marker = fmt.Sprintf("chunk %d (target)", c.ChunkID)
		}
		fmt.Fprintf(w.out, "%s\n%s\n\n", w.label.Render(marker), c.Content)
	}
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	fmt.Fprintln(w.out, w.warning.Render("! "+msg))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	fmt.Fprintln(w.out, w.errStyle.Render("✗ "+msg))
}

// Statusf prints a plain status line.
func (w *Writer) Statusf(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

func truncateLine(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
