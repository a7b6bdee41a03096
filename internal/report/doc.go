// Package report renders image reviews and score history.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with a mermaid chart of detected categories
//
// Writers render a model.ReviewSummary, built from the review when needed.
package report
