// Package render turns a finalized list run into page text. Two
// renderers share one part formatter: Wikitext emits per-section wiki
// tables (or template calls), TabbedData emits the Commons tabular
// JSON page format. Renderers only read the List; they never mutate
// rows.
package render
