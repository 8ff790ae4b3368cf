package extractor

import (
	"strings"
	"time"
)

// SheetNote is the fixed sentence appended after spreadsheet tables so the
// downstream model knows it may compute over the tabular data.
const SheetNote = "The tables above were extracted from a spreadsheet; you may perform calculations and aggregations over their values when answering."

// sheetRule separates consecutive sheet tables.
const sheetRule = "\n\n---\n\n"

// renderSheetTable renders rows as a pipe-delimited Markdown table: the first
// row becomes the header, then a separator row, then one row per remaining
// data row. Returns "" when the sheet has no rows.
func renderSheetTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return ""
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(row) {
				cell = formatCell(row[i])
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

// joinSheetTables concatenates non-empty sheet tables in workbook order,
// separated by a horizontal rule, with the fixed explanatory sentence at the
// end. Returns "" when no sheet produced a table.
func joinSheetTables(tables []string) string {
	nonEmpty := tables[:0]
	for _, t := range tables {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	return strings.Join(nonEmpty, sheetRule) + "\n\n" + SheetNote
}

// cellDateLayouts are formats spreadsheet libraries commonly render
// date-styled cells with; matching values are normalized to YYYY-MM-DD.
var cellDateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-06",
}

// formatCell trims a rendered cell value, normalizes date-looking values to
// YYYY-MM-DD, and escapes pipes so the Markdown table stays well formed.
func formatCell(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return strings.ReplaceAll(v, "|", "\\|")
}
