package extractor

import (
	"bytes"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXExtractor renders every sheet of a workbook as a Markdown table.
// Sheets without extractable rows are skipped. A workbook that cannot be
// read at all degrades to empty text rather than failing the request, so one
// malformed sheet never takes down the rest of the pipeline.
type XLSXExtractor struct {
	log *zap.Logger
}

// Extract implements the Extractor interface.
func (e *XLSXExtractor) Extract(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		e.log.Warn("xlsx workbook unreadable, degrading to empty text", zap.Error(err))
		return "", nil
	}
	defer func() { _ = f.Close() }()

	var tables []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			e.log.Warn("xlsx sheet unreadable, skipping", zap.String("sheet", sheet), zap.Error(err))
			continue
		}
		tables = append(tables, renderSheetTable(rows))
	}

	text := joinSheetTables(tables)
	if text == "" {
		e.log.Warn("xlsx workbook yielded no extractable rows")
	}
	return text, nil
}
