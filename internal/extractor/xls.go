package extractor

import (
	"bytes"

	"github.com/extrame/xls"
	"go.uber.org/zap"
)

// XLSExtractor renders legacy BIFF workbooks with the same Markdown table
// shape as XLSXExtractor, including the degrade-to-empty policy.
type XLSExtractor struct {
	log *zap.Logger
}

// Extract implements the Extractor interface.
func (e *XLSExtractor) Extract(data []byte) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		e.log.Warn("xls workbook unreadable, degrading to empty text", zap.Error(err))
		return "", nil
	}

	var tables []string
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			var cells []string
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
		tables = append(tables, renderSheetTable(rows))
	}

	text := joinSheetTables(tables)
	if text == "" {
		e.log.Warn("xls workbook yielded no extractable rows")
	}
	return text, nil
}
