package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"stockzero/internal/models"
)

const (
	minColWidth = 10
	maxColWidth = 45
)

// sheetName makes a store code usable as a worksheet name: characters the
// format forbids are replaced and the 31-character limit applied.
func sheetName(storeCode string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '?', '*', '[', ']', ':':
			return '_'
		}
		return r
	}, storeCode)
	if len(name) > 31 {
		name = name[:31]
	}
	if name == "" {
		name = "Export"
	}
	return name
}

// Excel renders the rows into a single-sheet workbook named after the store
// code, with a frozen header row and an auto-filter over the data range.
func Excel(storeCode string, rows []models.SkuRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(storeCode)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]any, len(Columns))
	widths := make([]int, len(Columns))
	for i, c := range Columns {
		header[i] = c
		widths[i] = len(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := cells(row)
		line := make([]any, len(values))
		for j, v := range values {
			line[j] = v
			if len(v) > widths[j] {
				widths[j] = len(v)
			}
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &line); err != nil {
			return nil, err
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := w + 2
		if width < minColWidth {
			width = minColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			return nil, err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return nil, err
	}
	filterRange := fmt.Sprintf("A1:%s%d", lastCol, len(rows)+1)
	if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
