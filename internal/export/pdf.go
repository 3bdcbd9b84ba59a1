package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"stockzero/internal/models"
)

// pdfColWidths are in mm, sized to fit landscape A4 with 10mm margins.
var pdfColWidths = []float64{26, 24, 108, 16, 20, 20, 31, 22}

// PDF renders the rows as a landscape A4 table with the header repeated on
// every page, preceded by the given title lines (scope and filter summary).
func PDF(titleLines []string, rows []models.SkuRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range Columns {
			pdf.CellFormat(pdfColWidths[i], 6, col, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetHeaderFuncMode(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	}, true)

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 11)
	for _, line := range titleLines {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	header()

	pdf.SetFont("Helvetica", "", 7)
	fill := false
	for _, row := range rows {
		if fill {
			pdf.SetFillColor(247, 247, 247)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for i, v := range cells(row) {
			align := "L"
			if i == 3 || i == 4 {
				align = "R"
			} else if i >= 5 {
				align = "C"
			}
			pdf.CellFormat(pdfColWidths[i], 5, clip(v, pdfColWidths[i]), "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clip truncates a cell value that would overflow its column. Roughly
// 1.6mm per glyph at 7pt Helvetica.
func clip(s string, width float64) string {
	max := int(width / 1.6)
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
