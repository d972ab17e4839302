package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"rollcall/internal/attendance"
)

var pdfWidths = []float64{8, 40, 26, 36, 22, 18, 16, 18, 18, 14, 28, 33}

const pdfRowHeight = 7

// WritePDF renders the records as a paginated landscape table with a title
// and a generation banner. An empty record set produces a single placeholder
// row instead of an empty table.
func WritePDF(w io.Writer, records []attendance.Record, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Attendance Records", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	banner := fmt.Sprintf("Generated: %s | Records: %d",
		generatedAt.Format("2006-01-02 15:04:05"), len(records))
	pdf.CellFormat(0, 6, banner, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	drawTableHeader(pdf)

	if len(records) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(sum(pdfWidths), pdfRowHeight, "No attendance records to display", "1", 1, "C", false, 0, "")
		return pdf.Output(w)
	}

	pdf.SetFont("Helvetica", "", 8)
	_, pageH := pdf.GetPageSize()
	for i, rec := range records {
		if pdf.GetY()+pdfRowHeight > pageH-15 {
			pdf.AddPage()
			drawTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 8)
		}
		drawRow(pdf, i+1, rec)
	}
	return pdf.Output(w)
}

func drawTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range columns {
		pdf.CellFormat(pdfWidths[i], pdfRowHeight, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func drawRow(pdf *gofpdf.Fpdf, ordinal int, rec attendance.Record) {
	cells := csvRow(ordinal, rec)
	// keep the uuid legible within its column
	if len(cells[11]) > 13 {
		cells[11] = cells[11][:13]
	}
	for i, cell := range cells {
		pdf.CellFormat(pdfWidths[i], pdfRowHeight, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func sum(ws []float64) float64 {
	var total float64
	for _, w := range ws {
		total += w
	}
	return total
}
