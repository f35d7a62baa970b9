package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// ContentTypePDF is the MIME type of generated invoice documents.
const ContentTypePDF = "application/pdf"

// Invoice is the structured input of the document export. Callers map
// their own DTOs into it.
type Invoice struct {
	VoucherNumber      string
	VoucherDescription string
	Client             string
	Warehouse          string
	Observation        string
	DateOfSale         time.Time
	SubTotal           float64
	Tax                float64
	TotalAmount        float64
	Lines              []InvoiceLine
}

// InvoiceLine is one row of the invoice detail table.
type InvoiceLine struct {
	Code      string
	Product   string
	UnitPrice float64
	Quantity  int
	Total     float64
}

// InvoicePDF renders a sale detail into A4 PDF bytes: header block,
// line-item table, totals, optional observation footer.
func InvoicePDF(inv Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, inv.VoucherNumber, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	kv := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
	}
	kv("Date of sale:", inv.DateOfSale.Format("2006-01-02"))
	kv("Document type:", inv.VoucherDescription)
	kv("Client:", inv.Client)
	kv("Warehouse:", inv.Warehouse)
	pdf.Ln(6)

	// Detail table.
	widths := []float64{30, 60, 27, 26, 27}
	headers := []string{"Code", "Product", "Unit price", "Quantity", "Total"}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range inv.Lines {
		pdf.CellFormat(widths[0], 7, l.Code, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, l.Product, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.2f", l.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", l.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%.2f", l.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	total := func(label string, v float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(143, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(27, 6, fmt.Sprintf("%.2f", v), "", 1, "R", false, 0, "")
	}
	total("Subtotal:", inv.SubTotal, false)
	total("Tax:", inv.Tax, false)
	total("Total amount:", inv.TotalAmount, true)

	if inv.Observation != "" {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, "Observation: "+inv.Observation, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
