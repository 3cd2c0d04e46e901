package service

import (
	"bytes"
	"fmt"

	"school/backend/internal/repository/postgres/fine"

	"github.com/jung-kurt/gofpdf/v2"
)

// PaymentReceiptPdf renders a fine's payment history as a printable
// receipt.
func PaymentReceiptPdf(history fine.PaymentHistoryResponse) (*bytes.Buffer, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Fine Payment Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Receipt No: FINE-%d", history.FineID))
	pdf.Ln(7)
	if history.StudentName != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Student: %s", *history.StudentName))
		pdf.Ln(7)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Total Fine: Rs.%d", history.TotalFine))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Paid: Rs.%d    Pending: Rs.%d", history.PaidAmount, history.PendingAmount))
	pdf.Ln(7)
	if history.Status != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Status: %s", *history.Status))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(40, 8, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Method", "1", 0, "", false, 0, "")
	pdf.CellFormat(80, 8, "Remarks", "1", 0, "", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, payment := range history.PaymentHistory {
		pdf.CellFormat(40, 8, payment.PaymentDate.Format("2006-01-02 15:04"), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("Rs.%d", payment.Amount), "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, payment.PaymentMethod, "1", 0, "", false, 0, "")
		pdf.CellFormat(80, 8, payment.Remarks, "1", 0, "", false, 0, "")
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("error writing pdf: %w", err)
	}

	filename := fmt.Sprintf("receipt_fine_%d.pdf", history.FineID)

	return &buf, filename, nil
}
