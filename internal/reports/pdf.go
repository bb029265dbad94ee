package reports

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	"github.com/valeriaulyamaeva/fintrack/internal/money"
)

func BuildPDF(s *Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FinTrack Statement", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FinTrack Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr("User: "+s.UserName))
	pdf.Ln(6)
	pdf.Cell(0, 8, "Period: "+s.period())
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	for _, line := range []struct{ label, value string }{
		{"Income", money.Format(s.Summary.Income)},
		{"Expense", money.Format(s.Summary.Expense)},
		{"Net", money.Format(s.Summary.Net)},
		{"Balance", money.Format(s.Summary.Balance)},
	} {
		pdf.Cell(40, 7, line.label)
		pdf.Cell(50, 7, line.value)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	if len(s.Summary.ByCategory) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Expenses by category")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for _, c := range s.Summary.ByCategory {
			pdf.Cell(70, 7, tr(c.Category))
			pdf.Cell(50, 7, money.Format(c.Total))
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Transactions")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(35, 7, "Date")
	pdf.Cell(25, 7, "Type")
	pdf.Cell(30, 7, "Amount")
	pdf.Cell(45, 7, "Category")
	pdf.Cell(0, 7, "Note")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	for _, t := range s.Transactions {
		pdf.Cell(35, 6, t.CreatedAt.Format("2006-01-02"))
		pdf.Cell(25, 6, string(t.Type))
		pdf.Cell(30, 6, money.Format(t.Amount))
		pdf.Cell(45, 6, tr(s.category(t.CategoryID)))
		pdf.Cell(0, 6, tr(t.Note))
		pdf.Ln(6)
	}
	if len(s.Transactions) == 0 {
		pdf.Cell(0, 6, "No transactions in this period.")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
