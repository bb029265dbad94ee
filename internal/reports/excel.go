package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// BuildExcel writes a workbook with one row per transaction and a summary
// sheet with totals and the expense breakdown by category.
func BuildExcel(s *Statement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(transactionsSheet, "A1", &[]any{"Date", "Type", "Amount", "Category", "Note"}); err != nil {
		return nil, err
	}
	for i, t := range s.Transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			t.CreatedAt.Format("2006-01-02 15:04"),
			string(t.Type),
			t.Amount.InexactFloat64(),
			s.category(t.CategoryID),
			t.Note,
		}
		if err := f.SetSheetRow(transactionsSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(transactionsSheet, "A1", "E1", header); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(transactionsSheet, "A", "E", 18); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Period", s.period()},
		{"Income", s.Summary.Income.InexactFloat64()},
		{"Expense", s.Summary.Expense.InexactFloat64()},
		{"Net", s.Summary.Net.InexactFloat64()},
		{"Balance", s.Summary.Balance.InexactFloat64()},
		{},
		{"Category", "Spent"},
	}
	for _, c := range s.Summary.ByCategory {
		rows = append(rows, []any{c.Category, c.Total.InexactFloat64()})
	}
	for i, row := range rows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A7", "B7", header); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
