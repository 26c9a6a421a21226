/*
excel.go - Excel workbook rendering

PURPOSE:
  Writes the report as a workbook with one sheet per section. Amounts are
  written as numbers with a currency format so spreadsheet math works on
  them directly.
*/
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fintrack/fintrack/finance"
)

const euroFormat = `€#,##0.00`

// RenderExcel produces the report as an xlsx workbook.
func RenderExcel(data Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strptr(euroFormat)})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	w := &workbook{f: f, money: moneyStyle, header: headerStyle}

	if err := w.writeSummary(data); err != nil {
		return nil, err
	}
	if err := w.writeTransactions("Expenses", data.Expenses); err != nil {
		return nil, err
	}
	if err := w.writeTransactions("Income", data.Credits); err != nil {
		return nil, err
	}
	if data.IncludeBudget && len(data.Budget) > 0 {
		if err := w.writeBudget(data.Budget); err != nil {
			return nil, err
		}
	}
	if data.IncludeRecurring && len(data.Recurring) > 0 {
		if err := w.writeRecurring(data.Recurring); err != nil {
			return nil, err
		}
	}
	if data.IncludeTrends && len(data.Trends) > 0 {
		if err := w.writeTrends(data.Trends); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type workbook struct {
	f      *excelize.File
	money  int
	header int
}

// addSheet creates a named sheet; the first call renames the default Sheet1
// so the workbook never carries an empty leftover sheet.
func (w *workbook) addSheet(name string) error {
	const defaultSheet = "Sheet1"
	if idx, _ := w.f.GetSheetIndex(defaultSheet); idx >= 0 {
		return w.f.SetSheetName(defaultSheet, name)
	}
	_, err := w.f.NewSheet(name)
	return err
}

func (w *workbook) writeHeaderRow(sheet string, cells ...string) error {
	for i, v := range cells {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := w.f.SetCellStr(sheet, cell, v); err != nil {
			return err
		}
		if err := w.f.SetCellStyle(sheet, cell, cell, w.header); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) setMoney(sheet, cell string, d decimal.Decimal) error {
	v, _ := d.Round(2).Float64()
	if err := w.f.SetCellFloat(sheet, cell, v, 2, 64); err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, cell, cell, w.money)
}

func (w *workbook) writeSummary(data Data) error {
	const sheet = "Summary"
	if err := w.addSheet(sheet); err != nil {
		return err
	}

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total income", data.TotalIncome()},
		{"Total expenses", data.TotalExpenses()},
		{"Net", data.Net()},
	}

	if err := w.f.SetCellStr(sheet, "A1", data.Title); err != nil {
		return err
	}
	if err := w.f.SetCellStyle(sheet, "A1", "A1", w.header); err != nil {
		return err
	}
	if err := w.f.SetCellStr(sheet, "A2",
		fmt.Sprintf("%s to %s", data.PeriodStart, data.PeriodEnd)); err != nil {
		return err
	}
	for i, row := range rows {
		line := i + 4
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("A%d", line), row.label); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("B%d", line), row.value); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) writeTransactions(sheet string, txs []finance.Transaction) error {
	if err := w.addSheet(sheet); err != nil {
		return err
	}
	if err := w.writeHeaderRow(sheet, "Date", "Name", "Category", "Amount"); err != nil {
		return err
	}
	for i, tx := range txs {
		line := i + 2
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("A%d", line), tx.Date.String()); err != nil {
			return err
		}
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("B%d", line), tx.Name); err != nil {
			return err
		}
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("C%d", line), tx.Category); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("D%d", line), tx.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) writeBudget(budget []finance.BudgetProgress) error {
	const sheet = "Budget"
	if err := w.addSheet(sheet); err != nil {
		return err
	}
	if err := w.writeHeaderRow(sheet, "Category", "Limit", "Spent", "Remaining", "Used %"); err != nil {
		return err
	}
	for i, b := range budget {
		line := i + 2
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("A%d", line), b.Category); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("B%d", line), b.MonthlyLimit); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("C%d", line), b.Spent); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("D%d", line), b.Remaining); err != nil {
			return err
		}
		pct, _ := b.PercentUsed.Float64()
		if err := w.f.SetCellFloat(sheet, fmt.Sprintf("E%d", line), pct, 2, 64); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) writeRecurring(rules []finance.RecurringRule) error {
	const sheet = "Recurring"
	if err := w.addSheet(sheet); err != nil {
		return err
	}
	if err := w.writeHeaderRow(sheet, "Name", "Type", "Frequency", "Next run", "Amount"); err != nil {
		return err
	}
	for i, r := range rules {
		line := i + 2
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("A%d", line), r.Name); err != nil {
			return err
		}
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("B%d", line), string(r.Type)); err != nil {
			return err
		}
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("C%d", line), string(r.Frequency)); err != nil {
			return err
		}
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("D%d", line), r.NextRun.String()); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("E%d", line), r.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) writeTrends(trends []MonthlyTrend) error {
	const sheet = "Trends"
	if err := w.addSheet(sheet); err != nil {
		return err
	}
	if err := w.writeHeaderRow(sheet, "Month", "Income", "Expenses", "Net"); err != nil {
		return err
	}
	for i, t := range trends {
		line := i + 2
		if err := w.f.SetCellStr(sheet, fmt.Sprintf("A%d", line), t.Month); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("B%d", line), t.Income); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("C%d", line), t.Expenses); err != nil {
			return err
		}
		if err := w.setMoney(sheet, fmt.Sprintf("D%d", line), t.Income.Sub(t.Expenses)); err != nil {
			return err
		}
	}
	return nil
}

func strptr(s string) *string { return &s }
