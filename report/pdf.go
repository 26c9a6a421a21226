/*
pdf.go - PDF rendering

PURPOSE:
  Lays out the report as an A4 document: a summary block followed by the
  optional sections Options enables. Amounts render with a Euro sign
  through the cp1252 translator since the core fonts are not UTF-8.
*/
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/finance"
)

// RenderPDF produces the report as a PDF document.
func RenderPDF(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Title and period
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(data.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	period := fmt.Sprintf("%s to %s", data.PeriodStart, data.PeriodEnd)
	pdf.CellFormat(0, 6, period, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	renderSummary(pdf, tr, data)
	renderTransactionSection(pdf, tr, "Expenses", data.Expenses)
	renderTransactionSection(pdf, tr, "Income", data.Credits)
	if data.IncludeBudget && len(data.Budget) > 0 {
		renderBudgetSection(pdf, tr, data.Budget)
	}
	if data.IncludeRecurring && len(data.Recurring) > 0 {
		renderRecurringSection(pdf, tr, data.Recurring)
	}
	if data.IncludeTrends && len(data.Trends) > 0 {
		renderTrendsSection(pdf, tr, data.Trends)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func renderSummary(pdf *fpdf.Fpdf, tr func(string) string, data Data) {
	sectionHeader(pdf, "Summary")
	pdf.SetFont("Helvetica", "", 10)

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total income", data.TotalIncome()},
		{"Total expenses", data.TotalExpenses()},
		{"Net", data.Net()},
	}
	for _, row := range rows {
		pdf.CellFormat(60, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(euro(row.value)), "", 1, "R", false, 0, "")
	}
}

func renderTransactionSection(pdf *fpdf.Fpdf, tr func(string) string, title string, txs []finance.Transaction) {
	sectionHeader(pdf, title)
	if len(txs) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, "No records in this period", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(28, 6, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(82, 6, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 6, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, tx := range txs {
		pdf.CellFormat(28, 6, tx.Date.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(82, 6, tr(clip(tx.Name, 48)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, tr(tx.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(euro(tx.Amount)), "1", 1, "R", false, 0, "")
	}
}

func renderBudgetSection(pdf *fpdf.Fpdf, tr func(string) string, budget []finance.BudgetProgress) {
	sectionHeader(pdf, "Budget")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(55, 6, "Category", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, "Limit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "Spent", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "Remaining", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 6, "Used", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, b := range budget {
		if b.PercentUsed.GreaterThanOrEqual(decimal.NewFromInt(100)) {
			pdf.SetTextColor(180, 30, 30)
		}
		pdf.CellFormat(55, 6, tr(b.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(euro(b.MonthlyLimit)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, tr(euro(b.Spent)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, tr(euro(b.Remaining)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, b.PercentUsed.StringFixed(1)+"%", "1", 1, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

func renderRecurringSection(pdf *fpdf.Fpdf, tr func(string) string, rules []finance.RecurringRule) {
	sectionHeader(pdf, "Recurring")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(70, 6, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Frequency", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Next run", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rules {
		pdf.CellFormat(70, 6, tr(clip(r.Name, 40)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, string(r.Frequency), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, r.NextRun.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr(euro(r.Amount)), "1", 1, "R", false, 0, "")
	}
}

func renderTrendsSection(pdf *fpdf.Fpdf, tr func(string) string, trends []MonthlyTrend) {
	sectionHeader(pdf, "Monthly Trends")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(35, 6, "Month", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Income", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Expenses", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Net", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range trends {
		pdf.CellFormat(35, 6, t.Month, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(euro(t.Income)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, tr(euro(t.Expenses)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, tr(euro(t.Income.Sub(t.Expenses))), "1", 1, "R", false, 0, "")
	}
}

func euro(d decimal.Decimal) string {
	return "€" + d.StringFixed(2)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
