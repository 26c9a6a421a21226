package bankimport_test

import (
	"strings"
	"testing"

	"github.com/fintrack/fintrack/bankimport"
	"github.com/fintrack/fintrack/finance"
)

func TestNormalizeEmptyInput(t *testing.T) {
	// GIVEN no rows at all
	n := bankimport.New(nil)

	// WHEN normalizing
	out := n.Normalize(nil)

	// THEN the result is empty, not an error
	if len(out) != 0 {
		t.Fatalf("expected no rows, got %d", len(out))
	}
}

func TestNormalizeKnownLayoutCredit(t *testing.T) {
	// GIVEN a known-layout row with a thousands-separated credit amount
	n := bankimport.New(nil)
	rows := []map[string]string{{
		"Posted Transactions Date": "05/03/2024",
		"Description1":             "SALARY PAYMENT",
		"Debit Amount":             "",
		"Credit Amount":            "1,250.00",
		"Transaction Type":         "Credit",
	}}

	// WHEN normalizing
	out := n.Normalize(rows)

	// THEN the row is income with an ISO date and the Income category
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	row := out[0]
	if row.Type != finance.RowIncome {
		t.Errorf("expected income, got %s", row.Type)
	}
	if !row.Amount.Equal(decimalFromString(t, "1250")) {
		t.Errorf("expected amount 1250, got %s", row.Amount)
	}
	if row.Date != "2024-03-05" {
		t.Errorf("expected date 2024-03-05, got %s", row.Date)
	}
	if row.Category != "Income" {
		t.Errorf("expected category Income, got %s", row.Category)
	}
	if row.Name != "Salary Payment" {
		t.Errorf("expected Salary Payment, got %q", row.Name)
	}
}

func TestNormalizeJoinsDescriptionFields(t *testing.T) {
	// GIVEN a row spreading the merchant across description fields
	n := bankimport.New(nil)
	rows := []map[string]string{{
		"Posted Transactions Date": "05/03/2024",
		"Description1":             "VDC-TESCO",
		"Description2":             "STORES",
		"Description3":             "DUBLIN 1",
		"Debit Amount":             "12.40",
		"Credit Amount":            "",
	}}

	out := n.Normalize(rows)
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}

	// THEN the field separators collapse into single spaces
	if out[0].Name != "Tesco Stores Dublin 1" {
		t.Errorf("expected Tesco Stores Dublin 1, got %q", out[0].Name)
	}
}

func TestNormalizeGenericLayoutSignedAmount(t *testing.T) {
	// GIVEN a generic-layout row with a negative signed amount
	n := bankimport.New(nil)
	rows := []map[string]string{{
		"date":        "2024-03-05",
		"description": "TESCO STORES 1234",
		"amount":      "-45.30",
	}}

	// WHEN normalizing
	out := n.Normalize(rows)

	// THEN it becomes a positive expense categorized as Groceries
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	row := out[0]
	if row.Type != finance.RowExpense {
		t.Errorf("expected expense, got %s", row.Type)
	}
	if !row.Amount.Equal(decimalFromString(t, "45.3")) {
		t.Errorf("expected amount 45.3, got %s", row.Amount)
	}
	if row.Category != "Groceries" {
		t.Errorf("expected Groceries, got %s", row.Category)
	}
}

func TestNormalizeDropsUnusableRows(t *testing.T) {
	// GIVEN one row with a garbage date and one with a zero amount
	n := bankimport.New(nil)
	rows := []map[string]string{
		{"date": "not a date", "description": "X", "amount": "-10.00"},
		{"date": "2024-03-05", "description": "Y", "amount": "0"},
		{"date": "2024-03-06", "description": "LIDL", "amount": "-3.50"},
	}

	// WHEN normalizing
	out := n.Normalize(rows)

	// THEN only the valid row survives, in input order
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].Name != "Lidl" {
		t.Errorf("expected Lidl, got %q", out[0].Name)
	}
}

func TestNormalizeKnownLayoutZeroAmountsUseTransactionType(t *testing.T) {
	// GIVEN a known-layout row with no debit or credit amount: direction
	// resolution alone cannot save it, the amount check drops it
	n := bankimport.New(nil)
	rows := []map[string]string{{
		"Posted Transactions Date": "05/03/2024",
		"Description1":             "INTEREST",
		"Debit Amount":             "",
		"Credit Amount":            "",
		"Transaction Type":         "Credit Interest",
	}}

	out := n.Normalize(rows)

	if len(out) != 0 {
		t.Fatalf("expected row dropped for zero amount, got %d rows", len(out))
	}
}

func TestNormalizeIsStableOnRepeat(t *testing.T) {
	// GIVEN an already-normalized row fed back through the pipeline
	n := bankimport.New(nil)
	rows := []map[string]string{{
		"date":        "2024-03-05",
		"description": "Tesco Stores 1234",
		"amount":      "-45.30",
	}}

	first := n.Normalize(rows)
	again := n.Normalize([]map[string]string{{
		"date":        first[0].Date,
		"description": first[0].Name,
		"amount":      "-" + first[0].Amount.String(),
	}})

	// THEN name, date, amount and category come out unchanged
	if again[0].Name != first[0].Name || again[0].Date != first[0].Date ||
		!again[0].Amount.Equal(first[0].Amount) || again[0].Category != first[0].Category {
		t.Errorf("pipeline not stable: %+v vs %+v", first[0], again[0])
	}
}

func TestReadCSVTrimsAndPads(t *testing.T) {
	// GIVEN a CSV with padded headers and a short row
	input := " date , description ,amount\n2024-03-05, LIDL \n"

	rows, err := bankimport.ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["date"] != "2024-03-05" {
		t.Errorf("expected trimmed date key, got %+v", rows[0])
	}
	if rows[0]["description"] != "LIDL" {
		t.Errorf("expected trimmed value, got %q", rows[0]["description"])
	}
	if v, ok := rows[0]["amount"]; !ok || v != "" {
		t.Errorf("expected padded empty amount, got %q ok=%v", v, ok)
	}
}
