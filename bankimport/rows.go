/*
Package bankimport turns raw bank statement rows into canonical transactions.

PIPELINE:
  1. Layout detection: the first row's headers decide between the known bank
     export layout and a generic fallback, once for the whole file
  2. Direction & amount: debit/credit columns, or a signed single amount
  3. Date normalization: DD/MM/YYYY reordered to ISO, loose parse as fallback
  4. Name cleaning: description joining, processor-prefix stripping, title case
  5. Category derivation: ordered first-match-wins keyword rules
  6. Validation: rows without a valid date or a positive amount are dropped

The normalizer never returns an error; invalid rows are filtered out and the
caller can infer the drop count from len(in) - len(out).

SEE ALSO:
  - normalize.go: the pipeline itself
  - category.go:  the rule table
*/
package bankimport

// Headers that identify the known bank export layout.
const (
	headerPostedDate   = "Posted Transactions Date"
	headerDebitAmount  = "Debit Amount"
	headerCreditAmount = "Credit Amount"
)

type layout int

const (
	layoutGeneric layout = iota
	layoutKnown
)

// detectLayout inspects a sample row's keys. Any one of the known layout's
// signature headers marks the whole file as that layout.
func detectLayout(sample map[string]string) layout {
	for _, key := range []string{headerPostedDate, headerDebitAmount, headerCreditAmount} {
		if _, ok := sample[key]; ok {
			return layoutKnown
		}
	}
	return layoutGeneric
}

// knownRow is a row from the known bank export, resolved to typed fields.
type knownRow struct {
	PostedDate      string
	Debit           string
	Credit          string
	TransactionType string
	Descriptions    []string
}

func parseKnownRow(r map[string]string) knownRow {
	return knownRow{
		PostedDate:      r[headerPostedDate],
		Debit:           r[headerDebitAmount],
		Credit:          r[headerCreditAmount],
		TransactionType: r["Transaction Type"],
		Descriptions:    []string{r["Description1"], r["Description2"], r["Description3"]},
	}
}

// genericRow is a row from an arbitrary export, resolved through the header
// aliases the fallback parser accepts.
type genericRow struct {
	Date         string
	Debit        string
	Credit       string
	Amount       string
	Descriptions []string
	Description  string
}

func parseGenericRow(r map[string]string) genericRow {
	return genericRow{
		Date:         firstValue(r, "date", "Date", "Transaction Date", headerPostedDate),
		Debit:        firstValue(r, "debit", "Debit", headerDebitAmount),
		Credit:       firstValue(r, "credit", "Credit", headerCreditAmount),
		Amount:       firstValue(r, "amount", "Amount", "Local Currency Amount"),
		Descriptions: []string{r["Description1"], r["Description2"], r["Description3"]},
		Description:  firstValue(r, "description", "Description", "Description1"),
	}
}

func firstValue(r map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != "" {
			return v
		}
	}
	return ""
}
