package bankimport_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fintrack/fintrack/bankimport"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"VDC-TESCO STORES  1234", "Tesco Stores 1234"},
		{"VDP-APPLEGREEN M1", "Applegreen M1"},
		{"D/D IRISH LIFE", "Irish Life"},
		{"VDC-WWW AMAZON.IE", "Amazon.Ie"},
		{"NETFLIX*SUBSCRIPTION", "Netflixsubscription"},
		{"  SPAR -- EAST WALL  ", "Spar East Wall"},
		{"already clean", "Already Clean"},
		{"", ""},
	}
	for _, c := range cases {
		if got := bankimport.CleanName(c.raw); got != c.want {
			t.Errorf("CleanName(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	// GIVEN a name both the AMAZON rule and the later AMAZON.IE rule match
	got := bankimport.Categorize(bankimport.DefaultRules, "Amazon.ie Order")

	// THEN the earlier rule decides
	if got != "Others" {
		t.Errorf("expected Others, got %s", got)
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	if got := bankimport.Categorize(bankimport.DefaultRules, "netflix monthly"); got != "Entertainment" {
		t.Errorf("expected Entertainment, got %s", got)
	}
}

func TestCategorizeUnmatched(t *testing.T) {
	if got := bankimport.Categorize(bankimport.DefaultRules, "Some Corner Shop"); got != bankimport.Uncategorized {
		t.Errorf("expected Uncategorized, got %s", got)
	}
}
