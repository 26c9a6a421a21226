/*
category.go - keyword-based category derivation

PURPOSE:
  Maps a cleaned merchant name to a spending category through an ordered
  rule table. The first rule whose pattern matches wins; unmatched names
  fall through to "Uncategorized".

SEE ALSO:
  - config/rules.go: loading a replacement table from YAML
*/
package bankimport

import "regexp"

// Rule pairs a case-insensitive pattern with the category it assigns.
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
}

// Uncategorized is assigned when no rule matches an expense name.
const Uncategorized = "Uncategorized"

// CategoryIncome is assigned to every income row regardless of the rules.
const CategoryIncome = "Income"

// DefaultRules is the built-in rule table. Order matters: earlier rules
// shadow later ones, so AMAZON lands on Others even though AMAZON.IE
// appears again further down.
var DefaultRules = []Rule{
	rule(`NETFLIX|SPOTIFY`, "Entertainment"),
	rule(`LIDL|ALDI|TESCO|SUPERVALU|SPAR|MORE 4|POLSKI`, "Groceries"),
	rule(`APPLEGREEN|PETROL|PARKING|ONLINE MOTOR|TOLL`, "Carro"),
	rule(`AIB CARD PYMT|NAPS LOAN|PREMIUM CREDIT`, "Loan/CreditCard"),
	rule(`IRISH LIFE|BRECAN PHARM|GP|THE MEDICAL CENTER`, "Healthcare"),
	rule(`BORD GAIS|EIR|RENT|GAS|MORIATY REAL`, "Utilities"),
	rule(`FEES|TAX|STAMP DUTY`, "Fees"),
	rule(`MICROSOFT|APPLE|GOOGLE|OPENAI|TRAE`, "Licenses"),
	rule(`AMAZON`, "Others"),
	rule(`APACHE PIZZA|SPAR EAST|EDDIE ROCKETS`, "Eating Out"),
	rule(`LEAP CARD|IRISH RAIL`, "Transport"),
	rule(`HUMMGROUP|FOOT LOCKER`, "Gifts"),
	rule(`PLATINUM`, "Gym"),
	rule(`GUSTAVO|HPNUTRITION|SP DISCOUNT|IHERB|VITAMIN SHOP|MOV &`, "Self-Care"),
	rule(`PREMIER LOTT|IKEA|PENNEYS|HUMMGROUP|AMAZON.IE`, "Others"),
	rule(`PYEU|FABIO|REV|SALARY`, "Income"),
}

func rule(pattern, category string) Rule {
	return Rule{Pattern: regexp.MustCompile(`(?i)` + pattern), Category: category}
}

// Categorize runs name through the rules in order and returns the first
// matching category, or Uncategorized.
func Categorize(rules []Rule, name string) string {
	for _, r := range rules {
		if r.Pattern.MatchString(name) {
			return r.Category
		}
	}
	return Uncategorized
}
