package ofxparse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)

// ParseAmount parses a signed decimal amount, keeping the precision of the source text.
// Currency symbols and thousands separators are rejected.
func ParseAmount(a string) (decimal.Decimal, error) {
	s := strings.TrimSpace(a)
	if !amountPattern.MatchString(s) {
		return decimal.Decimal{}, &AmountFormatError{Value: a}
	}
	amount, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Decimal{}, &AmountFormatError{Value: a}
	}
	return amount, nil
}
