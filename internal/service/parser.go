package service

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Plain decimal numerals only: no currency symbols, separators or exponents
var amountPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// ParsedExpense is the result of parsing one line of expense text
type ParsedExpense struct {
	Amount      decimal.Decimal
	Category    string
	Description string
}

// ParseExpense parses "<amount> <category> [description]" or "<category> <amount> [description]"
func ParseExpense(text string) (ParsedExpense, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return ParsedExpense{}, ErrParseFailure
	}

	description := strings.Join(parts[2:], " ")

	if amount, ok := parseAmount(parts[0]); ok {
		return ParsedExpense{Amount: amount, Category: parts[1], Description: description}, nil
	}
	if amount, ok := parseAmount(parts[1]); ok {
		return ParsedExpense{Amount: amount, Category: parts[0], Description: description}, nil
	}

	return ParsedExpense{}, ErrParseFailure
}

func parseAmount(token string) (decimal.Decimal, bool) {
	if !amountPattern.MatchString(token) {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}
