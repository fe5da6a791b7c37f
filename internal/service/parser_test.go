package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseExpense(t *testing.T) {
	tests := []struct {
		name                string
		input               string
		expectedAmount      string
		expectedCategory    string
		expectedDescription string
		expectedError       bool
	}{
		{
			name:                "amount first with description",
			input:               "100 food lunch",
			expectedAmount:      "100",
			expectedCategory:    "food",
			expectedDescription: "lunch",
		},
		{
			name:                "category first with description",
			input:               "food 100 lunch",
			expectedAmount:      "100",
			expectedCategory:    "food",
			expectedDescription: "lunch",
		},
		{
			name:             "amount and category only",
			input:            "50 Transport",
			expectedAmount:   "50",
			expectedCategory: "Transport",
		},
		{
			name:                "multi word description joined by single spaces",
			input:               "  12.5   Food   noodles   with   tea ",
			expectedAmount:      "12.5",
			expectedCategory:    "Food",
			expectedDescription: "noodles with tea",
		},
		{
			name:             "numeric first wins when both tokens are numbers",
			input:            "100 200",
			expectedAmount:   "100",
			expectedCategory: "200",
		},
		{
			name:             "negative amount is parsed for the ledger to reject",
			input:            "-5 Food",
			expectedAmount:   "-5",
			expectedCategory: "Food",
		},
		{
			name:             "zero amount is parsed",
			input:            "Food 0",
			expectedAmount:   "0",
			expectedCategory: "Food",
		},
		{
			name:                "chinese category",
			input:               "飲食 80 早餐",
			expectedAmount:      "80",
			expectedCategory:    "飲食",
			expectedDescription: "早餐",
		},
		{
			name:          "single token",
			input:         "only-one-token",
			expectedError: true,
		},
		{
			name:          "neither token numeric",
			input:         "abc xyz",
			expectedError: true,
		},
		{
			name:          "empty input",
			input:         "   ",
			expectedError: true,
		},
		{
			name:          "currency symbol rejected",
			input:         "$100 food",
			expectedError: true,
		},
		{
			name:          "thousands separator rejected",
			input:         "1,000 food",
			expectedError: true,
		},
		{
			name:          "exponent rejected",
			input:         "1e3 food",
			expectedError: true,
		},
		{
			name:          "number in third position only",
			input:         "food lunch 100",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseExpense(tt.input)

			if tt.expectedError {
				assert.ErrorIs(t, err, ErrParseFailure)
				assert.Equal(t, "", parsed.Category)
				assert.True(t, parsed.Amount.IsZero())
				return
			}

			assert.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expectedAmount).Equal(parsed.Amount),
				"amount %s != %s", parsed.Amount, tt.expectedAmount)
			assert.Equal(t, tt.expectedCategory, parsed.Category)
			assert.Equal(t, tt.expectedDescription, parsed.Description)
		})
	}
}

func TestParseExpense_BothLayoutsAgree(t *testing.T) {
	amounts := []string{"1", "0.5", "19.99", "100", "123456.78"}
	categories := []string{"Food", "Transport", "Pets", "交通"}

	for _, a := range amounts {
		for _, c := range categories {
			first, err := ParseExpense(a + " " + c)
			assert.NoError(t, err)
			second, err := ParseExpense(c + " " + a)
			assert.NoError(t, err)

			assert.True(t, first.Amount.Equal(second.Amount))
			assert.Equal(t, c, first.Category)
			assert.Equal(t, c, second.Category)
			assert.Equal(t, "", first.Description)
			assert.Equal(t, "", second.Description)
		}
	}
}
