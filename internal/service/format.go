package service

import (
	"fmt"
	"strings"

	"habitbot/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const topCategories = 5

var printer = message.NewPrinter(language.English)

// FormatAmount renders a display amount like $1,234 or $1,234.50
func FormatAmount(amount decimal.Decimal) string {
	f := amount.InexactFloat64()
	if amount.Equal(amount.Truncate(0)) {
		return printer.Sprintf("$%.0f", f)
	}
	return printer.Sprintf("$%.2f", f)
}

// Percent returns part as a percentage of total, 0 when total is not positive
func Percent(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return part.Mul(decimal.NewFromInt(100)).Div(total).InexactFloat64()
}

// FormatDaily renders today's expense listing with a category breakdown
func FormatDaily(expenses []domain.Expense, summary domain.ExpenseSummary) string {
	if len(expenses) == 0 {
		return "No expenses recorded today."
	}

	var b strings.Builder
	b.WriteString("📊 Today's expenses:\n\n")

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		fmt.Fprintf(&b, "💰 %s: %s\n", e.Category, FormatAmount(e.Amount))
		if e.Description != "" {
			fmt.Fprintf(&b, "   📝 %s\n", e.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "💵 Total today: %s", FormatAmount(total))

	if len(summary.Categories) > 0 {
		b.WriteString("\n\n📈 By category:\n")
		for _, c := range top(summary.Categories) {
			fmt.Fprintf(&b, "• %s: %s (%.1f%%)\n", c.Category, FormatAmount(c.Total), Percent(c.Total, total))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatExpenseSummary renders a range summary with daily average and top categories
func FormatExpenseSummary(summary domain.ExpenseSummary, days int) string {
	if days < 1 {
		days = 1
	}
	if !summary.Total.IsPositive() {
		return fmt.Sprintf("No expenses recorded in the last %d days.", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Expenses for the last %d days:\n\n", days)
	fmt.Fprintf(&b, "💵 Total: %s\n", FormatAmount(summary.Total))
	average := summary.Total.Div(decimal.NewFromInt(int64(days))).Round(2)
	fmt.Fprintf(&b, "📅 Daily average: %s\n", FormatAmount(average))

	if len(summary.Categories) > 0 {
		b.WriteString("\n🏷️ By category:\n")
		for i, c := range top(summary.Categories) {
			fmt.Fprintf(&b, "%d. %s: %s (%.1f%%)\n", i+1, c.Category, FormatAmount(c.Total), Percent(c.Total, summary.Total))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func top(categories []domain.CategoryTotal) []domain.CategoryTotal {
	if len(categories) > topCategories {
		return categories[:topCategories]
	}
	return categories
}
