package mail

import (
	"testing"
	"time"

	"habitbot/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSummary(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	summary := &domain.DailySummary{
		UserName: "Ann",
		Date:     date,
		Goals:    &domain.DailyGoals{Goals: [domain.GoalsPerDay]string{"run", "", "read <book>"}},
		Diary:    &domain.DiaryEntry{Content: "sunny day"},
		Vocabulary: []string{
			"apple, pear",
			"plum",
		},
		Expenses: []domain.Expense{
			{Amount: decimal.RequireFromString("1200"), Category: "Housing"},
			{Amount: decimal.RequireFromString("12.5"), Category: "Food", Description: "lunch"},
		},
	}

	html, err := RenderSummary(summary, "Great balance today.", true)
	require.NoError(t, err)

	assert.Contains(t, html, "Ann's summary for 2024-05-01")
	assert.Contains(t, html, "Goal 1: run")
	assert.NotContains(t, html, "Goal 2:")
	assert.Contains(t, html, "Goal 3: read &lt;book&gt;")
	assert.Contains(t, html, "sunny day")
	assert.Contains(t, html, "📖 apple, pear")
	assert.Contains(t, html, "📖 plum")
	assert.Contains(t, html, "💵 Housing: $1,200")
	assert.Contains(t, html, "📝 lunch")
	assert.Contains(t, html, "Total today: $1,212.50")
	assert.Contains(t, html, `src="cid:category_pie.png"`)
	assert.Contains(t, html, "Great balance today.")
	assert.NotContains(t, html, "Nothing recorded today")
}

func TestRenderSummary_Empty(t *testing.T) {
	summary := &domain.DailySummary{UserName: "Bob", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}

	html, err := RenderSummary(summary, "", true)
	require.NoError(t, err)

	assert.Contains(t, html, "Nothing recorded today")
	assert.NotContains(t, html, "cid:")
	assert.NotContains(t, html, "Insight")
	assert.NotContains(t, html, "Total today")
}

func TestRenderSummary_EscapesUserText(t *testing.T) {
	summary := &domain.DailySummary{
		UserName: "O'Neil <b>",
		Date:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Diary:    &domain.DiaryEntry{Content: "<script>alert(1)</script>"},
	}

	html, err := RenderSummary(summary, "", false)
	require.NoError(t, err)

	assert.Contains(t, html, "O&#39;Neil &lt;b&gt;'s summary for 2024-05-01")
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, "<script>")
}

func TestSubject(t *testing.T) {
	summary := &domain.DailySummary{UserName: "Ann", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "Daily summary for Ann (2024-05-01)", Subject(summary))
}
