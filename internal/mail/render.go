package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"habitbot/internal/domain"
	"habitbot/internal/service"
)

// ChartName is the inline attachment name the summary template references
const ChartName = "category_pie.png"

type expenseView struct {
	Category    string
	Amount      string
	Description string
}

type summaryView struct {
	UserName   string
	Date       string
	Goals      []string
	Diary      string
	Vocabulary []string
	Expenses   []expenseView
	Total      string
	Insight    string
	HasChart   bool
	Empty      bool
}

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.header { background-color: #4CAF50; color: white; padding: 20px; text-align: center; }
.section { margin: 20px 0; padding: 15px; border-left: 4px solid #4CAF50; background-color: #f9f9f9; }
.goal-item { margin: 10px 0; padding: 10px; background-color: white; border-radius: 5px; }
.vocab-item { margin: 5px 0; padding: 5px; background-color: #e8f5e8; border-radius: 3px; }
.diary-content { background-color: white; padding: 15px; border-radius: 5px; font-style: italic; white-space: pre-wrap; }
.expense-item { margin: 8px 0; padding: 8px; background-color: #fff3e0; border-radius: 3px; }
.expense-desc { margin: 2px 0 8px 15px; padding: 5px; background-color: #f5f5f5; border-radius: 3px; font-size: 0.9em; color: #666; }
.expense-total { margin: 10px 0; padding: 10px; background-color: #ffebee; border-radius: 5px; font-weight: bold; text-align: center; }
</style>
</head>
<body>
<div class="header">
<h1>Daily Summary</h1>
<p>{{.UserName}}'s summary for {{.Date}}</p>
</div>
{{- if .Goals}}
<div class="section">
<h2>📋 Goals</h2>
{{- range $i, $g := .Goals}}
<div class="goal-item">🎯 {{$g}}</div>
{{- end}}
</div>
{{- end}}
{{- if .Diary}}
<div class="section">
<h2>📝 Diary</h2>
<div class="diary-content">{{.Diary}}</div>
</div>
{{- end}}
{{- if .Vocabulary}}
<div class="section">
<h2>📚 Vocabulary</h2>
{{- range .Vocabulary}}
<div class="vocab-item">📖 {{.}}</div>
{{- end}}
</div>
{{- end}}
{{- if .Expenses}}
<div class="section">
<h2>💰 Expenses</h2>
{{- range .Expenses}}
<div class="expense-item">💵 {{.Category}}: {{.Amount}}</div>
{{- if .Description}}
<div class="expense-desc">📝 {{.Description}}</div>
{{- end}}
{{- end}}
<div class="expense-total">💸 Total today: {{.Total}}</div>
{{- if .HasChart}}
<img src="cid:category_pie.png" alt="Spending by category" width="480">
{{- end}}
</div>
{{- end}}
{{- if .Empty}}
<div class="section">
<h2>📊 Summary</h2>
<p>Nothing recorded today. Keep going tomorrow! 💪</p>
</div>
{{- end}}
{{- if .Insight}}
<div class="section">
<h2>🤖 Insight</h2>
<p>{{.Insight}}</p>
</div>
{{- end}}
<div class="section">
<p style="text-align: center; color: #666;">Sent automatically by habitbot</p>
</div>
</body>
</html>
`))

// Subject returns the subject line of a daily summary email
func Subject(s *domain.DailySummary) string {
	return fmt.Sprintf("Daily summary for %s (%s)", s.UserName, domain.DayOf(s.Date).DateString())
}

// RenderSummary renders the daily summary email; withChart references the inline chart
func RenderSummary(s *domain.DailySummary, insight string, withChart bool) (string, error) {
	view := summaryView{
		UserName: s.UserName,
		Date:     domain.DayOf(s.Date).DateString(),
		Insight:  insight,
		Empty:    s.IsEmpty(),
	}

	if s.Goals != nil {
		for i, g := range s.Goals.Goals {
			if g != "" {
				view.Goals = append(view.Goals, fmt.Sprintf("Goal %d: %s", i+1, g))
			}
		}
	}
	if s.Diary != nil {
		view.Diary = s.Diary.Content
	}
	view.Vocabulary = s.Vocabulary

	if len(s.Expenses) > 0 {
		for _, e := range s.Expenses {
			view.Expenses = append(view.Expenses, expenseView{
				Category:    e.Category,
				Amount:      service.FormatAmount(e.Amount),
				Description: e.Description,
			})
		}
		view.Total = service.FormatAmount(service.SummarizeExpenses(s.Expenses).Total)
		if withChart {
			view.HasChart = true
		}
	}

	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return buf.String(), nil
}
