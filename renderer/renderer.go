// Package renderer turns tracker state into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/savings"
)

//go:embed templates/*.md
var templates embed.FS

// GoalList renders the goal table to a markdown string.
func GoalList(goals []savings.Goal) string {
	return renderTemplate("goals", "templates/goals.md", nil, newGoalListView(goals))
}

// Summary renders the full tracker summary: cross-currency totals, overall
// progress, and the per-goal table.
func Summary(l *savings.Ledger) string {
	partials := map[string]string{
		"summary_goals": "templates/goals.md",
	}
	return renderTemplate("summary", "templates/summary.md", partials, newSummaryView(l))
}

// Rates renders the current exchange-rate record.
func Rates(rates savings.ExchangeRates, fetchErr string) string {
	return renderTemplate("rates", "templates/rates.md", nil, newRatesView(rates, fetchErr))
}

// Contributions renders one goal with its contribution history, newest first.
func Contributions(goal savings.Goal) string {
	return renderTemplate("contributions", "templates/contributions.md", nil, newContributionsView(goal))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
