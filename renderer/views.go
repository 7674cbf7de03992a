package renderer

import (
	"strings"
	"time"

	"github.com/etnz/savings"
)

// This file builds the flat view structs consumed by the templates. All
// formatting happens here so the templates stay purely structural.

const barWidth = 20

type goalView struct {
	Title     string
	Target    string
	Saved     string
	Remaining string
	Progress  string
	Bar       string
	Completed bool
}

type goalListView struct {
	Goals []goalView
}

type summaryView struct {
	goalListView
	SavedUSD   string
	SavedINR   string
	TargetUSD  string
	TargetINR  string
	Overall    string
	OverallBar string
	RateError  string
}

type ratesView struct {
	USDINR      string
	INRUSD      string
	LastUpdated string
	Stale       bool
	Error       string
}

type contributionView struct {
	Amount string
	Date   string
	Note   string
}

type contributionsView struct {
	goalView
	Contributions []contributionView
}

func newGoalView(g savings.Goal) goalView {
	return goalView{
		Title:     g.Title,
		Target:    g.Amount.String(),
		Saved:     g.Saved.String(),
		Remaining: g.Remaining().String(),
		Progress:  g.Progress().String(),
		Bar:       bar(float64(g.Progress())),
		Completed: g.IsComplete(),
	}
}

func newGoalListView(goals []savings.Goal) goalListView {
	view := goalListView{Goals: make([]goalView, 0, len(goals))}
	for _, g := range goals {
		view.Goals = append(view.Goals, newGoalView(g))
	}
	return view
}

func newSummaryView(l *savings.Ledger) summaryView {
	view := summaryView{
		goalListView: newGoalListView(l.Goals()),
		Overall:      l.OverallProgress().String(),
		OverallBar:   bar(float64(l.OverallProgress())),
		RateError:    l.Err(),
	}
	// totals only fail on an unsupported currency, which cannot happen for
	// the two fixed ones.
	if saved, err := l.TotalSaved(savings.USD); err == nil {
		view.SavedUSD = saved.String()
	}
	if saved, err := l.TotalSaved(savings.INR); err == nil {
		view.SavedINR = saved.String()
	}
	if target, err := l.TotalTarget(savings.USD); err == nil {
		view.TargetUSD = target.String()
	}
	if target, err := l.TotalTarget(savings.INR); err == nil {
		view.TargetINR = target.String()
	}
	return view
}

func newRatesView(rates savings.ExchangeRates, fetchErr string) ratesView {
	view := ratesView{
		USDINR: rates.USDINR.StringFixed(4),
		INRUSD: rates.INRUSD.StringFixed(6),
		Error:  fetchErr,
	}
	if rates.LastUpdated.IsZero() {
		view.LastUpdated = "never (built-in fallback)"
		view.Stale = true
	} else {
		view.LastUpdated = rates.LastUpdated.Local().Format(time.RFC1123)
		view.Stale = !rates.Fresh(15 * time.Minute)
	}
	return view
}

func newContributionsView(g savings.Goal) contributionsView {
	view := contributionsView{goalView: newGoalView(g)}
	for _, c := range g.SortedContributions() {
		cv := contributionView{
			Amount: c.Amount.String(),
			Date:   c.Date.Format("2006-01-02"),
			Note:   c.Note,
		}
		if cv.Note == "" {
			cv.Note = "-"
		}
		view.Contributions = append(view.Contributions, cv)
	}
	return view
}

// bar draws a fixed-width unicode progress bar for a percentage in [0,100].
func bar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
