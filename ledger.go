package savings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// refreshInterval is the period of the automatic exchange-rate refresh.
const refreshInterval = 5 * time.Minute

// Mirror receives the full ledger state after each change so it can be made
// durable. Implementations absorb their own failures: a mirror error never
// rolls back the in-memory mutation.
type Mirror interface {
	MirrorGoals([]Goal)
	MirrorRates(ExchangeRates)
}

// Ledger is the aggregate root of the tracker: all goals, the current
// exchange rates, and the last rate-fetch error. It is owned exclusively by
// the running process and mutated only through its methods.
//
// Goals are kept in insertion order; display order is a derived view.
type Ledger struct {
	mu      sync.RWMutex
	goals   []Goal
	rates   ExchangeRates
	loading bool
	err     string // last rate-fetch error, empty when the last fetch succeeded

	mirror Mirror
	cache  *RateCache

	stopRefresh chan struct{}
	refreshDone chan struct{}
}

// NewLedger creates an empty ledger seeded with the fallback rates.
func NewLedger() *Ledger {
	return &Ledger{
		goals: make([]Goal, 0),
		rates: FallbackRates(),
	}
}

// SetMirror installs the durable mirror notified after every change.
func (l *Ledger) SetMirror(m Mirror) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = m
}

// SetRateCache installs the exchange-rate cache used by RefreshRates.
func (l *Ledger) SetRateCache(c *RateCache) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = c
}

// AddGoal validates and appends a new goal with a fresh id, a zero saved
// amount and no contributions.
func (l *Ledger) AddGoal(title string, amount Money) (Goal, error) {
	trimmed, err := ValidateTitle(title)
	if err != nil {
		return Goal{}, err
	}
	if err := ValidateAmount(amount); err != nil {
		return Goal{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, g := range l.goals {
		if g.Title == trimmed {
			return Goal{}, errValidation("title", "a goal named %q already exists", trimmed)
		}
	}
	goal := Goal{
		ID:            uuid.NewString(),
		Title:         trimmed,
		Amount:        amount,
		Saved:         M(0, amount.Currency()),
		Contributions: make([]Contribution, 0),
		CreatedAt:     time.Now(),
	}
	l.goals = append(l.goals, goal)
	l.mirrorGoalsLocked()
	return goal.clone(), nil
}

// RemoveGoal deletes the goal and all its contributions irreversibly.
func (l *Ledger) RemoveGoal(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("cannot remove goal %q: %w", id, ErrNotFound)
	}
	l.goals = append(l.goals[:i], l.goals[i+1:]...)
	l.mirrorGoalsLocked()
	return nil
}

// UpdateGoalAmount changes the goal's target amount only. The saved amount
// and the contributions are untouched; lowering the target below what is
// already saved is rejected.
func (l *Ledger) UpdateGoalAmount(id string, amount Money) (Goal, error) {
	if err := ValidateAmount(amount); err != nil {
		return Goal{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Goal{}, fmt.Errorf("cannot update goal %q: %w", id, ErrNotFound)
	}
	goal := l.goals[i]
	if amount.Currency() != goal.Currency() {
		return Goal{}, errValidation("currency", "new target is in %q but the goal is in %q", amount.Currency(), goal.Currency())
	}
	if amount.LessThanOrEqual(goal.Saved) {
		return Goal{}, errValidation("amount", "new target %s is not above the already saved %s", amount, goal.Saved)
	}
	goal.Amount = amount
	l.goals[i] = goal
	l.mirrorGoalsLocked()
	return goal.clone(), nil
}

// AddContribution validates, converts and appends a contribution to a goal.
//
// The amount may be given in either supported currency: it is converted into
// the goal's own currency here, using the ledger's current rates, before it
// is stored. A contribution that would overshoot the target is clamped to
// exactly complete the goal, so the saved amount never exceeds the target.
// An empty date means now.
func (l *Ledger) AddContribution(goalID string, amount Money, note string, date time.Time) (Contribution, error) {
	if err := ValidateAmount(amount); err != nil {
		return Contribution{}, err
	}
	if err := ValidateNote(note); err != nil {
		return Contribution{}, err
	}
	now := time.Now()
	if date.IsZero() {
		date = now
	}
	if err := ValidateDate(date, now); err != nil {
		return Contribution{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexLocked(goalID)
	if i < 0 {
		return Contribution{}, fmt.Errorf("cannot contribute to goal %q: %w", goalID, ErrNotFound)
	}
	goal := l.goals[i]

	stored, err := Convert(amount, goal.Currency(), l.rates)
	if err != nil {
		return Contribution{}, err
	}
	room := goal.Amount.Sub(goal.Saved)
	if !room.IsPositive() {
		return Contribution{}, errValidation("amount", "goal %q is already completed", goal.Title)
	}
	if stored.GreaterThan(room) {
		stored = room
	}

	contribution := Contribution{
		ID:     uuid.NewString(),
		Amount: stored,
		Date:   date,
		Note:   note,
	}
	goal.Contributions = append(goal.Contributions, contribution)
	goal.Saved = goal.Saved.Add(stored)
	l.goals[i] = goal
	l.mirrorGoalsLocked()
	return contribution, nil
}

// Goals returns a snapshot of all goals in display order, newest first.
func (l *Ledger) Goals() []Goal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	goals := make([]Goal, 0, len(l.goals))
	for _, g := range l.goals {
		goals = append(goals, g.clone())
	}
	sortGoals(goals)
	return goals
}

// Goal returns a snapshot of a single goal.
func (l *Ledger) Goal(id string) (Goal, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexLocked(id)
	if i < 0 {
		return Goal{}, false
	}
	return l.goals[i].clone(), true
}

// TotalSaved sums the saved amounts across all goals, converted into the
// requested currency.
func (l *Ledger) TotalSaved(currency Currency) (Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalLocked(currency, func(g Goal) Money { return g.Saved })
}

// TotalTarget sums the target amounts across all goals, converted into the
// requested currency.
func (l *Ledger) TotalTarget(currency Currency) (Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalLocked(currency, func(g Goal) Money { return g.Amount })
}

func (l *Ledger) totalLocked(currency Currency, pick func(Goal) Money) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}
	total := M(0, currency)
	for _, g := range l.goals {
		converted, err := Convert(pick(g), currency, l.rates)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(converted)
	}
	return total, nil
}

// OverallProgress returns the ratio of total saved over total target, both
// expressed in USD, as a percentage. It is 0 when there is no target at all,
// and is not clamped here: per-goal clamping already bounds each goal's
// share to at most 100%.
func (l *Ledger) OverallProgress() Percent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	target, err := l.totalLocked(USD, func(g Goal) Money { return g.Amount })
	if err != nil || !target.IsPositive() {
		return 0
	}
	saved, err := l.totalLocked(USD, func(g Goal) Money { return g.Saved })
	if err != nil {
		return 0
	}
	return Percent(saved.Amount().Div(target.Amount()).Mul(hundred).InexactFloat64())
}

// Rates returns the current exchange rate record.
func (l *Ledger) Rates() ExchangeRates {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rates
}

// Err returns the last rate-fetch error message, empty when the last fetch
// succeeded.
func (l *Ledger) Err() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Loading reports whether a rate refresh is in flight.
func (l *Ledger) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// RefreshRates asks the rate cache for rates, forcing a remote fetch when
// requested. It always leaves the ledger with a usable rate record; a fetch
// failure is recorded in the ledger error field and cleared on the next
// success. Goal mutations may proceed while a fetch is in flight.
func (l *Ledger) RefreshRates(ctx context.Context, force bool) ExchangeRates {
	l.mu.Lock()
	cache := l.cache
	if cache == nil {
		defer l.mu.Unlock()
		return l.rates
	}
	l.loading = true
	l.mu.Unlock()

	// The fetch itself runs without the lock: it only touches the rate part
	// of the state, goal mutations are free to proceed meanwhile.
	rates, err := cache.Refresh(ctx, force)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	l.rates = rates
	if err != nil {
		l.err = err.Error()
	} else {
		l.err = ""
	}
	if l.mirror != nil {
		l.mirror.MirrorRates(rates)
	}
	return rates
}

// StartAutoRefresh launches the periodic rate refresh. The schedule stops
// when StopAutoRefresh is called; an in-flight fetch is allowed to complete
// and apply its result.
func (l *Ledger) StartAutoRefresh() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopRefresh != nil {
		return // already running
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	l.stopRefresh = stop
	l.refreshDone = done
	go func() {
		defer close(done)
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.RefreshRates(context.Background(), false)
			case <-stop:
				return
			}
		}
	}()
}

// StopAutoRefresh cancels the periodic refresh schedule.
func (l *Ledger) StopAutoRefresh() {
	l.mu.Lock()
	stop, done := l.stopRefresh, l.refreshDone
	l.stopRefresh, l.refreshDone = nil, nil
	l.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// SetGoals replaces the goal collection wholesale with an already validated
// one (restore or import) and mirrors the result.
func (l *Ledger) SetGoals(goals []Goal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.goals = goals
	l.mirrorGoalsLocked()
}

// ApplySyncedGoals replaces the goal collection with one delivered by the
// sync bridge from another process. Last writer wins; the change is not
// mirrored back to avoid write loops.
func (l *Ledger) ApplySyncedGoals(goals []Goal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.goals = goals
}

// ApplySyncedRates replaces the rate record with one delivered by the sync
// bridge from another process.
func (l *Ledger) ApplySyncedRates(rates ExchangeRates) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rates = rates
}

// SetRates replaces the rate record (restore or import) and mirrors it.
func (l *Ledger) SetRates(rates ExchangeRates) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rates = rates
	if l.mirror != nil {
		l.mirror.MirrorRates(rates)
	}
}

func (l *Ledger) indexLocked(id string) int {
	for i, g := range l.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// mirrorGoalsLocked hands the full goal collection to the mirror. Called
// with the lock held after every goal mutation.
func (l *Ledger) mirrorGoalsLocked() {
	if l.mirror == nil {
		return
	}
	goals := make([]Goal, 0, len(l.goals))
	for _, g := range l.goals {
		goals = append(goals, g.clone())
	}
	l.mirror.MirrorGoals(goals)
}
