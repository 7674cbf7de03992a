package savings

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// fetchThrottle is the minimum interval between two remote fetch attempts,
// an anti-abuse guard against hammering the providers.
const fetchThrottle = 5 * time.Second

// fetchTimeout bounds a single remote fetch.
const fetchTimeout = 10 * time.Second

const (
	memoRates    = "rates"    // last known good rate record, expires with the freshness window
	memoAttempt  = "attempt"  // marker present while fetch attempts are throttled
	memoJanitors = 10 * time.Minute
)

// RateCache owns the single source of truth for the USD/INR rate and shields
// the rest of the system from remote latency and failures. Fetches are
// throttled, results are persisted with a freshness window, and a failure
// always resolves to a usable rate record (cached, then hardcoded fallback),
// never to a missing one.
type RateCache struct {
	store  *Store
	client *http.Client
	memo   *gocache.Cache
}

// NewRateCache creates a cache persisting into the given store.
func NewRateCache(store *Store) *RateCache {
	return &RateCache{
		store:  store,
		client: &http.Client{Timeout: fetchTimeout},
		memo:   gocache.New(rateFreshness, memoJanitors),
	}
}

// Cached returns the persisted rate record, or false if none is stored, it
// cannot be parsed, or its fields are not usable numbers.
func (c *RateCache) Cached() (ExchangeRates, bool) {
	if rates, ok := c.memo.Get(memoRates); ok {
		return rates.(ExchangeRates), true
	}
	if c.store == nil {
		return ExchangeRates{}, false
	}
	data, err := c.store.Read(KeyRates)
	if err != nil {
		return ExchangeRates{}, false
	}
	var rates ExchangeRates
	if err := json.Unmarshal(data, &rates); err != nil || !rates.Valid() {
		return ExchangeRates{}, false
	}
	c.memo.Set(memoRates, rates, gocache.DefaultExpiration)
	return rates, true
}

// Refresh returns current exchange rates, fetching from the remote providers
// when needed.
//
// Unless forced, a fetch is skipped while a previous attempt is younger than
// the throttle interval or the cached record is still inside the freshness
// window; the cached (or fallback) record is returned instead. A successful
// fetch replaces and persists the whole record with a fresh timestamp.
//
// Refresh never fails: the returned record is always usable. A non-nil error
// reports that the remote fetch failed and a stale or fallback record was
// returned; callers record it in the ledger error field, it is not a reason
// to stop.
func (c *RateCache) Refresh(ctx context.Context, force bool) (ExchangeRates, error) {
	if !force {
		if _, throttled := c.memo.Get(memoAttempt); throttled {
			return c.best(), nil
		}
		if rates, ok := c.Cached(); ok && rates.Fresh(rateFreshness) {
			return rates, nil
		}
	}
	c.memo.Set(memoAttempt, time.Now(), fetchThrottle)

	rate, err := fetchUSDINR(ctx, c.client)
	if err != nil {
		return c.best(), err
	}

	rates := NewExchangeRates(decimal.NewFromFloat(rate), time.Now())
	c.memo.Set(memoRates, rates, gocache.DefaultExpiration)
	c.persist(rates)
	return rates, nil
}

// best returns the most recent cached rates, stale or not, else the
// hardcoded fallback.
func (c *RateCache) best() ExchangeRates {
	if rates, ok := c.Cached(); ok {
		return rates
	}
	return FallbackRates()
}

// persist mirrors the record to the store. Write failures are logged and
// absorbed: the in-memory record remains authoritative.
func (c *RateCache) persist(rates ExchangeRates) {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(rates)
	if err != nil {
		log.Printf("cannot encode rates (ignored): %v", err)
		return
	}
	if err := c.store.Write(KeyRates, data); err != nil {
		log.Printf("cannot persist rates (ignored): %v", err)
	}
}
