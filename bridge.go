package savings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strconv"
)

// Bridge mirrors the ledger into a durable store and back: it restores state
// on startup, writes the full collection after every change, and applies
// change notifications coming from other processes sharing the store.
//
// The ledger never touches the store directly; everything flows through the
// bridge. Storage failures are logged and absorbed, the in-memory state
// stays authoritative.
type Bridge struct {
	store  *Store
	ledger *Ledger
	done   chan struct{}
}

// NewBridge binds a ledger to a store and installs itself as the ledger's
// mirror.
func NewBridge(store *Store, ledger *Ledger) *Bridge {
	b := &Bridge{store: store, ledger: ledger}
	ledger.SetMirror(b)
	return b
}

// Restore loads the persisted state into the ledger.
//
// A missing or mismatching schema version marker means any stored data is
// dropped and the tracker starts empty. The goal collection is validated as
// a whole: one bad entry discards the entire collection rather than loading
// it partially. Cached rates are accepted only while still inside the
// freshness window; otherwise the defaults stay and a later refresh corrects
// them.
func (b *Bridge) Restore() error {
	version, err := b.readVersion()
	if err != nil {
		return err
	}
	if version != SchemaVersion {
		if version != 0 {
			log.Printf("stored schema version %d does not match %d, starting empty", version, SchemaVersion)
		}
		// drop the old-schema payloads too, or a later startup with a
		// matching marker would load them.
		for _, key := range []string{KeyGoals, KeyRates} {
			if err := b.store.Remove(key); err != nil {
				log.Printf("cannot drop stale %s data (ignored): %v", key, err)
			}
		}
		return b.writeVersion()
	}

	if goals, err := b.readGoals(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("discarding stored goals (ignored): %v", err)
		}
	} else {
		b.ledger.ApplySyncedGoals(goals)
	}

	if data, err := b.store.Read(KeyRates); err == nil {
		var rates ExchangeRates
		if err := json.Unmarshal(data, &rates); err != nil || !rates.Valid() {
			log.Printf("discarding stored rates (ignored): %v", err)
		} else if rates.Fresh(rateFreshness) {
			b.ledger.ApplySyncedRates(rates)
		}
	}
	return nil
}

// Watch starts applying change notifications from other processes until
// Close is called. Changes are applied wholesale, last writer wins.
func (b *Bridge) Watch() error {
	if b.done != nil {
		return nil // already watching
	}
	b.done = make(chan struct{})
	return b.store.Watch(b.done, func(key string) {
		switch key {
		case KeyGoals:
			goals, err := b.readGoals()
			if err != nil {
				log.Printf("ignoring synced goals: %v", err)
				return
			}
			b.ledger.ApplySyncedGoals(goals)
		case KeyRates:
			data, err := b.store.Read(KeyRates)
			if err != nil {
				return
			}
			var rates ExchangeRates
			if err := json.Unmarshal(data, &rates); err != nil || !rates.Valid() {
				log.Printf("ignoring synced rates: %v", err)
				return
			}
			b.ledger.ApplySyncedRates(rates)
		}
	})
}

// Close stops watching for external changes.
func (b *Bridge) Close() {
	if b.done == nil {
		return
	}
	close(b.done)
	b.done = nil
}

// MirrorGoals writes the full goal collection back to the store. Part of the
// Mirror interface; failures are logged, never propagated.
func (b *Bridge) MirrorGoals(goals []Goal) {
	data, err := json.Marshal(goals)
	if err != nil {
		log.Printf("cannot encode goals (ignored): %v", err)
		return
	}
	if err := b.store.Write(KeyGoals, data); err != nil {
		log.Printf("cannot persist goals (ignored): %v", err)
	}
}

// MirrorRates writes the rate record back to the store. Part of the Mirror
// interface; failures are logged, never propagated.
func (b *Bridge) MirrorRates(rates ExchangeRates) {
	data, err := json.Marshal(rates)
	if err != nil {
		log.Printf("cannot encode rates (ignored): %v", err)
		return
	}
	if err := b.store.Write(KeyRates, data); err != nil {
		log.Printf("cannot persist rates (ignored): %v", err)
	}
}

// readGoals reads and strictly validates the stored goal collection.
func (b *Bridge) readGoals() ([]Goal, error) {
	data, err := b.store.Read(KeyGoals)
	if err != nil {
		return nil, err
	}
	goals, err := DecodeGoals(data)
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// readVersion returns the stored schema version, 0 when none is stored.
func (b *Bridge) readVersion() (int, error) {
	data, err := b.store.Read(KeyVersion)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(string(data))
	if err != nil {
		// An unreadable marker is treated like a mismatch: start empty.
		return 0, nil
	}
	return version, nil
}

func (b *Bridge) writeVersion() error {
	if err := b.store.Write(KeyVersion, []byte(strconv.Itoa(SchemaVersion))); err != nil {
		return fmt.Errorf("cannot write schema version: %w", err)
	}
	return nil
}
