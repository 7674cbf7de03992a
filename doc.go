// Package savings provides the core logic for a personal savings-goal
// tracker. Users create monetary goals in USD or INR, log contributions
// toward them, and read aggregated progress converted to a common currency
// using periodically refreshed exchange rates.
//
// The core functionalities include:
//   - Goal Ledger: the in-memory aggregate holding all goals, their
//     contributions and the current exchange rates, mutated only through a
//     closed set of operations.
//   - Currency Conversion: exact conversion between the two supported
//     currencies using a cached USD/INR rate pair.
//   - Exchange Rate Cache: remote rate fetching with throttling, a freshness
//     window and hardcoded fallbacks, so rate failures never block the user.
//   - Persistence/Sync Bridge: mirroring the ledger into a file-backed
//     key-value store, restoring it on startup, and merging changes made by
//     other processes sharing the same store.
//
// This package serves as the foundational logic for the `sgt` command-line
// tool; the presentational layer only ever calls the Ledger and Bridge
// boundary described here.
package savings
