// Package ledger provides SQLite-backed storage for the rollcall registry.
//
// The ledger is a content-addressed slot map plus per-family counters:
//   - Slots: one record body per derived address (PRIMARY KEY on address)
//   - Counters: one row per record family, the source of sequential ids
//   - Operations: an audit log, one row per successful mutating operation
//
// # Critical properties
//
// Address exclusivity: slot inserts never overwrite. Two operations racing
// for the same derived address serialize on the address primary key; the
// loser observes ErrSlotExists instead of clobbering the winner. This is
// the registry's sole cross-operation concurrency guarantee.
//
// Single-operation atomicity: callers run reads, validations, counter
// increments and slot writes inside one Update transaction. Either the
// whole effect set commits or none of it does; a failed operation leaves
// no partial writes behind.
//
// Ordering: every write is stamped with a ledger-wide seq from a dedicated
// counter row. Dumps order by seq so two ledgers that saw the same
// operation sequence serialize identically.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//   - _txlock=immediate: transactions take the write lock at BEGIN
//   - single-writer connection pool (SQLite allows one writer at a time)
package ledger
