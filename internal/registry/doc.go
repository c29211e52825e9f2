// Package registry is the domain core of rollcall: access requests,
// formations, sessions, attendance records and role credentials, all
// addressed deterministically and mutated under capability checks.
//
// # Model
//
// Every record lives at a derived address (package keyspace): a pure
// function of a namespace tag plus the record's disambiguating fields.
// Nobody chooses identifiers; sequential ids come from per-family
// counters bootstrapped by the Init*Storage operations, and record
// locations follow from the ids and identities involved.
//
// Authorization is capability by possession. A mutation is allowed either
// because the caller holds a positively-funded role credential at
// derive(credential, caller, role), or because the caller is the record's
// stored owner. There is no access-control list.
//
// # Atomicity
//
// Each operation validates, authorizes, mints its id and writes inside
// one ledger transaction. A failed operation has an empty effect set: no
// counter advances without its record, no record commits without its
// counter. Concurrent creations racing for one derived address resolve to
// one winner; the loser observes ALREADY_EXISTS.
package registry
