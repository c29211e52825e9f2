package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/avelar/rollcall/internal/keyspace"
	"github.com/avelar/rollcall/internal/ledger"
	"github.com/avelar/rollcall/internal/policy"
)

// Record families. Each family has its own counter row, bootstrapped by
// the matching Init operation.
const (
	familyAccess     = "access-storage"
	familyFormation  = "formation-storage"
	familySession    = "session-storage"
	familyAttendance = "attendance-storage"
	familyCredential = "credential-storage"
)

// Registry is the domain core: deterministic addressing, per-family
// counters, and capability-gated record stores, all committing through
// one ledger transaction per operation.
//
// Registry methods are safe for concurrent use; the ledger serializes
// writers, and two operations racing for the same derived address resolve
// to one winner and one ALREADY_EXISTS.
type Registry struct {
	ledger *ledger.Ledger
	clock  Clock
	policy policy.Policy
	log    *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the wall clock. Tests pin time with this.
func WithClock(c Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithPolicy replaces the default field caps and role vocabulary.
func WithPolicy(p policy.Policy) Option {
	return func(r *Registry) { r.policy = p }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates a Registry over the given ledger with the default policy
// and system clock.
func New(l *ledger.Ledger, opts ...Option) *Registry {
	r := &Registry{
		ledger: l,
		clock:  SystemClock,
		policy: policy.Default(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the registry's active policy.
func (r *Registry) Policy() policy.Policy { return r.policy }

// Family bootstrap operations. Each creates the family's counter exactly
// once; re-invocation fails with ALREADY_INITIALIZED and leaves the
// existing counter untouched. The recorded admin identity is the
// bootstrap admin; for the credential family it is also the only identity
// allowed to mint.

// InitAccessStorage bootstraps the access-request family.
func (r *Registry) InitAccessStorage(ctx context.Context, admin string) error {
	return r.initFamily(ctx, familyAccess, keyspace.TagAccessStorage, admin)
}

// InitFormationStorage bootstraps the formation family.
func (r *Registry) InitFormationStorage(ctx context.Context, admin string) error {
	return r.initFamily(ctx, familyFormation, keyspace.TagFormationStorage, admin)
}

// InitSessionStorage bootstraps the session family.
func (r *Registry) InitSessionStorage(ctx context.Context, admin string) error {
	return r.initFamily(ctx, familySession, keyspace.TagSessionStorage, admin)
}

// InitAttendanceStorage bootstraps the attendance family.
func (r *Registry) InitAttendanceStorage(ctx context.Context, admin string) error {
	return r.initFamily(ctx, familyAttendance, keyspace.TagAttendanceStorage, admin)
}

// InitCredentialStorage bootstraps the credential family.
func (r *Registry) InitCredentialStorage(ctx context.Context, admin string) error {
	return r.initFamily(ctx, familyCredential, keyspace.TagCredentialStorage, admin)
}

func (r *Registry) initFamily(ctx context.Context, family, tag, admin string) error {
	if admin == "" {
		return errUnauthorized("empty admin identity")
	}

	// The nonce ties the counter row to its namespace tag so a holder of
	// only public identifiers can re-derive and cross-check it.
	_, nonce, err := keyspace.DeriveString(tag)
	if err != nil {
		return fmt.Errorf("derive %s: %w", family, err)
	}

	err = r.ledger.Update(ctx, func(tx *ledger.Tx) error {
		if err := tx.InitCounter(family, admin, uint8(nonce)); err != nil {
			if errors.Is(err, ledger.ErrCounterExists) {
				return errAlreadyInitialized(family)
			}
			return err
		}
		seq, err := tx.NextSeq()
		if err != nil {
			return err
		}
		return r.logOp(tx, family+".init", admin, seq)
	})
	if err != nil {
		return err
	}

	r.log.Info("family initialized", "family", family, "admin", admin)
	return nil
}

// nextID mints the next sequential identifier for a family inside the
// operation's transaction: returns the current count and advances it by
// one. Committing together with the record write is what makes issued ids
// gapless; the counter row never advances for an operation that fails.
//
// The overflow bound is ledger.MaxCount, not MaxUint64: counts persist
// in a signed SQLite INTEGER, so MaxCount is the last count the ledger
// can store after the increment.
func nextID(tx *ledger.Tx, family string) (uint64, error) {
	c, err := tx.GetCounter(family)
	if err != nil {
		if errors.Is(err, ledger.ErrCounterMissing) {
			return 0, &Error{
				Code:    ErrCodeNotFound,
				Message: fmt.Sprintf("family %q is not initialized", family),
			}
		}
		return 0, err
	}

	if c.Count >= ledger.MaxCount {
		return 0, errOverflow(family)
	}
	if err := tx.SetCount(family, c.Count+1); err != nil {
		return 0, err
	}
	return c.Count, nil
}

// getRecord loads and decodes the record of the given kind at addr.
func getRecord[T any](tx *ledger.Tx, kind string, addr keyspace.Address) (*T, error) {
	slot, err := tx.GetSlot(addr)
	if err != nil {
		if errors.Is(err, ledger.ErrSlotMissing) {
			return nil, errNotFound(kind)
		}
		return nil, err
	}
	if slot.Kind != kind {
		// Tags domain-separate the keyspace; a kind mismatch means the
		// ledger was tampered with, not a caller mistake.
		return nil, fmt.Errorf("slot %s holds kind %q, expected %q", addr, slot.Kind, kind)
	}

	rec := new(T)
	if err := json.Unmarshal(slot.Body, rec); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return rec, nil
}

// putRecord encodes and inserts a new record at addr. The address must be
// empty; an occupied address maps to ALREADY_EXISTS.
func putRecord[T any](tx *ledger.Tx, kind string, addr keyspace.Address, rec *T, seq int64) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	if err := tx.InsertSlot(addr, kind, body, seq); err != nil {
		if errors.Is(err, ledger.ErrSlotExists) {
			return errAlreadyExists(kind, "derived address is occupied")
		}
		return err
	}
	return nil
}

// overwriteRecord encodes and replaces the record at an occupied addr.
func overwriteRecord[T any](tx *ledger.Tx, kind string, addr keyspace.Address, rec *T, seq int64) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", kind, err)
	}
	if err := tx.UpdateSlot(addr, body, seq); err != nil {
		if errors.Is(err, ledger.ErrSlotMissing) {
			return errNotFound(kind)
		}
		return err
	}
	return nil
}

// logOp appends an audit entry for a successful mutating operation.
// Tokens are UUIDv7: time-ordered, unique per operation.
func (r *Registry) logOp(tx *ledger.Tx, op, caller string, seq int64) error {
	token, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("operation token: %w", err)
	}
	return tx.LogOperation(token.String(), op, caller, seq)
}

// checkLen validates one variable-length field against its cap.
// Caps are bytes; validation happens before any state is touched.
func checkLen(field, value string, max int) error {
	if len(value) > max {
		return errFieldTooLong(field, len(value), max)
	}
	return nil
}

// now returns the clock reading as a unix timestamp.
func (r *Registry) now() int64 { return r.clock.Now().Unix() }
