package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/avelar/rollcall/internal/keyspace"
)

// Storage-level sentinel errors. The registry maps these onto its caller
// facing taxonomy; nothing below this package should leak SQLite errors.
var (
	// ErrSlotExists reports an insert at an occupied address.
	ErrSlotExists = errors.New("ledger: slot already occupied")

	// ErrSlotMissing reports a read or update at an empty address.
	ErrSlotMissing = errors.New("ledger: no slot at address")

	// ErrCounterExists reports a duplicate counter bootstrap.
	ErrCounterExists = errors.New("ledger: counter already initialized")

	// ErrCounterMissing reports an access to a counter that was never
	// initialized.
	ErrCounterMissing = errors.New("ledger: counter not initialized")
)

// Slot is one content-addressed record as stored.
type Slot struct {
	Address    keyspace.Address
	Kind       string
	Body       []byte
	CreatedSeq int64
	UpdatedSeq int64
}

// Counter is one family's id source as stored. Count persists in a
// signed SQLite INTEGER, so MaxCount is the largest storable value.
type Counter struct {
	Family string
	Admin  string
	Count  uint64
	Nonce  uint8
}

// MaxCount is the largest count the counters table can represent.
const MaxCount = math.MaxInt64

// Operation is one audit log entry.
type Operation struct {
	Token  string
	Op     string
	Caller string
	Seq    int64
}

// Tx is a single atomic unit of ledger work. All methods operate within
// the enclosing transaction; nothing is visible to other operations until
// the Update call that owns this Tx commits.
type Tx struct {
	tx  *sql.Tx
	ctx context.Context
}

// InsertSlot writes a new record at addr. Returns ErrSlotExists if the
// address is occupied - inserts never overwrite.
//
// Implemented with ON CONFLICT DO NOTHING plus a rows-affected check
// rather than a bare INSERT so that a conflict is distinguishable from
// other constraint failures.
func (t *Tx) InsertSlot(addr keyspace.Address, kind string, body []byte, seq int64) error {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO slots (address, kind, body, created_seq, updated_seq)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`, string(addr), kind, string(body), seq, seq)
	if err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert slot: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSlotExists
	}
	return nil
}

// GetSlot loads the record at addr. Returns ErrSlotMissing if the address
// is empty.
func (t *Tx) GetSlot(addr keyspace.Address) (*Slot, error) {
	s := &Slot{Address: addr}
	var body string
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT kind, body, created_seq, updated_seq
		FROM slots WHERE address = ?
	`, string(addr)).Scan(&s.Kind, &body, &s.CreatedSeq, &s.UpdatedSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	s.Body = []byte(body)
	return s, nil
}

// UpdateSlot replaces the body of an existing record at addr. Returns
// ErrSlotMissing if the address is empty; kind and created_seq are fixed
// at insert time.
func (t *Tx) UpdateSlot(addr keyspace.Address, body []byte, seq int64) error {
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE slots SET body = ?, updated_seq = ? WHERE address = ?
	`, string(body), seq, string(addr))
	if err != nil {
		return fmt.Errorf("update slot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update slot: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrSlotMissing
	}
	return nil
}

// InitCounter creates the counter row for a family with count = 0.
// Returns ErrCounterExists on re-initialization; the existing row is
// untouched in that case.
func (t *Tx) InitCounter(family, admin string, nonce uint8) error {
	res, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO counters (family, admin, count, nonce)
		VALUES (?, ?, 0, ?)
		ON CONFLICT(family) DO NOTHING
	`, family, admin, nonce)
	if err != nil {
		return fmt.Errorf("init counter: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("init counter: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCounterExists
	}
	return nil
}

// GetCounter loads a family's counter. Returns ErrCounterMissing if the
// family was never initialized.
func (t *Tx) GetCounter(family string) (*Counter, error) {
	c := &Counter{Family: family}
	err := t.tx.QueryRowContext(t.ctx, `
		SELECT admin, count, nonce FROM counters WHERE family = ?
	`, family).Scan(&c.Admin, &c.Count, &c.Nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCounterMissing
	}
	if err != nil {
		return nil, fmt.Errorf("get counter: %w", err)
	}
	return c, nil
}

// SetCount stores a family's new count. The caller owns overflow
// checking against MaxCount; values beyond it do not fit the column.
func (t *Tx) SetCount(family string, count uint64) error {
	if count > MaxCount {
		return fmt.Errorf("set count: %d exceeds the storable maximum %d", count, uint64(MaxCount))
	}
	res, err := t.tx.ExecContext(t.ctx, `
		UPDATE counters SET count = ? WHERE family = ?
	`, count, family)
	if err != nil {
		return fmt.Errorf("set count: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set count: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCounterMissing
	}
	return nil
}

// NextSeq issues the next ledger-wide write sequence number. Stamped on
// every slot write and audit entry so dumps have a total order.
func (t *Tx) NextSeq() (int64, error) {
	if _, err := t.tx.ExecContext(t.ctx, `
		UPDATE counters SET count = count + 1 WHERE family = '_seq'
	`); err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}

	var seq int64
	if err := t.tx.QueryRowContext(t.ctx, `
		SELECT count FROM counters WHERE family = '_seq'
	`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}

// LogOperation appends an audit entry for a successful mutating operation.
func (t *Tx) LogOperation(token, op, caller string, seq int64) error {
	if _, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO operations (token, op, caller, seq)
		VALUES (?, ?, ?, ?)
	`, token, op, caller, seq); err != nil {
		return fmt.Errorf("log operation: %w", err)
	}
	return nil
}
