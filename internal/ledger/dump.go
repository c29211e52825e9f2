package ledger

import (
	"context"
	"fmt"
)

// DumpSlot is one slot in a deterministic ledger dump.
type DumpSlot struct {
	Seq     int64  `json:"seq"`
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Body    string `json:"body"`
}

// DumpOperation is one audit entry in a deterministic ledger dump.
type DumpOperation struct {
	Seq    int64  `json:"seq"`
	Op     string `json:"op"`
	Caller string `json:"caller"`
}

// Dump is a deterministic serialization of ledger state, used by golden
// tests and the dump command. Slots order by (updated_seq, address) and
// operations by seq, so two ledgers that processed the same operation
// sequence dump identically. Operation tokens are excluded: they are
// random per run.
type Dump struct {
	Slots      []DumpSlot      `json:"slots"`
	Operations []DumpOperation `json:"operations"`
}

// DumpState reads the whole ledger into a Dump.
func (l *Ledger) DumpState(ctx context.Context) (*Dump, error) {
	d := &Dump{}
	err := l.View(ctx, func(tx *Tx) error {
		rows, err := tx.tx.QueryContext(ctx, `
			SELECT updated_seq, address, kind, body
			FROM slots
			ORDER BY updated_seq ASC, address ASC
		`)
		if err != nil {
			return fmt.Errorf("dump slots: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s DumpSlot
			if err := rows.Scan(&s.Seq, &s.Address, &s.Kind, &s.Body); err != nil {
				return fmt.Errorf("dump slots: scan: %w", err)
			}
			d.Slots = append(d.Slots, s)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("dump slots: %w", err)
		}

		opRows, err := tx.tx.QueryContext(ctx, `
			SELECT seq, op, caller
			FROM operations
			ORDER BY seq ASC
		`)
		if err != nil {
			return fmt.Errorf("dump operations: %w", err)
		}
		defer opRows.Close()

		for opRows.Next() {
			var o DumpOperation
			if err := opRows.Scan(&o.Seq, &o.Op, &o.Caller); err != nil {
				return fmt.Errorf("dump operations: scan: %w", err)
			}
			d.Operations = append(d.Operations, o)
		}
		return opRows.Err()
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
