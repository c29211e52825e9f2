package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/avelar/rollcall/internal/keyspace"
)

func TestInsertSlot_OccupiedAddressFails(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	err := l.Update(ctx, func(tx *Tx) error {
		return tx.InsertSlot("addr-1", "request", []byte(`{"v":1}`), 1)
	})
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	// A second writer that derived the same address must fail, never
	// overwrite. This is the registry's concurrency-correctness property.
	err = l.Update(ctx, func(tx *Tx) error {
		return tx.InsertSlot("addr-1", "request", []byte(`{"v":2}`), 2)
	})
	if !errors.Is(err, ErrSlotExists) {
		t.Fatalf("second insert error = %v, want ErrSlotExists", err)
	}

	err = l.View(ctx, func(tx *Tx) error {
		s, err := tx.GetSlot("addr-1")
		if err != nil {
			return err
		}
		if string(s.Body) != `{"v":1}` {
			t.Errorf("body = %s, first write was overwritten", s.Body)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func TestGetSlot_Missing(t *testing.T) {
	l := openTestLedger(t)

	err := l.View(context.Background(), func(tx *Tx) error {
		_, err := tx.GetSlot("nope")
		return err
	})
	if !errors.Is(err, ErrSlotMissing) {
		t.Fatalf("GetSlot() error = %v, want ErrSlotMissing", err)
	}
}

func TestUpdateSlot(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	err := l.Update(ctx, func(tx *Tx) error {
		if err := tx.InsertSlot("addr-1", "attendance", []byte(`{"v":1}`), 1); err != nil {
			return err
		}
		return tx.UpdateSlot("addr-1", []byte(`{"v":2}`), 2)
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	err = l.View(ctx, func(tx *Tx) error {
		s, err := tx.GetSlot("addr-1")
		if err != nil {
			return err
		}
		if string(s.Body) != `{"v":2}` {
			t.Errorf("body = %s, want updated body", s.Body)
		}
		if s.CreatedSeq != 1 || s.UpdatedSeq != 2 {
			t.Errorf("seqs = %d/%d, want 1/2", s.CreatedSeq, s.UpdatedSeq)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func TestUpdateSlot_Missing(t *testing.T) {
	l := openTestLedger(t)

	err := l.Update(context.Background(), func(tx *Tx) error {
		return tx.UpdateSlot("nope", []byte(`{}`), 1)
	})
	if !errors.Is(err, ErrSlotMissing) {
		t.Fatalf("UpdateSlot() error = %v, want ErrSlotMissing", err)
	}
}

func TestInitCounter_DuplicateFailsAndPreservesState(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	err := l.Update(ctx, func(tx *Tx) error {
		return tx.InitCounter("access-storage", "admin-1", 3)
	})
	if err != nil {
		t.Fatalf("first InitCounter failed: %v", err)
	}

	// Advance the count, then attempt a duplicate bootstrap.
	err = l.Update(ctx, func(tx *Tx) error {
		return tx.SetCount("access-storage", 5)
	})
	if err != nil {
		t.Fatalf("SetCount failed: %v", err)
	}

	err = l.Update(ctx, func(tx *Tx) error {
		return tx.InitCounter("access-storage", "admin-2", 9)
	})
	if !errors.Is(err, ErrCounterExists) {
		t.Fatalf("duplicate InitCounter error = %v, want ErrCounterExists", err)
	}

	err = l.View(ctx, func(tx *Tx) error {
		c, err := tx.GetCounter("access-storage")
		if err != nil {
			return err
		}
		if c.Admin != "admin-1" || c.Count != 5 || c.Nonce != 3 {
			t.Errorf("counter mutated by failed bootstrap: %+v", c)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}
}

func TestSetCount_StorableRange(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	err := l.Update(ctx, func(tx *Tx) error {
		return tx.InitCounter("session-storage", "admin-1", 0)
	})
	if err != nil {
		t.Fatalf("InitCounter failed: %v", err)
	}

	// The largest storable count round-trips intact.
	err = l.Update(ctx, func(tx *Tx) error {
		return tx.SetCount("session-storage", MaxCount)
	})
	if err != nil {
		t.Fatalf("SetCount(MaxCount) failed: %v", err)
	}

	err = l.View(ctx, func(tx *Tx) error {
		c, err := tx.GetCounter("session-storage")
		if err != nil {
			return err
		}
		if c.Count != MaxCount {
			t.Errorf("count = %d, want %d", c.Count, uint64(MaxCount))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() failed: %v", err)
	}

	// One past the column's range is rejected up front, not by the driver.
	err = l.Update(ctx, func(tx *Tx) error {
		return tx.SetCount("session-storage", MaxCount+1)
	})
	if err == nil {
		t.Fatal("SetCount(MaxCount+1) succeeded, want range error")
	}
}

func TestGetCounter_Missing(t *testing.T) {
	l := openTestLedger(t)

	err := l.View(context.Background(), func(tx *Tx) error {
		_, err := tx.GetCounter("never-initialized")
		return err
	})
	if !errors.Is(err, ErrCounterMissing) {
		t.Fatalf("GetCounter() error = %v, want ErrCounterMissing", err)
	}
}

func TestNextSeq_Monotonic(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		err := l.Update(ctx, func(tx *Tx) error {
			seq, err := tx.NextSeq()
			if err != nil {
				return err
			}
			seqs = append(seqs, seq)
			return nil
		})
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
	}

	for i, seq := range seqs {
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestDumpState_DeterministicOrder(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	err := l.Update(ctx, func(tx *Tx) error {
		for _, addr := range []string{"bb", "aa", "cc"} {
			seq, err := tx.NextSeq()
			if err != nil {
				return err
			}
			if err := tx.InsertSlot(keyspace.Address(addr), "request", []byte(`{}`), seq); err != nil {
				return err
			}
			if err := tx.LogOperation("tok-"+addr, "request.submit", addr, seq); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	d, err := l.DumpState(ctx)
	if err != nil {
		t.Fatalf("DumpState() failed: %v", err)
	}
	if len(d.Slots) != 3 || len(d.Operations) != 3 {
		t.Fatalf("dump sizes = %d slots, %d ops", len(d.Slots), len(d.Operations))
	}
	for i := 1; i < len(d.Slots); i++ {
		if d.Slots[i].Seq < d.Slots[i-1].Seq {
			t.Errorf("slots out of seq order at %d", i)
		}
	}
	for i, want := range []string{"bb", "aa", "cc"} {
		if d.Operations[i].Caller != want {
			t.Errorf("operations[%d].Caller = %s, want %s", i, d.Operations[i].Caller, want)
		}
	}
}
