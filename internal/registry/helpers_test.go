package registry

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avelar/rollcall/internal/ledger"
	"github.com/avelar/rollcall/internal/policy"
	"github.com/avelar/rollcall/internal/testutil"
)

// Test identities. adminBoot bootstraps families and mints; the others
// hold (or lack) role credentials.
const (
	adminBoot = "root"
	admin     = "alice"
	trainer   = "tom"
	student   = "sam"
	stranger  = "mallory"
)

var testEpoch = time.Unix(1_700_000_000, 0).UTC()

type testEnv struct {
	reg    *Registry
	ledger *ledger.Ledger
	clock  *testutil.FixedClock
	ctx    context.Context
}

// newTestEnv opens a fresh ledger with a pinned clock and a quiet logger.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	l, err := ledger.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	clock := testutil.NewFixedClock(testEpoch)
	reg := New(l,
		WithClock(clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	return &testEnv{reg: reg, ledger: l, clock: clock, ctx: context.Background()}
}

// newBootstrappedEnv additionally initializes every family and mints the
// standard role credentials: admin/admin, trainer/trainer,
// student/student.
func newBootstrappedEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)

	require.NoError(t, env.reg.InitAccessStorage(env.ctx, adminBoot))
	require.NoError(t, env.reg.InitFormationStorage(env.ctx, adminBoot))
	require.NoError(t, env.reg.InitSessionStorage(env.ctx, adminBoot))
	require.NoError(t, env.reg.InitAttendanceStorage(env.ctx, adminBoot))
	require.NoError(t, env.reg.InitCredentialStorage(env.ctx, adminBoot))

	_, err := env.reg.MintCredential(env.ctx, adminBoot, admin, policy.RoleAdmin, 1)
	require.NoError(t, err)
	_, err = env.reg.MintCredential(env.ctx, adminBoot, trainer, policy.RoleTrainer, 1)
	require.NoError(t, err)
	_, err = env.reg.MintCredential(env.ctx, adminBoot, student, policy.RoleStudent, 1)
	require.NoError(t, err)

	return env
}

// counterCount reads a family's raw count straight from the ledger.
func (e *testEnv) counterCount(t *testing.T, family string) uint64 {
	t.Helper()
	var count uint64
	err := e.ledger.View(e.ctx, func(tx *ledger.Tx) error {
		c, err := tx.GetCounter(family)
		if err != nil {
			return err
		}
		count = c.Count
		return nil
	})
	require.NoError(t, err)
	return count
}

// setCounterCount overwrites a family's raw count, for overflow tests.
func (e *testEnv) setCounterCount(t *testing.T, family string, count uint64) {
	t.Helper()
	err := e.ledger.Update(e.ctx, func(tx *ledger.Tx) error {
		return tx.SetCount(family, count)
	})
	require.NoError(t, err)
}
