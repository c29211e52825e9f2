package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	env := newBootstrappedEnv(t)

	sess, err := env.reg.CreateSession(env.ctx, trainer, SessionFields{
		FormationID: "0",
		Title:       "Day 1",
		Description: "Basics",
		Date:        1_700_150_000,
		Duration:    90,
		Location:    "Room A",
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(0), sess.ID)
	assert.Equal(t, trainer, sess.Trainer)
	assert.True(t, sess.Active, "sessions are active at creation")

	got, err := env.reg.GetSession(env.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestCreateSession_AdminOrTrainer(t *testing.T) {
	env := newBootstrappedEnv(t)

	_, err := env.reg.CreateSession(env.ctx, admin, SessionFields{Title: "by admin"})
	assert.NoError(t, err, "admin credential suffices")

	_, err = env.reg.CreateSession(env.ctx, trainer, SessionFields{Title: "by trainer"})
	assert.NoError(t, err, "trainer credential suffices")

	for _, caller := range []string{student, stranger} {
		_, err = env.reg.CreateSession(env.ctx, caller, SessionFields{Title: "nope"})
		assert.True(t, IsUnauthorized(err), "caller %s", caller)
	}
}

func TestCreateSession_SequentialIDsDistinctAddresses(t *testing.T) {
	env := newBootstrappedEnv(t)

	var ids []uint64
	for i := 0; i < 3; i++ {
		sess, err := env.reg.CreateSession(env.ctx, trainer, SessionFields{Title: "s"})
		require.NoError(t, err)
		ids = append(ids, sess.ID)
	}
	assert.Equal(t, []uint64{0, 1, 2}, ids)

	// Each id resolves to its own record.
	for _, id := range ids {
		got, err := env.reg.GetSession(env.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	}
}

func TestCreateSession_FieldCaps(t *testing.T) {
	env := newBootstrappedEnv(t)
	p := env.reg.Policy()

	_, err := env.reg.CreateSession(env.ctx, trainer, SessionFields{
		Title:    "s",
		Location: strings.Repeat("l", p.MaxLocationLength+1),
	})
	require.Error(t, err)
	assert.True(t, IsFieldTooLong(err))
	assert.Equal(t, uint64(0), env.counterCount(t, familySession))
}

func TestGetSession_NotFound(t *testing.T) {
	env := newBootstrappedEnv(t)

	_, err := env.reg.GetSession(env.ctx, 42)
	assert.True(t, IsNotFound(err))
}
