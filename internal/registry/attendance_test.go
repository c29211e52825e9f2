package registry

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInCheckOut(t *testing.T) {
	env := newBootstrappedEnv(t)

	att, err := env.reg.CheckIn(env.ctx, student, 5, true, "")
	require.NoError(t, err)

	assert.Equal(t, uint64(5), att.SessionID)
	assert.Equal(t, student, att.Student)
	assert.True(t, att.Present)
	assert.Nil(t, att.CheckOutTime, "check-out time is unset until check-out")

	env.clock.Advance(2 * time.Hour)

	out, err := env.reg.CheckOut(env.ctx, student, 5, true, "ok")
	require.NoError(t, err)

	require.NotNil(t, out.CheckOutTime)
	assert.GreaterOrEqual(t, *out.CheckOutTime, out.CheckInTime)
	assert.Equal(t, att.CheckInTime, out.CheckInTime, "check-in time is immutable")
	assert.Equal(t, "ok", out.Note)
	assert.Equal(t, *out.CheckOutTime, out.UpdatedAt)
}

func TestCheckIn_StudentCredentialRequired(t *testing.T) {
	env := newBootstrappedEnv(t)

	for _, caller := range []string{stranger, trainer} {
		_, err := env.reg.CheckIn(env.ctx, caller, 1, true, "")
		assert.True(t, IsUnauthorized(err), "caller %s", caller)
	}

	_, err := env.reg.GetAttendance(env.ctx, stranger, 1)
	assert.True(t, IsNotFound(err), "failed check-in must leave no record")
}

func TestCheckIn_OncePerSession(t *testing.T) {
	env := newBootstrappedEnv(t)

	_, err := env.reg.CheckIn(env.ctx, student, 1, true, "")
	require.NoError(t, err)

	_, err = env.reg.CheckIn(env.ctx, student, 1, true, "again")
	require.Error(t, err)
	assert.True(t, IsAlreadyExists(err))

	// Same student, different session: a fresh address, so it works.
	_, err = env.reg.CheckIn(env.ctx, student, 2, true, "")
	assert.NoError(t, err)
}

func TestCheckOut_RepeatRejected(t *testing.T) {
	env := newBootstrappedEnv(t)

	_, err := env.reg.CheckIn(env.ctx, student, 1, true, "")
	require.NoError(t, err)

	first, err := env.reg.CheckOut(env.ctx, student, 1, true, "done")
	require.NoError(t, err)

	env.clock.Advance(time.Minute)

	_, err = env.reg.CheckOut(env.ctx, student, 1, false, "oops")
	require.Error(t, err)
	assert.True(t, IsInvalidState(err), "second check-out must be rejected, got %v", err)

	// The first check-out stands untouched.
	got, err := env.reg.GetAttendance(env.ctx, student, 1)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestCheckOut_EmptyNoteKeepsCheckInNote(t *testing.T) {
	env := newBootstrappedEnv(t)

	_, err := env.reg.CheckIn(env.ctx, student, 1, true, "front row")
	require.NoError(t, err)

	out, err := env.reg.CheckOut(env.ctx, student, 1, true, "")
	require.NoError(t, err)
	assert.Equal(t, "front row", out.Note)
}

func TestCheckOut_BeforeCheckIn(t *testing.T) {
	env := newBootstrappedEnv(t)

	_, err := env.reg.CheckOut(env.ctx, student, 9, true, "")
	assert.True(t, IsNotFound(err))
}

func TestCheckOut_OtherStudentCannotReachRecord(t *testing.T) {
	env := newBootstrappedEnv(t)

	_, err := env.reg.CheckIn(env.ctx, student, 1, true, "")
	require.NoError(t, err)

	// Another identity derives a different address entirely; the record
	// is unreachable to them.
	_, err = env.reg.MintCredential(env.ctx, adminBoot, "peer", "student", 1)
	require.NoError(t, err)
	_, err = env.reg.CheckOut(env.ctx, "peer", 1, true, "")
	assert.True(t, IsNotFound(err))
}

func TestCheckIn_NoteCap(t *testing.T) {
	env := newBootstrappedEnv(t)
	p := env.reg.Policy()

	_, err := env.reg.CheckIn(env.ctx, student, 1, true, strings.Repeat("n", p.MaxNoteLength))
	require.NoError(t, err)

	_, err = env.reg.CheckIn(env.ctx, student, 2, true, strings.Repeat("n", p.MaxNoteLength+1))
	require.Error(t, err)
	assert.True(t, IsFieldTooLong(err))
}
