package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execCLI runs the CLI with the given args against a fresh command tree
// and returns combined output.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// lastResponse decodes the last JSON envelope from multi-line output.
func lastResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &resp))
	return resp
}

func TestCLI_EndToEnd(t *testing.T) {
	db := filepath.Join(t.TempDir(), "rollcall.db")
	run := func(args ...string) (string, error) {
		return execCLI(t, append([]string{"--db", db, "--format", "json"}, args...)...)
	}

	// Bootstrap every family as root.
	out, err := run("init", "all", "--as", "root")
	require.NoError(t, err, out)

	// Re-initialization is rejected.
	out, err = run("init", "credential", "--as", "root")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "ALREADY_INITIALIZED", lastResponse(t, out).Error.Code)

	// Mint the working set of credentials.
	for _, pair := range [][2]string{{"alice", "admin"}, {"tom", "trainer"}, {"sam", "student"}} {
		out, err = run("credential", "mint", pair[0], pair[1], "--as", "root")
		require.NoError(t, err, out)
		assert.Equal(t, "ok", lastResponse(t, out).Status)
	}

	// Only the bootstrap admin may mint.
	out, err = run("credential", "mint", "eve", "admin", "--as", "alice")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", lastResponse(t, out).Error.Code)

	// Roles outside the policy vocabulary are caught before the registry.
	_, err = run("credential", "mint", "bob", "wizard", "--as", "root")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown role")

	// Access request round trip.
	out, err = run("request", "submit", "student", "--message", "new hire", "--as", "pat")
	require.NoError(t, err, out)
	out, err = run("request", "approve", "pat", "--as", "alice")
	require.NoError(t, err, out)
	out, err = run("request", "show", "pat")
	require.NoError(t, err, out)
	data, err := json.Marshal(lastResponse(t, out).Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"approved"`)

	// Formation, session, attendance.
	out, err = run("formation", "upsert", "--title", "Go 101", "--active", "--as", "alice")
	require.NoError(t, err, out)
	out, err = run("session", "create", "--formation", "0", "--title", "Day 1", "--duration", "90", "--as", "tom")
	require.NoError(t, err, out)
	out, err = run("attendance", "checkin", "0", "--as", "sam")
	require.NoError(t, err, out)
	out, err = run("attendance", "checkout", "0", "--note", "done", "--as", "sam")
	require.NoError(t, err, out)

	out, err = run("attendance", "show", "sam", "0")
	require.NoError(t, err, out)
	data, err = json.Marshal(lastResponse(t, out).Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"note":"done"`)

	// Students cannot schedule sessions.
	out, err = run("session", "create", "--title", "rogue", "--as", "sam")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "UNAUTHORIZED", lastResponse(t, out).Error.Code)

	// The dump covers every record written above.
	out, err = run("dump")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "credential"`)
	assert.Contains(t, out, `"kind": "request"`)
	assert.Contains(t, out, `"kind": "formation"`)
	assert.Contains(t, out, `"kind": "session"`)
	assert.Contains(t, out, `"kind": "attendance"`)
}

func TestCLI_CheckCredential(t *testing.T) {
	db := filepath.Join(t.TempDir(), "rollcall.db")

	out, err := execCLI(t, "--db", db, "init", "credential", "--as", "root")
	require.NoError(t, err, out)
	out, err = execCLI(t, "--db", db, "credential", "mint", "sam", "student", "--as", "root")
	require.NoError(t, err, out)

	out, err = execCLI(t, "--db", db, "credential", "check", "sam", "student")
	require.NoError(t, err)
	assert.Contains(t, out, "sam holds student: true")

	out, err = execCLI(t, "--db", db, "credential", "check", "sam", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "sam holds admin: false")
}

func TestCLI_NoIdentity(t *testing.T) {
	db := filepath.Join(t.TempDir(), "rollcall.db")
	chdir(t, t.TempDir()) // no rollcall.yaml fallback

	_, err := execCLI(t, "--db", db, "init", "access")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no identity")
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "rollcall.db")
	cfgPath := filepath.Join(dir, "rollcall.yaml")
	cfg := "database: " + db + "\nidentity: root\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	// Both database and identity come from the config file.
	out, err := execCLI(t, "--config", cfgPath, "init", "access")
	require.NoError(t, err, out)
	assert.Contains(t, out, "initialized access storage (admin root)")

	// --as overrides the config identity.
	out, err = execCLI(t, "--config", cfgPath, "init", "formation", "--as", "boss")
	require.NoError(t, err, out)
	assert.Contains(t, out, "admin boss")
}

func TestCLI_UnknownFamily(t *testing.T) {
	db := filepath.Join(t.TempDir(), "rollcall.db")

	_, err := execCLI(t, "--db", db, "init", "cohort", "--as", "root")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown family")
}

func TestCLI_IdentityNew(t *testing.T) {
	out, err := execCLI(t, "identity", "new")
	require.NoError(t, err)
	assert.Len(t, bytes.TrimSpace([]byte(out)), 36, "identities are UUID strings")
}
