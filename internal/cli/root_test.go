package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes one invocation against the given database file and
// returns combined output.
func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := runCLI(t, testDB(t), "--format", "xml", "alarm", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_UnopenableDatabaseIsCommandError(t *testing.T) {
	_, err := runCLI(t, "/nonexistent/dir/test.db", "alarm", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRoot_ValidFormats(t *testing.T) {
	db := testDB(t)
	for _, format := range ValidFormats {
		_, err := runCLI(t, db, "--format", format, "alarm", "list")
		assert.NoError(t, err, "format %s", format)
	}
}
