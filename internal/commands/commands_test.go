package commands_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cleared-dev/ledgerlab/internal/commands"
)

type result struct {
	out    string
	stderr string
}

// runLedgerlab executes the root command in-process with stdin as input.
// Every run gets a missing dotenv file so the caller's .env never leaks in.
func runLedgerlab(t *testing.T, stdin string, args ...string) (result, error) {
	t.Helper()
	var out, stderr bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), ".env")}, args...))

	err := cmd.Execute()
	return result{out: out.String(), stderr: stderr.String()}, err
}
