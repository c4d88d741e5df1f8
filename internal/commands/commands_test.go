package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/categorize"
	"github.com/tally-dev/tally/internal/commands"
	"github.com/tally-dev/tally/internal/config"
)

func runTally(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// workspace initializes a fresh workspace and returns the flags that
// point commands at it.
func workspace(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	_, err := runTally(t, "init", dir)
	require.NoError(t, err)
	return dir, []string{
		"--config", filepath.Join(dir, config.FileName),
		"--user", "u1",
		"--token", "tok",
		"--today", "2025-03-15",
	}
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runTally(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized Tally workspace")

	for _, d := range []string{"data", "rules", "logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	rules, err := categorize.LoadRules(filepath.Join(dir, "rules", "categories.yaml"))
	require.NoError(t, err)
	assert.Len(t, rules, len(categorize.DefaultRules()))
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir, "--currency", "$", "--backend", "sqlite")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "$", cfg.Currency.Symbol)
	assert.Equal(t, config.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "rules/categories.yaml", cfg.Categorizer.RulesFile)
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{"data/", "logs/", ".env"} {
		assert.Contains(t, string(data), pattern)
	}
}

func TestInit_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := runTally(t, "init", dir)
	require.NoError(t, err)

	_, err = runTally(t, "init", dir)
	assert.Error(t, err, "init twice should fail")

	_, err = runTally(t, "init", t.TempDir(), "--backend", "postgres")
	assert.Error(t, err)
}

func TestEndToEnd(t *testing.T) {
	_, flags := workspace(t)
	run := func(args ...string) (string, error) {
		return runTally(t, append(args, flags...)...)
	}

	out, err := run("add", "received salary 50000")
	require.NoError(t, err)
	assert.Equal(t, "✅ Income added successfully.\n", out)

	out, err = run("add", "Spent 500 on food yesterday")
	require.NoError(t, err)
	assert.Equal(t, "✅ Expenses added successfully.\n", out)

	out, err = run("insight", "march", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "Financial Insight for 2025-03")
	assert.Contains(t, out, "₹50,000.00")
	assert.Contains(t, out, "₹500.00")

	out, err = run("budget")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")

	out, err = run("goal", "I want to save ₹60,000 in 6 months")
	require.NoError(t, err)
	assert.Contains(t, out, "₹10,000.00")

	out, err = run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "add_transaction")
	assert.Contains(t, out, "track_goal")
}

func TestAdd_Failure(t *testing.T) {
	_, flags := workspace(t)
	out, err := runTally(t, append([]string{"add", "spent a lot"}, flags...)...)
	require.ErrorIs(t, err, commands.ErrFailed)
	assert.Contains(t, out, "Could not detect amount")
}

func TestBudgetHelp(t *testing.T) {
	out, err := runTally(t, "budget", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Break down spending by category and suggest savings")
	assert.NotContains(t, out, "share of income")
}

func TestInvalidToday(t *testing.T) {
	_, flags := workspace(t)
	flags[len(flags)-1] = "15/03/2025"
	_, err := runTally(t, append([]string{"budget"}, flags...)...)
	require.Error(t, err)
	assert.NotErrorIs(t, err, commands.ErrFailed)
}

func TestClassify(t *testing.T) {
	_, flags := workspace(t)

	out, err := runTally(t, append([]string{"classify", "uber", "ride"}, flags...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Transportation\t"), out)

	out, err = runTally(t, append([]string{"classify", "--income", "monthly", "salary"}, flags...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Salary\t"), out)
}

func TestImport_ScanMovesProcessed(t *testing.T) {
	dir, flags := workspace(t)
	data, err := os.ReadFile(filepath.Join("..", "importer", "testdata", "chase_checking.csv"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "chase_checking.csv"), data, 0o644))

	out, err := runTally(t, append([]string{"import"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "chase_checking.csv: ")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "chase_checking.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "import", "chase_checking.csv"))
	assert.True(t, os.IsNotExist(err))

	out, err = runTally(t, append([]string{"import"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "No CSV files")
}

func TestImport_File(t *testing.T) {
	_, flags := workspace(t)
	path := filepath.Join("..", "importer", "testdata", "generic.csv")

	out, err := runTally(t, append([]string{"import", "--format", "generic", path}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 transactions")

	_, err = runTally(t, append([]string{"import", "--format", "ofx", path}, flags...)...)
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	_, flags := workspace(t)

	_, err := runTally(t, append([]string{"token"}, flags...)...)
	require.Error(t, err, "token without a secret should fail")

	t.Setenv("TALLY_JWT_SECRET", "s3cret")
	out, err := runTally(t, append([]string{"token"}, flags...)...)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "."), 3)
}
