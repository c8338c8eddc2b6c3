package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/istighfar/internal/ledger"
	"github.com/sadopc/istighfar/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
}

type testEnv struct {
	dir        string
	configPath string
	dbPath     string
	tuiRuns    int
}

func setupCLITest(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{"ISTIGHFAR_DB", "ISTIGHFAR_NAMESPACE", "ISTIGHFAR_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "config.yaml"),
		dbPath:     filepath.Join(dir, "test.db"),
	}
	cfg := "database_path: " + env.dbPath + "\n" +
		"namespace: test\n" +
		"logging:\n" +
		"  path: " + filepath.Join(dir, "test.log") + "\n" +
		"  level: info\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o644))
	return env
}

func (e *testEnv) run(args ...string) (string, error) {
	r := &runner{
		now: fixedNow,
		runTUI: func(*tracker.Tracker, *zap.Logger) error {
			e.tuiRuns++
			return nil
		},
	}
	cmd := newRootCmd(r)
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(args...)
	require.NoError(t, err, out)
	return out
}

func TestRootStartsTUI(t *testing.T) {
	env := setupCLITest(t)
	env.mustRun(t)
	assert.Equal(t, 1, env.tuiRuns)
	assert.FileExists(t, env.dbPath)
}

func TestAddDefaultsToOne(t *testing.T) {
	env := setupCLITest(t)

	out := env.mustRun(t, "add")
	assert.Contains(t, out, "2024-03-10: 1 / 100 (1%)")

	out = env.mustRun(t, "add", "33")
	assert.Contains(t, out, "2024-03-10: 34 / 100")
	assert.Equal(t, 0, env.tuiRuns)
}

func TestAddReportsTargetReached(t *testing.T) {
	env := setupCLITest(t)
	env.mustRun(t, "count", "99")

	out := env.mustRun(t, "add")
	assert.Contains(t, out, "Target reached")

	out = env.mustRun(t, "add")
	assert.NotContains(t, out, "Target reached")
}

func TestAddRejectsNonNumber(t *testing.T) {
	env := setupCLITest(t)
	_, err := env.run("add", "lots")
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
}

func TestCountWithDate(t *testing.T) {
	env := setupCLITest(t)

	out := env.mustRun(t, "count", "250", "--date", "2024-03-01")
	assert.Contains(t, out, "2024-03-01: 250 / 100 (100%)")

	_, err := env.run("count", "5", "--date", "2024-02-30")
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
}

func TestTargetToday(t *testing.T) {
	env := setupCLITest(t)

	out := env.mustRun(t, "target", "33")
	assert.Contains(t, out, "Today's target set to 33")

	out = env.mustRun(t, "add")
	assert.Contains(t, out, "1 / 33")
}

func TestTargetFutureIsPlanned(t *testing.T) {
	env := setupCLITest(t)

	out := env.mustRun(t, "target", "500", "--date", "2024-03-12")
	assert.Contains(t, out, "Planned target 500 for 2024-03-12")

	out = env.mustRun(t, "plan", "--days", "3")
	assert.Regexp(t, `2024-03-12\s+500\s+planned`, out)
	assert.Regexp(t, `2024-03-11\s+100\s+default`, out)
}

func TestTargetPastNeedsCorrect(t *testing.T) {
	env := setupCLITest(t)
	env.mustRun(t, "count", "40", "--date", "2024-03-09")

	_, err := env.run("target", "10", "--date", "2024-03-09")
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "--correct")

	out := env.mustRun(t, "target", "10", "--date", "2024-03-09", "--correct")
	assert.Contains(t, out, "corrected to 10")
}

func TestPlanSetAndClear(t *testing.T) {
	env := setupCLITest(t)

	out := env.mustRun(t, "plan", "set", "2024-03-15", "700")
	assert.Contains(t, out, "Planned target 700")

	out = env.mustRun(t, "plan")
	assert.Contains(t, out, "2024-03-15")
	assert.Contains(t, out, "700")

	out = env.mustRun(t, "plan", "clear", "2024-03-15")
	assert.Contains(t, out, "Cleared plan")

	out = env.mustRun(t, "plan", "clear", "2024-03-15")
	assert.Contains(t, out, "No plan")
}

func TestPlanSetOnRecordedDay(t *testing.T) {
	env := setupCLITest(t)
	env.mustRun(t, "count", "5", "--date", "2024-03-11")

	out := env.mustRun(t, "plan", "set", "2024-03-11", "800")
	assert.Contains(t, out, "already has a count; its target stays 100")

	out = env.mustRun(t, "plan", "--days", "1")
	assert.Regexp(t, `2024-03-11\s+100\s+recorded`, out)
}

func TestPlanSetRejectsToday(t *testing.T) {
	env := setupCLITest(t)
	_, err := env.run("plan", "set", "2024-03-10", "50")
	assert.Error(t, err)
}

func TestStreak(t *testing.T) {
	env := setupCLITest(t)
	for _, d := range []string{"2024-03-07", "2024-03-08", "2024-03-09"} {
		env.mustRun(t, "count", "10", "--date", d)
	}

	out := env.mustRun(t, "streak")
	assert.Equal(t, "3\n", out)

	env.mustRun(t, "add")
	out = env.mustRun(t, "streak")
	assert.Equal(t, "4\n", out)
}

func TestStats(t *testing.T) {
	env := setupCLITest(t)
	env.mustRun(t, "count", "1500", "--date", "2024-03-09")
	env.mustRun(t, "add", "20")
	env.mustRun(t, "plan", "set", "2024-03-11", "200")

	out := env.mustRun(t, "stats", "--days", "3")
	assert.Contains(t, out, "20 / 100 (20%)")
	assert.Contains(t, out, "2 days")
	assert.Contains(t, out, "1,520")
	assert.Contains(t, out, "1 of 2 days")
	assert.Contains(t, out, "1,500 on 2024-03-09")
	assert.Contains(t, out, "1 upcoming")
	assert.Regexp(t, `2024-03-08\s+0 / -`, out)
	assert.NotContains(t, out, "2024-03-07")
}

func TestExportImportRoundTrip(t *testing.T) {
	env := setupCLITest(t)
	env.mustRun(t, "count", "7", "--date", "2024-03-01")
	env.mustRun(t, "plan", "set", "2024-03-20", "300")

	backup := filepath.Join(env.dir, "backup.json")
	out := env.mustRun(t, "export", "--format", "json", "--out", backup)
	assert.Contains(t, out, "Exported 1 days")

	csvPath := filepath.Join(env.dir, "days.csv")
	env.mustRun(t, "export", "--out", csvPath)
	assert.FileExists(t, csvPath)

	out = env.mustRun(t, "--namespace", "restored", "import", backup)
	assert.Contains(t, out, "Imported 1 days and 1 plans")

	out = env.mustRun(t, "--namespace", "restored", "stats")
	assert.Contains(t, out, "Lifetime  7")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	env := setupCLITest(t)
	_, err := env.run("export", "--format", "xml")
	assert.Error(t, err)
}

func TestImportRejectsGarbage(t *testing.T) {
	env := setupCLITest(t)
	path := filepath.Join(env.dir, "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))

	_, err := env.run("import", path)
	assert.Error(t, err)
}

func TestNamespacesAreIsolated(t *testing.T) {
	env := setupCLITest(t)
	env.mustRun(t, "add", "5")

	out := env.mustRun(t, "-n", "other", "add")
	assert.Contains(t, out, ": 1 / 100")

	out = env.mustRun(t, "ledgers")
	assert.Contains(t, out, "other")
	assert.Contains(t, out, "test *")

	out = env.mustRun(t, "ledgers", "rm", "other")
	assert.Contains(t, out, "Deleted ledger other")

	_, err := env.run("ledgers", "rm", "test")
	assert.Error(t, err)
}

func TestDBFlagOverridesConfig(t *testing.T) {
	env := setupCLITest(t)
	other := filepath.Join(env.dir, "other.db")

	env.mustRun(t, "--db", other, "add")
	assert.FileExists(t, other)
	assert.NoFileExists(t, env.dbPath)
}

func TestConfigPrintAndInit(t *testing.T) {
	env := setupCLITest(t)

	out := env.mustRun(t, "config", "--verbose")
	assert.Contains(t, out, "namespace: test")
	assert.Contains(t, out, "level: debug")

	target := filepath.Join(env.dir, "nested", "config.yaml")
	out = env.mustRun(t, "--config", target, "--db", env.dbPath, "config", "init")
	assert.Contains(t, out, target)
	assert.FileExists(t, target)
}

func TestBadConfigFails(t *testing.T) {
	env := setupCLITest(t)
	require.NoError(t, os.WriteFile(env.configPath, []byte("logging:\n  level: loud\n"), 0o644))

	_, err := env.run("add")
	assert.Error(t, err)
}
