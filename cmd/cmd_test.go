package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexa/internal/backup"
	"github.com/abhisek/lexa/internal/tracker"
)

// cli runs lexa commands against one temporary database.
type cli struct {
	t      *testing.T
	dir    string
	db     string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o644))
	return &cli{t: t, dir: dir, db: filepath.Join(dir, "lexa.db"), config: cfg}
}

func (c *cli) runWithInput(stdin string, args ...string) (string, error) {
	c.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", c.db, "--config", c.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runWithInput("", args...)
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "lexa %s", strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	out := newCLI(t).mustRun("version")
	assert.Equal(t, "lexa (devel)\n", out)
}

func TestTermNewUseAndList(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, "Active term: 2030-1\n", c.mustRun("term", "new", "2030-1"))
	assert.Equal(t, "Active term: 2030-2\n", c.mustRun("term", "use", "2030-2"))

	out := c.mustRun("term", "list")
	assert.Contains(t, out, "* 2030-2")
	assert.Contains(t, out, "  2030-1")
	assert.Less(t, strings.Index(out, "2030-2"), strings.Index(out, "2030-1"), "newest first")

	_, err := c.run("term", "new", "2030-3")
	var verr *tracker.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCourseAndGradeFlow(t *testing.T) {
	c := newCLI(t)
	c.mustRun("term", "new", "2030-1")

	assert.Equal(t, "Added Algebra to 2030-1\n", c.mustRun("course", "add", "Algebra"))

	c.mustRun("grade", "add", "Algebra", "5.5", "30")
	out := c.mustRun("grade", "add", "Algebra", "6", "20")
	assert.Contains(t, out, "You need 2.30 on the remaining 50%")

	out = c.mustRun("course", "list")
	assert.Contains(t, out, "Algebra")
	assert.Contains(t, out, "Outcome")

	out = c.mustRun("grade", "rm", "Algebra")
	assert.Equal(t, "Removed grade 2 of Algebra\n", out)

	_, err := c.run("grade", "add", "Algebra", "5", "80")
	assert.ErrorIs(t, err, tracker.ErrWeightExceeded)

	_, err = c.run("grade", "add", "Algebra", "high", "10")
	assert.ErrorContains(t, err, "score must be a number")

	_, err = c.run("grade", "rm", "Algebra", "5")
	assert.ErrorIs(t, err, tracker.ErrGradeNotFound)

	_, err = c.run("grade", "rm", "Physics")
	assert.ErrorIs(t, err, tracker.ErrCourseNotFound)

	assert.Equal(t, "Deleted Algebra\n", c.mustRun("course", "rm", "Algebra"))
	assert.Equal(t, "No courses in 2030-1\n", c.mustRun("course", "list"))
}

func TestDuplicateCourse(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Algebra")
	_, err := c.run("course", "add", "Algebra")
	assert.ErrorIs(t, err, tracker.ErrCourseExists)
}

var scheduledID = regexp.MustCompile(`\(([^)]+)\)\n$`)

func TestEvalAddListRemove(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Biology")

	out := c.mustRun("eval", "add", "Biology", "2099-01-10", "--kind", "final")
	assert.True(t, strings.HasPrefix(out, "Scheduled Biology final on 2099-01-10"), out)
	m := scheduledID.FindStringSubmatch(out)
	require.Len(t, m, 2)
	id := m[1]

	out = c.mustRun("eval", "list")
	assert.Contains(t, out, "2099-01-10")
	assert.Contains(t, out, "later")
	assert.Contains(t, out, id)

	_, err := c.run("eval", "add", "Biology", "2099-02-30")
	var verr *tracker.ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Equal(t, "Deleted evaluation "+id+"\n", c.mustRun("eval", "rm", id))
	assert.Equal(t, "Nothing scheduled\n", c.mustRun("eval", "list"))

	_, err = c.run("eval", "rm", id)
	assert.ErrorIs(t, err, tracker.ErrEvaluationNotFound)
}

func TestTargetSet(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Algebra")

	assert.Equal(t, "Algebra: 6.5 h per week\n", c.mustRun("target", "set", "Algebra", "6.5"))
	assert.Equal(t, "Algebra: 0.0 h per week\n", c.mustRun("target", "set", "Algebra", "--", "-2"))

	help := c.mustRun("target", "set", "--help")
	assert.Contains(t, help, "lexa target set Algebra -- -2")

	_, err := c.run("target", "set", "Physics", "3")
	assert.ErrorIs(t, err, tracker.ErrCourseNotFound)
}

func TestStats(t *testing.T) {
	c := newCLI(t)
	c.mustRun("term", "new", "2030-1")
	c.mustRun("course", "add", "Algebra")
	c.mustRun("course", "add", "Biology")
	c.mustRun("grade", "add", "Algebra", "1", "90")
	c.mustRun("eval", "add", "Biology", "2099-01-10")

	out := c.mustRun("stats")
	assert.Contains(t, out, "Term 2030-1")
	assert.Contains(t, out, "Graded:  1 of 2 courses")
	assert.Contains(t, out, "At risk: Algebra")
	assert.Contains(t, out, "Upcoming")
	assert.Contains(t, out, "Biology")
}

func TestExportImportRoundTrip(t *testing.T) {
	c := newCLI(t)
	c.mustRun("term", "new", "2030-1")
	c.mustRun("course", "add", "Algebra")
	c.mustRun("grade", "add", "Algebra", "6", "40")

	path := filepath.Join(c.dir, "backup.json")
	assert.Equal(t, "Exported to "+path+"\n", c.mustRun("export", "--out", path))

	out := c.mustRun("reset", "--yes")
	assert.Contains(t, out, "All data removed")
	assert.Equal(t, "Nothing scheduled\n", c.mustRun("eval", "list"))
	assert.NotContains(t, c.mustRun("course", "list"), "Algebra")

	out = c.mustRun("import", path)
	assert.True(t, strings.HasSuffix(out, "active term 2030-1\n"), out)
	assert.Contains(t, c.mustRun("course", "list"), "Algebra")
}

func TestExportToStdout(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Algebra")

	out := c.mustRun("export", "--out", "-")
	assert.Contains(t, out, `"ramos"`)
	assert.Contains(t, out, `"Algebra"`)

	out = c.mustRun("export", "--format", "ics", "--out", "-")
	assert.Contains(t, out, "BEGIN:VCALENDAR")

	_, err := c.run("export", "--format", "pdf")
	assert.ErrorIs(t, err, backup.ErrUnknownFormat)
}

func TestExportXLSXFile(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Algebra")

	path := filepath.Join(c.dir, "grades.xlsx")
	c.mustRun("export", "-f", "xlsx", "-o", path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Algebra")

	path := filepath.Join(c.dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"activeSemester":"2030-1"}`), 0o644))

	_, err := c.run("import", path)
	assert.ErrorIs(t, err, backup.ErrInvalidDocument)
	assert.Contains(t, c.mustRun("course", "list"), "Algebra")

	_, err = c.run("import", filepath.Join(c.dir, "missing.json"))
	assert.ErrorContains(t, err, "open backup")
}

func TestResetPromptAborts(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Algebra")

	out, err := c.runWithInput("no\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")
	assert.Contains(t, c.mustRun("course", "list"), "Algebra")

	out, err = c.runWithInput("yes\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "All data removed")
}

func TestHistoryListAndRestore(t *testing.T) {
	c := newCLI(t)
	c.mustRun("course", "add", "Algebra") // revisions 1 (initial) and 2

	out := c.mustRun("history")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3) // this run's open saved revision 3
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[0]), "3 "), lines[0])
	assert.Contains(t, lines[0], tracker.FormatVersion)

	out = c.mustRun("history", "-n", "1")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)

	out = c.mustRun("history", "restore", "1")
	assert.Contains(t, out, "Restored revision 1")
	assert.NotContains(t, c.mustRun("course", "list"), "Algebra")

	_, err := c.run("history", "restore", "999")
	assert.ErrorContains(t, err, "revision not found")
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()
	flag := filepath.Join(dir, "flag", "a.db")
	conf := filepath.Join(dir, "conf", "b.db")

	got, err := resolveDBPath(flag, conf)
	require.NoError(t, err)
	assert.Equal(t, flag, got)
	assert.DirExists(t, filepath.Dir(flag))

	got, err = resolveDBPath("", conf)
	require.NoError(t, err)
	assert.Equal(t, conf, got)
	assert.DirExists(t, filepath.Dir(conf))
}
