package scriptemitter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEmitterAccumulatesFragmentsAndReturnsString(t *testing.T) {
	e := NewMemory("log in and check the dashboard")

	e.AppendCode("await page.goto('https://example.com/login');", "navigate to the login page")
	e.AppendCode("await page.getByTestId('submit').click();", "")
	require.NoError(t, e.Finish())

	out := e.GetOutput()
	assert.Contains(t, out, "test('log in and check the dashboard'")
	assert.Contains(t, out, "// navigate to the login page")
	assert.Contains(t, out, "await page.goto('https://example.com/login');")
	assert.Contains(t, out, "await page.getByTestId('submit').click();")
	assert.Contains(t, out, "});\n")
}

func TestMemoryEmitterEscapesSingleQuotesInGoalTitle(t *testing.T) {
	e := NewMemory("click the 'submit' button")
	out := e.GetOutput()
	assert.Contains(t, out, "click the \\'submit\\' button")
}

func TestFileEmitterWritesTimestampedScaffoldAndReturnsPath(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 8, 6, 12, 30, 45, 0, time.UTC)

	e, err := NewFile(dir, "reset the password", now)
	require.NoError(t, err)

	e.AppendCode("await page.getByTestId('reset').click();", "click reset")
	require.NoError(t, e.Finish())

	path := e.GetOutput()
	assert.True(t, filepath.IsAbs(path) || filepath.Dir(path) == dir)
	assert.Contains(t, path, "reset-the-password-20260806T123045.spec.ts")

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "test('reset the password'")
	assert.Contains(t, string(contents), "await page.getByTestId('reset').click();")
	assert.Contains(t, string(contents), "});\n")
}

func TestFileEmitterCreatesOutputDirectoryIfMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "scripts")
	e, err := NewFile(dir, "goal", time.Now())
	require.NoError(t, err)
	require.NoError(t, e.Finish())

	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestSlugNormalizesGoalIntoFilenameSafeString(t *testing.T) {
	assert.Equal(t, "log-in-and-click-submit", slug("Log In & Click \"Submit\"!!"))
	assert.Equal(t, "already-slug", slug("already-slug"))
	assert.Equal(t, "", slug("!!!"))
}

func TestIndentedStatementPrefixesThoughtAsComment(t *testing.T) {
	s := indentedStatement("await page.click();", "clicking the button")
	assert.Equal(t, "  // clicking the button\n  await page.click();\n", s)
}

func TestIndentedStatementOmitsCommentWhenThoughtEmpty(t *testing.T) {
	s := indentedStatement("await page.click();", "")
	assert.Equal(t, "  await page.click();\n", s)
}
