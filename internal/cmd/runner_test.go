package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clexer/internal/context"
	"clexer/internal/diagnostics"
	"clexer/internal/frontend/lexer"
	"clexer/internal/source"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestScanBoundedWorkers(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.c": "int a;\n",
		"b.c": "int b;\n",
		"c.c": "int c;\n",
	})

	for _, workers := range []int{0, 1, 2} {
		ctx := context.New(nil)
		err := Scan([]string{
			filepath.Join(dir, "a.c"),
			filepath.Join(dir, "b.c"),
			filepath.Join(dir, "c.c"),
		}, ctx, workers, false)
		require.NoError(t, err)

		files := ctx.GetAllFiles()
		require.Len(t, files, 3)
		for _, f := range files {
			require.NotEmpty(t, f.Tokens, "workers=%d", workers)
			assert.Equal(t, lexer.EOF_TOKEN, f.Tokens[len(f.Tokens)-1].Kind)
		}
	}
}

func TestScanReportsErrorsAndWarnings(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.c": "#inclde <stdio.h>\nint `x;\n",
	})

	ctx := context.New(nil)
	err := Scan([]string{filepath.Join(dir, "main.c")}, ctx, 0, false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan failed with 1 error(s)")
	assert.Equal(t, 1, ctx.Diagnostics.WarningCount())
}

func TestScanMissingEntry(t *testing.T) {
	ctx := context.New(nil)
	err := Scan([]string{filepath.Join(t.TempDir(), "gone.c")}, ctx, 0, false)

	require.Error(t, err)
	diags := ctx.Diagnostics.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.ErrUnreadableSource, diags[0].Code)
}

func TestRunCrossCheckPhase(t *testing.T) {
	ctx := context.New(nil)
	file := ctx.AddFile("n.c", source.FromString("int x;\nlong n = 10L;\n"))
	ctx.ScanFile(file)

	RunCrossCheckPhase(ctx)

	diags := ctx.Diagnostics.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostics.InfoCrossCheck, diags[0].Code)
	assert.Equal(t, diagnostics.Info, diags[0].Severity)

	pos := diags[0].Position()
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 9, pos.Column)
	assert.Equal(t, 16, pos.Offset)
	assert.False(t, ctx.HasErrors())
}
