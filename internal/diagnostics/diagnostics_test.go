package diagnostics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clexer/colors"
	"clexer/internal/source"
)

const testFile = "main.c"

func at(line, col, offset int) source.Position {
	return source.Position{Line: line, Column: col, Offset: offset}
}

func lineSpan(line, start, end, offset int) *source.Location {
	return source.NewLocation(at(line, start, offset), at(line, end, offset+end-start))
}

func TestBagCountsAndSummary(t *testing.T) {
	colors.SetEnabled(false)

	bag := NewDiagnosticBag(testFile)
	bag.RegisterSource(testFile, []string{"int x = 1;", "int @y;"})
	bag.Add(IllegalCharacter(testFile, lineSpan(2, 4, 5, 15), "@"))
	bag.Add(UnknownDirective(testFile, lineSpan(1, 0, 4, 0), "#inclde", "include"))

	assert.True(t, bag.HasErrors())
	assert.Equal(t, 1, bag.ErrorCount())
	assert.Equal(t, 1, bag.WarningCount())

	out := bag.EmitAllToString()
	assert.Contains(t, out, "error[L0001]: illegal character: @")
	assert.Contains(t, out, "warning[W0001]")
	assert.Contains(t, out, "did you mean #include?")
	assert.Contains(t, out, "Scan failed with 1 error(s) and 1 warning(s)")

	bag.Clear()
	assert.False(t, bag.HasErrors())
	assert.Empty(t, bag.Diagnostics())
}

func TestBagOrdersByFileThenOffset(t *testing.T) {
	bag := NewDiagnosticBag("")
	bag.Add(IllegalCharacter("b.c", lineSpan(1, 0, 1, 0), "$"))
	bag.Add(IllegalCharacter("a.c", lineSpan(3, 2, 3, 20), "@"))
	bag.Add(IllegalCharacter("a.c", lineSpan(1, 1, 2, 1), "`"))

	got := bag.Diagnostics()
	require.Len(t, got, 3)
	assert.Equal(t, "a.c", got[0].FilePath)
	assert.Equal(t, 1, got[0].Position().Offset)
	assert.Equal(t, "a.c", got[1].FilePath)
	assert.Equal(t, 20, got[1].Position().Offset)
	assert.Equal(t, "b.c", got[2].FilePath)
}

func TestEmitAllPlain(t *testing.T) {
	bag := NewDiagnosticBag(testFile)
	bag.Add(IllegalCharacter(testFile, lineSpan(2, 4, 5, 15), "@"))
	bag.Add(UnreadableSource(testFile, nil, "permission denied"))

	var buf bytes.Buffer
	bag.EmitAllPlain(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Error in main.c: unreadable source", lines[0])
	assert.Equal(t, "Error at line 2, column 4: illegal character: @", lines[1])
}

func TestEmitterUnderlinesZeroBasedColumns(t *testing.T) {
	colors.SetEnabled(false)

	cache := NewSourceCache()
	cache.SetLines(testFile, []string{"int @y;"})

	var buf bytes.Buffer
	NewEmitterWithCache(&buf, cache).Emit(testFile, IllegalCharacter(testFile, lineSpan(1, 4, 5, 4), "@"))

	out := buf.String()
	assert.Contains(t, out, "--> main.c:1:4")
	assert.Contains(t, out, "1 | int @y;")
	assert.Contains(t, out, "  |     ^ not part of any token")
	assert.Contains(t, out, "= help: remove this character")
}

func TestEmitterCompactDualLabel(t *testing.T) {
	colors.SetEnabled(false)

	cache := NewSourceCache()
	cache.SetLines(testFile, []string{`char *s = "abc`})

	diag := UnterminatedLiteral(testFile, lineSpan(1, 10, 11, 10), lineSpan(1, 14, 15, 14))
	var buf bytes.Buffer
	NewEmitterWithCache(&buf, cache).Emit(testFile, diag)

	out := buf.String()
	assert.Contains(t, out, "error[L0003]: unterminated literal")
	assert.Contains(t, out, "literal starts here")
	assert.Contains(t, out, "-- literal cut off here")
}

func TestEmitterMultiLineLabel(t *testing.T) {
	colors.SetEnabled(false)

	cache := NewSourceCache()
	cache.SetLines(testFile, []string{"/* open", "still open", "end"})

	loc := source.NewLocation(at(1, 0, 0), at(3, 3, 23))
	diag := NewError("unterminated comment").WithPrimaryLabel(testFile, loc, "runs to end of file")

	var buf bytes.Buffer
	NewEmitterWithCache(&buf, cache).Emit(testFile, diag)

	out := buf.String()
	assert.Contains(t, out, "^--- starts here")
	assert.Contains(t, out, "2 | still open")
	assert.Contains(t, out, "^ runs to end of file")
}

func TestSourceCacheReadsFileOnMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.c")
	require.NoError(t, os.WriteFile(path, []byte("first\nsecond\n"), 0644))

	cache := NewSourceCache()
	line, err := cache.GetLine(path, 2)
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = cache.GetLine(path, 9)
	assert.Error(t, err)

	_, err = cache.GetLine(path+".missing", 1)
	assert.Error(t, err)
}

func TestUnreadableSourceWithoutLocation(t *testing.T) {
	d := UnreadableSource(testFile, nil, "open main.c: no such file")
	assert.Equal(t, testFile, d.FilePath)
	assert.Empty(t, d.Labels)
	assert.False(t, d.Position().IsValid())
	assert.Equal(t, ErrUnreadableSource, d.Code)
}

func TestEmitAllToHTML(t *testing.T) {
	colors.SetEnabled(true)
	defer colors.SetEnabled(false)

	bag := NewDiagnosticBag(testFile)
	bag.RegisterSource(testFile, []string{"a <b"})
	bag.Add(IllegalCharacter(testFile, lineSpan(1, 2, 3, 2), "<"))

	html := bag.EmitAllToHTML()
	assert.Contains(t, html, "&lt;")
	assert.Contains(t, html, "<br>")
	assert.NotContains(t, html, "\x1b[")
}
