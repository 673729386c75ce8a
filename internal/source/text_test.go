package source

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenReader struct {
	data []byte
	sent bool
}

func (b *brokenReader) Read(p []byte) (int, error) {
	if !b.sent {
		b.sent = true
		return copy(p, b.data), nil
	}
	return 0, io.ErrUnexpectedEOF
}

func TestLoadUTF8(t *testing.T) {
	text, err := Load(bytes.NewReader([]byte("int é;\n")), "")
	require.NoError(t, err)
	assert.Equal(t, 7, text.Len())
	r, ok := text.At(4)
	assert.True(t, ok)
	assert.Equal(t, 'é', r)
	_, ok = text.At(7)
	assert.False(t, ok)
	assert.NoError(t, text.Err())
}

func TestLoadLegacyEncoding(t *testing.T) {
	text, err := Load(bytes.NewReader([]byte{'c', 0xE9}), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "cé", text.String())
}

func TestLoadUnknownEncoding(t *testing.T) {
	_, err := Load(bytes.NewReader(nil), "no-such-charset")
	assert.Error(t, err)
}

func TestLoadKeepsTextReadBeforeFailure(t *testing.T) {
	text, err := Load(&brokenReader{data: []byte("ab")}, "")
	require.NoError(t, err)
	assert.Equal(t, "ab", text.String())
	assert.True(t, errors.Is(text.Err(), ErrUnreadable))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.c"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestOpenReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.c")
	require.NoError(t, os.WriteFile(path, []byte("x\ny"), 0644))

	text, err := Open(path, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, text.Lines())
}

func TestPositionAdvance(t *testing.T) {
	p := Start()
	p = p.Advance('a')
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 1}, p)
	p = p.Advance('\n')
	assert.Equal(t, Position{Line: 2, Column: 0, Offset: 2}, p)
	assert.Equal(t, "2:0", p.String())
	assert.False(t, Position{}.IsValid())
}
