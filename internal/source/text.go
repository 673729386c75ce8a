// Package source loads C source files into decoded, immutable text buffers
// and describes positions inside them.
package source

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnreadable marks failures to open or read a source.
var ErrUnreadable = errors.New("unreadable source")

// Text is a decoded source buffer. It is never modified after Load.
// Err is non-nil when reading stopped early; the runes read before the
// failure are still available.
type Text struct {
	runes []rune
	err   error
}

// FromString wraps already-decoded text.
func FromString(s string) Text {
	return Text{runes: []rune(s)}
}

// At returns the rune at index i. ok is false past the end of the text.
func (t Text) At(i int) (r rune, ok bool) {
	if i < 0 || i >= len(t.runes) {
		return 0, false
	}
	return t.runes[i], true
}

// Len is the number of runes in the text.
func (t Text) Len() int {
	return len(t.runes)
}

// Err reports the read failure that truncated the text, if any.
func (t Text) Err() error {
	return t.err
}

func (t Text) String() string {
	return string(t.runes)
}

// Lines splits the text on newlines, for diagnostic rendering.
func (t Text) Lines() []string {
	return strings.Split(string(t.runes), "\n")
}

// Load decodes r. An empty encoding name or any UTF-8 alias reads r as
// UTF-8; other names are resolved through the WHATWG encoding index.
func Load(r io.Reader, encoding string) (Text, error) {
	if encoding != "" && !isUTF8(encoding) {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return Text{}, errors.Wrapf(err, "unknown encoding %q", encoding)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	br := bufio.NewReader(r)
	var runes []rune
	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			return Text{runes: runes}, nil
		}
		if err != nil {
			return Text{runes: runes, err: errors.Wrap(ErrUnreadable, err.Error())}, nil
		}
		runes = append(runes, ch)
	}
}

// Open reads and decodes the file at path. The file is closed before Open
// returns on every path.
func Open(path, encoding string) (Text, error) {
	f, err := os.Open(path)
	if err != nil {
		return Text{}, errors.Wrapf(ErrUnreadable, "open %s: %v", path, err)
	}
	defer f.Close()

	text, err := Load(f, encoding)
	if err != nil {
		return Text{}, errors.Wrapf(err, "load %s", path)
	}
	return text, nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
		return true
	}
	return false
}
