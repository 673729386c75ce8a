// Package colors holds the ANSI palette used by the diagnostics renderer.
package colors

import (
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// COLOR is an ANSI SGR escape sequence.
type COLOR string

const (
	RESET COLOR = "\033[0m"

	RED    COLOR = "\033[31m"
	GREEN  COLOR = "\033[32m"
	YELLOW COLOR = "\033[33m"
	BLUE   COLOR = "\033[34m"
	PURPLE COLOR = "\033[35m"
	CYAN   COLOR = "\033[36m"
	GREY   COLOR = "\033[90m"

	BOLD_RED    COLOR = "\033[1;31m"
	BOLD_YELLOW COLOR = "\033[1;33m"
	BOLD_PURPLE COLOR = "\033[1;35m"
	BOLD_CYAN   COLOR = "\033[1;36m"
)

var enabled atomic.Bool

func init() {
	enabled.Store(term.IsTerminal(int(os.Stderr.Fd())))
}

// SetEnabled forces colored output on or off.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether escape sequences are written.
func Enabled() bool {
	return enabled.Load()
}

// Sprint wraps the formatted operands in the color.
func (c COLOR) Sprint(a ...interface{}) string {
	s := fmt.Sprint(a...)
	if !Enabled() {
		return s
	}
	return string(c) + s + string(RESET)
}

func (c COLOR) Fprint(w io.Writer, a ...interface{}) {
	fmt.Fprint(w, c.Sprint(a...))
}

func (c COLOR) Fprintf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprint(w, c.Sprint(fmt.Sprintf(format, a...)))
}

func (c COLOR) Fprintln(w io.Writer, a ...interface{}) {
	fmt.Fprintln(w, c.Sprint(a...))
}

var ansiPattern = regexp.MustCompile(`\x1b\[([0-9;]*)m`)

var htmlClasses = map[string]string{
	"31":   "red",
	"32":   "green",
	"33":   "yellow",
	"34":   "blue",
	"35":   "purple",
	"36":   "cyan",
	"90":   "grey",
	"1;31": "bold red",
	"1;33": "bold yellow",
	"1;35": "bold purple",
	"1;36": "bold cyan",
}

// ConvertANSIToHTML escapes s for HTML and turns the palette's escape
// sequences into <span class="..."> elements.
func ConvertANSIToHTML(s string) string {
	escaped := html.EscapeString(s)

	var b strings.Builder
	open := false
	last := 0
	for _, m := range ansiPattern.FindAllStringSubmatchIndex(escaped, -1) {
		b.WriteString(escaped[last:m[0]])
		last = m[1]
		code := escaped[m[2]:m[3]]
		if open {
			b.WriteString("</span>")
			open = false
		}
		if class, ok := htmlClasses[code]; ok {
			fmt.Fprintf(&b, `<span class="%s">`, class)
			open = true
		}
	}
	b.WriteString(escaped[last:])
	if open {
		b.WriteString("</span>")
	}
	return strings.ReplaceAll(b.String(), "\n", "<br>")
}
