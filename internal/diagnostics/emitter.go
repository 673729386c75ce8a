package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/patrickmn/go-cache"

	"clexer/colors"
)

const (
	STR_MULTIPLIER = "%*d | "
)

// SourceCache caches source file lines for error reporting. Entries never
// expire; a scan run is short-lived.
type SourceCache struct {
	files *cache.Cache
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: cache.New(cache.NoExpiration, 0),
	}
}

// SetLines stores the lines of filepath, replacing anything cached.
func (sc *SourceCache) SetLines(filepath string, lines []string) {
	sc.files.Set(filepath, lines, cache.NoExpiration)
}

// GetLine retrieves a 1-based line from a source file, reading the file on
// first use when it was not registered.
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	lines, err := sc.lines(filepath)
	if err != nil {
		return "", err
	}
	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

func (sc *SourceCache) lines(filepath string) ([]string, error) {
	if cached, ok := sc.files.Get(filepath); ok {
		return cached.([]string), nil
	}

	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sc.SetLines(filepath, lines)
	return lines, nil
}

// Emitter renders diagnostics in a Rust-like layout
type Emitter struct {
	cache *SourceCache
	w     io.Writer
}

// labelContext groups parameters for printing labels to reduce parameter count
type labelContext struct {
	filepath     string
	line         int
	startLine    int
	endLine      int
	startCol     int
	endCol       int
	label        Label
	lineNumWidth int
	severity     Severity
}

// NewEmitterWithCache renders to w, reading source lines through cache
func NewEmitterWithCache(w io.Writer, cache *SourceCache) *Emitter {
	return &Emitter{cache: cache, w: w}
}

// Emit renders one diagnostic
func (e *Emitter) Emit(filepath string, diag *Diagnostic) {
	if diag.FilePath != "" {
		filepath = diag.FilePath
	}

	e.printHeader(diag)

	var primary *Label
	var secondaries []Label
	for i, label := range diag.Labels {
		if label.Style == Primary && primary == nil {
			primary = &diag.Labels[i]
		} else {
			secondaries = append(secondaries, label)
		}
	}

	switch {
	case primary == nil:
		if filepath != "" {
			colors.BLUE.Fprintf(e.w, "  --> %s\n", filepath)
		}
	case len(secondaries) == 1 && sameLine(*primary, secondaries[0]):
		e.printCompactDualLabel(filepath, *primary, secondaries[0], diag.Severity)
	default:
		e.printLabel(filepath, *primary, diag.Severity)
		for _, label := range secondaries {
			e.printLabel(filepath, label, diag.Severity)
		}
	}

	for _, note := range diag.Notes {
		e.printNote(note)
	}

	if diag.Help != "" {
		e.printHelp(diag.Help)
	}

	fmt.Fprintln(e.w)
}

func sameLine(a, b Label) bool {
	return a.Location != nil && a.Location.Start != nil &&
		b.Location != nil && b.Location.Start != nil &&
		a.Location.Start.Line == b.Location.Start.Line
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	color := e.getHeaderColor(diag.Severity)

	color.Fprint(e.w, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.w, "[%s]", diag.Code)
	}
	fmt.Fprint(e.w, ": ")
	color.Fprintln(e.w, diag.Message)
}

func (e *Emitter) printLabel(filepath string, label Label, severity Severity) {
	if label.Location == nil || label.Location.Start == nil {
		return
	}

	start := label.Location.Start
	end := label.Location.End
	if end == nil {
		end = start
	}

	colors.BLUE.Fprintf(e.w, "  --> %s:%d:%d\n", filepath, start.Line, start.Column)

	lineNumWidth := len(fmt.Sprintf("%d", start.Line))
	if end.Line > start.Line {
		endWidth := len(fmt.Sprintf("%d", end.Line))
		if endWidth > lineNumWidth {
			lineNumWidth = endWidth
		}
	}

	e.printSeparator(lineNumWidth)

	ctx := labelContext{
		filepath:     filepath,
		startLine:    start.Line,
		endLine:      end.Line,
		startCol:     start.Column,
		endCol:       end.Column,
		label:        label,
		lineNumWidth: lineNumWidth,
		severity:     severity,
	}

	if start.Line == end.Line {
		ctx.line = start.Line
		e.printSingleLineLabel(ctx)
	} else {
		e.printMultiLineLabel(ctx)
	}
}

func (e *Emitter) printSeparator(width int) {
	colors.GREY.Fprint(e.w, strings.Repeat(" ", width))
	colors.GREY.Fprintln(e.w, " |")
}

func (e *Emitter) printSingleLineLabel(ctx labelContext) {
	if ctx.line > 1 {
		prevLine, err := e.cache.GetLine(ctx.filepath, ctx.line-1)
		if err == nil && strings.TrimSpace(prevLine) != "" {
			colors.GREY.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.line-1)
			colors.GREY.Fprintln(e.w, prevLine)
		}
	}

	sourceLine, err := e.cache.GetLine(ctx.filepath, ctx.line)
	if err != nil {
		return
	}

	colors.GREY.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.line)
	fmt.Fprintln(e.w, sourceLine)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")

	// columns are 0-based
	padding := ctx.startCol
	length := ctx.endCol - ctx.startCol
	if length <= 0 {
		length = 1
	}

	underlineColor, underlineChar := e.underlineStyle(ctx.label.Style, ctx.severity, length)

	fmt.Fprint(e.w, strings.Repeat(" ", padding))
	underlineColor.Fprint(e.w, strings.Repeat(underlineChar, length))

	if ctx.label.Message != "" {
		underlineColor.Fprintf(e.w, " %s", ctx.label.Message)
	}
	fmt.Fprintln(e.w)

	e.printSeparator(ctx.lineNumWidth)
}

func (e *Emitter) printMultiLineLabel(ctx labelContext) {
	sourceLine, err := e.cache.GetLine(ctx.filepath, ctx.startLine)
	if err != nil {
		return
	}

	colors.BLUE.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.startLine)
	fmt.Fprintln(e.w, sourceLine)

	colors.BLUE.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
	colors.BLUE.Fprint(e.w, " | ")

	underlineColor := colors.BLUE
	if ctx.label.Style == Primary {
		underlineColor = e.getHeaderColor(ctx.severity)
	}

	fmt.Fprint(e.w, strings.Repeat(" ", ctx.startCol))
	underlineColor.Fprintln(e.w, "^--- starts here")

	if ctx.endLine-ctx.startLine > 5 {
		colors.BLUE.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
		colors.BLUE.Fprintln(e.w, " | ...")
	} else {
		for i := ctx.startLine + 1; i < ctx.endLine; i++ {
			line, err := e.cache.GetLine(ctx.filepath, i)
			if err != nil {
				continue
			}
			colors.BLUE.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, i)
			fmt.Fprintln(e.w, line)
		}
	}

	endSourceLine, err := e.cache.GetLine(ctx.filepath, ctx.endLine)
	if err == nil {
		colors.BLUE.Fprintf(e.w, STR_MULTIPLIER, ctx.lineNumWidth, ctx.endLine)
		fmt.Fprintln(e.w, endSourceLine)

		colors.BLUE.Fprint(e.w, strings.Repeat(" ", ctx.lineNumWidth))
		colors.BLUE.Fprint(e.w, " | ")
		fmt.Fprint(e.w, strings.Repeat(" ", ctx.endCol))
		underlineColor.Fprint(e.w, "^")

		if ctx.label.Message != "" {
			underlineColor.Fprintf(e.w, " %s", ctx.label.Message)
		}
		fmt.Fprintln(e.w)
	}

	e.printSeparator(ctx.lineNumWidth)
}

func (e *Emitter) printNote(note Note) {
	colors.CYAN.Fprint(e.w, "  = note: ")
	fmt.Fprintln(e.w, note.Message)
}

func (e *Emitter) printHelp(help string) {
	colors.GREEN.Fprint(e.w, "  = help: ")
	fmt.Fprintln(e.w, help)
}

// printCompactDualLabel prints a primary and a secondary label that share a
// line: both underlines on one row, the secondary message hanging below.
func (e *Emitter) printCompactDualLabel(filepath string, primary Label, secondary Label, severity Severity) {
	line := primary.Location.Start.Line
	primaryStart, primaryEnd := span(primary)
	secondaryStart, _ := span(secondary)

	colors.BLUE.Fprintf(e.w, "  --> %s:%d:%d\n", filepath, line, primaryStart)

	lineNumWidth := len(fmt.Sprintf("%d", line))
	e.printSeparator(lineNumWidth)

	sourceLine, err := e.cache.GetLine(filepath, line)
	if err != nil {
		return
	}

	colors.GREY.Fprintf(e.w, STR_MULTIPLIER, lineNumWidth, line)
	fmt.Fprintln(e.w, sourceLine)

	primaryLength := max(primaryEnd-primaryStart, 1)
	primaryColor, primaryChar := e.underlineStyle(Primary, severity, primaryLength)
	secondaryColor := colors.BLUE
	secondaryChar := "-"

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")

	if secondaryStart < primaryStart {
		fmt.Fprint(e.w, strings.Repeat(" ", secondaryStart))
		secondaryColor.Fprint(e.w, secondaryChar)
		fmt.Fprint(e.w, strings.Repeat(" ", primaryStart-secondaryStart-1))
		primaryColor.Fprint(e.w, strings.Repeat(primaryChar, primaryLength))
	} else {
		fmt.Fprint(e.w, strings.Repeat(" ", primaryStart))
		primaryColor.Fprint(e.w, strings.Repeat(primaryChar, primaryLength))
		if gap := secondaryStart - primaryStart - primaryLength; gap >= 0 {
			fmt.Fprint(e.w, strings.Repeat(" ", gap))
			secondaryColor.Fprint(e.w, secondaryChar)
		}
	}
	if primary.Message != "" {
		primaryColor.Fprintf(e.w, " %s", primary.Message)
	}
	fmt.Fprintln(e.w)

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")
	fmt.Fprint(e.w, strings.Repeat(" ", secondaryStart))
	secondaryColor.Fprintln(e.w, "|")

	colors.GREY.Fprint(e.w, strings.Repeat(" ", lineNumWidth))
	colors.GREY.Fprint(e.w, " | ")
	fmt.Fprint(e.w, strings.Repeat(" ", secondaryStart))
	secondaryColor.Fprint(e.w, strings.Repeat(secondaryChar, 2))
	if secondary.Message != "" {
		secondaryColor.Fprintf(e.w, " %s", secondary.Message)
	}
	fmt.Fprintln(e.w)

	e.printSeparator(lineNumWidth)
}

// span returns the start and end columns of a label on its first line
func span(label Label) (int, int) {
	start := label.Location.Start
	end := label.Location.End
	if end == nil || end.Line != start.Line {
		end = start
	}
	return start.Column, end.Column
}

func (e *Emitter) underlineStyle(style LabelStyle, severity Severity, length int) (colors.COLOR, string) {
	if style != Primary {
		return colors.BLUE, "-"
	}
	if length == 1 {
		return e.getSeverityColor(severity), "^"
	}
	return e.getSeverityColor(severity), "~"
}

func (e *Emitter) getHeaderColor(severity Severity) colors.COLOR {
	switch severity {
	case Warning:
		return colors.BOLD_YELLOW
	case Info:
		return colors.BOLD_CYAN
	case Hint:
		return colors.BOLD_PURPLE
	default:
		return colors.BOLD_RED
	}
}

// getSeverityColor returns the underline color for a given severity
func (e *Emitter) getSeverityColor(severity Severity) colors.COLOR {
	switch severity {
	case Warning:
		return colors.YELLOW
	case Info:
		return colors.BLUE
	case Hint:
		return colors.PURPLE
	default:
		return colors.RED
	}
}
