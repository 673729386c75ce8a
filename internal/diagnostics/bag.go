package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"clexer/colors"
)

// DiagnosticBag collects diagnostics from every scanned file.
// Safe for concurrent use by per-file scan workers.
type DiagnosticBag struct {
	diagnostics []*Diagnostic
	filepath    string
	sources     *SourceCache
	mu          sync.Mutex
	errorCount  int
	warnCount   int
}

// NewDiagnosticBag creates a new diagnostic bag. filepath is used for
// diagnostics that do not name their own file.
func NewDiagnosticBag(filepath string) *DiagnosticBag {
	return &DiagnosticBag{
		diagnostics: make([]*Diagnostic, 0),
		filepath:    filepath,
		sources:     NewSourceCache(),
	}
}

// Add adds a diagnostic to the bag
func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.diagnostics = append(db.diagnostics, diag)

	if db.filepath == "" && diag.FilePath != "" {
		db.filepath = diag.FilePath
	}

	switch diag.Severity {
	case Error:
		db.errorCount++
	case Warning:
		db.warnCount++
	}
}

// RegisterSource hands the decoded lines of a file to the renderer so it
// does not have to read the file again.
func (db *DiagnosticBag) RegisterSource(filepath string, lines []string) {
	db.sources.SetLines(filepath, lines)
}

// HasErrors returns true if there are any errors
func (db *DiagnosticBag) HasErrors() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount > 0
}

// ErrorCount returns the number of errors
func (db *DiagnosticBag) ErrorCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount
}

// WarningCount returns the number of warnings
func (db *DiagnosticBag) WarningCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.warnCount
}

// Diagnostics returns all diagnostics ordered by file, then position.
// Diagnostics at the same place keep the order they were added in.
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	out := make([]*Diagnostic, len(db.diagnostics))
	copy(out, db.diagnostics)
	db.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Position().Offset < out[j].Position().Offset
	})
	return out
}

// EmitAll renders every diagnostic to stderr
func (db *DiagnosticBag) EmitAll() {
	db.EmitAllToWriter(os.Stderr)
}

// EmitAllToString renders all diagnostics to a string with ANSI codes
func (db *DiagnosticBag) EmitAllToString() string {
	var buf bytes.Buffer
	db.EmitAllToWriter(&buf)
	return buf.String()
}

// EmitAllToHTML renders all diagnostics to an HTML fragment
func (db *DiagnosticBag) EmitAllToHTML() string {
	return colors.ConvertANSIToHTML(db.EmitAllToString())
}

// EmitAllToWriter renders every diagnostic to w followed by a summary line
func (db *DiagnosticBag) EmitAllToWriter(w io.Writer) {
	emitter := NewEmitterWithCache(w, db.sources)

	db.mu.Lock()
	filepath := db.filepath
	db.mu.Unlock()

	for _, diag := range db.Diagnostics() {
		emitter.Emit(filepath, diag)
	}

	db.printSummaryToWriter(w)
}

// EmitAllPlain writes one line per diagnostic in the
// "Error at line L, column C: message" console form, without source excerpts.
func (db *DiagnosticBag) EmitAllPlain(w io.Writer) {
	for _, diag := range db.Diagnostics() {
		pos := diag.Position()
		label := "Error"
		switch diag.Severity {
		case Warning:
			label = "Warning"
		case Info, Hint:
			label = "Note"
		}
		if !pos.IsValid() {
			fmt.Fprintf(w, "%s in %s: %s\n", label, diag.FilePath, diag.Message)
			continue
		}
		fmt.Fprintf(w, "%s at line %d, column %d: %s\n", label, pos.Line, pos.Column, diag.Message)
	}
}

func (db *DiagnosticBag) printSummaryToWriter(w io.Writer) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.errorCount > 0 {
		fmt.Fprintf(w, "\nScan failed with %d error(s)", db.errorCount)
		if db.warnCount > 0 {
			fmt.Fprintf(w, " and %d warning(s)", db.warnCount)
		}
		fmt.Fprintln(w)
	} else if db.warnCount > 0 {
		fmt.Fprintf(w, "\nScan succeeded with %d warning(s)\n", db.warnCount)
	}
}

// Clear removes all diagnostics
func (db *DiagnosticBag) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.diagnostics = make([]*Diagnostic, 0)
	db.errorCount = 0
	db.warnCount = 0
}
