// Package context holds the state shared by every phase of a scan run.
//
// Phases are stateless workers: they receive a ScanContext, read the
// SourceFile values registered in it and report problems to its
// DiagnosticBag. The context owns the file registry, the include graph and
// the options the run was started with.
package context

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"clexer/internal/diagnostics"
	"clexer/internal/frontend/lexer"
	"clexer/internal/source"
)

// DependencyGraph tracks which files include which
type DependencyGraph struct {
	// file path -> headers it includes
	Dependencies map[string][]string

	// header path -> files that include it
	Dependents map[string][]string

	Processed map[string]bool

	mu sync.RWMutex
}

// ScanContext is the central hub for all scan state.
type ScanContext struct {
	Diagnostics *diagnostics.DiagnosticBag

	// absolute file path -> SourceFile
	Files map[string]*SourceFile

	Graph *DependencyGraph

	Options *ScanOptions

	// order files were registered in, for deterministic output
	FileOrder []string

	mu sync.RWMutex
}

// SourceFile is one decoded file and what the scanner made of it.
type SourceFile struct {
	Path     string
	Text     source.Text
	Tokens   []lexer.Token
	Includes []*IncludeInfo
}

// IncludeInfo is one #include found in a file.
type IncludeInfo struct {
	Name         string // header name without delimiters
	System       bool   // <name> rather than "name"
	Token        lexer.Token
	ResolvedPath string // empty for system headers and headers not found
}

// ScanOptions holds scan configuration. Immutable once the context exists.
type ScanOptions struct {
	Debug          bool     // log every token
	Encoding       string   // source encoding, empty for UTF-8
	IncludePaths   []string // extra directories searched for quoted headers
	FollowIncludes bool     // scan quoted headers reachable from the entries
	Dialect        lexer.Dialect
}

// DefaultOptions returns the options used when New is given nil.
func DefaultOptions() *ScanOptions {
	return &ScanOptions{Dialect: lexer.DefaultDialect()}
}

// New starts a scan session.
func New(options *ScanOptions) *ScanContext {
	if options == nil {
		options = DefaultOptions()
	}

	return &ScanContext{
		Diagnostics: diagnostics.NewDiagnosticBag(""),
		Files:       make(map[string]*SourceFile),
		Graph: &DependencyGraph{
			Dependencies: make(map[string][]string),
			Dependents:   make(map[string][]string),
			Processed:    make(map[string]bool),
		},
		Options:   options,
		FileOrder: make([]string, 0),
	}
}

// AddFile registers decoded text under path. Registering the same path
// twice returns the existing file.
func (ctx *ScanContext) AddFile(path string, text source.Text) *SourceFile {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if file, exists := ctx.Files[path]; exists {
		return file
	}

	file := &SourceFile{
		Path: path,
		Text: text,
	}

	ctx.Files[path] = file
	ctx.FileOrder = append(ctx.FileOrder, path)
	ctx.Diagnostics.RegisterSource(path, text.Lines())

	return file
}

// GetFile retrieves a source file by path, nil if it was never registered.
func (ctx *ScanContext) GetFile(path string) *SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.Files[path]
}

// GetAllFiles returns all registered files in the order they were added.
func (ctx *ScanContext) GetAllFiles() []*SourceFile {
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()

	files := make([]*SourceFile, 0, len(ctx.FileOrder))
	for _, path := range ctx.FileOrder {
		files = append(files, ctx.Files[path])
	}
	return files
}

// HasErrors returns true if any errors have been reported.
func (ctx *ScanContext) HasErrors() bool {
	return ctx.Diagnostics.HasErrors()
}

// EmitDiagnostics writes all collected diagnostics to stderr.
func (ctx *ScanContext) EmitDiagnostics() {
	ctx.Diagnostics.EmitAll()
}

// LoadFile opens and decodes path with the configured encoding and registers
// it. A file that cannot be opened gets an UnreadableSource diagnostic and
// the error is returned. A file that stops reading part way is registered
// with the text read so far; the scanner reports it at EOF.
func (ctx *ScanContext) LoadFile(path string) (*SourceFile, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve path %s", path)
	}

	if file := ctx.GetFile(absPath); file != nil {
		return file, nil
	}

	text, err := source.Open(absPath, ctx.Options.Encoding)
	if err != nil {
		ctx.Diagnostics.Add(diagnostics.UnreadableSource(absPath, nil, err.Error()))
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}

	glog.V(2).Infof("loaded %s (%d characters)", absPath, text.Len())
	return ctx.AddFile(absPath, text), nil
}

// ScanFile tokenizes one registered file. Lexical problems become
// diagnostics in the context's bag. Safe to call for different files
// concurrently.
func (ctx *ScanContext) ScanFile(file *SourceFile) {
	sink := lexer.SinkFunc(func(p lexer.Problem) {
		ctx.Diagnostics.Add(problemDiagnostic(file, p))
	})

	scanner := lexer.New(file.Text, sink, ctx.Options.Dialect)
	file.Tokens = scanner.Tokenize()
	file.Includes = ctx.resolveIncludes(file.Path, file.Tokens)

	if ctx.Options.Debug {
		for _, tok := range file.Tokens {
			glog.Infof("%s: %s", filepath.Base(file.Path), tok)
		}
	}
	glog.V(1).Infof("scanned %s: %d token(s)", file.Path, len(file.Tokens))
}

// problemDiagnostic maps a lexical problem onto the diagnostic taxonomy.
func problemDiagnostic(file *SourceFile, p lexer.Problem) *diagnostics.Diagnostic {
	span := source.NewLocation(p.Pos, p.End)

	switch p.Kind {
	case lexer.IllegalCharacter:
		ch, _ := file.Text.At(p.Pos.Offset)
		return diagnostics.IllegalCharacter(file.Path, span, string(ch))
	case lexer.UnterminatedComment:
		return diagnostics.UnterminatedComment(file.Path, span)
	case lexer.UnterminatedLiteral:
		quote, _ := file.Text.At(p.Pos.Offset)
		start := source.NewLocation(p.Pos, p.Pos.Advance(quote))
		var stop *source.Location
		if p.End.Line == p.Pos.Line && p.End.Offset > p.Pos.Offset+1 {
			stop = source.PointLocation(p.End)
		}
		return diagnostics.UnterminatedLiteral(file.Path, start, stop)
	case lexer.UnterminatedHeaderName:
		return diagnostics.UnterminatedHeaderName(file.Path, span)
	case lexer.InvalidIncludeFormat:
		return diagnostics.InvalidIncludeFormat(file.Path, span)
	case lexer.InvalidMacroName:
		return diagnostics.InvalidMacroName(file.Path, span)
	case lexer.MissingMacroName:
		return diagnostics.MissingMacroName(file.Path, span)
	case lexer.UnreadableSource:
		return diagnostics.UnreadableSource(file.Path, source.PointLocation(p.Pos), p.Message)
	}
	return diagnostics.NewError(p.Message).WithPrimaryLabel(file.Path, span, "")
}

// CheckDirectives warns about directive names the scanner does not know,
// suggesting the closest known one.
func (ctx *ScanContext) CheckDirectives(file *SourceFile) {
	for _, tok := range file.Tokens {
		if tok.Kind != lexer.PREPROCESSOR_TOKEN {
			continue
		}
		name := strings.TrimPrefix(tok.Value, "#")
		// a lone '#' is the null directive
		if name == "" || lexer.IsDirective(name) {
			continue
		}

		end := tok.Start
		for _, ch := range tok.Value {
			end = end.Advance(ch)
		}
		ctx.Diagnostics.Add(diagnostics.UnknownDirective(
			file.Path, source.NewLocation(tok.Start, end), tok.Value, SuggestDirective(name)))
	}
}

// SuggestDirective returns the known directive closest to name, or "" when
// nothing is close.
func SuggestDirective(name string) string {
	known := lexer.Directives()

	ranks := fuzzy.RankFindNormalizedFold(name, known)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", 3
	for _, directive := range known {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), directive); d < bestDistance {
			best, bestDistance = directive, d
		}
	}
	return best
}

// resolveIncludes collects the #include directives in tokens and locates the
// quoted ones on disk
func (ctx *ScanContext) resolveIncludes(path string, tokens []lexer.Token) []*IncludeInfo {
	includes := extractIncludes(tokens)
	for _, inc := range includes {
		if !inc.System {
			inc.ResolvedPath = ctx.resolveInclude(inc.Name, path)
		}
	}
	return includes
}

// extractIncludes collects the header names following #include directives
func extractIncludes(tokens []lexer.Token) []*IncludeInfo {
	var includes []*IncludeInfo
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Kind != lexer.PREPROCESSOR_TOKEN || tokens[i].Value != "#include" {
			continue
		}
		header := tokens[i+1]
		if header.Kind != lexer.HEADER_FILE_TOKEN || len(header.Value) < 2 {
			continue
		}
		includes = append(includes, &IncludeInfo{
			Name:   header.Value[1 : len(header.Value)-1],
			System: header.Value[0] == '<',
			Token:  header,
		})
	}
	return includes
}
