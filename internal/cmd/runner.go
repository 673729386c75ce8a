package cmd

import (
	gocontext "context"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"clexer/internal/context"
	"clexer/internal/crosscheck"
	"clexer/internal/diagnostics"
	"clexer/internal/source"
)

// RunScanPhase tokenizes all registered files in parallel. workers bounds
// the number of files in flight; 0 starts one goroutine per file.
func RunScanPhase(ctx *context.ScanContext, workers int) {
	glog.V(1).Info("[phase 1] scan (parallel)")

	files := ctx.GetAllFiles()
	var wg sync.WaitGroup

	var slots chan struct{}
	if workers > 0 {
		slots = make(chan struct{}, workers)
	}

	for _, file := range files {
		wg.Add(1)
		go func(f *context.SourceFile) {
			defer wg.Done()
			if slots != nil {
				slots <- struct{}{}
				defer func() { <-slots }()
			}
			ctx.ScanFile(f)
		}(file)
	}

	wg.Wait()

	glog.V(1).Infof("scanned %d file(s)", len(files))
}

// RunDirectivePhase warns about unknown directive names
func RunDirectivePhase(ctx *context.ScanContext) {
	glog.V(1).Info("[phase 2] directive check")

	for _, file := range ctx.GetAllFiles() {
		ctx.CheckDirectives(file)
	}
}

// RunCrossCheckPhase compares every scanned file with the tree-sitter C
// grammar and reports disagreements as info diagnostics. A file tree-sitter
// cannot parse is logged and skipped.
func RunCrossCheckPhase(ctx *context.ScanContext) {
	glog.V(1).Info("[phase 3] tree-sitter cross-check")

	for _, file := range ctx.GetAllFiles() {
		mismatches, err := crosscheck.Check(gocontext.Background(), file.Text.String(), file.Tokens)
		if err != nil {
			glog.Warningf("cross-check skipped for %s: %v", file.Path, err)
			continue
		}

		starts := lineOffsets(file.Text)
		for _, m := range mismatches {
			pos := source.Position{Line: m.Line, Column: m.Column}
			if m.Line-1 < len(starts) {
				pos.Offset = starts[m.Line-1] + m.Column
			}
			end := pos
			for _, ch := range m.Lexeme {
				end = end.Advance(ch)
			}
			ctx.Diagnostics.Add(diagnostics.CrossCheckMismatch(file.Path, source.NewLocation(pos, end), m.Message()))
		}
		glog.V(2).Infof("cross-check %s: %d mismatch(es)", file.Path, len(mismatches))
	}
}

// lineOffsets returns the rune offset of the start of every line
func lineOffsets(text source.Text) []int {
	starts := []int{0}
	for i := 0; i < text.Len(); i++ {
		if ch, _ := text.At(i); ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Scan runs every phase over the entry files: discovery, scan, directive
// check and, when crossCheck is set, the tree-sitter comparison. All
// phases report through ctx.Diagnostics. The returned error only says
// whether error diagnostics exist.
func Scan(entries []string, ctx *context.ScanContext, workers int, crossCheck bool) error {
	glog.V(1).Infof("scan started: %v", entries)

	if err := ctx.BuildIncludeGraph(entries...); err != nil {
		return errors.Wrap(err, "file discovery failed")
	}

	RunScanPhase(ctx, workers)
	RunDirectivePhase(ctx)

	if crossCheck {
		RunCrossCheckPhase(ctx)
	}

	if ctx.HasErrors() {
		return errors.Errorf("scan failed with %d error(s)", ctx.Diagnostics.ErrorCount())
	}
	return nil
}
