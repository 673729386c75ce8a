package context

import (
	"os"
	"path/filepath"
	"testing"

	"clexer/internal/diagnostics"
	"clexer/internal/frontend/lexer"
	"clexer/internal/source"
)

const (
	mainCFile       = "main.c"
	mainCContent    = "int main(void) { return 0; }\n"
	utilHFile       = "util.h"
	utilHContent    = "#define UTIL 1\n"
	baseHFile       = "base.h"
	baseHContent    = "int base;\n"
	noErrorExpected = "Expected no error, got: %v"
)

// Helper function to create a temporary test file
func createTestFile(dir, name, content string) (string, error) {
	filePath := filepath.Join(dir, name)
	err := os.WriteFile(filePath, []byte(content), 0644)
	return filePath, err
}

func followOptions(paths ...string) *ScanOptions {
	opts := DefaultOptions()
	opts.FollowIncludes = true
	opts.IncludePaths = paths
	return opts
}

// TestBuildIncludeGraphSingleFile tests a single file with no includes
func TestBuildIncludeGraphSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, err := createTestFile(tmpDir, mainCFile, mainCContent)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	ctx := New(followOptions())

	if err := ctx.BuildIncludeGraph(mainFile); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(ctx.Files))
	}

	absPath, _ := filepath.Abs(mainFile)
	if ctx.GetFile(absPath) == nil {
		t.Errorf("Expected file %s in context", absPath)
	}

	if len(ctx.Graph.Dependencies) != 0 {
		t.Errorf("Expected 0 dependencies, got %d", len(ctx.Graph.Dependencies))
	}
}

// TestBuildIncludeGraphFollowsQuotedHeaders tests a chain main.c -> util.h -> base.h
func TestBuildIncludeGraphFollowsQuotedHeaders(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, _ := createTestFile(tmpDir, mainCFile, "#include \"util.h\"\n#include <stdio.h>\n"+mainCContent)
	utilFile, _ := createTestFile(tmpDir, utilHFile, "#include \"base.h\"\n"+utilHContent)
	baseFile, _ := createTestFile(tmpDir, baseHFile, baseHContent)

	ctx := New(followOptions())
	if err := ctx.BuildIncludeGraph(mainFile); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(ctx.Files))
	}

	mainAbs, _ := filepath.Abs(mainFile)
	utilAbs, _ := filepath.Abs(utilFile)
	baseAbs, _ := filepath.Abs(baseFile)

	if deps := ctx.Graph.Dependencies[mainAbs]; len(deps) != 1 || deps[0] != utilAbs {
		t.Errorf("Expected main.c to depend on util.h only, got %v", deps)
	}
	if deps := ctx.Graph.Dependencies[utilAbs]; len(deps) != 1 || deps[0] != baseAbs {
		t.Errorf("Expected util.h to depend on base.h, got %v", deps)
	}
	if dependents := ctx.Graph.Dependents[baseAbs]; len(dependents) != 1 || dependents[0] != utilAbs {
		t.Errorf("Expected base.h to be included by util.h, got %v", dependents)
	}

	files := ctx.GetAllFiles()
	if files[0].Path != mainAbs {
		t.Errorf("Expected entry file first, got %s", files[0].Path)
	}
}

// TestBuildIncludeGraphCircularIncludes tests that a cycle terminates
func TestBuildIncludeGraphCircularIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	aFile, _ := createTestFile(tmpDir, "a.h", "#include \"b.h\"\n")
	createTestFile(tmpDir, "b.h", "#include \"a.h\"\n")

	ctx := New(followOptions())
	if err := ctx.BuildIncludeGraph(aFile); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(ctx.Files))
	}
}

// TestBuildIncludeGraphIncludePaths tests lookup through the include paths
func TestBuildIncludeGraphIncludePaths(t *testing.T) {
	srcDir := t.TempDir()
	incDir := t.TempDir()
	mainFile, _ := createTestFile(srcDir, mainCFile, "#include \"util.h\"\n#include \"missing.h\"\n")
	createTestFile(incDir, utilHFile, utilHContent)

	ctx := New(followOptions(incDir))
	if err := ctx.BuildIncludeGraph(mainFile); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(ctx.Files))
	}
	if ctx.HasErrors() {
		t.Errorf("Missing headers should be skipped silently")
	}
}

// TestBuildIncludeGraphWithoutFollowing tests that headers stay unread by default
func TestBuildIncludeGraphWithoutFollowing(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, _ := createTestFile(tmpDir, mainCFile, "#include \"util.h\"\n")
	createTestFile(tmpDir, utilHFile, utilHContent)

	ctx := New(nil)
	if err := ctx.BuildIncludeGraph(mainFile); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	if len(ctx.Files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(ctx.Files))
	}
}

// TestLoadFileMissing tests that an unreadable entry becomes a diagnostic
func TestLoadFileMissing(t *testing.T) {
	ctx := New(nil)

	_, err := ctx.LoadFile(filepath.Join(t.TempDir(), "nope.c"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}

	diags := ctx.Diagnostics.Diagnostics()
	if len(diags) != 1 || diags[0].Code != diagnostics.ErrUnreadableSource {
		t.Fatalf("Expected one L0008 diagnostic, got %v", diags)
	}
}

// TestScanFileReportsProblems tests the problem to diagnostic mapping
func TestScanFileReportsProblems(t *testing.T) {
	ctx := New(nil)
	file := ctx.AddFile(mainCFile, source.FromString("int @x;\nchar *s = \"abc\n#define 9\n"))

	ctx.ScanFile(file)

	if last := file.Tokens[len(file.Tokens)-1]; last.Kind != lexer.EOF_TOKEN {
		t.Errorf("Expected stream to end with EOF, got %s", last.Kind)
	}

	want := []string{
		diagnostics.ErrIllegalCharacter,
		diagnostics.ErrUnterminatedLiteral,
		diagnostics.ErrInvalidMacroName,
	}
	diags := ctx.Diagnostics.Diagnostics()
	if len(diags) != len(want) {
		t.Fatalf("Expected %d diagnostics, got %d", len(want), len(diags))
	}
	for i, code := range want {
		if diags[i].Code != code {
			t.Errorf("Diagnostic %d: expected %s, got %s", i, code, diags[i].Code)
		}
	}

	if diags[0].Message != "illegal character: @" {
		t.Errorf("Unexpected message %q", diags[0].Message)
	}
	if pos := diags[0].Position(); pos.Line != 1 || pos.Column != 4 {
		t.Errorf("Expected illegal character at 1:4, got %s", pos)
	}
}

// TestScanFileCollectsIncludes tests include extraction during the scan
func TestScanFileCollectsIncludes(t *testing.T) {
	ctx := New(nil)
	file := ctx.AddFile(mainCFile, source.FromString("#include <stdio.h>\n#include \"util.h\"\n"))

	ctx.ScanFile(file)

	if len(file.Includes) != 2 {
		t.Fatalf("Expected 2 includes, got %d", len(file.Includes))
	}
	if file.Includes[0].Name != "stdio.h" || !file.Includes[0].System {
		t.Errorf("Unexpected first include %+v", file.Includes[0])
	}
	if file.Includes[1].Name != "util.h" || file.Includes[1].System {
		t.Errorf("Unexpected second include %+v", file.Includes[1])
	}
}

// TestCheckDirectives tests the unknown directive warning and its suggestion
func TestCheckDirectives(t *testing.T) {
	ctx := New(nil)
	file := ctx.AddFile(mainCFile, source.FromString("#inclde <stdio.h>\n#\n#pragma once\n"))

	ctx.ScanFile(file)
	ctx.CheckDirectives(file)

	if ctx.HasErrors() {
		t.Errorf("Unknown directives must only warn")
	}
	if ctx.Diagnostics.WarningCount() != 1 {
		t.Fatalf("Expected 1 warning, got %d", ctx.Diagnostics.WarningCount())
	}

	warning := ctx.Diagnostics.Diagnostics()[0]
	if warning.Code != diagnostics.WarnUnknownDirective {
		t.Errorf("Expected W0001, got %s", warning.Code)
	}
	if warning.Help != "did you mean #include?" {
		t.Errorf("Unexpected help %q", warning.Help)
	}
}

func TestSuggestDirective(t *testing.T) {
	tests := map[string]string{
		"inclde":  "include",
		"defin":   "define",
		"INCLUDE": "include",
		"ifdfe":   "ifdef",
		"zzzzzz":  "",
	}
	for name, want := range tests {
		if got := SuggestDirective(name); got != want {
			t.Errorf("SuggestDirective(%q) = %q, want %q", name, got, want)
		}
	}
}

// TestPipelineScan tests the full sequential pipeline
func TestPipelineScan(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, _ := createTestFile(tmpDir, mainCFile, "#include \"util.h\"\n"+mainCContent)
	createTestFile(tmpDir, utilHFile, utilHContent)

	p := NewPipeline(followOptions())
	if err := p.Scan(mainFile); err != nil {
		t.Fatalf(noErrorExpected, err)
	}

	for _, file := range p.Context.GetAllFiles() {
		if len(file.Tokens) == 0 {
			t.Errorf("Expected tokens for %s", file.Path)
		}
	}
}

// TestPipelineScanFailsOnErrors tests that error diagnostics fail the run
func TestPipelineScanFailsOnErrors(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile, _ := createTestFile(tmpDir, mainCFile, "int $x;\n")

	p := NewPipeline(nil)
	if err := p.Scan(mainFile); err == nil {
		t.Fatal("Expected the scan to fail")
	}
	if p.Context.Diagnostics.ErrorCount() != 1 {
		t.Errorf("Expected 1 error, got %d", p.Context.Diagnostics.ErrorCount())
	}
}
