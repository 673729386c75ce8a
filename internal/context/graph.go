package context

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"

	"clexer/internal/frontend/lexer"
)

// BuildIncludeGraph registers the entry files and, when FollowIncludes is
// set, every quoted header reachable from them. Discovery is breadth-first
// and each level is loaded concurrently. System headers are never followed
// and headers that cannot be found are skipped. Entries that cannot be read
// are reported as diagnostics, not returned as errors.
func (ctx *ScanContext) BuildIncludeGraph(entries ...string) error {
	glog.V(1).Infof("file discovery: %d entry file(s)", len(entries))

	toProcess := make([]string, 0, len(entries))
	for _, entry := range entries {
		absPath, err := filepath.Abs(entry)
		if err != nil {
			return err
		}
		if ctx.shouldProcess(absPath) {
			toProcess = append(toProcess, absPath)
		}
	}

	for len(toProcess) > 0 {
		toProcess = ctx.processBatch(toProcess)
	}

	if glog.V(1) {
		ctx.logDiscoveryStats()
	}
	return nil
}

// processBatch loads a level of files in parallel and returns the headers
// discovered for the next level
func (ctx *ScanContext) processBatch(batch []string) []string {
	var nextBatch []string
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, filePath := range batch {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			for _, header := range ctx.discoverFile(path) {
				if ctx.shouldProcess(header) {
					mu.Lock()
					nextBatch = append(nextBatch, header)
					mu.Unlock()
				}
			}
		}(filePath)
	}

	wg.Wait()
	return nextBatch
}

// shouldProcess marks path as seen and reports whether it was new
func (ctx *ScanContext) shouldProcess(path string) bool {
	ctx.Graph.mu.Lock()
	defer ctx.Graph.mu.Unlock()

	if ctx.Graph.Processed[path] {
		return false
	}
	ctx.Graph.Processed[path] = true
	return true
}

// discoverFile loads a file and returns the absolute paths of the quoted
// headers it includes
func (ctx *ScanContext) discoverFile(path string) []string {
	file, err := ctx.LoadFile(path)
	if err != nil {
		glog.V(1).Infof("skipping %s: %v", path, err)
		return nil
	}
	if !ctx.Options.FollowIncludes {
		return nil
	}

	// problems are reported by the real scan later
	file.Includes = ctx.resolveIncludes(path, lexer.Scan(file.Text, lexer.Discard, ctx.Options.Dialect))

	var headers []string
	for _, inc := range file.Includes {
		if inc.ResolvedPath != "" {
			headers = append(headers, inc.ResolvedPath)
		}
	}

	if len(headers) > 0 {
		ctx.Graph.mu.Lock()
		ctx.Graph.Dependencies[path] = headers
		for _, header := range headers {
			ctx.Graph.Dependents[header] = append(ctx.Graph.Dependents[header], path)
		}
		ctx.Graph.mu.Unlock()
	}

	return headers
}

// resolveInclude finds a quoted header next to the including file first,
// then in the include paths. Returns "" when it is nowhere.
func (ctx *ScanContext) resolveInclude(name, currentFile string) string {
	candidates := []string{filepath.Join(filepath.Dir(currentFile), name)}
	for _, dir := range ctx.Options.IncludePaths {
		candidates = append(candidates, filepath.Join(dir, name))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			absPath, _ := filepath.Abs(candidate)
			return absPath
		}
	}
	return ""
}

// logDiscoveryStats logs discovery statistics
func (ctx *ScanContext) logDiscoveryStats() {
	ctx.Graph.mu.RLock()
	defer ctx.Graph.mu.RUnlock()

	edges := 0
	for _, deps := range ctx.Graph.Dependencies {
		edges += len(deps)
	}
	glog.Infof("discovered %d file(s), %d include edge(s)", len(ctx.GetAllFiles()), edges)
}
