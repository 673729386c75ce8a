// Package context - scan pipeline
//
// The pipeline runs the phases one after another over every registered
// file:
//
//	Entry -> [File Discovery] -> Scan -> Directive Check -> Exit
//
// Each phase reads the previous phase's output from the SourceFile values
// and reports to ctx.Diagnostics. The cmd package runs the same phases with
// a worker pool and the optional tree-sitter cross-check.
package context

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Pipeline manages the scan pipeline
type Pipeline struct {
	Context *ScanContext
}

// NewPipeline creates a new scan pipeline with the given options
func NewPipeline(options *ScanOptions) *Pipeline {
	return &Pipeline{
		Context: New(options),
	}
}

// Scan runs discovery, scanning and the directive check over the entry
// files. It returns an error when any error diagnostic was reported.
func (p *Pipeline) Scan(entries ...string) error {
	if err := p.Context.BuildIncludeGraph(entries...); err != nil {
		return errors.Wrap(err, "file discovery failed")
	}

	glog.V(1).Info("[phase 1] scan")
	for _, file := range p.Context.GetAllFiles() {
		p.Context.ScanFile(file)
	}

	glog.V(1).Info("[phase 2] directive check")
	for _, file := range p.Context.GetAllFiles() {
		p.Context.CheckDirectives(file)
	}

	if p.Context.HasErrors() {
		return errors.Errorf("scan failed with %d error(s)", p.Context.Diagnostics.ErrorCount())
	}
	return nil
}
