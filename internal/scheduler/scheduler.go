// Package scheduler implements the §4.4 worker pool: a fixed set of
// goroutines pulling files off a shared channel and invoking a per-file
// analysis function, modeled on the channel-fan-out worker pool in the
// teacher's graph.Initialize (graph/initialize.go) but without that
// function's shared-CodeGraph merge step — per §5, workers here share no
// mutable state and every result is self-contained.
package scheduler

import (
	"context"
	"runtime"
	"sync"

	"github.com/anchorlint/anchorlint/internal/finding"
)

// AnalyzeFunc analyzes a single file and returns its findings. It must not
// touch any state shared with other invocations; the scheduler may call it
// concurrently from any number of workers.
type AnalyzeFunc func(ctx context.Context, file string) []finding.Finding

// Result pairs one file with the findings produced for it.
type Result struct {
	File     string
	Findings []finding.Finding
}

// Workers returns n if positive, else runtime.NumCPU() — the §4.4 default
// pool size.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Run analyzes files using a pool of Workers(workers) goroutines, each
// calling analyze on the files it is handed. Results are returned in
// unspecified, unordered fashion across files (§5: "inter-file ordering is
// unspecified"); callers that need a stable report order should sort
// Results by File afterward.
//
// ctx cancellation is cooperative: once canceled, no new file is dispatched
// to a worker, but a file already in progress runs to completion before its
// worker notices. Run itself returns promptly once all in-flight files have
// finished.
func Run(ctx context.Context, files []string, workers int, analyze AnalyzeFunc) []Result {
	n := Workers(workers)
	if n > len(files) && len(files) > 0 {
		n = len(files)
	}
	if n < 1 {
		n = 1
	}

	fileChan := make(chan string, len(files))
	resultChan := make(chan Result, len(files))

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			for file := range fileChan {
				if ctx.Err() != nil {
					continue
				}
				resultChan <- Result{File: file, Findings: analyze(ctx, file)}
			}
		}()
	}

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		fileChan <- f
	}
	close(fileChan)

	wg.Wait()
	close(resultChan)

	results := make([]Result, 0, len(files))
	for r := range resultChan {
		results = append(results, r)
	}
	return results
}
