// readtrace: tracing reads through RNA-seq read mapping pipelines.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/readtrace/blob/master/LICENSE.txt>.

package trace

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/exascience/pargo/parallel"
)

// A Policy determines what happens to the remaining libraries when
// tracing a library fails.
type Policy int8

const (
	// ReportFailures continues with the other libraries.
	ReportFailures Policy = iota
	// CrashOnFailure skips all libraries that have not started yet.
	CrashOnFailure
)

// ParsePolicy parses "report" or "crash".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "report", "":
		return ReportFailures, nil
	case "crash":
		return CrashOnFailure, nil
	default:
		return ReportFailures, fmt.Errorf("unknown exception handling policy %q, expected report or crash", s)
	}
}

func (p Policy) String() string {
	if p == CrashOnFailure {
		return "crash"
	}
	return "report"
}

// A Result is the outcome of tracing one library.
type Result struct {
	Library   string
	TraceFile string
	Summary   LibrarySummary
	Err       error
	// Skipped is true when the library was not traced because another
	// library failed first.
	Skipped bool
}

// Trace builds the traces of the library and writes its trace table.
func (b *Builder) Trace(library string) Result {
	result := Result{Library: library}
	lib, err := b.Build(library)
	if err != nil {
		result.Err = err
		return result
	}
	if result.Summary, err = Summarize(lib); err != nil {
		result.Err = err
		return result
	}
	name := b.Locator.TraceFile(library)
	if _, err = WriteTraceFile(name, lib); err != nil {
		result.Err = fmt.Errorf("%w, while writing trace table %v", err, name)
		return result
	}
	result.TraceFile = name
	b.logger().Printf("Library %v: trace table written to %v.\n", library, name)
	return result
}

// TraceLibraries traces the given libraries with at most threads
// libraries in flight at the same time. If threads <= 0, it uses
// runtime.GOMAXPROCS(0). The results are in the order of libraries.
//
// Failures are local to their library. With CrashOnFailure, libraries
// that have not started when a failure occurs are skipped.
func TraceLibraries(b *Builder, libraries []string, threads int, policy Policy, metrics *Metrics) []Result {
	results := make([]Result, len(libraries))
	if len(libraries) == 0 {
		return results
	}
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads > len(libraries) {
		threads = len(libraries)
	}
	var failed int32
	parallel.Range(0, len(libraries), threads, func(low, high int) {
		for i := low; i < high; i++ {
			if policy == CrashOnFailure && atomic.LoadInt32(&failed) != 0 {
				results[i] = Result{Library: libraries[i], Skipped: true}
				metrics.observe(&results[i], 0)
				continue
			}
			start := time.Now()
			results[i] = b.Trace(libraries[i])
			metrics.observe(&results[i], time.Since(start))
			if results[i].Err != nil {
				atomic.StoreInt32(&failed, 1)
			}
		}
	})
	return results
}

// Failures returns the failed libraries of the given results.
func Failures(results []Result) (failures []Failure) {
	for _, result := range results {
		if result.Err != nil {
			failures = append(failures, Failure{Library: result.Library, Err: result.Err})
		}
	}
	return failures
}

// Summaries returns the summaries of the successfully traced
// libraries of the given results.
func Summaries(results []Result) (summaries []LibrarySummary) {
	for _, result := range results {
		if result.Err == nil && !result.Skipped {
			summaries = append(summaries, result.Summary)
		}
	}
	return summaries
}
