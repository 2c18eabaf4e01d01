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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy("report")
	require.NoError(t, err)
	assert.Equal(t, ReportFailures, policy)
	policy, err = ParsePolicy("crash")
	require.NoError(t, err)
	assert.Equal(t, CrashOnFailure, policy)
	assert.Equal(t, "crash", policy.String())
	_, err = ParsePolicy("ignore")
	assert.Error(t, err)
}

func writeBrokenLibrary(t *testing.T, dir dirLocator, library string) {
	t.Helper()
	files := dir.StageFiles(library)
	writeFile(t, files.Reads, fastaText("r1", 20))
	writeFile(t, files.FirstMapping, samText("X99", 20))
}

func TestTraceLibrariesReport(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeLibrary(t, dir, "good1")
	writeBrokenLibrary(t, dir, "bad")
	writeLibrary(t, dir, "good2")
	metrics := NewMetrics()

	results := TraceLibraries(NewBuilder(dir, nil), []string{"good1", "bad", "good2"}, 2, ReportFailures, metrics)
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, ErrIntegrity)
	assert.NoError(t, results[2].Err)
	for _, result := range results {
		assert.False(t, result.Skipped)
	}
	_, err := os.Stat(dir.TraceFile("bad"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir.TraceFile("good2"))
	assert.NoError(t, err)

	failures := Failures(results)
	require.Len(t, failures, 1)
	assert.Equal(t, "bad", failures[0].Library)
	assert.Len(t, Summaries(results), 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.libraries.WithLabelValues(OutcomeTraced)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.libraries.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.reads.WithLabelValues("good1", "not_mappable_in_second_run")))
}

func TestTraceLibrariesCrash(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeBrokenLibrary(t, dir, "bad")
	writeLibrary(t, dir, "good")

	results := TraceLibraries(NewBuilder(dir, nil), []string{"bad", "good"}, 1, CrashOnFailure, nil)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.True(t, results[1].Skipped)
	assert.NoError(t, results[1].Err)
	_, err := os.Stat(dir.TraceFile("good"))
	assert.True(t, os.IsNotExist(err))
}

func TestTraceLibrariesEmpty(t *testing.T) {
	assert.Empty(t, TraceLibraries(NewBuilder(dirLocator(t.TempDir()), nil), nil, 0, ReportFailures, nil))
}

func TestMetricsWriteFile(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeLibrary(t, dir, "lib1")
	metrics := NewMetrics()
	TraceLibraries(NewBuilder(dir, nil), []string{"lib1"}, 0, ReportFailures, metrics)

	name := filepath.Join(string(dir), "metrics.prom")
	require.NoError(t, metrics.WriteFile(name))
	content, err := ioutil.ReadFile(name)
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.Contains(text, `readtrace_libraries_total{outcome="traced"} 1`))
	assert.True(t, strings.Contains(text, `readtrace_reads_total{library="lib1",status="mapped_in_first_round"} 1`))
	assert.True(t, strings.Contains(text, "readtrace_library_trace_seconds_count 1"))
}
