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
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dirLocator string

func (dir dirLocator) StageFiles(library string) StageFiles {
	path := func(suffix string) string {
		return filepath.Join(string(dir), library+suffix)
	}
	return StageFiles{
		Reads:               path(".fa"),
		FirstMapping:        path(".first.sam"),
		FirstUnmapped:       path(".unmapped.fa"),
		Clipped:             path(".unmapped.fa.clipped.fa"),
		SizeFilterPassed:    path(".gtoe.fa"),
		SizeFilterFailed:    path(".lt.fa"),
		SecondMapping:       path(".second.sam"),
		SecondUnmapped:      path(".unmapped2.fa"),
		ContentFilterPassed: path(".ltoe.txt"),
		ContentFilterFailed: path(".gt.txt"),
	}
}

func (dir dirLocator) TraceFile(library string) string {
	return filepath.Join(string(dir), "read_tracing", library+".mapping_tracing.csv")
}

func seq(n int) string {
	return strings.Repeat("C", n)
}

func fastaText(records ...interface{}) string {
	var b strings.Builder
	for i := 0; i < len(records); i += 2 {
		fmt.Fprintf(&b, ">%v\n%v\n", records[i], seq(records[i+1].(int)))
	}
	return b.String()
}

func samText(records ...interface{}) string {
	var b strings.Builder
	b.WriteString("@HD\tVN:1.6\tSO:unsorted\n@SQ\tSN:chr1\tLN:10000\n")
	for i := 0; i < len(records); i += 2 {
		n := records[i+1].(int)
		fmt.Fprintf(&b, "%v\t0\tchr1\t100\t60\t%vM\t*\t0\t0\t%v\t%v\n", records[i], n, seq(n), strings.Repeat("I", n))
	}
	return b.String()
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(name), 0700))
	require.NoError(t, ioutil.WriteFile(name, []byte(content), 0600))
}

// writeLibrary creates the stage files of a library that covers every
// final status.
func writeLibrary(t *testing.T, dir dirLocator, library string) {
	t.Helper()
	files := dir.StageFiles(library)
	writeFile(t, files.Reads, fastaText("r1/1 sample=1", 30, "r2", 25, "r3", 20, "r4", 18, "r5", 15, "r6", 40))
	writeFile(t, files.FirstMapping, samText("r1/1", 30, "r6", 40, "r6", 40))
	writeFile(t, files.FirstUnmapped, fastaText("r2", 25, "r3", 20, "r4", 18, "r5", 15))
	writeFile(t, files.Clipped, fastaText("r2", 22, "r3", 10, "r4", 16, "r5", 14))
	writeFile(t, files.SizeFilterPassed, fastaText("r2", 22, "r4", 16, "r5", 14))
	writeFile(t, files.SizeFilterFailed, fastaText("r3", 10))
	writeFile(t, files.SecondMapping, samText("r2", 22, "r4", 16))
	writeFile(t, files.SecondUnmapped, fastaText("r5", 14))
	writeFile(t, files.ContentFilterPassed, samText("r1/1", 20, "r2", 22))
	writeFile(t, files.ContentFilterFailed, samText("r6", 40, "r4", 16))
}

const expectedTable = TraceHeader + `
r1	30	1	-	-	-	True	20	mapped_in_first_round
r2	25	0	22	True	1	True	22	mapped_in_second_round
r3	20	0	10	False	-	-	-	failed_size_filter_after_clipping
r4	18	0	16	True	1	False	-	mapped_in_second_round-failed_content_filter
r5	15	0	14	True	0	-	-	not_mappable_in_second_run
r6	40	2	-	-	-	False	-	mapped_in_first_round-failed_content_filter
`

func TestBuild(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeLibrary(t, dir, "lib1")
	lib, err := NewBuilder(dir, nil).Build("lib1")
	require.NoError(t, err)
	require.Equal(t, 6, lib.Len())

	want := ReadTrace{
		ID:                  "r1",
		Length:              30,
		MappedFirstRun:      Int(1),
		PassedContentFilter: True,
		MappingLength:       Int(20),
	}
	if diff := cmp.Diff(want, lib.Record(0)); diff != "" {
		t.Errorf("Build r1 mismatch (-want +got):\n%s", diff)
	}
	want = ReadTrace{
		ID:                  "r3",
		Length:              20,
		MappedFirstRun:      Int(0),
		LengthAfterClipping: Int(10),
		PassedSizeFilter:    False,
	}
	if diff := cmp.Diff(want, lib.Record(2)); diff != "" {
		t.Errorf("Build r3 mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	histogram, err := WriteTable(&buf, lib)
	require.NoError(t, err)
	assert.Equal(t, expectedTable, buf.String())
	assert.Equal(t, Histogram{1, 1, 1, 1, 1, 1, 0}, histogram)
}

func TestBuildUnknownRead(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeLibrary(t, dir, "lib1")
	files := dir.StageFiles("lib1")
	writeFile(t, files.FirstMapping, samText("r1", 30, "X99", 40))
	_, err := NewBuilder(dir, nil).Build("lib1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrity))
	var ierr *IntegrityError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "lib1", ierr.Library)
	assert.Equal(t, FirstMapping, ierr.Stage)
	assert.Equal(t, "X99", ierr.ReadID)
}

func TestBuildDuplicateRead(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeFile(t, dir.StageFiles("lib1").Reads, fastaText("r1", 10, "r1/2", 10))
	_, err := NewBuilder(dir, nil).Build("lib1")
	var ierr *IntegrityError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, OriginalReads, ierr.Stage)
	assert.Equal(t, "r1", ierr.ReadID)
}

func TestBuildMissingStages(t *testing.T) {
	dir := dirLocator(t.TempDir())
	files := dir.StageFiles("lib1")
	writeFile(t, files.Reads, fastaText("a", 20, "b", 21))
	writeFile(t, files.FirstMapping, samText("a", 20, "b", 21, "b", 21))
	writeFile(t, files.ContentFilterPassed, samText("a", 20, "b", 21))
	lib, err := NewBuilder(dir, nil).Build("lib1")
	require.NoError(t, err)
	summary, err := Summarize(lib)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Histogram[MappedInFirstRound])
	assert.Equal(t, 1, summary.UniquelyMapped)

	_, err = NewBuilder(dirLocator(t.TempDir()), nil).Build("lib1")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
}

func TestBuildEmptyLibrary(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeFile(t, dir.StageFiles("empty").Reads, "")
	lib, err := NewBuilder(dir, nil).Build("empty")
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Len())
	var buf bytes.Buffer
	_, err = WriteTable(&buf, lib)
	require.NoError(t, err)
	assert.Equal(t, TraceHeader+"\n", buf.String())
}

func TestBuildUnmappedFlag(t *testing.T) {
	dir := dirLocator(t.TempDir())
	files := dir.StageFiles("lib1")
	writeFile(t, files.Reads, fastaText("a", 20))
	writeFile(t, files.FirstMapping, samText("a", 20)+"a\t4\t*\t0\t0\t*\t*\t0\t0\t"+seq(20)+"\t"+strings.Repeat("I", 20)+"\n")
	lib, err := NewBuilder(dir, nil).Build("lib1")
	require.NoError(t, err)
	assert.Equal(t, Int(1), lib.Record(0).MappedFirstRun)
}

func TestTraceIdempotent(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeLibrary(t, dir, "lib1")
	builder := NewBuilder(dir, nil)

	first := builder.Trace("lib1")
	require.NoError(t, first.Err)
	firstContent, err := ioutil.ReadFile(first.TraceFile)
	require.NoError(t, err)
	assert.Equal(t, expectedTable, string(firstContent))

	second := builder.Trace("lib1")
	require.NoError(t, second.Err)
	secondContent, err := ioutil.ReadFile(second.TraceFile)
	require.NoError(t, err)
	assert.Equal(t, firstContent, secondContent)

	entries, err := ioutil.ReadDir(filepath.Dir(first.TraceFile))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTraceFailureLeavesNoTable(t *testing.T) {
	dir := dirLocator(t.TempDir())
	writeLibrary(t, dir, "lib1")
	// r5 now has second round unset, which no rule classifies.
	require.NoError(t, os.Remove(dir.StageFiles("lib1").SecondUnmapped))
	result := NewBuilder(dir, nil).Trace("lib1")
	require.Error(t, result.Err)
	assert.True(t, errors.Is(result.Err, ErrIntegrity))
	_, err := os.Stat(dir.TraceFile("lib1"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuildUnmappedOverridesMapping(t *testing.T) {
	dir := dirLocator(t.TempDir())
	files := dir.StageFiles("lib1")
	writeFile(t, files.Reads, fastaText("a", 20, "b", 20))
	writeFile(t, files.FirstMapping, samText("a", 20, "a", 20))
	writeFile(t, files.FirstUnmapped, fastaText("a", 20, "b", 20))
	writeFile(t, files.Clipped, fastaText("a", 8, "b", 15))
	writeFile(t, files.SizeFilterPassed, fastaText("", 3, "b", 15))
	writeFile(t, files.SizeFilterFailed, fastaText("/1", 3, "a", 8, "", 2))
	writeFile(t, files.SecondUnmapped, fastaText("", 4, "b", 15))
	lib, err := NewBuilder(dir, nil).Build("lib1")
	require.NoError(t, err)

	want := ReadTrace{
		ID:                  "a",
		Length:              20,
		MappedFirstRun:      Int(0),
		LengthAfterClipping: Int(8),
		PassedSizeFilter:    False,
	}
	if diff := cmp.Diff(want, lib.Record(0)); diff != "" {
		t.Errorf("Build a mismatch (-want +got):\n%s", diff)
	}
	status, err := lib.Status(0)
	require.NoError(t, err)
	assert.Equal(t, FailedSizeFilterAfterClipping, status)

	want = ReadTrace{
		ID:                  "b",
		Length:              20,
		MappedFirstRun:      Int(0),
		LengthAfterClipping: Int(15),
		PassedSizeFilter:    True,
		MappedSecondRun:     Int(0),
	}
	if diff := cmp.Diff(want, lib.Record(1)); diff != "" {
		t.Errorf("Build b mismatch (-want +got):\n%s", diff)
	}
	status, err = lib.Status(1)
	require.NoError(t, err)
	assert.Equal(t, NotMappableInSecondRun, status)
}

func TestBuildBlankIDsInClippedReads(t *testing.T) {
	dir := dirLocator(t.TempDir())
	files := dir.StageFiles("lib1")
	writeFile(t, files.Reads, fastaText("a", 20))
	writeFile(t, files.FirstUnmapped, fastaText("a", 20))
	writeFile(t, files.Clipped, fastaText("a", 8, "", 3))
	_, err := NewBuilder(dir, nil).Build("lib1")
	var ierr *IntegrityError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, ClippedReads, ierr.Stage)
	assert.Equal(t, "", ierr.ReadID)
}

func TestBuildNonASCIIIDs(t *testing.T) {
	dir := dirLocator(t.TempDir())
	files := dir.StageFiles("lib1")
	writeFile(t, files.Reads, fastaText("rä1", 20, "rö2", 20))
	writeFile(t, files.FirstMapping, samText("rä1", 20, "rö2/1", 20))
	writeFile(t, files.ContentFilterPassed, samText("rä1", 20))
	writeFile(t, files.ContentFilterFailed, samText("rö2/1", 20))
	lib, err := NewBuilder(dir, nil).Build("lib1")
	require.NoError(t, err)
	require.Equal(t, 2, lib.Len())
	assert.Equal(t, "rä1", lib.ID(0))
	assert.Equal(t, "rö2", lib.ID(1))
	summary, err := Summarize(lib)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Histogram[MappedInFirstRound])
	assert.Equal(t, 1, summary.Histogram[MappedInFirstRoundFailedContentFilter])
}
