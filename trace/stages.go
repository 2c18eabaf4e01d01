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

// Stage identifies one source of evidence for a library.
type Stage int8

// Stages in the order in which their evidence is folded into the
// traces of a library.
const (
	OriginalReads Stage = iota
	FirstMapping
	FirstUnmapped
	ClippedReads
	SizeFilterPassed
	SizeFilterFailed
	SecondMapping
	SecondUnmapped
	ContentFilterPassed
	ContentFilterFailed
	// Classification is not a file, but the stage at which Classify
	// reports undefined combinations of evidence.
	Classification
)

var stageNames = [...]string{
	OriginalReads:       "original reads",
	FirstMapping:        "first mapping",
	FirstUnmapped:       "unmapped reads of first mapping",
	ClippedReads:        "clipped unmapped reads",
	SizeFilterPassed:    "size filter passed reads",
	SizeFilterFailed:    "size filter failed reads",
	SecondMapping:       "second mapping",
	SecondUnmapped:      "unmapped reads of second mapping",
	ContentFilterPassed: "content filter passed mappings",
	ContentFilterFailed: "content filter failed mappings",
	Classification:      "classification",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown stage"
	}
	return stageNames[s]
}

// StageFiles holds the paths of the files that a Builder reads for
// one library.
type StageFiles struct {
	Reads               string
	FirstMapping        string
	FirstUnmapped       string
	Clipped             string
	SizeFilterPassed    string
	SizeFilterFailed    string
	SecondMapping       string
	SecondUnmapped      string
	ContentFilterPassed string
	ContentFilterFailed string
}

// File returns the path for the given stage.
func (files *StageFiles) File(stage Stage) string {
	switch stage {
	case OriginalReads:
		return files.Reads
	case FirstMapping:
		return files.FirstMapping
	case FirstUnmapped:
		return files.FirstUnmapped
	case ClippedReads:
		return files.Clipped
	case SizeFilterPassed:
		return files.SizeFilterPassed
	case SizeFilterFailed:
		return files.SizeFilterFailed
	case SecondMapping:
		return files.SecondMapping
	case SecondUnmapped:
		return files.SecondUnmapped
	case ContentFilterPassed:
		return files.ContentFilterPassed
	case ContentFilterFailed:
		return files.ContentFilterFailed
	default:
		return ""
	}
}

// A Locator knows where the stage files and the trace table of a
// library are stored.
type Locator interface {
	StageFiles(library string) StageFiles
	TraceFile(library string) string
}
