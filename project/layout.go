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

// Package project locates the files of an RNA-seq mapping project
// folder and reads its configuration.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/exascience/readtrace/trace"
)

// Folders of a project, relative to its root.
const (
	InputFolder                = "input"
	OutputFolder               = "output"
	ReadsFolder                = "input/RNA_seqs"
	FirstMappingFolder         = "output/read_mappings_first_run"
	FirstUnmappedFolder        = "output/unmapped_reads_of_first_mapping"
	SecondMappingFolder        = "output/read_mappings_second_run"
	SecondUnmappedFolder       = "output/unmapped_reads_of_second_mapping"
	CombinedMappingsFolder     = "output/read_mappings_combined"
	TracingFolder              = "output/read_tracing"
	ReportsFolder              = "output/reports_and_stats"
	TracingSummaryFile         = "read_tracing_summary.csv"
	traceFileSuffix            = ".mapping_tracing.csv"
	unmappedSuffix             = ".unmapped.fa"
	clippedSuffix              = ".clipped.fa"
	contentFilterFileExtension = "%_A.txt"
)

// A Layout computes the paths of the files of a project folder.
// It implements trace.Locator.
type Layout struct {
	Root   string
	Config Config
}

// NewLayout returns the Layout of the project in root.
func NewLayout(root string, config Config) *Layout {
	return &Layout{Root: root, Config: config}
}

func (layout *Layout) path(elem ...string) string {
	return filepath.Join(append([]string{layout.Root}, elem...)...)
}

// IsProjectFolder reports whether the root has the input and output
// folders of a project.
func (layout *Layout) IsProjectFolder() bool {
	for _, folder := range []string{InputFolder, OutputFolder} {
		if info, err := os.Stat(layout.path(folder)); err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}

// Libraries returns the names of the read libraries of the project,
// sorted by name. Hidden files are ignored.
func (layout *Layout) Libraries() ([]string, error) {
	entries, err := os.ReadDir(layout.path(ReadsFolder))
	if err != nil {
		return nil, err
	}
	var libraries []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		libraries = append(libraries, entry.Name())
	}
	sort.Strings(libraries)
	return libraries, nil
}

// formatContent writes a percentage the way the pipeline names its
// files, for example 70.0.
func formatContent(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ReadsFile returns the original read file of a library.
func (layout *Layout) ReadsFile(library string) string {
	return layout.path(ReadsFolder, library)
}

// FirstMappingFile returns the alignments of the first mapping round.
func (layout *Layout) FirstMappingFile(library string) string {
	return layout.path(FirstMappingFolder, library+"_mapped_to_"+layout.Config.IndexName)
}

// FirstUnmappedFile returns the reads left unmapped by the first
// mapping round.
func (layout *Layout) FirstUnmappedFile(library string) string {
	return layout.path(FirstUnmappedFolder, library+unmappedSuffix)
}

// ClippedFile returns the clipped unmapped reads.
func (layout *Layout) ClippedFile(library string) string {
	return layout.FirstUnmappedFile(library) + clippedSuffix
}

// SizeFilterPassedFile returns the clipped reads that are at least
// MinSeqLength long.
func (layout *Layout) SizeFilterPassedFile(library string) string {
	return layout.ClippedFile(library) + ".size_filtered_gtoe_" + strconv.Itoa(layout.Config.MinSeqLength) + "bp.fa"
}

// SizeFilterFailedFile returns the clipped reads that are shorter than
// MinSeqLength.
func (layout *Layout) SizeFilterFailedFile(library string) string {
	return layout.ClippedFile(library) + ".size_filtered_lt_" + strconv.Itoa(layout.Config.MinSeqLength) + "bp.fa"
}

// SecondMappingFile returns the alignments of the second mapping
// round.
func (layout *Layout) SecondMappingFile(library string) string {
	return layout.path(SecondMappingFolder, library+".clipped_mapped_to_"+layout.Config.IndexName)
}

// SecondUnmappedFile returns the reads left unmapped by the second
// mapping round.
func (layout *Layout) SecondUnmappedFile(library string) string {
	return layout.path(SecondUnmappedFolder, library+unmappedSuffix)
}

// CombinedMappingsFile returns the combined alignments of both
// mapping rounds.
func (layout *Layout) CombinedMappingsFile(library string) string {
	return layout.path(CombinedMappingsFolder, library+"_mapped_to_"+layout.Config.IndexName+".combined")
}

// ContentFilterPassedFile returns the combined alignments with at
// most MaxAContent percent A.
func (layout *Layout) ContentFilterPassedFile(library string) string {
	return layout.CombinedMappingsFile(library) + ".filtered_ltoe_" + formatContent(layout.Config.MaxAContent) + contentFilterFileExtension
}

// ContentFilterFailedFile returns the combined alignments with more
// than MaxAContent percent A.
func (layout *Layout) ContentFilterFailedFile(library string) string {
	return layout.CombinedMappingsFile(library) + ".filtered_gt_" + formatContent(layout.Config.MaxAContent) + contentFilterFileExtension
}

// StageFiles returns all stage files of a library.
func (layout *Layout) StageFiles(library string) trace.StageFiles {
	return trace.StageFiles{
		Reads:               layout.ReadsFile(library),
		FirstMapping:        layout.FirstMappingFile(library),
		FirstUnmapped:       layout.FirstUnmappedFile(library),
		Clipped:             layout.ClippedFile(library),
		SizeFilterPassed:    layout.SizeFilterPassedFile(library),
		SizeFilterFailed:    layout.SizeFilterFailedFile(library),
		SecondMapping:       layout.SecondMappingFile(library),
		SecondUnmapped:      layout.SecondUnmappedFile(library),
		ContentFilterPassed: layout.ContentFilterPassedFile(library),
		ContentFilterFailed: layout.ContentFilterFailedFile(library),
	}
}

// TraceFile returns the trace table of a library.
func (layout *Layout) TraceFile(library string) string {
	return layout.path(TracingFolder, library+traceFileSuffix)
}

// SummaryFile returns the summary table of the project.
func (layout *Layout) SummaryFile() string {
	return layout.path(ReportsFolder, TracingSummaryFile)
}
