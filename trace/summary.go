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
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/readtrace/internal"
)

// Trace table rows carry read identifiers of arbitrary length.
const (
	initialBufferSize = 64 * 1024
	maxLineSize       = 64 * 1024 * 1024
)

// A Histogram counts the reads of a library per status.
type Histogram [NofStatuses]int

// Total returns the number of counted reads.
func (h *Histogram) Total() (total int) {
	for _, n := range h {
		total += n
	}
	return total
}

// Mappable returns the number of reads with a mapping that passed all
// filters.
func (h *Histogram) Mappable() (mappable int) {
	for status, n := range h {
		if Status(status).IsMapped() {
			mappable += n
		}
	}
	return mappable
}

// Add adds the counts of other to h.
func (h *Histogram) Add(other *Histogram) {
	for i, n := range other {
		h[i] += n
	}
}

// A LibrarySummary is one row of a summary table.
type LibrarySummary struct {
	Library        string
	Histogram      Histogram
	UniquelyMapped int
}

// Total returns the number of reads of the library.
func (s *LibrarySummary) Total() int {
	return s.Histogram.Total()
}

// Mappable returns the number of mappable reads of the library.
func (s *LibrarySummary) Mappable() int {
	return s.Histogram.Mappable()
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*100*1000) / 1000
}

// PercentMappable returns the percentage of mappable reads, rounded
// to three decimals.
func (s *LibrarySummary) PercentMappable() float64 {
	return percentage(s.Mappable(), s.Total())
}

// PercentUniquelyMapped returns the percentage of uniquely mapped
// reads, rounded to three decimals.
func (s *LibrarySummary) PercentUniquelyMapped() float64 {
	return percentage(s.UniquelyMapped, s.Total())
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 3, 64)
}

func (s *LibrarySummary) add(other *LibrarySummary) {
	s.Histogram.Add(&other.Histogram)
	s.UniquelyMapped += other.UniquelyMapped
}

// addRow counts one data row of a trace table.
func (s *LibrarySummary) addRow(line string) error {
	fields := strings.Split(line, "\t")
	if len(fields) < nofTraceColumns {
		return fmt.Errorf("trace table row with %v columns instead of %v: %q", len(fields), nofTraceColumns, line)
	}
	status, err := ParseStatus(strings.TrimSpace(fields[nofTraceColumns-1]))
	if err != nil {
		return err
	}
	s.Histogram[status]++
	switch status {
	case MappedInFirstRound:
		if fields[2] == "1" {
			s.UniquelyMapped++
		}
	case MappedInSecondRound:
		if fields[5] == "1" {
			s.UniquelyMapped++
		}
	}
	return nil
}

// Summarize counts the statuses of a library that has just been
// built, without going through its trace table.
func Summarize(lib *Library) (summary LibrarySummary, err error) {
	summary.Library = lib.Name
	for i := 0; i < lib.Len(); i++ {
		status, err := lib.Status(i)
		if err != nil {
			return summary, err
		}
		summary.Histogram[status]++
		switch status {
		case MappedInFirstRound:
			if lib.Record(i).MappedFirstRun.Is(1) {
				summary.UniquelyMapped++
			}
		case MappedInSecondRound:
			if lib.Record(i).MappedSecondRun.Is(1) {
				summary.UniquelyMapped++
			}
		}
	}
	return summary, nil
}

// SummarizeTable counts the rows of a persisted trace table. Comment
// lines starting with '#' and blank lines are ignored.
func SummarizeTable(library string, r io.Reader) (summary LibrarySummary, err error) {
	summary.Library = library
	var p pipeline.Pipeline
	scanner := pipeline.NewScanner(r)
	scanner.Buffer(make([]byte, initialBufferSize), maxLineSize)
	p.Source(scanner)
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			var partial LibrarySummary
			for _, line := range data.([]string) {
				if line == "" || line[0] == '#' || strings.TrimSpace(line) == "" {
					continue
				}
				if err := partial.addRow(line); err != nil {
					p.SetErr(fmt.Errorf("%w, in trace table of library %v", err, library))
					return nil
				}
			}
			return &partial
		})),
		pipeline.Seq(pipeline.Receive(func(_ int, data interface{}) interface{} {
			if partial, ok := data.(*LibrarySummary); ok {
				summary.add(partial)
			}
			return data
		})),
	)
	p.Run()
	return summary, p.Err()
}

// SummarizeTraceFile counts the rows of the named trace table.
func SummarizeTraceFile(library, name string) (summary LibrarySummary, err error) {
	file, err := os.Open(name)
	if err != nil {
		return LibrarySummary{Library: library}, err
	}
	defer func() {
		if nerr := file.Close(); err == nil {
			err = nerr
		}
	}()
	return SummarizeTable(library, file)
}

// SummaryHeader returns the first line of summary tables.
func SummaryHeader() string {
	var b strings.Builder
	b.WriteString("#lib name\ttotal number of reads\tsum of mappable reads\t% mappable reads\tuniquely mapped reads\t% of uniquely mapped reads")
	for _, status := range Statuses() {
		b.WriteByte('\t')
		b.WriteString(status.String())
	}
	return b.String()
}

// AppendTo appends the summary table row for s to out, without a
// trailing newline.
func (s *LibrarySummary) AppendTo(out []byte) []byte {
	out = append(out, s.Library...)
	out = append(out, '\t')
	out = strconv.AppendInt(out, int64(s.Total()), 10)
	out = append(out, '\t')
	out = strconv.AppendInt(out, int64(s.Mappable()), 10)
	out = append(out, '\t')
	out = append(out, formatPercent(s.PercentMappable())...)
	out = append(out, '\t')
	out = strconv.AppendInt(out, int64(s.UniquelyMapped), 10)
	out = append(out, '\t')
	out = append(out, formatPercent(s.PercentUniquelyMapped())...)
	for _, n := range s.Histogram {
		out = append(out, '\t')
		out = strconv.AppendInt(out, int64(n), 10)
	}
	return out
}

// WriteSummary writes a summary table with one row per library, in
// the given order.
func WriteSummary(w io.Writer, summaries []LibrarySummary) error {
	out := bufio.NewWriter(w)
	if _, err := out.WriteString(SummaryHeader() + "\n"); err != nil {
		return err
	}
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	for i := range summaries {
		buf = summaries[i].AppendTo(buf[:0])
		buf = append(buf, '\n')
		if _, err := out.Write(buf); err != nil {
			return err
		}
	}
	return out.Flush()
}

// WriteSummaryFile writes a summary table to the named file. The file
// is only created if the whole table could be written.
func WriteSummaryFile(name string, summaries []LibrarySummary) error {
	return internal.WriteFileAtomic(name, func(out *bufio.Writer) error {
		return WriteSummary(out, summaries)
	})
}

// A Failure records why a library could not be summarized or traced.
type Failure struct {
	Library string
	Err     error
}

// SummarizeLibraries summarizes the trace tables of the given
// libraries. Libraries whose table cannot be read are reported as
// failures and left out of the summaries.
func SummarizeLibraries(locator Locator, libraries []string) (summaries []LibrarySummary, failures []Failure) {
	for _, library := range libraries {
		summary, err := SummarizeTraceFile(library, locator.TraceFile(library))
		if err != nil {
			failures = append(failures, Failure{Library: library, Err: err})
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, failures
}
