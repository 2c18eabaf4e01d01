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
	"io"
	"strconv"

	"github.com/exascience/readtrace/internal"
)

// TraceHeader is the first line of every trace table.
const TraceHeader = "#Read id\tRead length\tNumber of mappings first run\tlength after clipping\tPassed size filter\tNumber of mappings second run\tPassed content filter\tMapping length\tFinal status"

// The number of columns of a trace table.
const nofTraceColumns = 9

// AppendRow appends the trace table row for t with the given status
// to out, without a trailing newline.
func AppendRow(out []byte, t ReadTrace, status Status) []byte {
	out = append(out, t.ID...)
	out = append(out, '\t')
	out = strconv.AppendInt(out, int64(t.Length), 10)
	out = append(out, '\t')
	out = t.MappedFirstRun.AppendTo(out)
	out = append(out, '\t')
	out = t.LengthAfterClipping.AppendTo(out)
	out = append(out, '\t')
	out = t.PassedSizeFilter.AppendTo(out)
	out = append(out, '\t')
	out = t.MappedSecondRun.AppendTo(out)
	out = append(out, '\t')
	out = t.PassedContentFilter.AppendTo(out)
	out = append(out, '\t')
	out = t.MappingLength.AppendTo(out)
	out = append(out, '\t')
	return append(out, status.String()...)
}

// WriteTable writes the trace table of the library to w, one row per
// read in the order of the original read file. It returns the status
// histogram of the library.
//
// If a read cannot be classified, WriteTable stops and returns the
// *IntegrityError. Rows written before that point are not retracted,
// so use WriteTraceFile to avoid partial tables.
func WriteTable(w io.Writer, lib *Library) (histogram Histogram, err error) {
	out := bufio.NewWriter(w)
	if _, err = out.WriteString(TraceHeader + "\n"); err != nil {
		return histogram, err
	}
	buf := internal.ReserveByteBuffer()
	defer func() { internal.ReleaseByteBuffer(buf) }()
	for i := 0; i < lib.Len(); i++ {
		status, err := lib.Status(i)
		if err != nil {
			return histogram, err
		}
		histogram[status]++
		buf = AppendRow(buf[:0], lib.Record(i), status)
		buf = append(buf, '\n')
		if _, err = out.Write(buf); err != nil {
			return histogram, err
		}
	}
	return histogram, out.Flush()
}

// WriteTraceFile writes the trace table of the library to the named
// file. The file is only created if the whole table could be written.
func WriteTraceFile(name string, lib *Library) (histogram Histogram, err error) {
	err = internal.WriteFileAtomic(name, func(out *bufio.Writer) (err error) {
		histogram, err = WriteTable(out, lib)
		return err
	})
	return histogram, err
}
