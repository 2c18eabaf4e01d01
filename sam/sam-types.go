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

package sam

// Alignment represents one alignment line of a SAM file, or one
// record of a BAM file.
//
// Optional fields are not interpreted, TAGS holds their raw,
// tab-separated text.
type Alignment struct {
	QNAME string
	FLAG  uint16
	RNAME string
	POS   int32
	MAPQ  byte
	CIGAR string
	RNEXT string
	PNEXT int32
	TLEN  int32
	SEQ   string
	QUAL  string
	TAGS  string
}

// Unmapped is the FLAG bit of alignment records without a mapping.
const Unmapped = 0x4

// IsUnmapped reports whether the Unmapped bit is set.
func (aln *Alignment) IsUnmapped() bool { return (aln.FLAG & Unmapped) != 0 }

// SeqLength returns the length of the aligned sequence, or 0 if the
// sequence is not stored ("*").
func (aln *Alignment) SeqLength() int {
	if aln.SEQ == "*" {
		return 0
	}
	return len(aln.SEQ)
}
