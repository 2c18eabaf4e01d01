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

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

func (sc *StringScanner) doString() string {
	if sc.err != nil {
		return ""
	}
	value, ok := sc.readUntil('\t')
	if !ok {
		sc.fail("missing tabulator in SAM alignment line")
		return ""
	}
	return value
}

func (sc *StringScanner) doInt32() int32 {
	if sc.err != nil {
		return 0
	}
	value, err := strconv.ParseInt(sc.doString(), 10, 32)
	if err != nil {
		sc.fail("%v in SAM alignment line", err)
	}
	return int32(value)
}

func (sc *StringScanner) doUint(bitSize int) uint64 {
	if sc.err != nil {
		return 0
	}
	value, err := strconv.ParseUint(sc.doString(), 10, bitSize)
	if err != nil {
		sc.fail("%v in SAM alignment line", err)
	}
	return value
}

// ParseAlignment parses the mandatory fields of the alignment line
// that the scanner was reset to. Optional fields are kept as raw text.
func (sc *StringScanner) ParseAlignment() *Alignment {
	aln := new(Alignment)

	aln.QNAME = sc.doString()
	aln.FLAG = uint16(sc.doUint(16))
	aln.RNAME = sc.doString()
	aln.POS = sc.doInt32()
	aln.MAPQ = byte(sc.doUint(8))
	aln.CIGAR = sc.doString()
	aln.RNEXT = sc.doString()
	aln.PNEXT = sc.doInt32()
	aln.TLEN = sc.doInt32()
	aln.SEQ = sc.doString()
	aln.QUAL, _ = sc.readUntil('\t')
	aln.TAGS = sc.rest()

	return aln
}

// ParseAlignment parses a single SAM alignment line without its
// terminating newline.
func ParseAlignment(line string) (*Alignment, error) {
	var sc StringScanner
	sc.Reset(line)
	aln := sc.ParseAlignment()
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if aln.QNAME == "" {
		return nil, errors.New("empty QNAME in SAM alignment line")
	}
	return aln, nil
}

// SkipHeader skips the header section of a SAM file. It returns the
// number of header lines that were skipped.
func SkipHeader(reader *bufio.Reader) (lines int, err error) {
	for {
		data, err := reader.Peek(1)
		if err != nil {
			if err == io.EOF {
				return lines, nil
			}
			return lines, err
		}
		if data[0] != '@' {
			break
		}
		for {
			b, err := reader.ReadByte()
			if err != nil {
				if err == io.EOF {
					return lines, nil
				}
				return lines, err
			}
			if b == '\n' {
				break
			}
		}
		lines++
	}
	return lines, nil
}
