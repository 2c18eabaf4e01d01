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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biogo/hts/bam"
	htssam "github.com/biogo/hts/sam"
	"github.com/exascience/pargo/pipeline"
	"github.com/shenwei356/xopen"
)

type (
	// alignmentReader is a common interface for reading both SAM and BAM files.
	alignmentReader interface {
		scan(receive func(*Alignment) error) error
		io.Closer
	}

	// InputFile represents a SAM or BAM file for input.
	InputFile struct {
		reader alignmentReader
	}
)

// File extensions that are not read as SAM text.
const (
	BamExt  = ".bam"
	cramExt = ".cram"
)

// Alignment lines hold full read sequences, so lines may be much
// longer than the bufio.Scanner default.
const (
	initialBufferSize = 64 * 1024
	maxLineSize       = 64 * 1024 * 1024
)

// Open a SAM or BAM file for input.
//
// If the filename extension is not .bam, then SAM text is always
// assumed. SAM text may be compressed (gzip, bzip2, xz, zstd). An
// empty file is a valid SAM file without alignments.
//
// If the file does not exist, the returned error satisfies
// os.IsNotExist.
func Open(name string) (*InputFile, error) {
	switch filepath.Ext(name) {
	case BamExt:
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		reader, err := bam.NewReader(file, 0)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("%w, while opening BAM file %v", err, name)
		}
		return &InputFile{reader: &bamReader{file: file, bam: reader}}, nil
	case cramExt:
		return nil, fmt.Errorf("CRAM format not supported when opening %v", name)
	default:
		info, err := os.Stat(name)
		if err != nil {
			return nil, err
		}
		if info.Size() == 0 {
			return &InputFile{reader: &samReader{}}, nil
		}
		in, err := xopen.Ropen(name)
		if err == xopen.ErrNoContent {
			return &InputFile{reader: &samReader{}}, nil
		} else if err != nil {
			return nil, err
		}
		return &InputFile{reader: &samReader{rc: in, buf: in.Reader}}, nil
	}
}

// Scan calls receive for each alignment of the file, in file order.
// Scanning stops at the first error returned by receive, and that
// error is returned.
func (f *InputFile) Scan(receive func(*Alignment) error) error {
	return f.reader.scan(receive)
}

// Close closes the SAM/BAM input file.
func (f *InputFile) Close() error {
	return f.reader.Close()
}

// Scan opens the given SAM or BAM file, calls receive for each
// alignment in file order, and closes the file again.
func Scan(name string, receive func(*Alignment) error) (err error) {
	f, err := Open(name)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := f.Close(); err == nil {
			err = nerr
		}
	}()
	return f.Scan(receive)
}

type samReader struct {
	rc  io.Closer
	buf *bufio.Reader
}

func (r *samReader) Close() error {
	if r.rc == nil {
		return nil
	}
	err := r.rc.Close()
	r.rc, r.buf = nil, nil
	return err
}

// scan parses alignment lines in parallel, but hands them to receive
// strictly in file order.
func (r *samReader) scan(receive func(*Alignment) error) error {
	if r.buf == nil {
		return nil
	}
	if _, err := SkipHeader(r.buf); err != nil {
		return err
	}
	var p pipeline.Pipeline
	scanner := pipeline.NewScanner(r.buf)
	scanner.Buffer(make([]byte, initialBufferSize), maxLineSize)
	p.Source(scanner)
	p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			lines := data.([]string)
			alns := make([]*Alignment, 0, len(lines))
			for _, line := range lines {
				if len(line) == 0 {
					continue
				}
				aln, err := ParseAlignment(line)
				if err != nil {
					p.SetErr(fmt.Errorf("%w, while parsing SAM alignment %v", err, line))
					return alns
				}
				alns = append(alns, aln)
			}
			return alns
		})),
	)
	failed := false
	p.Add(pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
		if failed {
			return data
		}
		for _, aln := range data.([]*Alignment) {
			if err := receive(aln); err != nil {
				failed = true
				p.SetErr(err)
				break
			}
		}
		return data
	})))
	p.Run()
	return p.Err()
}

type bamReader struct {
	file *os.File
	bam  *bam.Reader
}

func (r *bamReader) Close() error {
	err := r.bam.Close()
	if nerr := r.file.Close(); err == nil {
		err = nerr
	}
	return err
}

func (r *bamReader) scan(receive func(*Alignment) error) error {
	for {
		rec, err := r.bam.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := receive(fromRecord(rec)); err != nil {
			return err
		}
	}
}

func refName(ref *htssam.Reference) string {
	if ref == nil {
		return "*"
	}
	return ref.Name()
}

func fromRecord(rec *htssam.Record) *Alignment {
	aln := &Alignment{
		QNAME: rec.Name,
		FLAG:  uint16(rec.Flags),
		RNAME: refName(rec.Ref),
		POS:   int32(rec.Pos + 1),
		MAPQ:  rec.MapQ,
		CIGAR: rec.Cigar.String(),
		RNEXT: refName(rec.MateRef),
		PNEXT: int32(rec.MatePos + 1),
		TLEN:  int32(rec.TempLen),
		SEQ:   "*",
		QUAL:  "*",
	}
	if rec.Seq.Length > 0 {
		aln.SEQ = string(rec.Seq.Expand())
	}
	if len(rec.Qual) > 0 && rec.Qual[0] != 0xff {
		qual := make([]byte, len(rec.Qual))
		for i, q := range rec.Qual {
			qual[i] = q + 33
		}
		aln.QUAL = string(qual)
	}
	return aln
}
