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

// Package fasta provides sequential access to the reads of FASTA files.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/shenwei356/xopen"
)

const (
	initialBufferSize = 64 * 1024
	maxLineSize       = 64 * 1024 * 1024
)

// Record is one entry of a FASTA file.
type Record struct {
	// Header is the header line without the leading '>'.
	Header string
	// ID is the first whitespace-delimited token of the header.
	ID  string
	Seq []byte
}

// A Reader iterates lazily over the records of a FASTA file.
//
// Compressed files (gzip, bzip2, xz, zstd) are decompressed
// transparently. An empty file is a valid FASTA file without any
// records.
type Reader struct {
	name    string
	rc      io.Closer
	scanner *bufio.Scanner
	pending []byte
	record  Record
	err     error
}

// Open opens a FASTA file for reading.
//
// If the file does not exist, the returned error satisfies
// os.IsNotExist.
func Open(name string) (*Reader, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return &Reader{name: name}, nil
	}
	in, err := xopen.Ropen(name)
	if err == xopen.ErrNoContent {
		return &Reader{name: name}, nil
	} else if err != nil {
		return nil, err
	}
	return newReader(name, in, in), nil
}

// NewReader returns a Reader that parses FASTA records from r.
// The name is only used in error messages.
func NewReader(name string, r io.Reader) *Reader {
	return newReader(name, r, nil)
}

func newReader(name string, r io.Reader, rc io.Closer) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialBufferSize), maxLineSize)
	return &Reader{name: name, rc: rc, scanner: scanner}
}

// asciiSpace lists the bytes that delimit the tokens of a header.
const asciiSpace = " \t\n\v\f\r"

// IDFromHeader returns the first whitespace-delimited token of a FASTA
// header line. A leading '>' is ignored. Only ASCII whitespace
// delimits tokens, other bytes are part of the identifier.
func IDFromHeader(b []byte) string {
	if len(b) > 0 && b[0] == '>' {
		b = b[1:]
	}
	b = bytes.TrimLeft(b, asciiSpace)
	if i := bytes.IndexAny(b, asciiSpace); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Next advances to the next record, which is then available through
// Record. It returns false at the end of the input or after an error.
func (r *Reader) Next() bool {
	if r.err != nil || r.scanner == nil {
		return false
	}
	header := r.pending
	r.pending = nil
	for header == nil {
		if !r.scanner.Scan() {
			r.err = r.scanner.Err()
			return false
		}
		b := r.scanner.Bytes()
		if len(bytes.TrimSpace(b)) == 0 {
			continue
		}
		if b[0] != '>' {
			r.err = fmt.Errorf("invalid fasta file %v - missing header before %q", r.name, b)
			return false
		}
		header = append([]byte(nil), b...)
	}
	var seq []byte
	for r.scanner.Scan() {
		b := r.scanner.Bytes()
		if len(b) > 0 && b[0] == '>' {
			r.pending = append([]byte(nil), b...)
			break
		}
		seq = append(seq, bytes.TrimSpace(b)...)
	}
	if r.pending == nil {
		if err := r.scanner.Err(); err != nil {
			r.err = fmt.Errorf("%w, while reading fasta file %v", err, r.name)
			return false
		}
	}
	r.record = Record{
		Header: string(bytes.TrimRight(header[1:], "\r\n")),
		ID:     IDFromHeader(header),
		Seq:    seq,
	}
	return true
}

// Record returns the record that the most recent call to Next
// produced.
func (r *Reader) Record() Record {
	return r.record
}

// Err returns the first error that was encountered by the Reader.
func (r *Reader) Err() error {
	return r.err
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.rc == nil {
		return nil
	}
	err := r.rc.Close()
	r.rc = nil
	return err
}

// Scan opens the given FASTA file, calls f for each record in file
// order, and closes the file again. Scanning stops at the first
// error returned by f.
func Scan(name string, f func(Record) error) (err error) {
	r, err := Open(name)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := r.Close(); err == nil {
			err = nerr
		}
	}()
	for r.Next() {
		if err = f(r.Record()); err != nil {
			return err
		}
	}
	return r.Err()
}
