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
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/exascience/readtrace/fasta"
	"github.com/exascience/readtrace/sam"
)

// A Builder reconstructs the traces of read libraries from their
// stage files.
type Builder struct {
	Locator Locator
	// Logger receives progress messages. If nil, nothing is logged.
	Logger *log.Logger
}

// NewBuilder returns a Builder for the given Locator.
func NewBuilder(locator Locator, logger *log.Logger) *Builder {
	return &Builder{Locator: locator, Logger: logger}
}

func (b *Builder) logger() *log.Logger {
	if b.Logger == nil {
		return log.New(ioutil.Discard, "", 0)
	}
	return b.Logger
}

type pass struct {
	stage Stage
	fold  func(l *Library, name string) (int, error)
}

// The evidence passes after seeding, in the order in which they must
// be applied. Later passes override the results of earlier ones.
var passes = [...]pass{
	{FirstMapping, foldMappings(FirstMapping, (*Library).addFirstRunMapping)},
	{FirstUnmapped, foldReads(FirstUnmapped, false, func(l *Library, i int, _ fasta.Record) {
		l.setFirstRunUnmapped(i)
	})},
	{ClippedReads, foldReads(ClippedReads, false, func(l *Library, i int, rec fasta.Record) {
		l.setLengthAfterClipping(i, len(rec.Seq))
	})},
	{SizeFilterPassed, foldReads(SizeFilterPassed, true, func(l *Library, i int, _ fasta.Record) {
		l.setSizeFilter(i, true)
	})},
	{SizeFilterFailed, foldReads(SizeFilterFailed, true, func(l *Library, i int, _ fasta.Record) {
		l.setSizeFilter(i, false)
	})},
	{SecondMapping, foldMappings(SecondMapping, (*Library).addSecondRunMapping)},
	{SecondUnmapped, foldReads(SecondUnmapped, true, func(l *Library, i int, _ fasta.Record) {
		l.setSecondRunUnmapped(i)
	})},
	{ContentFilterPassed, foldContentFilter(ContentFilterPassed, true)},
	{ContentFilterFailed, foldContentFilter(ContentFilterFailed, false)},
}

// Build seeds the traces of the given library from its original read
// file, and folds in the evidence of all other stage files.
//
// A missing stage file means that no read reached that stage. Only
// the original read file must exist. Evidence for a read that is not
// part of the original read file results in an *IntegrityError.
func (b *Builder) Build(library string) (*Library, error) {
	logger := b.logger()
	files := b.Locator.StageFiles(library)
	lib := NewLibrary(library)
	if err := fasta.Scan(files.Reads, func(rec fasta.Record) error {
		return lib.Seed(NormalizeID(rec.ID), len(rec.Seq))
	}); err != nil {
		return nil, fmt.Errorf("%w, while reading %v of library %v", err, OriginalReads, library)
	}
	logger.Printf("Library %v: %v reads in %v.\n", library, lib.Len(), files.Reads)
	for _, p := range passes {
		name := files.File(p.stage)
		n, err := p.fold(lib, name)
		switch {
		case err == nil:
			logger.Printf("Library %v: %v entries in %v.\n", library, n, name)
		case os.IsNotExist(err):
			logger.Printf("Library %v: no %v, file %v does not exist.\n", library, p.stage, name)
		default:
			return nil, fmt.Errorf("%w, while reading %v of library %v", err, p.stage, library)
		}
	}
	return lib, nil
}

func foldReads(stage Stage, skipBlank bool, apply func(l *Library, i int, rec fasta.Record)) func(*Library, string) (int, error) {
	return func(l *Library, name string) (n int, err error) {
		err = fasta.Scan(name, func(rec fasta.Record) error {
			id := NormalizeID(rec.ID)
			if skipBlank && id == "" {
				return nil
			}
			i, err := l.Lookup(stage, id)
			if err != nil {
				return err
			}
			apply(l, i, rec)
			n++
			return nil
		})
		return n, err
	}
}

// foldMappings counts the alignments per read. Records flagged as
// unmapped are checked, but not counted.
func foldMappings(stage Stage, add func(l *Library, i int)) func(*Library, string) (int, error) {
	return func(l *Library, name string) (n int, err error) {
		err = sam.Scan(name, func(aln *sam.Alignment) error {
			i, err := l.Lookup(stage, NormalizeID(aln.QNAME))
			if err != nil {
				return err
			}
			if !aln.IsUnmapped() {
				add(l, i)
				n++
			}
			return nil
		})
		return n, err
	}
}

func foldContentFilter(stage Stage, passed bool) func(*Library, string) (int, error) {
	return func(l *Library, name string) (n int, err error) {
		err = sam.Scan(name, func(aln *sam.Alignment) error {
			i, err := l.Lookup(stage, NormalizeID(aln.QNAME))
			if err != nil {
				return err
			}
			l.setContentFilter(i, passed)
			if passed {
				l.setMappingLength(i, aln.SeqLength())
			}
			n++
			return nil
		})
		return n, err
	}
}
