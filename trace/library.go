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

import "github.com/willf/bitset"

// A Library holds the traces of all reads of one read library while
// they are being built.
//
// Traces are stored column-wise and indexed by the position of the
// read in the original read file. Optional integer columns have a
// bitset that records which entries are set, and tri-state columns
// are represented by a pair of bitsets.
//
// A Library is not safe for concurrent use. Each library is built
// by a single goroutine.
type Library struct {
	Name string

	ids   []string
	index map[string]int

	length              []int
	lengthAfterClipping []int
	mappedFirstRun      []int
	mappedSecondRun     []int
	mappingLength       []int

	lengthAfterClippingSet *bitset.BitSet
	mappedFirstRunSet      *bitset.BitSet
	mappedSecondRunSet     *bitset.BitSet
	mappingLengthSet       *bitset.BitSet

	sizeFilterSet       *bitset.BitSet
	sizeFilterPassed    *bitset.BitSet
	contentFilterSet    *bitset.BitSet
	contentFilterPassed *bitset.BitSet
}

// NewLibrary returns an empty Library.
func NewLibrary(name string) *Library {
	return &Library{
		Name:                   name,
		index:                  make(map[string]int),
		lengthAfterClippingSet: bitset.New(0),
		mappedFirstRunSet:      bitset.New(0),
		mappedSecondRunSet:     bitset.New(0),
		mappingLengthSet:       bitset.New(0),
		sizeFilterSet:          bitset.New(0),
		sizeFilterPassed:       bitset.New(0),
		contentFilterSet:       bitset.New(0),
		contentFilterPassed:    bitset.New(0),
	}
}

// Len returns the number of reads in the library.
func (l *Library) Len() int {
	return len(l.ids)
}

// ID returns the normalized identifier of the i-th read.
func (l *Library) ID(i int) string {
	return l.ids[i]
}

// Seed adds a read of the original read file. The identifier must be
// normalized already, and must not have been seeded before.
func (l *Library) Seed(id string, length int) error {
	if _, found := l.index[id]; found {
		return &IntegrityError{Library: l.Name, Stage: OriginalReads, ReadID: id, Reason: "duplicate read identifier"}
	}
	l.index[id] = len(l.ids)
	l.ids = append(l.ids, id)
	l.length = append(l.length, length)
	l.lengthAfterClipping = append(l.lengthAfterClipping, 0)
	l.mappedFirstRun = append(l.mappedFirstRun, 0)
	l.mappedSecondRun = append(l.mappedSecondRun, 0)
	l.mappingLength = append(l.mappingLength, 0)
	return nil
}

// Lookup returns the index of the read with the given normalized
// identifier. Evidence for reads that were never seeded is an
// integrity fault.
func (l *Library) Lookup(stage Stage, id string) (int, error) {
	if i, found := l.index[id]; found {
		return i, nil
	}
	return -1, &IntegrityError{Library: l.Name, Stage: stage, ReadID: id, Reason: "read not in original read file"}
}

func getOpt(values []int, set *bitset.BitSet, i int) OptInt {
	if !set.Test(uint(i)) {
		return OptInt{}
	}
	return Int(values[i])
}

func getTriState(set, value *bitset.BitSet, i int) TriState {
	if !set.Test(uint(i)) {
		return NotSet
	}
	return Bool(value.Test(uint(i)))
}

// Record returns the trace of the i-th read.
func (l *Library) Record(i int) ReadTrace {
	return ReadTrace{
		ID:                  l.ids[i],
		Length:              l.length[i],
		LengthAfterClipping: getOpt(l.lengthAfterClipping, l.lengthAfterClippingSet, i),
		MappedFirstRun:      getOpt(l.mappedFirstRun, l.mappedFirstRunSet, i),
		MappedSecondRun:     getOpt(l.mappedSecondRun, l.mappedSecondRunSet, i),
		PassedSizeFilter:    getTriState(l.sizeFilterSet, l.sizeFilterPassed, i),
		PassedContentFilter: getTriState(l.contentFilterSet, l.contentFilterPassed, i),
		MappingLength:       getOpt(l.mappingLength, l.mappingLengthSet, i),
	}
}

// Status classifies the i-th read.
func (l *Library) Status(i int) (Status, error) {
	status, err := Classify(l.Record(i))
	if ierr, ok := err.(*IntegrityError); ok {
		ierr.Library = l.Name
	}
	return status, err
}

func increment(values []int, set *bitset.BitSet, i int) {
	if set.Test(uint(i)) {
		values[i]++
	} else {
		values[i] = 1
		set.Set(uint(i))
	}
}

func setOpt(values []int, set *bitset.BitSet, i, value int) {
	values[i] = value
	set.Set(uint(i))
}

func setTriState(set, value *bitset.BitSet, i int, b bool) {
	set.Set(uint(i))
	value.SetTo(uint(i), b)
}

func (l *Library) addFirstRunMapping(i int)  { increment(l.mappedFirstRun, l.mappedFirstRunSet, i) }
func (l *Library) addSecondRunMapping(i int) { increment(l.mappedSecondRun, l.mappedSecondRunSet, i) }

func (l *Library) setFirstRunUnmapped(i int)  { setOpt(l.mappedFirstRun, l.mappedFirstRunSet, i, 0) }
func (l *Library) setSecondRunUnmapped(i int) { setOpt(l.mappedSecondRun, l.mappedSecondRunSet, i, 0) }

func (l *Library) setLengthAfterClipping(i, length int) {
	setOpt(l.lengthAfterClipping, l.lengthAfterClippingSet, i, length)
}

func (l *Library) setSizeFilter(i int, passed bool) {
	setTriState(l.sizeFilterSet, l.sizeFilterPassed, i, passed)
}

func (l *Library) setContentFilter(i int, passed bool) {
	setTriState(l.contentFilterSet, l.contentFilterPassed, i, passed)
}

func (l *Library) setMappingLength(i, length int) {
	setOpt(l.mappingLength, l.mappingLengthSet, i, length)
}
