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
	"strconv"
	"strings"
)

// Unset is how fields without evidence are written to trace tables.
const Unset = "-"

// An OptInt is an integer field of a ReadTrace that may not be set.
type OptInt struct {
	Value int
	Set   bool
}

// Int returns an OptInt that is set to v.
func Int(v int) OptInt {
	return OptInt{Value: v, Set: true}
}

// Positive reports whether the field is set to a value > 0.
func (o OptInt) Positive() bool {
	return o.Set && o.Value > 0
}

// Is reports whether the field is set to v.
func (o OptInt) Is(v int) bool {
	return o.Set && o.Value == v
}

func (o OptInt) String() string {
	if !o.Set {
		return Unset
	}
	return strconv.Itoa(o.Value)
}

// AppendTo appends the table representation of o to out.
func (o OptInt) AppendTo(out []byte) []byte {
	if !o.Set {
		return append(out, Unset...)
	}
	return strconv.AppendInt(out, int64(o.Value), 10)
}

// A TriState is a Boolean field of a ReadTrace that may not be set.
type TriState int8

// TriState values.
const (
	NotSet TriState = iota
	False
	True
)

// Bool returns the TriState for b.
func Bool(b bool) TriState {
	if b {
		return True
	}
	return False
}

func (t TriState) String() string {
	switch t {
	case True:
		return "True"
	case False:
		return "False"
	default:
		return Unset
	}
}

// AppendTo appends the table representation of t to out.
func (t TriState) AppendTo(out []byte) []byte {
	return append(out, t.String()...)
}

// A ReadTrace is the reconstructed way of one read through the
// stages of the pipeline.
type ReadTrace struct {
	ID string
	// Length is the length of the original read.
	Length              int
	LengthAfterClipping OptInt
	MappedFirstRun      OptInt
	MappedSecondRun     OptInt
	PassedSizeFilter    TriState
	PassedContentFilter TriState
	// MappingLength is the length of the aligned sequence of a
	// mapping that passed the content filter.
	MappingLength OptInt
}

// NormalizeID strips everything from the first '/' onwards. Some read
// mappers append such suffixes to read identifiers, so identifiers
// are only compared in normalized form.
func NormalizeID(id string) string {
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i]
	}
	return id
}
