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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		trace ReadTrace
		want  Status
	}{
		{"first round", ReadTrace{MappedFirstRun: Int(1), PassedContentFilter: True}, MappedInFirstRound},
		{"first round multi", ReadTrace{MappedFirstRun: Int(3), PassedContentFilter: True}, MappedInFirstRound},
		{"first round failed content", ReadTrace{MappedFirstRun: Int(2), PassedContentFilter: False}, MappedInFirstRoundFailedContentFilter},
		{"second round", ReadTrace{MappedFirstRun: Int(0), MappedSecondRun: Int(1), PassedSizeFilter: True, PassedContentFilter: True}, MappedInSecondRound},
		{"second round failed content", ReadTrace{MappedFirstRun: Int(0), MappedSecondRun: Int(4), PassedSizeFilter: True, PassedContentFilter: False}, MappedInSecondRoundFailedContentFilter},
		{"failed size filter", ReadTrace{MappedFirstRun: Int(0), LengthAfterClipping: Int(8), PassedSizeFilter: False}, FailedSizeFilterAfterClipping},
		{"not mappable", ReadTrace{MappedFirstRun: Int(0), PassedSizeFilter: True, MappedSecondRun: Int(0)}, NotMappableInSecondRun},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status, err := Classify(test.trace)
			require.NoError(t, err)
			assert.Equal(t, test.want, status)
		})
	}
}

func TestClassifyUndefined(t *testing.T) {
	tests := []struct {
		name  string
		trace ReadTrace
	}{
		{"no evidence", ReadTrace{ID: "r1"}},
		{"content passed without mapping", ReadTrace{ID: "r1", MappedFirstRun: Int(0), PassedContentFilter: True}},
		{"content failed without mapping", ReadTrace{ID: "r1", PassedContentFilter: False}},
		{"second mapping without content filter", ReadTrace{ID: "r1", MappedFirstRun: Int(0), PassedSizeFilter: True, MappedSecondRun: Int(2)}},
		{"only first run unmapped", ReadTrace{ID: "r1", MappedFirstRun: Int(0)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Classify(test.trace)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIntegrity))
			var ierr *IntegrityError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, Classification, ierr.Stage)
			assert.Equal(t, "r1", ierr.ReadID)
		})
	}
}

func TestStatusNames(t *testing.T) {
	for _, status := range Statuses() {
		parsed, err := ParseStatus(status.String())
		require.NoError(t, err)
		assert.Equal(t, status, parsed)
	}
	_, err := ParseStatus("mapped")
	assert.Error(t, err)
	assert.Equal(t, "lost_somewhere", LostSomewhere.String())
	assert.Equal(t, NofStatuses, len(Statuses()))
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "read1", NormalizeID("read1/1"))
	assert.Equal(t, "read1", NormalizeID("read1"))
	assert.Equal(t, "", NormalizeID("/2"))
}

func TestAppendRow(t *testing.T) {
	row := AppendRow(nil, ReadTrace{
		ID:                  "r2",
		Length:              25,
		MappedFirstRun:      Int(0),
		LengthAfterClipping: Int(22),
		PassedSizeFilter:    True,
		MappedSecondRun:     Int(1),
		PassedContentFilter: True,
		MappingLength:       Int(22),
	}, MappedInSecondRound)
	assert.Equal(t, "r2\t25\t0\t22\tTrue\t1\tTrue\t22\tmapped_in_second_round", string(row))
	row = AppendRow(nil, ReadTrace{ID: "r3", Length: 20, MappedFirstRun: Int(0), LengthAfterClipping: Int(10), PassedSizeFilter: False}, FailedSizeFilterAfterClipping)
	assert.Equal(t, "r3\t20\t0\t10\tFalse\t-\t-\t-\tfailed_size_filter_after_clipping", string(row))
}

func TestLibraryLargeValues(t *testing.T) {
	length := math.MaxInt32
	length++
	lib := NewLibrary("lib1")
	require.NoError(t, lib.Seed("r1", length))
	lib.setLengthAfterClipping(0, length)
	lib.setMappingLength(0, length)
	record := lib.Record(0)
	assert.Equal(t, length, record.Length)
	assert.Equal(t, Int(length), record.LengthAfterClipping)
	assert.Equal(t, Int(length), record.MappingLength)
}
