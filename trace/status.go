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

import "fmt"

// Status is the final classification of a read.
type Status int8

// The statuses, in the column order of summary tables.
const (
	MappedInFirstRound Status = iota
	MappedInFirstRoundFailedContentFilter
	MappedInSecondRound
	MappedInSecondRoundFailedContentFilter
	FailedSizeFilterAfterClipping
	NotMappableInSecondRun
	// LostSomewhere is never returned by Classify. It only counts rows
	// of trace tables that carry it as a status.
	LostSomewhere

	// NofStatuses is the number of different statuses.
	NofStatuses = int(LostSomewhere) + 1
)

var statusNames = [NofStatuses]string{
	MappedInFirstRound:                     "mapped_in_first_round",
	MappedInFirstRoundFailedContentFilter:  "mapped_in_first_round-failed_content_filter",
	MappedInSecondRound:                    "mapped_in_second_round",
	MappedInSecondRoundFailedContentFilter: "mapped_in_second_round-failed_content_filter",
	FailedSizeFilterAfterClipping:          "failed_size_filter_after_clipping",
	NotMappableInSecondRun:                 "not_mappable_in_second_run",
	LostSomewhere:                          "lost_somewhere",
}

var statusValues = func() map[string]Status {
	values := make(map[string]Status, NofStatuses)
	for status, name := range statusNames {
		values[name] = Status(status)
	}
	return values
}()

func (s Status) String() string {
	if s < 0 || int(s) >= NofStatuses {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus returns the Status with the given table name.
func ParseStatus(name string) (Status, error) {
	if status, ok := statusValues[name]; ok {
		return status, nil
	}
	return 0, fmt.Errorf("unknown read status %q", name)
}

// Statuses returns all statuses in column order.
func Statuses() []Status {
	statuses := make([]Status, NofStatuses)
	for i := range statuses {
		statuses[i] = Status(i)
	}
	return statuses
}

// IsMapped reports whether s stands for a mapping that passed all
// filters.
func (s Status) IsMapped() bool {
	return s == MappedInFirstRound || s == MappedInSecondRound
}

func undefined(t *ReadTrace, reason string) error {
	return &IntegrityError{Stage: Classification, ReadID: t.ID, Reason: reason}
}

// Classify determines the final status of a completed trace.
//
// The decision is made on the content filter outcome first, then on
// the size filter and second mapping for reads that never reached the
// content filter. Combinations of evidence that well-formed stage
// files cannot produce result in an *IntegrityError.
func Classify(t ReadTrace) (Status, error) {
	switch t.PassedContentFilter {
	case True:
		switch {
		case t.MappedFirstRun.Positive():
			return MappedInFirstRound, nil
		case t.MappedSecondRun.Positive():
			return MappedInSecondRound, nil
		default:
			return 0, undefined(&t, "passed the content filter without any mapping")
		}
	case False:
		switch {
		case t.MappedFirstRun.Positive():
			return MappedInFirstRoundFailedContentFilter, nil
		case t.MappedSecondRun.Positive():
			return MappedInSecondRoundFailedContentFilter, nil
		default:
			return 0, undefined(&t, "failed the content filter without any mapping")
		}
	default:
		switch {
		case t.PassedSizeFilter == False:
			return FailedSizeFilterAfterClipping, nil
		case t.MappedSecondRun.Is(0):
			return NotMappableInSecondRun, nil
		case t.MappedSecondRun.Positive():
			return 0, undefined(&t, "mapped in the second round, but never reached the content filter")
		default:
			return 0, undefined(&t, "no outcome for any stage after the first mapping")
		}
	}
}
