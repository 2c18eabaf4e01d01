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
	"fmt"
)

// ErrIntegrity is matched by every *IntegrityError.
var ErrIntegrity = errors.New("integrity fault")

// An IntegrityError reports stage files that are inconsistent with
// each other, for example evidence for a read that is not part of the
// original read file.
type IntegrityError struct {
	Library string
	Stage   Stage
	ReadID  string
	Reason  string
}

func (err *IntegrityError) Error() string {
	if err.Library == "" {
		return fmt.Sprintf("%v: read %q in %v: %v", ErrIntegrity, err.ReadID, err.Stage, err.Reason)
	}
	return fmt.Sprintf("%v: library %v, read %q in %v: %v", ErrIntegrity, err.Library, err.ReadID, err.Stage, err.Reason)
}

// Unwrap returns ErrIntegrity.
func (err *IntegrityError) Unwrap() error {
	return ErrIntegrity
}
