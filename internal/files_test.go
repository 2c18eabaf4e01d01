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

package internal

import (
	"bufio"
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "sub", "table.csv")
	if err := WriteFileAtomic(name, func(out *bufio.Writer) error {
		_, err := out.WriteString("a\tb\n")
		return err
	}); err != nil {
		t.Fatal(err)
	}
	content, err := ioutil.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "a\tb\n" {
		t.Error("WriteFileAtomic content failed")
	}

	failure := errors.New("failure")
	if err := WriteFileAtomic(name, func(out *bufio.Writer) error {
		_, _ = out.WriteString("partial")
		return failure
	}); err != failure {
		t.Error("WriteFileAtomic error failed")
	}
	content, err = ioutil.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "a\tb\n" {
		t.Error("WriteFileAtomic overwrite after failure failed")
	}
	entries, err := ioutil.ReadDir(filepath.Dir(name))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Error("WriteFileAtomic temporary file cleanup failed")
	}
}
