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

// Package sam reads alignment output of read mappers in SAM or BAM
// format.
//
// Only the mandatory fields of an alignment are interpreted. SAM text
// files are split into lines and parsed with a pargo pipeline, see
// https://godoc.org/github.com/ExaScience/pargo/pipeline, but the
// alignments are always handed to the caller in file order. BAM files
// are decoded with github.com/biogo/hts.
package sam
