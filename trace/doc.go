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

// Package trace reconstructs, per read of a read library, which steps
// of a two-round RNA-seq read mapping pipeline the read went through,
// and with what outcome.
//
// A Builder seeds one ReadTrace per read of the original read file,
// and then folds in the evidence from the output files of the
// pipeline stages in a fixed order: the first mapping, the unmapped
// reads of the first mapping, the clipped unmapped reads, the size
// filter, the second mapping, the unmapped reads of the second
// mapping, and the nucleotide content filter on the combined
// mappings. Classify assigns each completed ReadTrace a final Status,
// WriteTable persists the traces of a library, and SummarizeTable
// aggregates persisted tables into per-library statistics.
package trace
