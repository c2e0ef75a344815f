// cigarco: coordinate transformation along CIGAR alignments.
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
// <https://github.com/ExaScience/cigarco/blob/master/LICENSE.txt>.

// Package mapping transforms query coordinates into target
// coordinates along CIGAR alignments.
//
// A Mapper owns one Alignment and answers Transform requests for it,
// building its prefix-sum and backtracking indices on first use and
// memoizing results. A Registry owns one Mapper per query sequence
// name and keeps Mapper identities stable when alignments for the
// same name are updated.
package mapping

import (
	"math"

	"github.com/exascience/cigarco/cigar"
)

// An Alignment relates a query sequence to a target sequence, starting
// at position Start in the target, via a CIGAR string.
//
// Alignment values are immutable and can be compared with ==. Use
// NewAlignment to create them; the zero value is not a valid
// alignment.
type Alignment struct {
	queryName, targetName string
	start                 int
	cigar                 string
}

// NewAlignment returns a validated Alignment, or a *ValidationError.
func NewAlignment(queryName, targetName string, start int, cigarString string) (Alignment, error) {
	if start < 0 {
		return Alignment{}, &ValidationError{QueryName: queryName, Reason: "negative start position"}
	}
	ops, err := cigar.Scan(cigarString)
	if err != nil {
		return Alignment{}, &ValidationError{QueryName: queryName, Reason: "bad CIGAR", Err: err}
	}
	if !lengthsFit(start, ops) {
		return Alignment{}, &ValidationError{QueryName: queryName, Reason: "alignment length overflows int"}
	}
	return Alignment{
		queryName:  queryName,
		targetName: targetName,
		start:      start,
		cigar:      cigarString,
	}, nil
}

// lengthsFit reports whether the total query and target consumption of
// ops, and start plus the target consumption, are representable as int.
// All lengths and start are non-negative.
func lengthsFit(start int, ops []cigar.CigarOperation) bool {
	queryLength, targetEnd := 0, start
	for _, op := range ops {
		if cigar.ConsumesQuery(op.Operation) {
			if op.Length > math.MaxInt-queryLength {
				return false
			}
			queryLength += op.Length
		}
		if cigar.ConsumesTarget(op.Operation) {
			if op.Length > math.MaxInt-targetEnd {
				return false
			}
			targetEnd += op.Length
		}
	}
	return true
}

// QueryName returns the name of the aligned query sequence.
func (aln Alignment) QueryName() string { return aln.queryName }

// TargetName returns the name of the target sequence.
func (aln Alignment) TargetName() string { return aln.targetName }

// Start returns the target position the alignment starts at.
func (aln Alignment) Start() int { return aln.start }

// Cigar returns the CIGAR string of the alignment.
func (aln Alignment) Cigar() string { return aln.cigar }

// A TransformationQuery asks for the target coordinate of a position
// in the named query sequence.
type TransformationQuery struct {
	QueryName  string
	Coordinate int
}

// A TransformedResult is a position in a target sequence.
type TransformedResult struct {
	SeqName    string
	Coordinate int
}
