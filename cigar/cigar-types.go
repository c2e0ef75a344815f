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

// Package cigar validates and scans run-length CIGAR strings, and
// classifies CIGAR operations by the sequences they consume.
package cigar

import (
	"fmt"
	"strconv"
)

// An Operation is a single-character CIGAR operation code.
type Operation = byte

// The supported CIGAR operations.
const (
	Match     Operation = 'M'
	Insertion Operation = 'I'
	Deletion  Operation = 'D'
	Skipped   Operation = 'N'
	SoftClip  Operation = 'S'
	HardClip  Operation = 'H'
	Padding   Operation = 'P'
	Equal     Operation = '='
	Mismatch  Operation = 'X'
)

// Operations lists all supported CIGAR operations.
const Operations = "MIDNSHP=X"

// IsOperation returns true for the nine supported operation codes.
func IsOperation(char byte) bool {
	switch char {
	case Match, Insertion, Deletion, Skipped, SoftClip, HardClip, Padding, Equal, Mismatch:
		return true
	default:
		return false
	}
}

func isDigit(char byte) bool { return ('0' <= char) && (char <= '9') }

// ConsumesQuery returns true for operations that advance a position
// in the query sequence.
func ConsumesQuery(operation Operation) bool {
	switch operation {
	case Match, Insertion, SoftClip, Equal, Mismatch:
		return true
	default:
		return false
	}
}

// ConsumesTarget returns true for operations that advance a position
// in the target sequence.
func ConsumesTarget(operation Operation) bool {
	switch operation {
	case Match, Deletion, Skipped, Equal, Mismatch:
		return true
	default:
		return false
	}
}

// A CigarOperation is one run of a CIGAR string.
type CigarOperation struct {
	Length    int
	Operation Operation
}

func (op CigarOperation) String() string {
	return strconv.Itoa(op.Length) + string(op.Operation)
}

// IsAnchor returns true if the operation consumes both query and
// target positions and has a positive length.
func (op CigarOperation) IsAnchor() bool {
	return op.Length > 0 && ConsumesQuery(op.Operation) && ConsumesTarget(op.Operation)
}

// An InvalidCigarError reports a CIGAR string that does not conform
// to the grammar.
type InvalidCigarError struct {
	Cigar    string
	Position int
	Reason   string
}

func (err *InvalidCigarError) Error() string {
	if err.Position < 0 {
		return fmt.Sprintf("invalid CIGAR string %q: %v", err.Cigar, err.Reason)
	}
	return fmt.Sprintf("invalid CIGAR string %q at position %v: %v", err.Cigar, err.Position, err.Reason)
}
