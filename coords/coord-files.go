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

// Package coords reads alignment and query files, runs coordinate
// transformations through a mapping.Registry, and writes the results.
//
// Alignment lines have the form
//
//	query-name <TAB> target-name <TAB> start <TAB> cigar
//
// query lines have the form
//
//	query-name <TAB> coordinate
//
// and result lines have the form
//
//	query-name <TAB> coordinate <TAB> target-name <TAB> target-coordinate
package coords

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/exascience/cigarco/mapping"
	"github.com/exascience/cigarco/utils"
)

// An ErrorMode determines what happens with records or queries that
// cannot be processed.
type ErrorMode byte

const (
	// Ignore skips failing lines silently.
	Ignore ErrorMode = 'I'
	// Report logs failing lines and skips them.
	Report ErrorMode = 'R'
	// Abort stops processing at the first failing line.
	Abort ErrorMode = 'F'
)

// ParseErrorMode accepts I, R, F or their long names ignore, report,
// abort.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(s) {
	case "i", "ignore":
		return Ignore, nil
	case "r", "report":
		return Report, nil
	case "f", "abort":
		return Abort, nil
	default:
		return 0, fmt.Errorf("invalid error mode %v", s)
	}
}

func (mode ErrorMode) String() string {
	return string(mode)
}

// A LineError reports a line of an alignment or query file that could
// not be processed.
type LineError struct {
	Kind       string
	LineNumber int
	Line       string
	Err        error
}

func (err *LineError) Error() string {
	return fmt.Sprintf("could not process %v definition '%v' in line %v: %v", err.Kind, err.Line, err.LineNumber, err.Err)
}

func (err *LineError) Unwrap() error { return err.Err }

// ParseAlignmentLine parses a tab-separated alignment record. Fields
// after the fourth are ignored.
func ParseAlignmentLine(line string) (mapping.Alignment, error) {
	var sc StringScanner
	sc.Reset(strings.TrimSpace(line))
	queryName := sc.ParseField()
	targetName := sc.ParseField()
	start := sc.ParseInt()
	cigarString := sc.ParseField()
	if err := sc.Err(); err != nil {
		return mapping.Alignment{}, err
	}
	return mapping.NewAlignment(queryName, *utils.Intern(targetName), start, cigarString)
}

// ParseQueryLine parses a tab-separated transformation query. The
// coordinate is not range-checked here.
func ParseQueryLine(line string) (query mapping.TransformationQuery, err error) {
	var sc StringScanner
	sc.Reset(strings.TrimSpace(line))
	query.QueryName = sc.ParseField()
	query.Coordinate = sc.ParseInt()
	err = sc.Err()
	return
}

// FormatResult appends a result line to out.
func FormatResult(out []byte, query mapping.TransformationQuery, result mapping.TransformedResult) []byte {
	out = append(out, query.QueryName...)
	out = append(out, '\t')
	out = strconv.AppendInt(out, int64(query.Coordinate), 10)
	out = append(out, '\t')
	out = append(out, result.SeqName...)
	out = append(out, '\t')
	out = strconv.AppendInt(out, int64(result.Coordinate), 10)
	return append(out, '\n')
}
