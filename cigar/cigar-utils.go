package cigar

import (
	"strconv"
)

// check performs the grammar scan and returns a descriptive error for
// the first violation, or nil.
func check(cigar string) error {
	if len(cigar) == 0 {
		return &InvalidCigarError{Cigar: cigar, Position: -1, Reason: "empty string"}
	}
	var prev byte
	for i := 0; i < len(cigar); i++ {
		char := cigar[i]
		switch {
		case isDigit(char):
		case IsOperation(char):
			if i == 0 || !isDigit(prev) {
				return &InvalidCigarError{Cigar: cigar, Position: i, Reason: "operation " + string(char) + " not preceded by a length"}
			}
		default:
			return &InvalidCigarError{Cigar: cigar, Position: i, Reason: "unsupported character " + strconv.QuoteRune(rune(char))}
		}
		prev = char
	}
	if !IsOperation(prev) {
		return &InvalidCigarError{Cigar: cigar, Position: len(cigar) - 1, Reason: "trailing length without operation"}
	}
	return nil
}

// Validate determines whether the given string is a non-empty
// sequence of (length, operation) pairs, in a single left-to-right
// pass.
func Validate(cigar string) bool {
	return check(cigar) == nil
}

// Parse splits a CIGAR string into its runs in left-to-right
// order. The string must have passed Validate; it is not checked
// again here. Leading zeros in lengths are allowed.
func Parse(cigar string) []CigarOperation {
	var ops []CigarOperation
	length := 0
	for i := 0; i < len(cigar); i++ {
		if char := cigar[i]; isDigit(char) {
			length = length*10 + int(char-'0')
		} else {
			ops = append(ops, CigarOperation{Length: length, Operation: char})
			length = 0
		}
	}
	return ops
}

// Scan validates the given CIGAR string and, if it is valid, parses
// it. In contrast to Parse, lengths that do not fit into an int are
// reported as an error.
func Scan(cigar string) ([]CigarOperation, error) {
	if err := check(cigar); err != nil {
		return nil, err
	}
	var ops []CigarOperation
	for i := 0; i < len(cigar); {
		j := i
		for isDigit(cigar[j]) {
			j++
		}
		length, err := strconv.Atoi(cigar[i:j])
		if err != nil {
			return nil, &InvalidCigarError{Cigar: cigar, Position: i, Reason: err.Error()}
		}
		ops = append(ops, CigarOperation{Length: length, Operation: cigar[j]})
		i = j + 1
	}
	return ops, nil
}

// Format renders the given runs as a CIGAR string.
func Format(ops []CigarOperation) string {
	var buf []byte
	for _, op := range ops {
		buf = append(strconv.AppendInt(buf, int64(op.Length), 10), op.Operation)
	}
	return string(buf)
}

// QueryLength sums the lengths of all runs that consume query positions.
func QueryLength(ops []CigarOperation) (length int) {
	for _, op := range ops {
		if ConsumesQuery(op.Operation) {
			length += op.Length
		}
	}
	return
}

// TargetLength sums the lengths of all runs that consume target positions.
func TargetLength(ops []CigarOperation) (length int) {
	for _, op := range ops {
		if ConsumesTarget(op.Operation) {
			length += op.Length
		}
	}
	return
}
