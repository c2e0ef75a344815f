package coords

import (
	"errors"
	"strconv"
	"strings"
)

var errMissingField = errors.New("missing tab-separated field")

/*
A scanner to scan/parse ASCII strings representing tab-separated lines
in alignment and query files.

The zero StringScanner is valid and empty.
*/
type StringScanner struct {
	index int
	data  string
	done  bool
	err   error
}

/*
Returns the error that occurred during scanning/parsing.
*/
func (sc *StringScanner) Err() error {
	return sc.err
}

/*
Resets the scanner, and initializes it with the given string.
*/
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = s
	sc.done = false
	sc.err = nil
}

/*
Returns the number of ASCII characters that still need to be
scanned/parsed. Returns 0 if Err() would return a non-nil value.
*/
func (sc *StringScanner) Len() int {
	if sc.err != nil {
		return 0
	}
	return len(sc.data) - sc.index
}

func (sc *StringScanner) readUntil(c byte) (s string, found bool) {
	if sc.err != nil {
		return "", false
	}
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] == c {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], false
}

/*
ParseField returns the next tab-separated field. Asking for a field
after the last one sets an error.
*/
func (sc *StringScanner) ParseField() string {
	if sc.err != nil {
		return ""
	}
	if sc.done {
		sc.err = errMissingField
		return ""
	}
	value, found := sc.readUntil('\t')
	if !found {
		sc.done = true
	}
	return value
}

/*
ParseInt returns the next tab-separated field as a base-10 integer.
Spaces around the digits are ignored.
*/
func (sc *StringScanner) ParseInt() int {
	field := sc.ParseField()
	if sc.err != nil {
		return 0
	}
	value, err := strconv.Atoi(strings.Trim(field, " "))
	if err != nil {
		sc.err = err
	}
	return value
}
