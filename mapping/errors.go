package mapping

import "fmt"

// A ValidationError reports an alignment record that cannot be
// constructed, either because of a negative start position or an
// invalid CIGAR string.
type ValidationError struct {
	QueryName string
	Reason    string
	Err       error
}

func (err *ValidationError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("invalid alignment for query %q: %v: %v", err.QueryName, err.Reason, err.Err)
	}
	return fmt.Sprintf("invalid alignment for query %q: %v", err.QueryName, err.Reason)
}

func (err *ValidationError) Unwrap() error { return err.Err }

// An OutOfRangeError reports a query coordinate outside of
// [0, max(0, query length - 1)].
type OutOfRangeError struct {
	Coordinate  int
	QueryLength int
}

func (err *OutOfRangeError) Error() string {
	return fmt.Sprintf("coordinate %v out of range for query of length %v", err.Coordinate, err.QueryLength)
}

// A NotFoundError reports a query name without a registered alignment.
type NotFoundError struct {
	QueryName string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("no alignment registered for query %q", err.QueryName)
}
