package mapping

import (
	"sort"
	"sync"

	"github.com/willf/bitset"

	"github.com/exascience/cigarco/cigar"
)

// A Mapper transforms query coordinates into target coordinates for a
// single Alignment.
//
// The prefix-sum and backtracking indices are built on first use
// after construction or replacement of the alignment, and transformed
// coordinates are memoized until the alignment is replaced. A Mapper
// is safe for concurrent use; all access to its derived state is
// serialized.
type Mapper struct {
	mutex     sync.Mutex
	alignment Alignment

	// nil when stale
	operations           []cigar.CigarOperation
	queryPrefixSums      []int
	targetPrefixSums     []int
	matchingBacktracking []int
	anchors              *bitset.BitSet

	memo map[int]int
}

// NewMapper returns a Mapper for the given alignment. No index is
// computed yet.
func NewMapper(aln Alignment) *Mapper {
	return &Mapper{alignment: aln, memo: make(map[int]int)}
}

// Alignment returns the alignment the mapper currently transforms
// coordinates for.
func (m *Mapper) Alignment() Alignment {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.alignment
}

func (m *Mapper) reset(aln Alignment) {
	m.alignment = aln
	m.operations = nil
	m.queryPrefixSums = nil
	m.targetPrefixSums = nil
	m.matchingBacktracking = nil
	m.anchors = nil
	m.memo = make(map[int]int)
}

// Replace makes the mapper transform coordinates for the given
// alignment from now on. All indices and memoized results are
// discarded, even if the alignment did not change.
func (m *Mapper) Replace(aln Alignment) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.reset(aln)
}

// Update is like Replace, except that it does nothing if aln is equal
// to the current alignment. It returns true if the alignment was
// replaced.
func (m *Mapper) Update(aln Alignment) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.alignment == aln {
		return false
	}
	m.reset(aln)
	return true
}

// ComputePrefixSums returns the inclusive running totals of values:
// result[i] is the sum of values[0] through values[i].
func ComputePrefixSums(values []int) []int {
	result := make([]int, len(values))
	sum := 0
	for i, value := range values {
		sum += value
		result[i] = sum
	}
	return result
}

func (m *Mapper) cigarOperations() []cigar.CigarOperation {
	if m.operations == nil {
		m.operations = cigar.Parse(m.alignment.cigar)
	}
	return m.operations
}

func (m *Mapper) consumptionPrefixSums(consumes func(cigar.Operation) bool) []int {
	ops := m.cigarOperations()
	values := make([]int, len(ops))
	for i, op := range ops {
		if consumes(op.Operation) {
			values[i] = op.Length
		}
	}
	return ComputePrefixSums(values)
}

func (m *Mapper) ensureQueryPrefixSums() []int {
	if m.queryPrefixSums == nil {
		m.queryPrefixSums = m.consumptionPrefixSums(cigar.ConsumesQuery)
		IndexBuildCount.WithLabelValues("query").Inc()
	}
	return m.queryPrefixSums
}

func (m *Mapper) ensureTargetPrefixSums() []int {
	if m.targetPrefixSums == nil {
		m.targetPrefixSums = m.consumptionPrefixSums(cigar.ConsumesTarget)
		IndexBuildCount.WithLabelValues("target").Inc()
	}
	return m.targetPrefixSums
}

func (m *Mapper) ensureMatchingBacktracking() []int {
	if m.matchingBacktracking == nil {
		ops := m.cigarOperations()
		anchors := bitset.New(uint(len(ops)))
		for i, op := range ops {
			if op.IsAnchor() {
				anchors.Set(uint(i))
			}
		}
		backtracking := make([]int, len(ops))
		last := -1
		for i := range ops {
			if anchors.Test(uint(i)) {
				last = i
			}
			backtracking[i] = last
		}
		m.anchors = anchors
		m.matchingBacktracking = backtracking
		IndexBuildCount.WithLabelValues("backtracking").Inc()
	}
	return m.matchingBacktracking
}

// QueryPrefixSums returns, for each CIGAR operation, the number of
// query positions consumed up to and including that operation. The
// result must not be modified.
func (m *Mapper) QueryPrefixSums() []int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.ensureQueryPrefixSums()
}

// TargetPrefixSums returns, for each CIGAR operation, the number of
// target positions consumed up to and including that operation. The
// result must not be modified.
func (m *Mapper) TargetPrefixSums() []int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.ensureTargetPrefixSums()
}

// MatchingBacktracking returns, for each CIGAR operation, the index of
// the last operation at or before it that consumes both query and
// target positions with a positive length, or -1 if there is none.
// The result must not be modified.
func (m *Mapper) MatchingBacktracking() []int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.ensureMatchingBacktracking()
}

// Anchors returns the set of operation indices that consume both query
// and target positions with a positive length.
func (m *Mapper) Anchors() *bitset.BitSet {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ensureMatchingBacktracking()
	return m.anchors.Clone()
}

// QueryLength returns the number of query positions consumed by the
// alignment.
func (m *Mapper) QueryLength() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	sums := m.ensureQueryPrefixSums()
	return sums[len(sums)-1]
}

// Prepare builds all indices that are not built yet.
func (m *Mapper) Prepare() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ensureQueryPrefixSums()
	m.ensureTargetPrefixSums()
	m.ensureMatchingBacktracking()
}

// CacheLen returns the number of memoized coordinates.
func (m *Mapper) CacheLen() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.memo)
}

// Transform returns the target coordinate for the given query
// coordinate, or an *OutOfRangeError if the coordinate is negative or
// not smaller than the query length. An alignment without any
// query-consuming operation maps coordinate 0 to its start position.
//
// Positions inside insertions and soft clips have no target
// coordinate of their own; they map to the target position of the
// last aligned base before them.
func (m *Mapper) Transform(coordinate int) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.transformMemoized(coordinate)
}

func (m *Mapper) transformMemoized(coordinate int) (int, error) {
	if result, found := m.memo[coordinate]; found {
		TransformCount.WithLabelValues("cached").Inc()
		return result, nil
	}
	result, err := m.transform(coordinate)
	if err != nil {
		TransformCount.WithLabelValues("out_of_range").Inc()
		return 0, err
	}
	m.memo[coordinate] = result
	TransformCount.WithLabelValues("computed").Inc()
	return result, nil
}

func (m *Mapper) transform(coordinate int) (int, error) {
	querySums := m.ensureQueryPrefixSums()
	queryLength := querySums[len(querySums)-1]
	if coordinate < 0 || coordinate > max(0, queryLength-1) {
		return 0, &OutOfRangeError{Coordinate: coordinate, QueryLength: queryLength}
	}
	if coordinate == 0 && queryLength == 0 {
		return m.alignment.start, nil
	}

	// first operation whose query prefix sum covers the coordinate
	operationIndex := sort.Search(len(querySums), func(i int) bool {
		return querySums[i] > coordinate
	})
	lastMatchingIndex := m.ensureMatchingBacktracking()[operationIndex]

	var queryConsumedBefore int
	if operationIndex > 0 {
		queryConsumedBefore = querySums[operationIndex-1]
	}

	var queryRemaining int
	if operationIndex == lastMatchingIndex {
		queryRemaining = coordinate - queryConsumedBefore
		lastMatchingIndex--
	} else {
		// insertion or soft clip: collapse onto the preceding aligned base
		queryRemaining = -1
	}

	var targetConsumed int
	if lastMatchingIndex >= 0 {
		targetConsumed = m.ensureTargetPrefixSums()[lastMatchingIndex]
	}
	return m.alignment.start + max(targetConsumed+queryRemaining, 0), nil
}
