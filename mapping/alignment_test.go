package mapping

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/cigarco/cigar"
)

func mustAlignment(t testing.TB, queryName, targetName string, start int, cigarString string) Alignment {
	aln, err := NewAlignment(queryName, targetName, start, cigarString)
	require.NoError(t, err)
	return aln
}

func TestAlignmentAttributes(t *testing.T) {
	aln := mustAlignment(t, "tr1", "chr1", 0, "11M")
	assert.Equal(t, "tr1", aln.QueryName())
	assert.Equal(t, "chr1", aln.TargetName())
	assert.Equal(t, 0, aln.Start())
	assert.Equal(t, "11M", aln.Cigar())
}

func TestAlignmentEquality(t *testing.T) {
	aln1 := mustAlignment(t, "tr1", "chr1", 3, "8M7D6M2I2M11D7M")
	aln2 := mustAlignment(t, "tr1", "chr1", 3, "8M7D6M2I2M11D7M")
	aln3 := mustAlignment(t, "tr1", "chr1", 4, "8M7D6M2I2M11D7M")
	assert.True(t, aln1 == aln2)
	assert.False(t, aln1 == aln3)
}

func TestAlignmentNegativeStart(t *testing.T) {
	_, err := NewAlignment("tr1", "chr1", -1, "11M")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "tr1", verr.QueryName)
}

func TestAlignmentInvalidCigar(t *testing.T) {
	for _, cigarString := range []string{"", "M", "11", "11M3", "11Z", "-1M"} {
		_, err := NewAlignment("tr1", "chr1", 0, cigarString)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), cigarString)
		var cerr *cigar.InvalidCigarError
		assert.True(t, errors.As(err, &cerr), cigarString)
	}
}

func TestAlignmentLengthOverflow(t *testing.T) {
	maxRun := strconv.Itoa(math.MaxInt)
	for _, c := range []struct {
		start       int
		cigarString string
	}{
		{0, maxRun + "M" + maxRun + "M"},
		{0, maxRun + "I2S"},
		{0, maxRun + "D1N"},
		{math.MaxInt, "2M"},
		{math.MaxInt - 1, "1M1D"},
	} {
		_, err := NewAlignment("tr1", "chr1", c.start, c.cigarString)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), c.cigarString)
		assert.Equal(t, "alignment length overflows int", verr.Reason)
	}

	aln := mustAlignment(t, "tr1", "chr1", math.MaxInt-2, "2M5I")
	result, err := NewMapper(aln).Transform(6)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt-1, result)
	aln = mustAlignment(t, "tr1", "chr1", 0, maxRun+"M")
	assert.Equal(t, math.MaxInt, NewMapper(aln).QueryLength())
}
