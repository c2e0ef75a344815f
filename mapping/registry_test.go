package mapping

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/cigarco/cigar"
)

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())
	rnd := rand.New(rand.NewSource(3))
	unique := make(map[string]Alignment)
	for i := 0; i < 100; i++ {
		name := "q" + strconv.Itoa(rnd.Intn(40))
		aln := mustAlignment(t, name, "t"+strconv.Itoa(i), rnd.Intn(100), cigar.Format(randomOperations(rnd)))
		unique[name] = aln
		m := r.Add(aln)
		assert.Equal(t, aln, m.Alignment())
	}
	assert.Equal(t, len(unique), r.Len())
	names := r.Names()
	require.Len(t, names, len(unique))
	for i, name := range names {
		if i > 0 {
			assert.Less(t, names[i-1], name)
		}
		m, found := r.Mapper(name)
		require.True(t, found)
		assert.Equal(t, unique[name], m.Alignment())
	}
}

func TestRegistryAddExisting(t *testing.T) {
	r := NewRegistry()
	aln := mustAlignment(t, "tr1", "chr1", 3, exampleCigar)
	m := r.Add(aln)
	_, err := r.Transform("tr1", 0)
	require.NoError(t, err)
	require.NotNil(t, m.queryPrefixSums)

	same := mustAlignment(t, "tr1", "chr1", 3, exampleCigar)
	assert.Same(t, m, r.Add(same))
	assert.NotNil(t, m.queryPrefixSums)
	assert.Equal(t, 1, m.CacheLen())

	mapper, found := r.Mapper("tr1")
	require.True(t, found)
	assert.Same(t, m, mapper)
}

func TestRegistryPreservesMapper(t *testing.T) {
	r := NewRegistry()
	aln := mustAlignment(t, "tr1", "chr1", 3, exampleCigar)
	m := r.Add(aln)
	_, err := r.Transform("tr1", 4)
	require.NoError(t, err)

	changed := mustAlignment(t, "tr1", "chr2", aln.Start()+1, aln.Cigar())
	assert.Same(t, m, r.Add(changed))
	assert.Nil(t, m.queryPrefixSums)
	assert.Equal(t, 0, m.CacheLen())
	assert.Equal(t, 1, r.Len())

	result, err := r.Transform("tr1", 4)
	require.NoError(t, err)
	assert.Equal(t, TransformedResult{SeqName: "chr2", Coordinate: 8}, result)
}

func TestRegistryTransform(t *testing.T) {
	r := NewRegistry()
	r.Add(mustAlignment(t, "tr1", "chr1", 3, exampleCigar))
	r.Add(mustAlignment(t, "tr2", "chr1", 10, "20M"))

	result, err := r.Transform("tr1", 13)
	require.NoError(t, err)
	assert.Equal(t, TransformedResult{SeqName: "chr1", Coordinate: 23}, result)

	result, err = r.TransformQuery(TransformationQuery{QueryName: "tr2", Coordinate: 10})
	require.NoError(t, err)
	assert.Equal(t, TransformedResult{SeqName: "chr1", Coordinate: 20}, result)

	m, _ := r.Mapper("tr1")
	for coordinate := 0; coordinate < 25; coordinate++ {
		result, err := r.Transform("tr1", coordinate)
		require.NoError(t, err)
		expected, err := m.Transform(coordinate)
		require.NoError(t, err)
		assert.Equal(t, expected, result.Coordinate)
	}
}

func TestRegistryTransformErrors(t *testing.T) {
	r := NewRegistry()
	r.Add(mustAlignment(t, "tr1", "chr1", 3, exampleCigar))

	_, err := r.Transform("tr1t", 0)
	var nerr *NotFoundError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "tr1t", nerr.QueryName)

	var rerr *OutOfRangeError
	_, err = r.Transform("tr1", -1)
	assert.True(t, errors.As(err, &rerr))
	_, err = r.Transform("tr1", 25)
	assert.True(t, errors.As(err, &rerr))
}

func TestRegistryPrepare(t *testing.T) {
	r := NewRegistry()
	r.Prepare()
	var mappers []*Mapper
	for i := 0; i < 50; i++ {
		mappers = append(mappers, r.Add(mustAlignment(t, strconv.Itoa(i), "chr1", i, exampleCigar)))
	}
	r.Prepare()
	for _, m := range mappers {
		assert.NotNil(t, m.queryPrefixSums)
		assert.NotNil(t, m.targetPrefixSums)
		assert.NotNil(t, m.matchingBacktracking)
	}
}

func TestRegistryConcurrentTransform(t *testing.T) {
	r := NewRegistry()
	r.Add(mustAlignment(t, "tr1", "chr1", 3, exampleCigar))
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for coordinate := 0; coordinate < 25; coordinate++ {
				result, err := r.Transform("tr1", (coordinate+g)%25)
				assert.NoError(t, err)
				assert.Equal(t, "chr1", result.SeqName)
			}
		}(g)
	}
	wg.Wait()
	m, _ := r.Mapper("tr1")
	assert.Equal(t, 25, m.CacheLen())
}
