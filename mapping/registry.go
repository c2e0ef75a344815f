package mapping

import (
	"sort"

	"github.com/exascience/pargo/parallel"
	"github.com/exascience/pargo/sync"

	"github.com/exascience/cigarco/internal"
)

type queryName string

func (name queryName) Hash() uint64 {
	return internal.StringHash(string(name))
}

// A Registry maps query sequence names to the Mapper responsible for
// them. There is at most one Mapper, and therefore at most one
// alignment, per query name.
//
// It is safe for multiple goroutines to use a Registry concurrently.
type Registry struct {
	mappers *sync.Map
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mappers: sync.NewMap(0)}
}

func (r *Registry) update(m *Mapper, aln Alignment) {
	if m.Update(aln) {
		RegistryUpdateCount.WithLabelValues("replaced").Inc()
	} else {
		RegistryUpdateCount.WithLabelValues("unchanged").Inc()
	}
}

// Add registers the given alignment for its query name, and returns
// the Mapper that now serves that name.
//
// A new Mapper is only created for a previously unseen name. If the
// existing Mapper already holds an equal alignment, its indices and
// memoized results are kept. Otherwise the alignment of the existing
// Mapper is replaced, so references to it stay valid.
func (r *Registry) Add(aln Alignment) *Mapper {
	key := queryName(aln.queryName)
	if entry, found := r.mappers.Load(key); found {
		m := entry.(*Mapper)
		r.update(m, aln)
		return m
	}
	entry, loaded := r.mappers.LoadOrStore(key, NewMapper(aln))
	m := entry.(*Mapper)
	if loaded {
		r.update(m, aln)
	} else {
		RegistryUpdateCount.WithLabelValues("created").Inc()
	}
	return m
}

// Mapper returns the Mapper registered for the given query name.
func (r *Registry) Mapper(name string) (*Mapper, bool) {
	entry, found := r.mappers.Load(queryName(name))
	if !found {
		return nil, false
	}
	return entry.(*Mapper), true
}

// Names returns the registered query names in sorted order.
func (r *Registry) Names() []string {
	var names []string
	r.mappers.Range(func(key, _ interface{}) bool {
		names = append(names, string(key.(queryName)))
		return true
	})
	sort.Strings(names)
	return names
}

// Len returns the number of registered query names.
func (r *Registry) Len() (n int) {
	r.mappers.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return
}

// Prepare builds the indices of all registered mappers in parallel, so
// that subsequent transformations only need to search them.
func (r *Registry) Prepare() {
	var mappers []*Mapper
	r.mappers.Range(func(_, value interface{}) bool {
		mappers = append(mappers, value.(*Mapper))
		return true
	})
	if len(mappers) == 0 {
		return
	}
	parallel.Range(0, len(mappers), 0, func(low, high int) {
		for _, m := range mappers[low:high] {
			m.Prepare()
		}
	})
}

// Transform transforms the coordinate of the named query sequence
// into a coordinate of the target sequence of its alignment. It
// returns a *NotFoundError if no alignment is registered for the
// name, and an *OutOfRangeError if the coordinate lies outside of the
// query sequence.
func (r *Registry) Transform(name string, coordinate int) (TransformedResult, error) {
	m, found := r.Mapper(name)
	if !found {
		return TransformedResult{}, &NotFoundError{QueryName: name}
	}
	// target name and coordinate must stem from the same alignment
	m.mutex.Lock()
	defer m.mutex.Unlock()
	result, err := m.transformMemoized(coordinate)
	if err != nil {
		return TransformedResult{}, err
	}
	return TransformedResult{SeqName: m.alignment.targetName, Coordinate: result}, nil
}

// TransformQuery is Transform for a TransformationQuery.
func (r *Registry) TransformQuery(query TransformationQuery) (TransformedResult, error) {
	return r.Transform(query.QueryName, query.Coordinate)
}
