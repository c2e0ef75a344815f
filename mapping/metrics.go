package mapping

import "github.com/prometheus/client_golang/prometheus"

var TransformCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cigarco",
	Subsystem: "mapper",
	Name:      "transforms_total",
}, []string{"outcome"})

var IndexBuildCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cigarco",
	Subsystem: "mapper",
	Name:      "index_builds_total",
}, []string{"index"})

var RegistryUpdateCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cigarco",
	Subsystem: "registry",
	Name:      "updates_total",
}, []string{"kind"})

// Collectors returns all metrics of this package, for registration
// with a prometheus.Registerer.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{TransformCount, IndexBuildCount, RegistryUpdateCount}
}
