package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var entityCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "apbridge_entity_cache_hits",
	Help: "Number of cache hits for local entity lookups",
})

var entityCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "apbridge_entity_cache_misses",
	Help: "Number of cache misses for local entity lookups",
})

var entityRequestsCoalesced = promauto.NewCounter(prometheus.CounterOpts{
	Name: "apbridge_entity_requests_coalesced",
	Help: "Number of local entity lookups coalesced",
})
