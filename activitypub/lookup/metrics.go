package lookup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "apbridge_lookups_total",
	Help: "Inbound URL to local entity lookups, by result status",
}, []string{"status"})

var lookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "apbridge_lookup_duration",
	Help:    "Time to resolve an inbound URL to a local entity",
	Buckets: prometheus.ExponentialBucketsRange(0.0001, 2, 20),
}, []string{"status"})
