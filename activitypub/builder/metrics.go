package builder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var buildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "apbridge_builds_total",
	Help: "ActivityPub activities built, by activity and object type",
}, []string{"activity", "object"})

var audienceErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "apbridge_audience_errors_total",
	Help: "Audience lookups which failed and fell back to author-only addressing",
})
