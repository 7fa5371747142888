package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sideeffect_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// AuthResults counts authentication filter outcomes by state.
	AuthResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sideeffect_auth_results_total",
		Help: "Authentication filter outcomes by resulting state",
	}, []string{"result"})

	// BoardSearches counts board list queries by board kind and mode.
	BoardSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sideeffect_board_searches_total",
		Help: "Board list queries by board and mode",
	}, []string{"board", "mode"})

	// CacheLookups counts cache-aside lookups by cache name and outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sideeffect_cache_lookups_total",
		Help: "Cache-aside lookups by cache and outcome",
	}, []string{"cache", "outcome"})
)
