package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcast_http_requests_total",
		Help: "Total number of view requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "petcast_http_request_duration_seconds",
		Help:    "Histogram of latencies for view requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcast_cache_lookups_total",
		Help: "Query cache lookups by result (hit, miss, disabled).",
	}, []string{"result"})

	cacheFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcast_cache_fetches_total",
		Help: "Backend fetches issued by the query cache, by outcome.",
	}, []string{"outcome"})

	cacheFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "petcast_cache_fetch_duration_seconds",
		Help:    "Duration of query cache fetches including retries.",
		Buckets: prometheus.DefBuckets,
	})

	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petcast_cache_invalidations_total",
		Help: "Cache entries marked stale by mutations.",
	})

	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "petcast_cache_evictions_total",
		Help: "Cache entries removed by garbage collection.",
	})

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "petcast_mutations_total",
		Help: "Mutations executed, by name and outcome.",
	}, []string{"name", "outcome"})
)

// Middleware registra métricas por patrón de ruta de chi.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// El patrón completo solo existe después del ruteo.
			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler expone /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

func CacheLookup(result string) { cacheLookups.WithLabelValues(result).Inc() }

func CacheFetch(outcome string, d time.Duration) {
	cacheFetches.WithLabelValues(outcome).Inc()
	cacheFetchDuration.Observe(d.Seconds())
}

func CacheInvalidated(n int) { cacheInvalidations.Add(float64(n)) }

func CacheEvicted(n int) { cacheEvictions.Add(float64(n)) }

func Mutation(name, outcome string) { mutationsTotal.WithLabelValues(name, outcome).Inc() }

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
