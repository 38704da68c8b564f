package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Metrics holds Prometheus metrics for a service
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
	DBConnPoolStats  *prometheus.GaugeVec
	ParseOutcomes    *prometheus.CounterVec
	FormatRequests   *prometheus.CounterVec
}

// NewMetrics creates a new metrics instance registered on the default registry
func NewMetrics(serviceName string) *Metrics {
	return NewMetricsWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a new metrics instance registered on reg
func NewMetricsWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "metargb",
				Subsystem: serviceName,
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "metargb",
				Subsystem: serviceName,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "metargb",
				Subsystem: serviceName,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
			[]string{"method"},
		),
		DBConnPoolStats: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "metargb",
				Subsystem: serviceName,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"},
		),
		ParseOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "metargb",
				Subsystem: serviceName,
				Name:      "parse_outcomes_total",
				Help:      "Date parse attempts by input kind and result",
			},
			[]string{"kind", "result"},
		),
		FormatRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "metargb",
				Subsystem: serviceName,
				Name:      "format_requests_total",
				Help:      "Format requests by pattern source",
			},
			[]string{"source"},
		),
	}
}

// RecordParse counts a parse attempt; kind is "text" or "compact"
func (m *Metrics) RecordParse(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ParseOutcomes.WithLabelValues(kind, result).Inc()
}

// RecordFormat counts a format request; source is "pattern", "template" or "default"
func (m *Metrics) RecordFormat(source string) {
	m.FormatRequests.WithLabelValues(source).Inc()
}

// UnaryServerInterceptor returns a new unary server interceptor for metrics
func UnaryServerInterceptor(metrics *Metrics) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		done := metrics.track(info.FullMethod)
		resp, err := handler(ctx, req)
		done(grpcStatus(err))
		return resp, err
	}
}

// StreamServerInterceptor returns a new stream server interceptor for metrics
func StreamServerInterceptor(metrics *Metrics) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		done := metrics.track(info.FullMethod)
		err := handler(srv, stream)
		done(grpcStatus(err))
		return err
	}
}

func grpcStatus(err error) string {
	if err == nil {
		return "ok"
	}
	st, _ := status.FromError(err)
	return st.Code().String()
}

// track marks a request in flight and returns the func that records its outcome
func (m *Metrics) track(method string) func(statusCode string) {
	m.RequestsInFlight.WithLabelValues(method).Inc()
	start := time.Now()
	return func(statusCode string) {
		m.RequestsInFlight.WithLabelValues(method).Dec()
		m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(method, statusCode).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware records request metrics labelled with routeOf(r), which
// should return a bounded route name rather than the raw path
func HTTPMiddleware(metrics *Metrics, routeOf func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := metrics.track(r.Method + " " + routeOf(r))
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			done(strconv.Itoa(rec.status))
		})
	}
}

// RecordDBPoolStats records database connection pool statistics
func (m *Metrics) RecordDBPoolStats(open, inUse, idle int, waitCount int64, waitDuration time.Duration) {
	m.DBConnPoolStats.WithLabelValues("open").Set(float64(open))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(inUse))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(idle))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(waitCount))
	m.DBConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(waitDuration.Milliseconds()))
}
