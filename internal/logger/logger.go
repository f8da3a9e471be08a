// Package logger provides structured JSON logging and metrics tracking for the
// swim archive tools.
//
// Log output is one JSON object per line, written by zerolog, at levels DEBUG,
// INFO, WARN and ERROR. Every entry carries a timestamp and may carry arbitrary
// structured fields.
//
// Metrics are Prometheus collectors created on first use and registered on a
// private registry, so the HTTP server can expose them without touching global
// state.
//
// Example usage:
//
//	logger.Info("Search finished", logger.Fields{
//	    "athlete": "Jane Smith",
//	    "records": 12,
//	})
//
//	logger.Warn("Skipping page", logger.Fields{"url": u}, err)
//
//	logger.IncrCounter("pages.fetched")
//	logger.RecordTiming("page.fetch", duration)
package logger

import (
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel converts a case-insensitive level name to a Level.
// Unknown names fall back to INFO.
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	}
	return LevelInfo
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	zl zerolog.Logger
}

var defaultLogger *Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		return strings.ToUpper(l.String())
	}
	defaultLogger = New(LevelInfo, os.Stderr)
}

// New creates a logger writing JSON lines to output. Messages below level are
// discarded.
func New(level Level, output io.Writer) *Logger {
	zl := zerolog.New(output).
		With().
		Timestamp().
		Logger().
		Level(level.zerolog())
	return &Logger{zl: zl}
}

// SetDefault sets the logger used by the package-level functions.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	evt := l.zl.WithLevel(level.zerolog())
	if evt == nil {
		return
	}
	if len(fields) > 0 {
		evt = evt.Fields(map[string]interface{}(fields))
	}
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg(message)
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning with optional fields and an optional error. Warnings
// mark failures that were absorbed, such as a skipped page.
func (l *Logger) Warn(message string, fields Fields, err error) {
	l.log(LevelWarn, message, fields, err)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning with the default logger
func Warn(message string, fields Fields, err error) {
	defaultLogger.Warn(message, fields, err)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}

// Metrics tracks counters, gauges and timings as Prometheus collectors.
// All operations are thread-safe.
//
// Names are free-form ("pages.fetched"); they are sanitized and prefixed when
// the collector is created.
type Metrics struct {
	mu        sync.Mutex
	namespace string
	registry  *prometheus.Registry
	counters  map[string]prometheus.Counter
	gauges    map[string]prometheus.Gauge
	timings   map[string]prometheus.Histogram
}

var defaultMetrics *Metrics

func init() {
	defaultMetrics = NewMetrics("swim_archive")
}

// NewMetrics creates a metrics tracker with its own registry.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
		counters:  make(map[string]prometheus.Counter),
		gauges:    make(map[string]prometheus.Gauge),
		timings:   make(map[string]prometheus.Histogram),
	}
}

// Registry returns the registry holding every collector created so far.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.AddCounter(name, 1)
}

// AddCounter increases a counter by delta, which must not be negative.
func (m *Metrics) AddCounter(name string, delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.counters[name]
	if !ok {
		c = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      metricName(name) + "_total",
			Help:      "Count of " + name + ".",
		})
		m.register(c)
		m.counters[name] = c
	}
	c.Add(delta)
}

// SetGauge sets a gauge to value, overwriting any previous value.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.gauges[name]
	if !ok {
		g = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      metricName(name),
			Help:      "Current value of " + name + ".",
		})
		m.register(g)
		m.gauges[name] = g
	}
	g.Set(value)
}

// RecordTiming observes a duration in a histogram measured in seconds.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.timings[name]
	if !ok {
		h = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      metricName(name) + "_seconds",
			Help:      "Duration of " + name + ".",
			Buckets:   prometheus.DefBuckets,
		})
		m.register(h)
		m.timings[name] = h
	}
	h.Observe(duration.Seconds())
}

func (m *Metrics) register(c prometheus.Collector) {
	if err := m.registry.Register(c); err != nil {
		defaultLogger.Warn("Metric not registered", nil, err)
	}
}

// GetSnapshot returns the current values:
//   - "counters": counter name to value
//   - "gauges": gauge name to value
//   - "timings": timing name to {"count", "total_seconds"}
func (m *Metrics) GetSnapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	counters := make(map[string]float64, len(m.counters))
	for name, c := range m.counters {
		var pb dto.Metric
		if c.Write(&pb) == nil {
			counters[name] = pb.GetCounter().GetValue()
		}
	}

	gauges := make(map[string]float64, len(m.gauges))
	for name, g := range m.gauges {
		var pb dto.Metric
		if g.Write(&pb) == nil {
			gauges[name] = pb.GetGauge().GetValue()
		}
	}

	timings := make(map[string]map[string]interface{}, len(m.timings))
	for name, h := range m.timings {
		var pb dto.Metric
		if h.Write(&pb) == nil {
			timings[name] = map[string]interface{}{
				"count":         pb.GetHistogram().GetSampleCount(),
				"total_seconds": pb.GetHistogram().GetSampleSum(),
			}
		}
	}

	return map[string]interface{}{
		"counters": counters,
		"gauges":   gauges,
		"timings":  timings,
	}
}

// metricName maps a free-form name to a valid Prometheus metric name fragment.
func metricName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// DefaultMetrics returns the package-level metrics tracker.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// AddCounter increases a counter on the default metrics tracker.
func AddCounter(name string, delta float64) {
	defaultMetrics.AddCounter(name, delta)
}

// SetGauge sets a gauge on the default metrics tracker.
func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of the default tracker.
func GetMetricsSnapshot() map[string]interface{} {
	return defaultMetrics.GetSnapshot()
}
