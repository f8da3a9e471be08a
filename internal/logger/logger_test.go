package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "test message",
			fields:  Fields{"key": "value"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "error occurred",
			err:     errors.New("test error"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestLogger_JSONEntry(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf)

	logger.Warn("page skipped", Fields{"url": "https://archive.test/a.html", "attempt": 2}, errors.New("timeout"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}

	if entry["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", entry["level"])
	}
	if entry["message"] != "page skipped" {
		t.Errorf("message = %v, want 'page skipped'", entry["message"])
	}
	if entry["url"] != "https://archive.test/a.html" {
		t.Errorf("url = %v", entry["url"])
	}
	if entry["error"] != "timeout" {
		t.Errorf("error = %v, want timeout", entry["error"])
	}
	ts, ok := entry["time"].(string)
	if !ok {
		t.Fatalf("time field missing: %v", entry)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel, &buf)

			logger.log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics("test")

	m.IncrCounter("pages.fetched")
	m.IncrCounter("pages.fetched")
	m.IncrCounter("pages.fetched")

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]float64)

	if counters["pages.fetched"] != 3 {
		t.Errorf("Counter = %v, want 3", counters["pages.fetched"])
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics("test")

	m.SetGauge("candidate_pages", 4)
	m.SetGauge("candidate_pages", 10)

	snapshot := m.GetSnapshot()
	gauges := snapshot["gauges"].(map[string]float64)

	if gauges["candidate_pages"] != 10 {
		t.Errorf("Gauge = %v, want 10", gauges["candidate_pages"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics("test")

	m.RecordTiming("page.fetch", 100*time.Millisecond)
	m.RecordTiming("page.fetch", 200*time.Millisecond)
	m.RecordTiming("page.fetch", 150*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	fetch := timings["page.fetch"]
	if fetch["count"].(uint64) != 3 {
		t.Errorf("Timing count = %v, want 3", fetch["count"])
	}
	if total := fetch["total_seconds"].(float64); total < 0.449 || total > 0.451 {
		t.Errorf("Timing total = %v, want 0.45", total)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("swim_archive")
	m.IncrCounter("records.matched")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "swim_archive_records_matched_total 1") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestMetricName(t *testing.T) {
	tests := map[string]string{
		"pages.fetched":  "pages_fetched",
		"Search-Latency": "search_latency",
		"ok_name":        "ok_name",
	}
	for in, want := range tests {
		if got := metricName(in); got != want {
			t.Errorf("metricName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	SetDefault(New(LevelDebug, io.Discard))

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil, nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	snapshot := GetMetricsSnapshot()
	if snapshot == nil {
		t.Error("GetMetricsSnapshot() returned nil")
	}
	if DefaultMetrics().Registry() == nil {
		t.Error("DefaultMetrics().Registry() returned nil")
	}
}
