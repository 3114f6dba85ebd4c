// Package logger writes the search engine's diagnostics as JSON lines and
// keeps in-process counters, gauges and timings for the /debug endpoint.
//
// Everything a search does is logged with fields, never formatted into the
// message:
//
//	logger.Info("Search completed", logger.Fields{
//	    "player":  "羽生結弦",
//	    "found":   4,
//	    "sources": 28,
//	})
//
//	logger.Warn("Page fetch failed", logger.Fields{
//	    "competition": src.Name,
//	    "url":         pageURL,
//	    "error":       err.Error(),
//	})
//
// Metrics use dotted names grouped by the component that records them, for
// example search.pages, search.found, search.duration and catalog.months.
//
//	logger.IncrCounter("search.pages")
//	logger.RecordTiming("search.duration", time.Since(start))
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel maps a --log-level value such as "debug" or "WARN" to a Level.
// Unknown names fall back to LevelInfo and report false.
func ParseLevel(name string) (Level, bool) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(name))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, true
	case "WARNING":
		return LevelWarn, true
	}
	return LevelInfo, false
}

// Logger writes one JSON object per line to its output.
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
}

// Fields are the structured attributes of a log line: player names, source
// names, URLs, counts.
type Fields map[string]interface{}

// LogEntry is the JSON shape of one line.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Stdout carries command output, so diagnostics go to stderr.
var defaultLogger = New(LevelInfo, os.Stderr)

// New returns a Logger that drops entries below level.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		minLevel: level,
		output:   output,
	}
}

// SetDefault replaces the logger behind Debug, Info, Warn and Error. The CLI
// calls it once after parsing --log-level and --verbose.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if levelRank[level] < levelRank[l.minLevel] {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()
	if marshalErr != nil {
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

// Debug logs per-page detail such as candidate cells and skipped rows.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a failure the search recovers from, such as one page that
// could not be fetched.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}

// Metrics holds counters, gauges and timings. It is safe for concurrent use.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

var defaultMetrics = NewMetrics()

func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter adds one to the named counter.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// SetGauge overwrites the named gauge.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[name] = value
}

// RecordTiming appends one sample to the named timing.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], duration)
}

// GetSnapshot copies the current values under the keys "counters", "gauges"
// and "timings". Each timing is summarised as count, total, average, min and
// max, with durations rendered as strings.
func (m *Metrics) GetSnapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	timings := make(map[string]map[string]interface{}, len(m.timings))
	for name, samples := range m.timings {
		if len(samples) > 0 {
			timings[name] = timingStats(samples)
		}
	}

	return map[string]interface{}{
		"counters": maps.Clone(m.counters),
		"gauges":   maps.Clone(m.gauges),
		"timings":  timings,
	}
}

func timingStats(samples []time.Duration) map[string]interface{} {
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return map[string]interface{}{
		"count":   len(samples),
		"total":   total.String(),
		"average": (total / time.Duration(len(samples))).String(),
		"min":     slices.Min(samples).String(),
		"max":     slices.Max(samples).String(),
	}
}

func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

func SetGauge(name string, value float64) {
	defaultMetrics.SetGauge(name, value)
}

func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns the default tracker's snapshot, as served by
// /debug.
func GetMetricsSnapshot() map[string]interface{} {
	return defaultMetrics.GetSnapshot()
}
