// Package diagnostics collects the warnings and notes raised while an archive
// is repaired, in the order they occur.
package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Level is the severity of a diagnostic record.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarning:
		return "warning"
	default:
		return "info"
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Record is a single diagnostic.
type Record struct {
	Level   Level
	Message string
	Attrs   []slog.Attr
}

// String renders the record as "message key=value ...".
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, attr := range r.Attrs {
		fmt.Fprintf(&b, " %s=%s", attr.Key, attr.Value.String())
	}
	return b.String()
}

// Sink is an ordered record list. Records are also forwarded to the logger
// when one is set. A nil *Sink discards everything.
type Sink struct {
	records []Record
	logger  *slog.Logger
}

// NewSink creates a sink. logger may be nil.
func NewSink(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

// Debug records per-part progress that is only logged when debugging.
func (s *Sink) Debug(msg string, args ...any) {
	s.add(LevelDebug, msg, args)
}

// Info records a note. args are slog-style key/value pairs.
func (s *Sink) Info(msg string, args ...any) {
	s.add(LevelInfo, msg, args)
}

// Warn records a non-fatal problem. args are slog-style key/value pairs.
func (s *Sink) Warn(msg string, args ...any) {
	s.add(LevelWarning, msg, args)
}

func (s *Sink) add(level Level, msg string, args []any) {
	if s == nil {
		return
	}

	// Let slog normalise the key/value pairs
	rec := slog.NewRecord(time.Time{}, level.slogLevel(), msg, 0)
	rec.Add(args...)

	attrs := make([]slog.Attr, 0, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	s.records = append(s.records, Record{Level: level, Message: msg, Attrs: attrs})

	if s.logger != nil {
		s.logger.LogAttrs(context.Background(), level.slogLevel(), msg, attrs...)
	}
}

// Records returns every record in the order it was added.
func (s *Sink) Records() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Warnings returns only the warning records.
func (s *Sink) Warnings() []Record {
	if s == nil {
		return nil
	}
	var out []Record
	for _, r := range s.records {
		if r.Level == LevelWarning {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of records.
func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}
