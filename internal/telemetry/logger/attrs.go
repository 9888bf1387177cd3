package logger

import (
	"fmt"
	"log/slog"
)

// maxValueLen bounds string attribute values. Longer values are cut and
// marked with a trailing ellipsis.
const maxValueLen = 256

// normalizeAttr renders values that slog would otherwise serialize poorly.
//
// Stringer values (table keys) become their string form, durations become
// human-readable strings, and long strings are truncated. Groups are
// normalized recursively.
func normalizeAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindAny:
		if s, ok := a.Value.Any().(fmt.Stringer); ok {
			return slog.String(a.Key, Truncate(s.String()))
		}
	case slog.KindDuration:
		return slog.String(a.Key, a.Value.Duration().String())
	case slog.KindString:
		if v := a.Value.String(); len(v) > maxValueLen {
			return slog.String(a.Key, Truncate(v))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = normalizeAttr(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}
	return a
}

// Truncate shortens s to the maximum logged value length.
func Truncate(s string) string {
	if len(s) <= maxValueLen {
		return s
	}
	return s[:maxValueLen-3] + "..."
}
