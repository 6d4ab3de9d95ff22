package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// maxListItems caps how many title list entries the console handler prints.
const maxListItems = 8

// attrString renders a value without quoting, for use in message prefixes.
func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	}
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return formatValue(v)
}

// formatValue renders a value for the console handler's key=value tail.
// Similarity scores print with four decimals and durations round to the
// millisecond.
func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return formatFloat(v.Float64())
	case slog.KindDuration:
		return formatDuration(v.Duration())
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		switch val := v.Any().(type) {
		case error:
			return quoteIfNeeded(val.Error())
		case []string:
			return formatList(val)
		default:
			return quoteIfNeeded(fmt.Sprint(val))
		}
	default:
		return quoteIfNeeded(v.String())
	}
}

func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func formatDuration(d time.Duration) string {
	if d >= time.Millisecond {
		d = d.Round(time.Millisecond)
	}
	return d.String()
}

// formatList prints titles as [a, "b c", ...+n].
func formatList(items []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i == maxListItems {
			fmt.Fprintf(&b, ", ...+%d", len(items)-maxListItems)
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteIfNeeded(item))
	}
	b.WriteByte(']')
	return b.String()
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r == ',' {
			return strconv.Quote(s)
		}
	}
	return s
}
