package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Feature names the feature a record is about.
func Feature(name string) slog.Attr {
	return slog.String("feature", name)
}

// Features lists feature names.
func Features(names []string) slog.Attr {
	return slog.Any("features", names)
}

// Snapshot records a snapshot version.
func Snapshot(version uint64) slog.Attr {
	return slog.Uint64("snapshot", version)
}

// Override records a source -> target pair of one lookup table.
func Override(kind, source, target string) slog.Attr {
	return slog.Group("override",
		slog.String("kind", kind),
		slog.String("source", source),
		slog.String("target", target),
	)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}
