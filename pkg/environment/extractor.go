package environment

import (
	"context"
	"log/slog"
)

// LoggerExtractor adds an "env" attribute to records logged with a context
// that carries an environment. Plug it into logger.WithContextExtractors.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if env := FromContext(ctx); env != "" {
			return slog.String("env", env), true
		}
		return slog.Attr{}, false
	}
}
