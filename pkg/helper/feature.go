package helper

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/waffle/pkg/override"
)

// Enabled reports whether the named feature is enabled in the snapshot
// attached to ctx. Without a snapshot every feature is disabled.
func Enabled(ctx context.Context, name string) bool {
	return override.FromContext(ctx).Enabled(name)
}

// IfEnabled renders c only while the named feature is enabled.
func IfEnabled(name string, c templ.Component) templ.Component {
	return IfElse(name, c, nil)
}

// IfElse renders on when the named feature is enabled and off otherwise.
// A nil component renders nothing.
func IfElse(name string, on, off templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		c := off
		if Enabled(ctx, name) {
			c = on
		}
		if c == nil {
			return nil
		}
		return c.Render(ctx, w)
	})
}
