package view

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"path"
	"regexp"
	"strings"

	"github.com/dmitrymomot/waffle/pkg/filter"
	"github.com/dmitrymomot/waffle/pkg/logger"
)

// Template kinds a pattern set can be registered for.
const (
	KindTemplate = "template"
	KindLayout   = "layout"
)

// Overrides rewrites template lookups. *override.Snapshot and
// *override.Resolver implement it.
type Overrides interface {
	ExpandTemplatePaths(patterns []string) []string
	FilterParams(params map[string]string) map[string]string
}

// Request is one template lookup as seen by interceptors.
type Request struct {
	Kind      string
	Params    map[string]string
	Overrides Overrides
}

var placeholder = regexp.MustCompile(`\{:(\w+)\}`)

// Locator finds templates in a file system. Lookups run through an
// interceptor chain so callers can rewrite the request or the result.
type Locator struct {
	fsys     fs.FS
	patterns map[string][]string
	chain    *filter.Chain[Request, string]
	log      *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

func WithLogger(l *slog.Logger) Option {
	return func(loc *Locator) {
		if l != nil {
			loc.log = l
		}
	}
}

// NewLocator creates a locator over fsys. Patterns are keyed by kind and
// tried in order, e.g.
//
//	{"template": {"app/views/{:controller}/{:template}.{:type}.tmpl"}}
func NewLocator(fsys fs.FS, patterns map[string][]string, opts ...Option) *Locator {
	l := &Locator{
		fsys:     fsys,
		patterns: make(map[string][]string, len(patterns)),
		chain:    filter.New[Request, string](),
		log:      logger.Discard(),
	}
	for kind, p := range patterns {
		l.patterns[kind] = append([]string(nil), p...)
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With(logger.Component("view"))
	return l
}

// Use appends lookup interceptors.
func (l *Locator) Use(interceptors ...filter.Interceptor[Request, string]) {
	l.chain.Use(interceptors...)
}

// Locate returns the first existing template for kind. Params are passed
// through the legacy parameter filters first, then every pattern is
// expanded with feature variants ahead of the original and its
// placeholders are filled from params.
func (l *Locator) Locate(ctx context.Context, o Overrides, kind string, params map[string]string) (string, error) {
	req := Request{Kind: kind, Params: params, Overrides: o}
	return l.chain.Run(ctx, req, l.locate)
}

func (l *Locator) locate(ctx context.Context, req Request) (string, error) {
	candidates, err := l.Candidates(req.Overrides, req.Kind, req.Params)
	if err != nil {
		return "", err
	}
	for _, name := range candidates {
		if _, err := fs.Stat(l.fsys, name); err == nil {
			l.log.DebugContext(ctx, "template located",
				slog.String("kind", req.Kind),
				slog.String("path", name),
			)
			return name, nil
		}
	}
	return "", errors.Join(ErrTemplateNotFound, fmt.Errorf("%s candidates: %s", req.Kind, strings.Join(candidates, ", ")))
}

// Candidates lists the paths Locate would try, in order. Patterns whose
// placeholders cannot all be filled are left out.
func (l *Locator) Candidates(o Overrides, kind string, params map[string]string) ([]string, error) {
	patterns, ok := l.patterns[kind]
	if !ok {
		return nil, errors.Join(ErrUnknownKind, fmt.Errorf("kind %q", kind))
	}

	if o != nil {
		params = o.FilterParams(params)
		patterns = o.ExpandTemplatePaths(patterns)
	} else {
		params = maps.Clone(params)
	}

	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if name, ok := fill(p, params); ok {
			out = append(out, name)
		}
	}
	return out, nil
}

func fill(pattern string, params map[string]string) (string, bool) {
	complete := true
	name := placeholder.ReplaceAllStringFunc(pattern, func(m string) string {
		key := m[2 : len(m)-1]
		v, ok := params[key]
		if !ok || v == "" {
			complete = false
			return m
		}
		return v
	})
	if !complete {
		return "", false
	}
	return strings.TrimPrefix(path.Clean(name), "/"), true
}
