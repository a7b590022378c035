package feature

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Path placeholders understood by discovery patterns.
const (
	PlaceholderLibrary = "{:library}"
	PlaceholderName    = "{:name}"
)

// Source discovers feature type identifiers and instantiates them.
type Source interface {
	// Discover returns the identifiers matching the patterns, in a stable order.
	Discover(ctx context.Context, patterns []string) ([]string, error)

	// Instantiate builds the feature for an identifier returned by Discover.
	Instantiate(ctx context.Context, id string, opts Options) (Feature, error)
}

// Reloader is implemented by sources that cache what they read. Reload
// makes the next discovery cycle read the underlying storage again.
type Reloader interface {
	Reload()
}

// Reload drops the caches of every member that keeps one.
func (s Sources) Reload() {
	for _, src := range s {
		if r, ok := src.(Reloader); ok {
			r.Reload()
		}
	}
}

// Sources tries several sources in order. An identifier is instantiated by
// the first source that knows it.
type Sources []Source

// Discover merges the identifiers of all sources. A failing source is
// skipped; its error is returned joined with ErrDiscoveryFailed alongside
// whatever the other sources found.
func (s Sources) Discover(ctx context.Context, patterns []string) ([]string, error) {
	var (
		ids  []string
		seen = make(map[string]struct{})
		errs []error
	)
	for _, src := range s {
		found, err := src.Discover(ctx, patterns)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, id := range found {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(errs) > 0 {
		return ids, errors.Join(append([]error{ErrDiscoveryFailed}, errs...)...)
	}
	return ids, nil
}

// Instantiate asks each source in turn until one knows the identifier.
func (s Sources) Instantiate(ctx context.Context, id string, opts Options) (Feature, error) {
	for _, src := range s {
		f, err := src.Instantiate(ctx, id, opts)
		if errors.Is(err, ErrUnknownType) {
			continue
		}
		return f, err
	}
	return nil, ErrUnknownType
}

// compilePattern turns a discovery pattern into an anchored regexp.
// {:library} matches one of the libraries (any segment when none are given),
// {:name} matches a run of characters without path separators.
func compilePattern(pattern string, libraries []string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(normalizePath(pattern))

	lib := `[^/]+`
	if len(libraries) > 0 {
		alts := make([]string, 0, len(libraries))
		for _, l := range libraries {
			alts = append(alts, regexp.QuoteMeta(normalizePath(l)))
		}
		lib = "(?:" + strings.Join(alts, "|") + ")"
	}

	expr := strings.ReplaceAll(quoted, regexp.QuoteMeta(PlaceholderLibrary), lib)
	expr = strings.ReplaceAll(expr, regexp.QuoteMeta(PlaceholderName), `[^/]+`)
	return regexp.Compile("^" + expr + "$")
}

// expandPattern substitutes placeholders with concrete values, producing one
// glob per library.
func expandPattern(pattern string, libraries []string) []string {
	pattern = strings.ReplaceAll(normalizePath(pattern), PlaceholderName, "*")
	if !strings.Contains(pattern, PlaceholderLibrary) {
		return []string{pattern}
	}
	if len(libraries) == 0 {
		return []string{strings.ReplaceAll(pattern, PlaceholderLibrary, "*")}
	}
	out := make([]string, 0, len(libraries))
	for _, l := range libraries {
		out = append(out, strings.ReplaceAll(pattern, PlaceholderLibrary, normalizePath(l)))
	}
	return out
}

func normalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
