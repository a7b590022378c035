package feature

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"
)

var definitionExts = []string{".yaml", ".yml", ".toml"}

// FileSource discovers declarative feature definitions in a file system.
// Parsed definitions are cached until Reload is called.
type FileSource struct {
	fsys      fs.FS
	libraries []string
	targeting []TargetedStrategyOption

	mu    sync.RWMutex
	cache map[string]*Definition
}

// NewFileSource creates a source reading definitions from fsys.
func NewFileSource(fsys fs.FS, libraries ...string) *FileSource {
	return &FileSource{
		fsys:      fsys,
		libraries: libraries,
		cache:     make(map[string]*Definition),
	}
}

// WithTargeting sets the extractors used by rollout sections that target
// users or groups.
func (s *FileSource) WithTargeting(opts ...TargetedStrategyOption) *FileSource {
	s.targeting = opts
	return s
}

// Discover globs every pattern and returns matching definition files.
// A pattern without extension is tried with each supported extension.
func (s *FileSource) Discover(ctx context.Context, patterns []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, pattern := range patterns {
		for _, glob := range expandPattern(pattern, s.libraries) {
			for _, candidate := range withExtensions(glob) {
				matches, err := fs.Glob(s.fsys, candidate)
				if err != nil {
					return nil, errors.Join(ErrDiscoveryFailed, err)
				}
				for _, m := range matches {
					if _, ok := seen[m]; ok || !isDefinitionFile(m) {
						continue
					}
					seen[m] = struct{}{}
					out = append(out, m)
				}
			}
		}
	}
	return out, nil
}

// Instantiate parses the definition at id. The feature type is the file
// path without its extension, so PromoFeature.yaml is named Promo.
func (s *FileSource) Instantiate(ctx context.Context, id string, opts Options) (Feature, error) {
	if !isDefinitionFile(id) {
		return nil, ErrUnknownType
	}
	def, err := s.definition(id)
	if err != nil {
		return nil, err
	}
	opts.Type = typeOf(id)
	if !opts.FromProvider && def.Enabled && def.Rollout != nil {
		enabled, err := def.Rollout.Strategy(s.targeting...).Evaluate(ctx)
		if err != nil {
			return nil, errors.Join(ErrInvalidDefinition, err)
		}
		// The rollout result stands in for a provider toggle.
		opts.Enabled, opts.FromProvider = enabled, true
	}
	return def.New(opts), nil
}

// Reload drops cached definitions so the next Instantiate reads files again.
func (s *FileSource) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

func (s *FileSource) definition(id string) (*Definition, error) {
	s.mu.RLock()
	def, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return def, nil
	}

	data, err := fs.ReadFile(s.fsys, id)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrUnknownType
	}
	if err != nil {
		return nil, errors.Join(ErrInvalidDefinition, err)
	}
	def, err = ParseDefinition(id, data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[id] = def
	s.mu.Unlock()
	return def, nil
}

func withExtensions(glob string) []string {
	if path.Ext(glob) != "" && !strings.HasSuffix(glob, "*") {
		return []string{glob}
	}
	out := make([]string, 0, len(definitionExts))
	for _, ext := range definitionExts {
		out = append(out, glob+ext)
	}
	return out
}

// typeOf strips a definition file extension from an identifier.
func typeOf(id string) string {
	if isDefinitionFile(id) {
		return strings.TrimSuffix(id, path.Ext(id))
	}
	return id
}

func isDefinitionFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range definitionExts {
		if ext == e {
			return true
		}
	}
	return false
}
