package override_test

import (
	"context"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

type stubFeature struct {
	feature.Base
	methods map[string]string
	models  map[string]string
	helpers map[string]string
	views   []feature.ViewFilter
}

func (f *stubFeature) MethodFilters() map[string]string { return f.methods }
func (f *stubFeature) ModelFilters() map[string]string  { return f.models }
func (f *stubFeature) HelperFilters() map[string]string { return f.helpers }
func (f *stubFeature) ViewFilters() []feature.ViewFilter { return f.views }

type stubOption func(*stubFeature)

func methods(m map[string]string) stubOption { return func(f *stubFeature) { f.methods = m } }
func models(m map[string]string) stubOption  { return func(f *stubFeature) { f.models = m } }
func helpers(m map[string]string) stubOption { return func(f *stubFeature) { f.helpers = m } }
func views(v ...feature.ViewFilter) stubOption {
	return func(f *stubFeature) { f.views = v }
}

func newStub(typ string, enabled bool, opts ...stubOption) *stubFeature {
	f := &stubFeature{Base: feature.NewBase(feature.Options{Type: typ, Enabled: enabled})}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// stubCtor registers a stub whose enabled state comes from the provider.
func stubCtor(opts ...stubOption) feature.Constructor {
	return func(ctx context.Context, o feature.Options) (feature.Feature, error) {
		f := &stubFeature{Base: feature.NewBase(o)}
		for _, opt := range opts {
			opt(f)
		}
		return f, nil
	}
}
