package override

import (
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

// ErrorsController marks render parameters of error pages, which are never filtered.
const ErrorsController = "_errors"

// ParamFilter is the legacy view override: it rewrites render parameters
// whenever a filter's Match is a subset of them.
type ParamFilter struct {
	filters []feature.ViewFilter
}

// BuildParamFilter collects the view filters of enabled features in order.
// Filters with identical Match collapse, the later one winning while the
// position of the first is kept. Filters without Match or Replace are skipped.
func BuildParamFilter(features []feature.Feature) *ParamFilter {
	p := &ParamFilter{}
	index := make(map[string]int)
	for _, f := range features {
		if f == nil || !f.Enabled() {
			continue
		}
		for _, vf := range f.ViewFilters() {
			if !vf.Valid() {
				continue
			}
			vf = feature.ViewFilter{Match: maps.Clone(vf.Match), Replace: maps.Clone(vf.Replace)}
			key := matchKey(vf.Match)
			if i, ok := index[key]; ok {
				p.filters[i] = vf
				continue
			}
			index[key] = len(p.filters)
			p.filters = append(p.filters, vf)
		}
	}
	return p
}

func matchKey(m map[string]string) string {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(m)) {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(m[k])
		b.WriteByte(0)
	}
	return b.String()
}

// Apply returns a filtered copy of params. Matching filters apply in order
// and each sees the result of the previous ones; replacement values
// overwrite existing parameters.
func (p *ParamFilter) Apply(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	maps.Copy(out, params)
	if p == nil || out["controller"] == ErrorsController {
		return out
	}
	for _, f := range p.filters {
		if subset(f.Match, out) {
			maps.Copy(out, f.Replace)
		}
	}
	return out
}

func subset(match, params map[string]string) bool {
	for k, v := range match {
		if got, ok := params[k]; !ok || got != v {
			return false
		}
	}
	return true
}

func (p *ParamFilter) Len() int {
	if p == nil {
		return 0
	}
	return len(p.filters)
}

// Filters returns a copy of the collapsed filters in application order.
func (p *ParamFilter) Filters() []feature.ViewFilter {
	if p == nil {
		return nil
	}
	out := make([]feature.ViewFilter, len(p.filters))
	for i, f := range p.filters {
		out[i] = feature.ViewFilter{Match: maps.Clone(f.Match), Replace: maps.Clone(f.Replace)}
	}
	return out
}
