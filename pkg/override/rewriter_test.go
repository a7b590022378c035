package override_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/waffle/pkg/override"
)

func TestExpandTemplatePaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patterns []string
		features []string
		want     []string
	}{
		{
			name:     "single feature",
			patterns: []string{"app/views/blog/{:template}.html.tmpl"},
			features: []string{"Promo"},
			want: []string{
				"app/views/features/blog/{:template}_Promo.html.tmpl",
				"app/views/blog/{:template}.html.tmpl",
			},
		},
		{
			name:     "features in registration order",
			patterns: []string{"{:library}/views/{:controller}/{:template}.{:type}.tmpl"},
			features: []string{"Promo", "Beta"},
			want: []string{
				"{:library}/views/features/{:controller}/{:template}_Promo.{:type}.tmpl",
				"{:library}/views/features/{:controller}/{:template}_Beta.{:type}.tmpl",
				"{:library}/views/{:controller}/{:template}.{:type}.tmpl",
			},
		},
		{
			name:     "layout placeholder",
			patterns: []string{"{:library}/views/layouts/{:layout}.{:type}.tmpl"},
			features: []string{"Promo"},
			want: []string{
				"{:library}/views/features/layouts/{:layout}_Promo.{:type}.tmpl",
				"{:library}/views/layouts/{:layout}.{:type}.tmpl",
			},
		},
		{
			name: "non matching patterns pass through",
			patterns: []string{
				"app/templates/blog/{:template}.html",
				"app/views/blog/show.html.tmpl",
				"app/views/{:template}.html.tmpl",
				"app/views/blog/{:template}.html.tmpl",
			},
			features: []string{"Promo"},
			want: []string{
				"app/templates/blog/{:template}.html",
				"app/views/blog/show.html.tmpl",
				"app/views/{:template}.html.tmpl",
				"app/views/features/blog/{:template}_Promo.html.tmpl",
				"app/views/blog/{:template}.html.tmpl",
			},
		},
		{
			name:     "first views segment and placeholder",
			patterns: []string{"app/views/blog/views/{:template}/{:template}.tmpl"},
			features: []string{"F"},
			want: []string{
				"app/views/features/blog/views/{:template}_F/{:template}.tmpl",
				"app/views/blog/views/{:template}/{:template}.tmpl",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, override.ExpandTemplatePaths(tt.patterns, tt.features))
		})
	}
}

func TestExpandTemplatePaths_Identity(t *testing.T) {
	t.Parallel()

	patterns := []string{
		"app/views/blog/{:template}.html.tmpl",
		"not a template",
		"",
	}
	got := override.ExpandTemplatePaths(patterns, nil)
	assert.Equal(t, patterns, got)

	got[0] = "changed"
	assert.Equal(t, "app/views/blog/{:template}.html.tmpl", patterns[0], "result is a copy")

	assert.Empty(t, override.ExpandTemplatePaths(nil, nil))
}

func TestExpandTemplatePaths_OriginalKeptOnceAfterDerivatives(t *testing.T) {
	t.Parallel()

	pattern := "app/views/blog/{:template}.html.tmpl"
	names := []string{"A", "B", "C"}
	got := override.ExpandTemplatePaths([]string{pattern}, names)

	assert.Len(t, got, len(names)+1)
	assert.Equal(t, pattern, got[len(got)-1])
	assert.Equal(t, 1, len(slices.DeleteFunc(slices.Clone(got), func(s string) bool { return s != pattern })))
	for i, name := range names {
		assert.Contains(t, got[i], "/views/features/")
		assert.Contains(t, got[i], "{:template}_"+name)
	}
}
