package environment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/waffle/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{"development", environment.Development},
		{"dev", environment.Development},
		{" PROD ", environment.Production},
		{"stage", environment.Staging},
		{"test", environment.Test},
		{"qa", environment.Environment("qa")},
		{"", environment.Environment("")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, environment.Parse(tt.in))
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := environment.WithContext(context.Background(), "prod")
	assert.Equal(t, "production", environment.FromContext(ctx))
	assert.True(t, environment.Is(ctx, environment.Production))
	assert.False(t, environment.Is(ctx, environment.Staging))

	assert.Empty(t, environment.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, environment.FromContext(nil))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := environment.Middleware("staging")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = environment.FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "staging", got)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := environment.LoggerExtractor()

	attr, ok := extract(environment.WithContext(context.Background(), "dev"))
	assert.True(t, ok)
	assert.Equal(t, "env", attr.Key)
	assert.Equal(t, "development", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}
