package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, "monokai", cfg.Highlight.Dark)
	assert.NoError(t, cfg.Validate())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     int
	}{
		{name: "zero", pageSize: 0, want: 1},
		{name: "negative", pageSize: -5, want: 1},
		{name: "positive kept", pageSize: 7, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{PageSize: tt.pageSize}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.PageSize)
			assert.Equal(t, DefaultContentDir, cfg.ContentDir)
			assert.Equal(t, DefaultLayoutsDir, cfg.LayoutsDir)
			assert.Equal(t, DefaultStaticDir, cfg.StaticDir)
			assert.Equal(t, DefaultDebounce, cfg.Serve.Debounce)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.OutputDir = ""
	assert.ErrorIs(t, cfg.Validate(), ErrNoOutputDir)
}
