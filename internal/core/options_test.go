package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/exporter-bookmarks/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Upload:    config.UploadConfig{MaxConcurrent: 3, MaxWaitTime: time.Second},
		Bookmarks: config.BookmarksConfig{Exporters: []string{"exporter_acm"}, Deduplicate: true},
	}

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"exporter_acm"}, opts.Exporters)
	assert.True(t, opts.Deduplicate)
	assert.Equal(t, 3, opts.MaxConcurrent)
	assert.Equal(t, DefaultRules().Types(), opts.Rules.Types())
}

func TestOptionsFromConfig_RulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exporters: [exporter_ems]\nurl_rules:\n  exporter_ems: /console\n"), 0o600))

	cfg := &config.Config{Bookmarks: config.BookmarksConfig{
		Exporters: []string{"exporter_acm"},
		RulesFile: path,
	}}

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"exporter_ems"}, opts.Exporters)
	assert.Equal(t, "https://10.0.0.2/console", opts.Rules.URL("exporter_ems", "10.0.0.2"))
	_, ok := opts.Rules.Suffix("exporter_ams")
	assert.False(t, ok, "file rules replace the built-in table")
}

func TestOptionsFromConfig_BadRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url_rules:\n  exporter_ems: sbc\n"), 0o600))

	_, err := OptionsFromConfig(&config.Config{Bookmarks: config.BookmarksConfig{RulesFile: path}})
	assert.Error(t, err)

	_, err = OptionsFromConfig(&config.Config{Bookmarks: config.BookmarksConfig{RulesFile: filepath.Join(dir, "nope.yaml")}})
	assert.Error(t, err)
}
