package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nekazari/nkz-module-robotics/internal/robotconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, robotconfig.DefaultPolicy(), "acme", "r2d2", formatJSON))

	var doc robotconfig.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "nkz/acme/r2d2", doc.Namespaces.Prefix)
	assert.Equal(t, []string{"tcp/10.8.0.1:7447"}, doc.Connect)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, robotconfig.DefaultPolicy(), "acme", "r2d2", formatYAML))

	var doc robotconfig.Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, robotconfig.ModeClient, doc.Mode)
	assert.Equal(t, "nkz/acme/r2d2/heartbeat", doc.Safety.WatchdogTopic)
	assert.Equal(t, int64(1000), doc.Safety.WatchdogTimeoutMS)
	assert.Contains(t, buf.String(), "watchdog_timeout_ms: 1000")
}

func TestRender_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := render(&buf, robotconfig.DefaultPolicy(), "a/b", "r2d2", formatJSON)
	assert.True(t, robotconfig.IsValidationError(err))

	err = render(&buf, robotconfig.DefaultPolicy(), "acme", "r2d2", "toml")
	assert.ErrorContains(t, err, "unsupported format")

	err = render(&buf, robotconfig.Policy{}, "acme", "r2d2", formatJSON)
	assert.Error(t, err)

	assert.Empty(t, buf.String())
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generator:\n  watchdog_timeout: 750ms\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"render", "--config", path, "--tenant", "acme", "--robot", "r2d2", "-o", "json"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var doc robotconfig.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, int64(750), doc.Safety.WatchdogTimeoutMS)
}

func TestCheckConfigCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generator:\n  router_endpoints: []\n"), 0o600))

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"check-config", "--config", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "router endpoint")
}
