package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadConfigDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := LoadConfig([]string{"plant.xef"}, &out, fakeEnv(nil))
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "plant.xef", cfg.InputPath)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "catalogs", cfg.CatalogDir)
	assert.Equal(t, "VALE", cfg.Organization)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.StrictSlots)
	assert.False(t, cfg.Dump)
	assert.False(t, cfg.Date.IsZero())
}

func TestLoadConfigPrecedence(t *testing.T) {
	env := fakeEnv(map[string]string{
		envInput:        "from-env.xef",
		envOutputDir:    "/reports",
		envCatalogDir:   "/etc/iomatrix/catalogs",
		envOrganization: "ACME",
		envLogLevel:     "debug",
		envLogFormat:    "json",
	})

	cfg, _, err := LoadConfig(nil, &bytes.Buffer{}, env)
	require.NoError(t, err)
	assert.Equal(t, "from-env.xef", cfg.InputPath)
	assert.Equal(t, "/reports", cfg.OutputDir)
	assert.Equal(t, "/etc/iomatrix/catalogs", cfg.CatalogDir)
	assert.Equal(t, "ACME", cfg.Organization)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	// Flags beat the environment, -in beats the positional argument
	cfg, _, err = LoadConfig([]string{
		"-in", "flag.xef", "-out", "out", "-org", "Plant", "-log-level", "WARN", "-strict", "-dump", "positional.xef",
	}, &bytes.Buffer{}, env)
	require.NoError(t, err)
	assert.Equal(t, "flag.xef", cfg.InputPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "Plant", cfg.Organization)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.StrictSlots)
	assert.True(t, cfg.Dump)

	cfg, _, err = LoadConfig([]string{"positional.xef"}, &bytes.Buffer{}, env)
	require.NoError(t, err)
	assert.Equal(t, "positional.xef", cfg.InputPath)
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := [][]string{
		{"-log-level", "verbose", "a.xef"},
		{"-log-format", "xml", "a.xef"},
		{"-no-such-flag"},
	}
	for _, args := range cases {
		_, exit, err := LoadConfig(args, &bytes.Buffer{}, fakeEnv(nil))
		assert.False(t, exit)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr, args)
		assert.Equal(t, 2, exitErr.Code)
	}
}

func TestLoadConfigHelpAndVersion(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := LoadConfig([]string{"-h"}, &out, fakeEnv(nil))
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "XEF_PATH")

	out.Reset()
	_, exit, err = LoadConfig([]string{"-version"}, &out, fakeEnv(nil))
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Equal(t, "iomatrix vdev\n", out.String())
}

func TestNewConfigRequiresInput(t *testing.T) {
	_, err := NewConfig(Config{LogLevel: "info", LogFormat: "text"})
	assert.Error(t, err)
}
