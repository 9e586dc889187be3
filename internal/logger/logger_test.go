package logger

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etemplate-service/internal/config"
)

func TestInit_Console(t *testing.T) {
	closer := Init(config.LoggerConfig{Level: "debug", Format: "text"})
	defer closer.Close()

	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	closer := Init(config.LoggerConfig{Level: "loud", Format: "json"})
	defer closer.Close()

	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etemplate.log")
	closer := Init(config.LoggerConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1})

	log.WithField("template", "/addressbook/templates/default/edit.xet").Info("template loaded")
	require.NoError(t, closer.Close())
	log.SetOutput(os.Stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"template loaded"`)
}
