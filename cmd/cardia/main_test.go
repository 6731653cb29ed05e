package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initConfigForTest points initConfig at an empty config file so the result
// reflects only flags and environment.
func initConfigForTest(t *testing.T) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(""), 0o600))

	prev := cfgFile
	cfgFile = cfgPath
	t.Cleanup(func() { cfgFile = prev })

	require.NoError(t, initConfig(nil, nil))
}

func TestInitConfig_BackendOriginFromEnv(t *testing.T) {
	t.Setenv("CARDIA_BACKEND_ORIGIN", "http://example.test:9999")

	initConfigForTest(t)

	assert.Equal(t, "http://example.test:9999", viper.GetString("backend.origin"))
}

func TestInitConfig_DatabasePathFromEnv(t *testing.T) {
	t.Setenv("CARDIA_DATABASE_PATH", "/tmp/cardia-test.db")

	initConfigForTest(t)

	assert.Equal(t, "/tmp/cardia-test.db", viper.GetString("database.path"))
}
