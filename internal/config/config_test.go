package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"MODEL", "HTTP_PORT", "MONGODB_URI", "MONGODB_DB", "REQUEST_TIMEOUT", "SESSION_TTL", "MAX_ATTEMPTS", "TOOLS_FILE", "IMAGE_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, "agent_sessions", cfg.MongoDB)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Zero(t, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, "png", cfg.ImageFormat)
}

func TestLoad_DotEnvAndOverrides(t *testing.T) {
	t.Setenv("MODEL", "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "15s")
	t.Setenv("MAX_ATTEMPTS", "")

	// godotenv does not override variables that are already set, so the
	// ones read from the file must start out unset.
	require.NoError(t, os.Unsetenv("MODEL"))
	require.NoError(t, os.Unsetenv("MAX_ATTEMPTS"))
	t.Cleanup(func() {
		os.Unsetenv("MODEL")
		os.Unsetenv("MAX_ATTEMPTS")
	})

	path := writeFile(t, ".env", "MODEL=gemini-2.5-pro\nMAX_ATTEMPTS=5\nHTTP_PORT=7070\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")

	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("MAX_ATTEMPTS", "many")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_ATTEMPTS")
}

func TestLoadTools(t *testing.T) {
	t.Setenv("SEARCH_DESCRIPTION", "Busca documentos internos.")
	path := writeFile(t, "tools.yaml", `
- function_declarations:
    - name: search_docs
      description: ${SEARCH_DESCRIPTION}
      parameters:
        type: object
        properties:
          query:
            type: string
        required: [query]
`)

	tools, err := LoadTools(path)
	require.NoError(t, err)

	list, ok := tools.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)

	group, ok := list[0].(map[string]any)
	require.True(t, ok)
	decls, ok := group["function_declarations"].([]any)
	require.True(t, ok)
	decl := decls[0].(map[string]any)
	assert.Equal(t, "search_docs", decl["name"])
	assert.Equal(t, "Busca documentos internos.", decl["description"])
	assert.Equal(t, []any{"query"}, decl["parameters"].(map[string]any)["required"])
}

func TestLoadTools_Errors(t *testing.T) {
	_, err := LoadTools(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "config: load tools")

	_, err = LoadTools(writeFile(t, "bad.yaml", "- name: [unclosed"))
	require.ErrorContains(t, err, "config: parse tools")
}
