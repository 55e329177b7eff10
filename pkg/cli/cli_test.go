package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/bundlebump/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func clearCredentials(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("BUNDLEBUMP_GITHUB_APP_ID", "0")
	t.Setenv("BUNDLEBUMP_GITHUB_APP_INSTALLATION_ID", "0")
	t.Setenv("BUNDLEBUMP_GITHUB_APP_PRIVATE_KEY", "")
	t.Setenv("CI", "true")
}

func TestRun_MissingToken(t *testing.T) {
	clearCredentials(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"bundlebump"}, &out)
	gt.Value(t, errors.Is(err, config.ErrMissingToken)).Equal(true)
	gt.Value(t, out.Len()).Equal(0)
}

func TestRun_DebugGuard(t *testing.T) {
	clearCredentials(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"bundlebump", "--token", "ghp_x", "--debug"}, &out)
	gt.Value(t, errors.Is(err, config.ErrNotOnCI)).Equal(true)
}

func TestRun_InvalidType(t *testing.T) {
	clearCredentials(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"bundlebump", "--token", "ghp_x", "-t", "bundledDependencies"}, &out)
	gt.Error(t, err)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	clearCredentials(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"bundlebump", "--token", "ghp_x", "--log-level", "verbose"}, &out)
	gt.Error(t, err)
}

func TestRun_Push(t *testing.T) {
	clearCredentials(t)

	var updated map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/bundle/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Query().Get("ref")).Equal("main")
		w.Header().Set("Content-Type", "application/json")
		gt.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"sha":      "blob-sha",
			"content":  base64.StdEncoding.EncodeToString([]byte(`{"dependencies":{"foo":"^1.2.0"}}`)),
		}))
	})
	mux.HandleFunc("PUT /repos/acme/bundle/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		w.Header().Set("Content-Type", "application/json")
		gt.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"commit": map[string]any{"html_url": "https://github.com/acme/bundle/commit/abc"},
		}))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{
		"name": "foo",
		"version": "1.3.0",
		"repository": {"type": "git", "url": "git+https://github.com/acme/foo.git"}
	}`), 0644))

	var out bytes.Buffer
	err := run(context.Background(), []string{
		"bundlebump",
		"--token", "ghp_x",
		"--github-base-url", server.URL,
		"--dir", dir,
		"-b", "main",
		"-u", "acme",
		"-r", "bundle",
	}, &out)
	gt.NoError(t, err)

	gt.String(t, out.String()).Contains("https://github.com/acme/bundle/commit/abc")
	gt.Value(t, updated["message"]).Equal(any("feat(package): updated foo to version 1.3.0"))
	gt.Value(t, updated["branch"]).Equal(any("main"))

	content, err := base64.StdEncoding.DecodeString(updated["content"].(string))
	gt.NoError(t, err)
	gt.Value(t, string(content)).Equal("{\n  \"dependencies\": {\n    \"foo\": \"1.3.0\"\n  }\n}\n")
}
