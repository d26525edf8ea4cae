package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factchecker/cinecheck/internal/models"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeConfig writes a config that keeps all files under a temp dir and
// points the scraper at baseURL.
func writeConfig(t *testing.T, baseURL string) (path, dir string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "cinecheck.yaml")
	content := fmt.Sprintf(`database:
  path: %s
reports:
  dir: %s
scraper:
  base_url: %s
  requests_per_second: 0
  timeout: 5s
logging:
  level: error
`, filepath.Join(dir, "data", "cinecheck.db"), filepath.Join(dir, "reports"), baseURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path, dir
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "cinecheck")
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "cinecheck.yaml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration")
	_, err = os.Stat(target)
	require.NoError(t, err)

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
}

func TestConfigValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o644))

	_, _, err := runCLI(t, []string{"config", "validate"}, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}

func TestVerifyCommand(t *testing.T) {
	configPath, dir := writeConfig(t, "http://127.0.0.1:1")

	evidence := filepath.Join(dir, "evidence.json")
	require.NoError(t, os.WriteFile(evidence, []byte(`{
		"source": "tmdb",
		"title": "Breaking Bad",
		"year": "(2008)",
		"creator": "Vince Gilligan",
		"cast": [{"actor": "Bryan Cranston", "character": "Walter White"}]
	}`), 0o644))

	out, _, err := runCLI(t, []string{"verify", "--evidence", evidence, "Breaking", "Bad", "premiered", "in", "2010"}, configPath)
	require.NoError(t, err)

	var verdict models.Verdict
	require.NoError(t, json.Unmarshal([]byte(out), &verdict))
	assert.Equal(t, models.TruthFalse, verdict.IsTrue)
	assert.Equal(t, models.CategoryYear, verdict.Category)
	assert.Equal(t, models.MethodRules, verdict.Method)
}

func TestVerifyCommand_NoEvidence(t *testing.T) {
	configPath, _ := writeConfig(t, "http://127.0.0.1:1")

	out, _, err := runCLI(t, []string{"verify", "Titanic won 11 Oscars"}, configPath)
	require.NoError(t, err)

	var verdict models.Verdict
	require.NoError(t, json.Unmarshal([]byte(out), &verdict))
	assert.Equal(t, models.TruthUnknown, verdict.IsTrue)
	assert.Equal(t, models.MethodNone, verdict.Method)
}

func TestAskCommand(t *testing.T) {
	page, err := os.ReadFile("../../internal/scrape/testdata/tv_1396.html")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/tv/1396", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	configPath, dir := writeConfig(t, srv.URL)

	out, _, err := runCLI(t, []string{"ask", "--json", "Is it true that Aaron Paul acted in Breaking Bad?"}, configPath)
	require.NoError(t, err)

	var result models.ChatResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Verdict)
	assert.Equal(t, models.TruthTrue, result.Verdict.IsTrue)
	require.NotNil(t, result.Report)
	assert.Equal(t, filepath.Join(dir, "reports"), filepath.Dir(result.Report.Filename))

	_, err = os.Stat(filepath.Join(dir, "data", "cinecheck.db"))
	assert.NoError(t, err)
}

func TestAskCommand_RequiresQuery(t *testing.T) {
	configPath, _ := writeConfig(t, "http://127.0.0.1:1")
	_, _, err := runCLI(t, []string{"ask"}, configPath)
	require.Error(t, err)
}
