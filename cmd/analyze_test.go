package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambabib/depcheck/pkg/config"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "depcheck-cmd-")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	for name, content := range files {
		p := filepath.Join(tempDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return tempDir
}

func TestRunAnalyze_Text(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"package.json": `{"dependencies": {"lodash": "^4.0.0", "chalk": "^4.0.0"}}`,
		"app.js":       `var _ = require('lodash');`,
	})

	var buf bytes.Buffer
	unused, err := runAnalyze(context.Background(), config.DefaultConfig(), dir, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, unused)
	assert.Contains(t, buf.String(), "chalk")
	assert.NotContains(t, buf.String(), "lodash")
}

func TestRunAnalyze_NothingUnused(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"package.json": `{"dependencies": {"lodash": "^4.0.0"}}`,
		"lib/index.js": `import _ from 'lodash';`,
	})

	var buf bytes.Buffer
	unused, err := runAnalyze(context.Background(), config.DefaultConfig(), dir, &buf)
	require.NoError(t, err)
	assert.Zero(t, unused)
	assert.Contains(t, buf.String(), "No unused dependencies")
}

func TestRunAnalyze_MissingManifest(t *testing.T) {
	dir := writeFiles(t, nil)

	var buf bytes.Buffer
	_, err := runAnalyze(context.Background(), config.DefaultConfig(), dir, &buf)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestAnalyzeCommand_JSONWithConfigFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"package.json": `{"dependencies": {"react": "^18.0.0", "foo": "1.0.0"}, "devDependencies": {"@types/react": "^18.0.0"}}`,
		".depcheck.yaml": `extensions: [".js", ".jsx"]
jsx: true
ignoreDirs: [dist]
ignoreMatches: ["@types/*"]
`,
		"src/App.jsx":    `import React from 'react'; export default () => <App />;`,
		"dist/bundle.js": `require('foo');`,
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"analyze", "--path", dir, "--format", "json"})
	err := rootCmd.Execute()
	require.ErrorIs(t, err, ErrUnusedFound)

	var report struct {
		Dependencies []struct {
			Name string `json:"name"`
		} `json:"dependencies"`
		DevDependencies []struct {
			Name string `json:"name"`
		} `json:"devDependencies"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Dependencies, 1)
	assert.Equal(t, "foo", report.Dependencies[0].Name)
	assert.Empty(t, report.DevDependencies)
}
