package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.Index.Type)
	assert.Equal(t, 730, cfg.Chunker.Size)
	assert.Equal(t, 20, cfg.Summarizer.TopKeywords)
	assert.Equal(t, 5, cfg.Course.Lessons)
	assert.Equal(t, "English", cfg.Course.Language)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("course:\n  lessons: 8\n  language: Chinese\nembedder:\n  type: openai\n  openai:\n    model: custom-embed\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Course.Lessons)
	assert.Equal(t, "Chinese", cfg.Course.Language)
	assert.Equal(t, 3, cfg.Course.MinLessons)
	assert.Equal(t, 15, cfg.Course.MaxLessons)
	assert.Equal(t, "custom-embed", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Completion.APIKeyEnv)
	assert.Equal(t, 730, cfg.Chunker.Size)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Course.Lessons = 7
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Course.Lessons)
	assert.Equal(t, cfg.Completion.Model, loaded.Completion.Model)
}
