package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/corefer/internal/cache"
	"github.com/ppiankov/corefer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	cfg := model.KnowledgeConfig{
		Gazetteers: map[string]string{
			"PER": writeFile(t, dir, "per.tsv", sampleGazetteer),
		},
		StopWords:         writeFile(t, dir, "stop.txt", "# noise\nthe\nOf\n\nthe\ntwo words\n"),
		AmbiguousSurnames: filepath.Join(dir, "missing.txt"),
	}

	k, err := NewLoader(nil, nil, nil).Load(context.Background(), cfg)
	require.NoError(t, err)

	assert.True(t, k.HasGazetteer(model.EntityPerson))
	assert.True(t, k.HasStopWords())
	assert.True(t, k.IsStopWord("of"))
	assert.False(t, k.IsStopWord("two"))
	assert.Empty(t, k.AmbiguousSurnames(), "missing file disables the signal")

	// Unset team file keeps the built-in list
	_, ok := k.TeamID(Surface{Type: model.MentionName, EntityType: model.EntityOrganization, Words: []string{"jets"}})
	assert.True(t, ok)
}

func TestLoader_UnknownGazetteerType(t *testing.T) {
	cfg := model.KnowledgeConfig{Gazetteers: map[string]string{"ANIMAL": "x.tsv"}}

	_, err := NewLoader(nil, nil, nil).Load(context.Background(), cfg)
	assert.Error(t, err)
}

func TestLoader_ReadErrorFails(t *testing.T) {
	// A directory exists but cannot be read as a file
	cfg := model.KnowledgeConfig{StopWords: t.TempDir()}

	_, err := NewLoader(nil, nil, nil).Load(context.Background(), cfg)
	assert.Error(t, err)
}

func TestLoader_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	cfg := model.KnowledgeConfig{StopWords: writeFile(t, dir, "stop.txt", "the\n")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil, nil, nil).Load(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_UsesCache(t *testing.T) {
	dir := t.TempDir()
	cfg := model.KnowledgeConfig{
		Teams: writeFile(t, dir, "teams.txt", "arsenal\nchelsea\n"),
	}
	c := cache.NewMemoryCache(0, 0)
	loader := NewLoader(c, nil, nil)

	_, err := loader.Load(context.Background(), cfg)
	require.NoError(t, err)
	k, err := loader.Load(context.Background(), cfg)
	require.NoError(t, err)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	_, ok := k.TeamID(Surface{Type: model.MentionName, EntityType: model.EntityOrganization, Words: []string{"Chelsea"}})
	assert.True(t, ok)
}
