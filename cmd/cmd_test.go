package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/services"
	"portfolio/internal/validation"
	"portfolio/pkg/rabbitmq"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newPostService(t *testing.T) (*services.CollectionService[models.BlogPost], *repositories.MemoryRepository[models.BlogPost]) {
	t.Helper()
	repo := repositories.NewMemoryRepository[models.BlogPost](repositories.NewMemoryDatabase())
	return services.NewCollectionService[models.BlogPost](repo, time.Second, nil), repo
}

func TestImportPosts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hello.md", "---\ntitle: Hello\npublished: true\ntags: [intro]\n---\n# Hi\n")
	writeFile(t, dir, "nested/second.md", "---\ntitle: Second\nslug: two\n---\nbody\n")
	writeFile(t, dir, "notes.txt", "not a post")

	posts, repo := newPostService(t)
	imported, err := importPosts(context.Background(), dir, posts, validation.New(), zap.NewNop(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	docs, err := repo.Find(context.Background(), nil, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	slugs := map[string]models.BlogPost{}
	for _, doc := range docs {
		slugs[doc.Data.Slug] = doc.Data
	}
	require.Contains(t, slugs, "hello")
	assert.True(t, slugs["hello"].Published)
	assert.Equal(t, []string{"intro"}, slugs["hello"].Tags)
	require.Contains(t, slugs, "two")
	assert.False(t, slugs["two"].Published)
	assert.Equal(t, []string{}, slugs["two"].Tags)
}

func TestImportPosts_InvalidPostIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.md", "---\ntitle: Fine\n---\ntext\n")
	writeFile(t, dir, "untitled.md", "---\nexcerpt: no title\n---\ntext\n")

	posts, repo := newPostService(t)
	imported, err := importPosts(context.Background(), dir, posts, validation.New(), zap.NewNop(), false)
	assert.ErrorContains(t, err, "1 post(s)")
	assert.Equal(t, 1, imported)

	docs, err := repo.Find(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestImportPosts_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.md", "---\ntitle: Fine\n---\ntext\n")

	posts, repo := newPostService(t)
	imported, err := importPosts(context.Background(), dir, posts, validation.New(), zap.NewNop(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	docs, err := repo.Find(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestImportPosts_MissingDir(t *testing.T) {
	posts, _ := newPostService(t)
	_, err := importPosts(context.Background(), filepath.Join(t.TempDir(), "absent"), posts, validation.New(), zap.NewNop(), false)
	assert.Error(t, err)
}

func TestHandleEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	subject := "Hi"
	payload, err := json.Marshal(services.ContactEvent{ID: "m1", Name: "Grace", Email: "g@example.com", Subject: &subject})
	require.NoError(t, err)

	require.NoError(t, handleEvent(logger, rabbitmq.Event{Type: services.ContactMessageCreated, Payload: payload}))
	entries := logs.FilterMessage("new contact message").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "m1", entries[0].ContextMap()["id"])
	assert.Equal(t, "Hi", entries[0].ContextMap()["subject"])

	assert.NoError(t, handleEvent(logger, rabbitmq.Event{Type: "something.else"}))
	assert.Error(t, handleEvent(logger, rabbitmq.Event{Type: services.ContactMessageCreated, Payload: []byte(`"nope"`)}))
}
