package repositories_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/models"
	"portfolio/internal/repositories"
)

// Runs against a live server only when MONGODB_TEST_URL is set.
func TestMongoRepository_CreateAndFind(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URL")
	if uri == "" {
		t.Skip("MONGODB_TEST_URL not set")
	}
	ctx := context.Background()

	db, err := repositories.OpenMongo(ctx, uri, "portfolio_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer db.Close(ctx)

	repo := repositories.NewMongoRepository[models.GuestbookEntry](db)
	id, err := repo.Create(ctx, &models.GuestbookEntry{Name: "Ada", Message: "Hi!"})
	require.NoError(t, err)
	assert.Len(t, id, 24)

	docs, err := repo.Find(ctx, repositories.Filter{"name": "Ada"}, 100)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "Hi!", docs[0].Data.Message)

	empty, err := repositories.NewMongoRepository[models.UseItem](db).Find(ctx, nil, 200)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
