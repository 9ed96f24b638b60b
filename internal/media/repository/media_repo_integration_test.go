package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"folio_service/internal/media/domain"
	"folio_service/pkg/database"
	"folio_service/pkg/logger"
	testtool "folio_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Runs against a throwaway MongoDB container; needs a local docker daemon.
func TestMediaRepoIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("set RUN_INTEGRATION_TESTS to run container-backed tests")
	}

	logger.SetNewNop()
	ctx := context.Background()

	container, host, port, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:6",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
	require.NoError(t, err)
	defer container.Terminate(ctx)

	mongoDB, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", host, port),
		RetryCount:    5,
		RetryInterval: 2 * time.Second,
	}, "folio_test")
	require.NoError(t, err)
	defer mongoDB.Close(ctx)

	repo := NewMediaRepo(mongoDB.Database)

	record := &domain.MediaRecord{
		ID:      "it-rec-1",
		OwnerID: "it-owner",
		Title:   "Integration reel",
		Tags:    []string{"drama"},
		Status:  string(domain.MediaUploaded),
	}
	require.NoError(t, repo.Create(ctx, record))

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, "it-rec-1")
		require.NoError(t, err)
		assert.Equal(t, "it-owner", got.OwnerID)
		assert.Nil(t, got.DurationSeconds)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("poster patch bumps updated_at only", func(t *testing.T) {
		before, err := repo.GetByID(ctx, "it-rec-1")
		require.NoError(t, err)

		require.NoError(t, repo.UpdatePoster(ctx, "it-rec-1", "http://x/poster.jpg"))

		after, err := repo.GetByID(ctx, "it-rec-1")
		require.NoError(t, err)
		assert.Equal(t, "http://x/poster.jpg", after.PosterURL)
		assert.Equal(t, before.Title, after.Title)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt) || after.UpdatedAt.Equal(before.UpdatedAt))
	})

	t.Run("patching a missing record fails", func(t *testing.T) {
		err := repo.UpdatePoster(ctx, "nope", "http://x/poster.jpg")
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("finalize makes the record searchable", func(t *testing.T) {
		require.NoError(t, repo.FinalizeReady(ctx, "it-rec-1", 98.5, "http://x/default.jpg"))

		results, err := repo.SearchMedia(ctx, "Integration")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "it-rec-1", results[0].ID)
		require.NotNil(t, results[0].DurationSeconds)
		assert.Equal(t, 98.5, *results[0].DurationSeconds)
	})

	t.Run("view count increments", func(t *testing.T) {
		require.NoError(t, repo.IncrementViewCount(ctx, "it-rec-1"))
		require.NoError(t, repo.IncrementViewCount(ctx, "it-rec-1"))

		got, err := repo.GetByID(ctx, "it-rec-1")
		require.NoError(t, err)
		assert.Equal(t, uint(2), got.ViewCount)

		recommended, err := repo.RecommendMedia(ctx, 5)
		require.NoError(t, err)
		require.NotEmpty(t, recommended)
		assert.Equal(t, "it-rec-1", recommended[0].ID)
	})
}
