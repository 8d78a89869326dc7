package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/models"
)

func TestCreateOrUpdateBio(t *testing.T) {
	t.Run("creates on first write", func(t *testing.T) {
		env := newTestEnv(t)
		marcy := registerUser(t, env, "marcy")

		bio, err := env.bios.CreateOrUpdate(context.Background(), marcy.ID, BioInput{
			Body:     "painter",
			Website:  "https://marcy.example.com",
			Location: "Lisbon",
		})
		require.NoError(t, err)
		assert.Equal(t, marcy.ID, bio.UserID)
		assert.Equal(t, "painter", bio.Body)
	})

	t.Run("updates in place on second write", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		marcy := registerUser(t, env, "marcy")

		first, err := env.bios.CreateOrUpdate(ctx, marcy.ID, BioInput{Body: "painter"})
		require.NoError(t, err)
		second, err := env.bios.CreateOrUpdate(ctx, marcy.ID, BioInput{Body: "sculptor"})
		require.NoError(t, err)

		// still one row per user
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "sculptor", second.Body)

		var count int64
		require.NoError(t, env.db.Model(&models.Bio{}).
			Where("user_id = ?", marcy.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.bios.CreateOrUpdate(context.Background(), 999, BioInput{Body: "ghost"})
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("over-length body is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		marcy := registerUser(t, env, "marcy")

		_, err := env.bios.CreateOrUpdate(context.Background(), marcy.ID, BioInput{
			Body: strings.Repeat("x", models.MaxBioBodyLen+1),
		})
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.CodeOf(err))
	})
}

func TestForUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	marcy := registerUser(t, env, "marcy")

	t.Run("nil when absent", func(t *testing.T) {
		bio, err := env.bios.ForUser(ctx, marcy.ID)
		require.NoError(t, err)
		assert.Nil(t, bio)
	})

	t.Run("returns the written bio", func(t *testing.T) {
		_, err := env.bios.CreateOrUpdate(ctx, marcy.ID, BioInput{Body: "painter"})
		require.NoError(t, err)

		bio, err := env.bios.ForUser(ctx, marcy.ID)
		require.NoError(t, err)
		require.NotNil(t, bio)
		assert.Equal(t, "painter", bio.Body)
	})
}
