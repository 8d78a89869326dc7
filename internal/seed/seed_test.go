package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"atelier/internal/models"
)

func TestRun(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Bio{}))

	opts := Options{Users: 4, PostsPerUser: 2, Follows: 6, Likes: 6, Password: "secret1"}
	require.NoError(t, Run(context.Background(), db, opts))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	assert.Len(t, users, opts.Users)

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.Equal(t, int64(opts.Users*opts.PostsPerUser), postCount)

	// seeded data goes through the services, so the follow graph must be
	// symmetric
	byHandle := make(map[string]models.User, len(users))
	for _, u := range users {
		byHandle[u.Handle] = u
	}
	for _, u := range users {
		assert.Equal(t, len(u.Followers), u.FollowersCount)
		for _, followed := range u.Following {
			peer, ok := byHandle[followed]
			require.True(t, ok)
			assert.True(t, peer.Followers.Contains(u.Handle))
		}
	}
}
