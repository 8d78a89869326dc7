package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"atelier/internal/auth"
	"atelier/internal/models"
	"atelier/internal/repository"
)

// setupTestDB creates an in-memory SQLite database for testing. The pool is
// pinned to one connection so every query sees the same in-memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Bio{}))
	return db
}

type testEnv struct {
	db       *gorm.DB
	tokens   *auth.TokenService
	accounts *AccountService
	posts    *PostService
	bios     *BioService
	rels     *RelationshipService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	bioRepo := repository.NewBioRepository(db)
	tokens := auth.NewTokenService("test-secret-key", time.Hour)

	return &testEnv{
		db:       db,
		tokens:   tokens,
		accounts: NewAccountService(db, userRepo, postRepo, bioRepo, tokens, nil),
		posts:    NewPostService(postRepo, userRepo, nil),
		bios:     NewBioService(bioRepo, userRepo),
		rels:     NewRelationshipService(db, userRepo, postRepo),
	}
}

// registerUser creates an account with handle-derived unique fields.
func registerUser(t *testing.T, env *testEnv, handle string) *models.User {
	t.Helper()

	user, err := env.accounts.Register(context.Background(), RegisterInput{
		Username: handle + "_name",
		Email:    fmt.Sprintf("%s@example.com", handle),
		Handle:   handle,
		Password: "secret1",
	})
	require.NoError(t, err)
	return user
}

func createPost(t *testing.T, env *testEnv, author *models.User, content string) *models.Post {
	t.Helper()

	post, err := env.posts.CreatePost(context.Background(), CreatePostInput{
		AuthorID: author.ID,
		Title:    "a title",
		Content:  content,
	})
	require.NoError(t, err)
	return post
}
