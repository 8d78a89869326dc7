package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/models"
)

func TestCreatePost(t *testing.T) {
	t.Run("stamps the author handle", func(t *testing.T) {
		env := newTestEnv(t)
		marcy := registerUser(t, env, "marcy")

		post := createPost(t, env, marcy, "hello world")
		assert.Equal(t, "marcy", post.PostedBy)
		assert.Equal(t, 0, post.LikesCount)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		env := newTestEnv(t)
		marcy := registerUser(t, env, "marcy")

		_, err := env.posts.CreatePost(context.Background(), CreatePostInput{
			AuthorID: marcy.ID,
			Content:  "   ",
		})
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.CodeOf(err))
	})

	t.Run("rejects over-length content", func(t *testing.T) {
		env := newTestEnv(t)
		marcy := registerUser(t, env, "marcy")

		_, err := env.posts.CreatePost(context.Background(), CreatePostInput{
			AuthorID: marcy.ID,
			Content:  strings.Repeat("x", models.MaxPostContentLen+1),
		})
		require.Error(t, err)
		assert.Equal(t, models.CodeValidation, models.CodeOf(err))
	})

	t.Run("unknown author is not found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.posts.CreatePost(context.Background(), CreatePostInput{
			AuthorID: 999,
			Content:  "orphan",
		})
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("author may delete", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		marcy := registerUser(t, env, "marcy")
		post := createPost(t, env, marcy, "mine")

		deleted, err := env.posts.DeletePost(ctx, marcy.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, deleted.ID)

		_, err = env.posts.GetPost(ctx, post.ID)
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("stranger may not delete", func(t *testing.T) {
		env := newTestEnv(t)
		marcy := registerUser(t, env, "marcy")
		devon := registerUser(t, env, "devon")
		post := createPost(t, env, marcy, "mine")

		_, err := env.posts.DeletePost(context.Background(), devon.ID, post.ID)
		require.Error(t, err)
		assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))
	})

	t.Run("admin may delete any post", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		marcy := registerUser(t, env, "marcy")
		admin := registerUser(t, env, "admin")
		require.NoError(t, env.db.Model(&models.User{}).
			Where("id = ?", admin.ID).Update("role", models.RoleAdmin).Error)
		post := createPost(t, env, marcy, "flagged")

		_, err := env.posts.DeletePost(ctx, admin.ID, post.ID)
		require.NoError(t, err)
	})
}

type stubMediaStore struct{}

func (stubMediaStore) UploadProfilePicture(_ context.Context, userID uint, _ []byte) (string, error) {
	return "http://cdn.test/avatars/stub.webp", nil
}

func (stubMediaStore) UploadPostImage(_ context.Context, postKey string, _ []byte) (string, error) {
	return "http://cdn.test/posts/" + postKey + ".png", nil
}

func TestUploadPostImage(t *testing.T) {
	t.Run("rejected without a media store", func(t *testing.T) {
		env := newTestEnv(t)
		marcy := registerUser(t, env, "marcy")
		post := createPost(t, env, marcy, "bare")

		_, err := env.posts.UploadPostImage(context.Background(), marcy.ID, post.ID, []byte{1})
		require.Error(t, err)
		assert.Equal(t, models.CodeInternal, models.CodeOf(err))
	})

	t.Run("author attaches the stored URL", func(t *testing.T) {
		env := newTestEnv(t)
		env.posts.media = stubMediaStore{}
		marcy := registerUser(t, env, "marcy")
		post := createPost(t, env, marcy, "with image")

		updated, err := env.posts.UploadPostImage(context.Background(), marcy.ID, post.ID, []byte{1})
		require.NoError(t, err)
		assert.NotEmpty(t, updated.PostImage)

		got, err := env.posts.GetPost(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.PostImage, got.PostImage)
	})

	t.Run("stranger may not attach", func(t *testing.T) {
		env := newTestEnv(t)
		env.posts.media = stubMediaStore{}
		marcy := registerUser(t, env, "marcy")
		devon := registerUser(t, env, "devon")
		post := createPost(t, env, marcy, "mine")

		_, err := env.posts.UploadPostImage(context.Background(), devon.ID, post.ID, []byte{1})
		require.Error(t, err)
		assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))
	})
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	marcy := registerUser(t, env, "marcy")
	devon := registerUser(t, env, "devon")

	createPost(t, env, marcy, "first")
	createPost(t, env, devon, "second")
	createPost(t, env, marcy, "third")

	t.Run("lists all posts", func(t *testing.T) {
		posts, err := env.posts.ListPosts(ctx, 0, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 3)
	})

	t.Run("clamps limit", func(t *testing.T) {
		posts, err := env.posts.ListPosts(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("filters by author", func(t *testing.T) {
		posts, err := env.posts.ListPostsByAuthor(ctx, "marcy")
		require.NoError(t, err)
		assert.Len(t, posts, 2)
		for _, p := range posts {
			assert.Equal(t, "marcy", p.PostedBy)
		}
	})
}

func TestSearchPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	marcy := registerUser(t, env, "marcy")

	createPost(t, env, marcy, "Painting with OILS today")
	createPost(t, env, marcy, "watercolor sketches")

	t.Run("matches case-insensitively", func(t *testing.T) {
		posts, err := env.posts.SearchPosts(ctx, "oils")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Contains(t, posts[0].Content, "OILS")
	})

	t.Run("empty term returns nothing", func(t *testing.T) {
		posts, err := env.posts.SearchPosts(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		posts, err := env.posts.SearchPosts(ctx, "sculpture")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestListMostLiked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	marcy := registerUser(t, env, "marcy")
	devon := registerUser(t, env, "devon")

	quiet := createPost(t, env, marcy, "quiet")
	popular := createPost(t, env, marcy, "popular")

	_, err := env.rels.LikeOrDislike(ctx, marcy.ID, popular.ID)
	require.NoError(t, err)
	_, err = env.rels.LikeOrDislike(ctx, devon.ID, popular.ID)
	require.NoError(t, err)
	_, err = env.rels.LikeOrDislike(ctx, devon.ID, quiet.ID)
	require.NoError(t, err)

	posts, err := env.posts.ListMostLiked(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, popular.ID, posts[0].ID)
	assert.Equal(t, quiet.ID, posts[1].ID)
}
