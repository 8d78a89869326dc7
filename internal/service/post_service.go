package service

import (
	"context"
	"strconv"

	"atelier/internal/media"
	"atelier/internal/models"
	"atelier/internal/repository"
	"atelier/internal/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostService handles post creation, deletion and the read-side queries.
// The media store may be nil, in which case image uploads are rejected.
type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
	media media.Store
}

// NewPostService returns a new PostService.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, mediaStore media.Store) *PostService {
	return &PostService{posts: posts, users: users, media: mediaStore}
}

// CreatePostInput carries new-post fields. The author comes from the
// verified caller, never from a client-supplied handle.
type CreatePostInput struct {
	AuthorID  uint
	Title     string
	Content   string
	PostImage string
}

// CreatePost persists a new post authored by the caller.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	author, err := s.users.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		PostImage: in.PostImage,
		PostedBy:  author.Handle,
		LikedBy:   models.IDList{},
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post. Only the author or an admin may delete it.
func (s *PostService) DeletePost(ctx context.Context, callerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if post.PostedBy != caller.Handle && !caller.IsAdmin() {
		return nil, models.NewAuthorizationError("You are not authorized to delete this post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return nil, err
	}
	return post, nil
}

// UploadPostImage stores the image bytes on the media host and saves the
// returned URL on the post. Only the author or an admin may attach one.
func (s *PostService) UploadPostImage(ctx context.Context, callerID, postID uint, data []byte) (*models.Post, error) {
	if s.media == nil {
		return nil, models.NewInternalError(errMediaUnavailable)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if post.PostedBy != caller.Handle && !caller.IsAdmin() {
		return nil, models.NewAuthorizationError("You are not authorized to update this post")
	}

	url, err := s.media.UploadPostImage(ctx, strconv.FormatUint(uint64(postID), 10), data)
	if err != nil {
		return nil, err
	}

	post.PostImage = url
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a post by ID.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// ListPosts returns posts newest-first, paginated.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.posts.List(ctx, clampLimit(limit), clampOffset(offset))
}

// ListPostsByAuthor returns all posts by the given handle, newest-first.
func (s *PostService) ListPostsByAuthor(ctx context.Context, handle string) ([]models.Post, error) {
	return s.posts.ListByAuthor(ctx, handle)
}

// SearchPosts returns posts whose title or content contains term,
// case-insensitively.
func (s *PostService) SearchPosts(ctx context.Context, term string) ([]models.Post, error) {
	if term == "" {
		return []models.Post{}, nil
	}
	return s.posts.Search(ctx, term)
}

// ListMostLiked returns posts sorted by like count, paginated.
func (s *PostService) ListMostLiked(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.posts.ListMostLiked(ctx, clampLimit(limit), clampOffset(offset))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
