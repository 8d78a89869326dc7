package service

import (
	"context"

	"gorm.io/gorm"

	"atelier/internal/models"
	"atelier/internal/repository"
)

// RelationshipService maintains the symmetric follow graph and the
// single-sided like sets. Both operations are toggles: the effect is the
// logical negation of current membership state.
type RelationshipService struct {
	db    *gorm.DB
	users repository.UserRepository
	posts repository.PostRepository
}

// NewRelationshipService returns a new RelationshipService.
func NewRelationshipService(db *gorm.DB, users repository.UserRepository, posts repository.PostRepository) *RelationshipService {
	return &RelationshipService{db: db, users: users, posts: posts}
}

// FollowOrUnfollow toggles whether the acting user follows targetHandle.
// The two record updates run in one transaction so the symmetry invariant
// (B.handle in A.following iff A.handle in B.followers) cannot be
// half-committed. Returns the updated target user.
func (s *RelationshipService) FollowOrUnfollow(ctx context.Context, actingUserID uint, targetHandle string) (*models.User, error) {
	var target *models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		actor, err := users.GetByID(ctx, actingUserID)
		if err != nil {
			return err
		}

		if actor.Handle == targetHandle {
			return models.NewValidationError("You cannot follow yourself")
		}

		target, err = users.GetByHandle(ctx, targetHandle)
		if err != nil {
			return err
		}
		if target == nil {
			return models.NewNotFoundError("User", targetHandle)
		}

		if actor.Following.Contains(targetHandle) {
			actor.Following = actor.Following.Without(targetHandle)
			target.Followers = target.Followers.Without(actor.Handle)
		} else {
			actor.Following = append(actor.Following, targetHandle)
			target.Followers = append(target.Followers, actor.Handle)
		}
		target.FollowersCount = len(target.Followers)

		if err := users.Update(ctx, actor); err != nil {
			return err
		}
		return users.Update(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// LikeOrDislike toggles the acting user's membership in the post's likedBy
// set. Two consecutive identical calls produce opposite states.
func (s *RelationshipService) LikeOrDislike(ctx context.Context, actingUserID uint, postID uint) (*models.Post, error) {
	// Re-resolve the caller; a verified token for a deleted user is
	// "caller not found", not a crash.
	if _, err := s.users.GetByID(ctx, actingUserID); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.LikedBy.Contains(actingUserID) {
		post.LikedBy = post.LikedBy.Without(actingUserID)
	} else {
		post.LikedBy = append(post.LikedBy, actingUserID)
	}
	post.LikesCount = len(post.LikedBy)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}
