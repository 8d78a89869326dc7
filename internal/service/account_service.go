// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"atelier/internal/auth"
	"atelier/internal/media"
	"atelier/internal/models"
	"atelier/internal/repository"
	"atelier/internal/validation"
)

var errMediaUnavailable = errors.New("media store not configured")

// AccountService handles registration, login and account-level mutations.
type AccountService struct {
	db     *gorm.DB
	users  repository.UserRepository
	posts  repository.PostRepository
	bios   repository.BioRepository
	tokens *auth.TokenService
	media  media.Store
}

// NewAccountService returns a new AccountService. The media store may be
// nil, in which case profile picture uploads are rejected.
func NewAccountService(db *gorm.DB, users repository.UserRepository, posts repository.PostRepository,
	bios repository.BioRepository, tokens *auth.TokenService, mediaStore media.Store) *AccountService {
	return &AccountService{db: db, users: users, posts: posts, bios: bios, tokens: tokens, media: mediaStore}
}

// RegisterInput carries registration fields. There is deliberately no role
// field: accounts always start as USER.
type RegisterInput struct {
	Username string
	Email    string
	Handle   string
	Password string
}

// LoginResult is what a successful login returns. The user's password
// digest is excluded from serialization by the model.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account, rejecting duplicate email or handle.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateHandle(in.Handle); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.users.ExistsByEmailOrHandle(ctx, in.Email, in.Handle)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("User with such handle or email already exists. Please choose another.")
	}

	digest, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Handle:    in.Handle,
		Password:  digest,
		Following: models.HandleList{},
		Followers: models.HandleList{},
		Role:      models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password and issues a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", email)
	}

	if !auth.VerifyPassword(user.Password, password) {
		return nil, models.NewAuthenticationError("Incorrect password")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// CurrentUser verifies token and resolves the embedded ID against the user
// store. A verified token for a deleted user yields not-found.
func (s *AccountService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// UpdateUsername changes a user's display name. Callers may only update
// themselves.
func (s *AccountService) UpdateUsername(ctx context.Context, callerID, targetID uint, username string) (*models.User, error) {
	if callerID != targetID {
		return nil, models.NewAuthorizationError("You are not authorized to update this user")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	taken, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken != nil && taken.ID != targetID {
		return nil, models.NewConflictError("Username already taken")
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.Username = username
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateEmail changes a user's email. Callers may only update themselves.
func (s *AccountService) UpdateEmail(ctx context.Context, callerID, targetID uint, email string) (*models.User, error) {
	if callerID != targetID {
		return nil, models.NewAuthorizationError("You are not authorized to update this user")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	taken, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken != nil && taken.ID != targetID {
		return nil, models.NewConflictError("Email already taken")
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.Email = email
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleArtist flips the user's artist flag.
func (s *AccountService) ToggleArtist(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Artist = !user.Artist
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadProfilePicture stores the image bytes on the media host and saves
// the returned URL on the user.
func (s *AccountService) UploadProfilePicture(ctx context.Context, userID uint, data []byte) (*models.User, error) {
	if s.media == nil {
		return nil, models.NewInternalError(errMediaUnavailable)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.media.UploadProfilePicture(ctx, userID, data)
	if err != nil {
		return nil, err
	}

	user.ProfilePicture = url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user together with all their posts and their
// bio, in one transaction.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.posts.WithTx(tx).DeleteByAuthor(ctx, user.Handle); err != nil {
			return err
		}
		if err := s.bios.WithTx(tx).DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
