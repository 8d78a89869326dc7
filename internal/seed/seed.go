// Package seed creates demo data for development databases.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"atelier/internal/auth"
	"atelier/internal/models"
	"atelier/internal/repository"
	"atelier/internal/service"
)

// Options controls how much data Seed generates.
type Options struct {
	Users        int
	PostsPerUser int
	Follows      int
	Likes        int
	Password     string
}

// DefaultOptions is a reasonable demo data set.
func DefaultOptions() Options {
	return Options{
		Users:        15,
		PostsPerUser: 4,
		Follows:      40,
		Likes:        80,
		Password:     "secret1",
	}
}

// Factory builds demo entities through the service layer, so seeded data
// obeys the same rules as real traffic (symmetric follows, like counts).
type Factory struct {
	db       *gorm.DB
	accounts *service.AccountService
	posts    *service.PostService
	bios     *service.BioService
	rels     *service.RelationshipService
	rand     *rand.Rand
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	bioRepo := repository.NewBioRepository(db)
	tokens := auth.NewTokenService("seed-only-secret", auth.DefaultTokenTTL)

	return &Factory{
		db:       db,
		accounts: service.NewAccountService(db, userRepo, postRepo, bioRepo, tokens, nil),
		posts:    service.NewPostService(postRepo, userRepo, nil),
		bios:     service.NewBioService(bioRepo, userRepo),
		rels:     service.NewRelationshipService(db, userRepo, postRepo),
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser registers a generated account. Overrides run on the input
// before registration.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*service.RegisterInput)) (*models.User, error) {
	handle := strings.ToLower(gofakeit.Username())
	handle = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, handle)
	handle = fmt.Sprintf("%s%d", handle, gofakeit.Number(100, 999))

	in := service.RegisterInput{
		Username: fmt.Sprintf("%s_%d", gofakeit.Word(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Handle:   handle,
		Password: "secret1",
	}
	for _, override := range overrides {
		override(&in)
	}
	return f.accounts.Register(ctx, in)
}

// CreatePost creates a generated post authored by user.
func (f *Factory) CreatePost(ctx context.Context, user *models.User) (*models.Post, error) {
	content := gofakeit.Sentence(12)
	if len(content) > models.MaxPostContentLen {
		content = content[:models.MaxPostContentLen]
	}
	return f.posts.CreatePost(ctx, service.CreatePostInput{
		AuthorID: user.ID,
		Title:    gofakeit.Sentence(4),
		Content:  content,
	})
}

// CreateBio writes a generated bio for user.
func (f *Factory) CreateBio(ctx context.Context, user *models.User) (*models.Bio, error) {
	return f.bios.CreateOrUpdate(ctx, user.ID, service.BioInput{
		Body:     gofakeit.Sentence(8),
		Website:  gofakeit.URL(),
		Location: gofakeit.City(),
	})
}

// Run populates the database per opts.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	f := NewFactory(db)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		var overrides []func(*service.RegisterInput)
		if opts.Password != "" {
			overrides = append(overrides, func(in *service.RegisterInput) {
				in.Password = opts.Password
			})
		}
		user, err := f.CreateUser(ctx, overrides...)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)

		// roughly half the accounts are artists with a bio
		if i%2 == 0 {
			if _, err := f.accounts.ToggleArtist(ctx, user.ID); err != nil {
				return fmt.Errorf("seed artist: %w", err)
			}
			if _, err := f.CreateBio(ctx, user); err != nil {
				return fmt.Errorf("seed bio: %w", err)
			}
		}
	}

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := f.CreatePost(ctx, user)
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}

	for i := 0; i < opts.Follows; i++ {
		actor := users[f.rand.Intn(len(users))]
		target := users[f.rand.Intn(len(users))]
		if actor.ID == target.ID {
			continue
		}
		if _, err := f.rels.FollowOrUnfollow(ctx, actor.ID, target.Handle); err != nil {
			return fmt.Errorf("seed follow: %w", err)
		}
	}

	for i := 0; i < opts.Likes; i++ {
		actor := users[f.rand.Intn(len(users))]
		post := posts[f.rand.Intn(len(posts))]
		if _, err := f.rels.LikeOrDislike(ctx, actor.ID, post.ID); err != nil {
			return fmt.Errorf("seed like: %w", err)
		}
	}

	slog.Info("seed complete",
		"users", len(users),
		"posts", len(posts),
		"follows", opts.Follows,
		"likes", opts.Likes)
	return nil
}
