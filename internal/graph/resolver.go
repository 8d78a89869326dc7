// Package graph defines the GraphQL schema and its resolvers.
package graph

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"

	"atelier/internal/auth"
	"atelier/internal/guard"
	"atelier/internal/middleware"
	"atelier/internal/models"
	"atelier/internal/repository"
	"atelier/internal/service"
)

// Resolver holds the dependencies every field resolver may need.
type Resolver struct {
	accounts *service.AccountService
	posts    *service.PostService
	bios     *service.BioService
	rels     *service.RelationshipService
	users    repository.UserRepository
	tokens   *auth.TokenService
}

// NewResolver returns a Resolver over the given services.
func NewResolver(accounts *service.AccountService, posts *service.PostService, bios *service.BioService,
	rels *service.RelationshipService, users repository.UserRepository, tokens *auth.TokenService) *Resolver {
	return &Resolver{
		accounts: accounts,
		posts:    posts,
		bios:     bios,
		rels:     rels,
		users:    users,
		tokens:   tokens,
	}
}

// credentials merges the request-scoped credentials with a token passed as
// a GraphQL argument, the way the original clients send it.
func credentials(p graphql.ResolveParams) guard.Credentials {
	creds := guard.FromContext(p.Context)
	if t, ok := p.Args["token"].(string); ok && t != "" {
		creds.TokenArg = t
	}
	return creds
}

// callerID verifies the request's token and returns the authenticated
// user ID. The ID is not guaranteed to still exist; services re-resolve it.
func (r *Resolver) callerID(p graphql.ResolveParams) (uint, error) {
	return r.tokens.Verify(credentials(p).BearerToken())
}

// guarded wraps a resolver with the rule engine check for operation. A
// failing rule short-circuits; the resolver is never invoked.
func guarded(engine *guard.Engine, operation string, resolve graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if err := engine.Check(operation, credentials(p)); err != nil {
			middleware.GuardRejections.WithLabelValues(operation).Inc()
			return nil, err
		}
		return resolve(p)
	}
}

// parseID coerces a GraphQL ID argument into a numeric user/post ID.
func parseID(v interface{}) (uint, error) {
	switch id := v.(type) {
	case string:
		n, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			return 0, models.NewValidationError(fmt.Sprintf("invalid id %q", id))
		}
		return uint(n), nil
	case int:
		if id < 0 {
			return 0, models.NewValidationError(fmt.Sprintf("invalid id %d", id))
		}
		return uint(id), nil
	default:
		return 0, models.NewValidationError("id is required")
	}
}

func stringArg(p graphql.ResolveParams, name string) string {
	if s, ok := p.Args[name].(string); ok {
		return s
	}
	return ""
}

func intArg(p graphql.ResolveParams, name string) int {
	if n, ok := p.Args[name].(int); ok {
		return n
	}
	return 0
}

func decodeImageArg(p graphql.ResolveParams) ([]byte, error) {
	encoded := stringArg(p, "image")
	if encoded == "" {
		return nil, models.NewValidationError("image is required")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, models.NewValidationError("image must be base64-encoded")
	}
	return data, nil
}

// userSource unwraps the parent value of a User field.
func userSource(p graphql.ResolveParams) (*models.User, bool) {
	switch u := p.Source.(type) {
	case *models.User:
		return u, true
	case models.User:
		return &u, true
	default:
		return nil, false
	}
}

// postSource unwraps the parent value of a Post field.
func postSource(p graphql.ResolveParams) (*models.Post, bool) {
	switch post := p.Source.(type) {
	case *models.Post:
		return post, true
	case models.Post:
		return &post, true
	default:
		return nil, false
	}
}

// bioSource unwraps the parent value of a Bio field.
func bioSource(p graphql.ResolveParams) (*models.Bio, bool) {
	switch b := p.Source.(type) {
	case *models.Bio:
		return b, true
	case models.Bio:
		return &b, true
	default:
		return nil, false
	}
}
