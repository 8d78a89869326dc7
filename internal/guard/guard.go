// Package guard implements the declarative per-operation authorization
// layer: a mapping from operation name to a predicate over the request's
// credentials, evaluated before the operation's resolver runs.
package guard

import (
	"context"
	"strings"

	"atelier/internal/models"
)

// Credentials is the credential material a rule may inspect. Rules check
// syntactic presence only; signature and expiry validation is the token
// service's job inside the operation handler.
type Credentials struct {
	// Authorization is the raw Authorization header value, if any.
	Authorization string
	// TokenArg is a token passed as a GraphQL argument, if any.
	TokenArg string
}

// BearerToken returns the credential token from either transport, with the
// "Bearer" prefix stripped, or "" when none is present.
func (c Credentials) BearerToken() string {
	if c.TokenArg != "" {
		return c.TokenArg
	}
	if c.Authorization == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(c.Authorization, "Bearer"))
}

// Rule is a predicate gating execution of a protected operation.
type Rule func(Credentials) bool

// Authenticated passes iff the request carries a bearer-style credential.
func Authenticated(c Credentials) bool {
	return c.BearerToken() != ""
}

// Engine evaluates the rule registered for an operation. Operations with
// no registered rule are unguarded.
type Engine struct {
	rules map[string]Rule
}

// NewEngine returns an Engine over the given operation→rule mapping.
func NewEngine(rules map[string]Rule) *Engine {
	if rules == nil {
		rules = map[string]Rule{}
	}
	return &Engine{rules: rules}
}

// Check evaluates the rule for operation, if one is registered. A failing
// rule yields an authorization error and the caller must not invoke the
// operation's resolver.
func (e *Engine) Check(operation string, c Credentials) error {
	rule, ok := e.rules[operation]
	if !ok {
		return nil
	}
	if !rule(c) {
		return models.NewAuthorizationError("Not authorized to perform " + operation)
	}
	return nil
}

// DefaultRules guards every mutation that acts on behalf of a caller.
// Queries stay open; register and login must be reachable anonymously.
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		"createPost":           Authenticated,
		"createOrUpdateBio":    Authenticated,
		"likeOrDislikePost":    Authenticated,
		"followOrUnfollowUser": Authenticated,
		"updateUsername":       Authenticated,
		"updateEmail":          Authenticated,
		"uploadProfilePicture": Authenticated,
		"uploadPostImage":      Authenticated,
		"deletePostById":       Authenticated,
		"toggleArtist":         Authenticated,
		"deleteAccount":        Authenticated,
	}
}

type contextKey struct{}

// WithCredentials stores the request's credentials in ctx.
func WithCredentials(ctx context.Context, c Credentials) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the credentials stored in ctx, if any.
func FromContext(ctx context.Context) Credentials {
	if c, ok := ctx.Value(contextKey{}).(Credentials); ok {
		return c
	}
	return Credentials{}
}
