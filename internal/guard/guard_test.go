package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"no credentials", Credentials{}, ""},
		{"bearer header", Credentials{Authorization: "Bearer abc123"}, "abc123"},
		{"raw header without prefix", Credentials{Authorization: "abc123"}, "abc123"},
		{"token argument", Credentials{TokenArg: "arg-token"}, "arg-token"},
		{"argument wins over header", Credentials{Authorization: "Bearer header-token", TokenArg: "arg-token"}, "arg-token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.creds.BearerToken())
		})
	}
}

func TestEngineCheck(t *testing.T) {
	engine := NewEngine(map[string]Rule{
		"createPost": Authenticated,
	})

	t.Run("unlisted operation is open", func(t *testing.T) {
		assert.NoError(t, engine.Check("login", Credentials{}))
	})

	t.Run("guarded operation without credentials fails", func(t *testing.T) {
		err := engine.Check("createPost", Credentials{})
		require.Error(t, err)
		assert.Equal(t, models.CodeAuthorization, models.CodeOf(err))
	})

	t.Run("guarded operation with token passes", func(t *testing.T) {
		assert.NoError(t, engine.Check("createPost", Credentials{TokenArg: "some-token"}))
	})

	t.Run("nil rule map behaves as all-open", func(t *testing.T) {
		open := NewEngine(nil)
		assert.NoError(t, open.Check("createPost", Credentials{}))
	})
}

func TestDefaultRulesCoverSensitiveMutations(t *testing.T) {
	rules := DefaultRules()

	for _, op := range []string{
		"createPost", "createOrUpdateBio", "likeOrDislikePost",
		"followOrUnfollowUser", "updateUsername", "updateEmail",
		"uploadProfilePicture", "uploadPostImage", "deletePostById",
		"toggleArtist", "deleteAccount",
	} {
		assert.Contains(t, rules, op)
	}

	// anonymous entry points must stay reachable
	assert.NotContains(t, rules, "register")
	assert.NotContains(t, rules, "login")
}

func TestCredentialsContext(t *testing.T) {
	ctx := WithCredentials(context.Background(), Credentials{Authorization: "Bearer t"})
	assert.Equal(t, "t", FromContext(ctx).BearerToken())

	assert.Equal(t, Credentials{}, FromContext(context.Background()))
}
