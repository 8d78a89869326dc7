package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"atelier/internal/config"
	"atelier/internal/models"
)

// One Server per test binary: the Prometheus middleware registers its
// collectors globally and cannot be constructed twice.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Bio{}))

	cfg := &config.Config{
		Port:      "4000",
		Env:       "test",
		JWTSecret: "test-secret-key",
	}
	srv, err := NewServerWithDeps(cfg, db, nil, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return srv, app
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

func postGraphQL(t *testing.T, app *fiber.App, authorization, query string) (int, gqlResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out gqlResponse
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp.StatusCode, out
}

func TestServerEndpoints(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("liveness probe", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("readiness probe without redis", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("metrics endpoint responds", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("malformed graphql body is a 400", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/graphql", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty query is a 400", func(t *testing.T) {
		status, _ := postGraphQL(t, app, "", "")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	var token string

	t.Run("register and login over HTTP", func(t *testing.T) {
		status, out := postGraphQL(t, app, "", `mutation {
			register(username: "marcy_name", email: "marcy@example.com", handle: "marcy", password: "secret1") { id handle }
		}`)
		assert.Equal(t, fiber.StatusOK, status)
		require.Empty(t, out.Errors)

		status, out = postGraphQL(t, app, "", `mutation {
			login(email: "marcy@example.com", password: "secret1") { token user { handle } }
		}`)
		assert.Equal(t, fiber.StatusOK, status)
		require.Empty(t, out.Errors)

		var login struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(out.Data["login"], &login))
		require.NotEmpty(t, login.Token)
		token = login.Token
	})

	t.Run("execution errors stay 200 with a code", func(t *testing.T) {
		status, out := postGraphQL(t, app, "", `mutation {
			createPost(content: "blocked") { id }
		}`)
		assert.Equal(t, fiber.StatusOK, status)
		require.NotEmpty(t, out.Errors)
		assert.Equal(t, models.CodeAuthorization, out.Errors[0].Extensions["code"])
	})

	t.Run("authorization header authenticates mutations", func(t *testing.T) {
		require.NotEmpty(t, token)

		status, out := postGraphQL(t, app, "Bearer "+token, `mutation {
			createPost(content: "over http") { id postedBy { handle } }
		}`)
		assert.Equal(t, fiber.StatusOK, status)
		require.Empty(t, out.Errors)

		status, out = postGraphQL(t, app, "", `{ getAllPosts { content } }`)
		assert.Equal(t, fiber.StatusOK, status)
		require.Empty(t, out.Errors)
		assert.Contains(t, string(out.Data["getAllPosts"]), "over http")
	})

	t.Run("syntax errors get the fallback code", func(t *testing.T) {
		status, out := postGraphQL(t, app, "", `{ nope`)
		assert.Equal(t, fiber.StatusOK, status)
		require.NotEmpty(t, out.Errors)
		assert.Equal(t, models.CodeInternal, out.Errors[0].Extensions["code"])
	})
}
