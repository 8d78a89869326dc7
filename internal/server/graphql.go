package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"atelier/internal/guard"
	"atelier/internal/middleware"
	"atelier/internal/models"
)

// graphqlRequest is the standard GraphQL-over-HTTP POST body.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQL executes a GraphQL request. Execution errors are reported inside
// the response body with a 200 status; only a malformed request is an HTTP
// error.
func (s *Server) GraphQL(c *fiber.Ctx) error {
	var req graphqlRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query is required"))
	}

	ctx := guard.WithCredentials(c.UserContext(), guard.Credentials{
		Authorization: c.Get("Authorization"),
	})

	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	outcome := "ok"
	if len(result.Errors) > 0 {
		outcome = "error"
		for i := range result.Errors {
			// Errors outside the application taxonomy (syntax, coercion,
			// unexpected panics) still get a code in extensions.
			if result.Errors[i].Extensions == nil {
				result.Errors[i].Extensions = map[string]interface{}{
					"code": models.CodeOf(result.Errors[i].OriginalError()),
				}
			}
			slog.WarnContext(ctx, "graphql error",
				"operation", req.OperationName,
				"message", result.Errors[i].Message)
		}
	}
	middleware.GraphQLOperations.WithLabelValues(outcome).Inc()

	return c.Status(fiber.StatusOK).JSON(result)
}
