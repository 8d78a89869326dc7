package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "atelier_redis_errors_total",
		Help: "Redis command errors by command",
	},
	[]string{"command"},
)

// GuardRejections counts operations short-circuited by the rule engine.
var GuardRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "atelier_guard_rejections_total",
		Help: "GraphQL operations rejected by the authorization guard",
	},
	[]string{"operation"},
)

// GraphQLOperations counts executed top-level GraphQL operations by result.
var GraphQLOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "atelier_graphql_operations_total",
		Help: "GraphQL requests by outcome",
	},
	[]string{"outcome"},
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-metrics Fiber handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
