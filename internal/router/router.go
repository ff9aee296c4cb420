package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/cinebook/booking/internal/config"
	"github.com/cinebook/booking/internal/handler"
	"github.com/cinebook/booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems poll this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterBookings registers the booking API under /v1.  All endpoints
// require a valid bearer token with an ADMIN or CUSTOMER role.  When a
// Redis client is supplied, a distributed token bucket rate limiter is
// applied to the whole group and GET responses are cached; with a nil
// client both concerns are silently disabled.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	if rdb != nil {
		g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	g.POST("/bookings", h.Create)
	g.GET("/bookings", h.List)

	// Static segments before the :id routes so Echo does not try to
	// parse "summary" as a booking id.
	g.GET("/bookings/summary/movies", h.SummarizeByMovie)
	g.GET("/bookings/customer/:customerId", h.CustomerBookings)
	g.GET("/bookings/movie/:movieId", h.ListByMovie)
	g.GET("/bookings/date/:date", h.ListByDate)
	g.GET("/bookings/show/:showId", h.ListByShow)

	g.GET("/bookings/:id", h.Get)
	g.PUT("/bookings/:id", h.Update)
	g.DELETE("/bookings/:id", h.Cancel)
	g.GET("/bookings/:id/cost", h.TotalCost)
	g.GET("/bookings/:id/qr", h.TicketQR)
	g.GET("/bookings/:id/ticket.pdf", h.TicketPDF)

	g.GET("/shows/:id/reserved-seats", h.ReservedSeats)
}
