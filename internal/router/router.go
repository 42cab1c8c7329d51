package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/codeshare/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/codeshare/internal/middleware" // import middleware for JWT authentication and rate limiting
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers signup/login and the protected identity route.
// Unauthenticated operations live under /v1/auth, protected endpoints
// under /v1.  The rate limiter guards the credential endpoints so that
// password guessing degrades to 429 responses; everything else is
// unthrottled.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc, jwtSecret string) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	// Register a POST endpoint to handle user signup at /v1/auth/signup.
	g.POST("/signup", a.Signup)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)

	// Routes that require a valid access token live under /v1 and run
	// the JWTAuth middleware before the handler.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)
}

// RegisterRooms registers the room lifecycle and participant endpoints.
// Every route requires a bearer token; authorization beyond that is
// decided per room by the service layer from ownership and participant
// roles, not from token claims.
func RegisterRooms(e *echo.Echo, r *handler.RoomHandler, jwtSecret string) {
	g := e.Group("/v1/room")
	g.Use(middleware.JWTAuth(jwtSecret))
	// Create a new room owned by the caller.
	g.POST("/create", r.Create)
	// Fetch room details including content.
	g.GET("/:link", r.Get)
	// Soft delete a room; the link stops resolving afterwards.
	g.DELETE("/:link", r.Delete)
	// Download room content as a markdown attachment.
	g.GET("/download/:link", r.Download)
	// List participants with a total count.
	g.GET("/participants/:link", r.Participants)
	// Promote or demote an existing participant.
	g.POST("/role/:link", r.ChangeRole)
	// Toggle the room between edit and view mode.
	g.PATCH("/upgrade/:link", r.SetMode)
}

// RegisterWS registers the websocket admission endpoint.  The token is
// carried as a query parameter because browsers cannot set headers on
// websocket handshakes, so the JWT middleware does not apply here; the
// handler verifies the token itself.
func RegisterWS(e *echo.Echo, ws *handler.WSHandler) {
	e.GET("/ws", ws.Serve)
}
