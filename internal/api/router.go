package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/hackorsnooze/story-client/internal/api/docs"
	"github.com/hackorsnooze/story-client/internal/api/handler"
	"github.com/hackorsnooze/story-client/internal/api/middleware"
	"github.com/hackorsnooze/story-client/internal/core/ports"
)

// Registry is the per-scope session store the gateway routes through.
// service.SessionRegistry implements it.
type Registry interface {
	middleware.SessionOpener
	handler.Refresher
	handler.Dropper
}

// Deps are the services and probes the router wires into handlers.
type Deps struct {
	Logger   zerolog.Logger
	Stories  ports.StoryService
	Users    ports.UserService
	Sessions ports.SessionService
	Registry Registry
	// Health maps a dependency name to its readiness probe.
	Health map[string]handler.Pinger
	// Registerer receives the HTTP metrics; nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "snooze",
		Subsystem:  "http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	storyHandler := handler.NewStoryHandler(d.Stories, d.Users, d.Registry)
	authHandler := handler.NewAuthHandler(d.Sessions, d.Registry)
	meHandler := handler.NewMeHandler(d.Users)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Session-scoped routes ---
	// Middleware is attached per route so unknown paths never open a session.
	scope := middleware.Scope(d.Registry)
	scopeID := middleware.ScopeID()
	requireUser := middleware.RequireUser()

	e.GET("/stories", storyHandler.List, scope)
	e.POST("/stories", storyHandler.Create, scope, requireUser)
	e.DELETE("/stories/:storyId", storyHandler.Delete, scope, requireUser, middleware.OwnStory("storyId"))

	e.POST("/signup", authHandler.Signup, scope)
	e.POST("/login", authHandler.Login, scope)
	// Logout only needs the id; it must work while the store is down.
	e.POST("/logout", authHandler.Logout, scopeID)

	e.GET("/me", meHandler.Profile, scope, requireUser)
	e.GET("/me/favorites", meHandler.Favorites, scope, requireUser)
	e.GET("/me/stories", meHandler.Stories, scope, requireUser)
	e.POST("/me/favorites/:storyId", meHandler.AddFavorite, scope, requireUser)
	e.DELETE("/me/favorites/:storyId", meHandler.RemoveFavorite, scope, requireUser)
	e.PUT("/me/favorites/:storyId/toggle", meHandler.ToggleFavorite, scope, requireUser)

	// --- Probes and docs (no session) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
