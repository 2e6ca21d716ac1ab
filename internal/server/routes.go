package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/nameeraazam/health-wellness-project/internal/session"
	"github.com/nameeraazam/health-wellness-project/internal/utility"
)

const (
	sessionCookieName = "wellness_session"
	sessionIDKey      = "sid"
	stateContextKey   = "session_state"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/health", s.healthHandler)

	// All planner state is per-browser-session; the middleware resolves the
	// cookie to an in-memory state entry before any handler runs.
	api := e.Group("", s.sessionMiddleware)

	// Profile
	api.POST("/profile", s.SaveProfileHandler)
	api.GET("/profile", s.GetProfileHandler)

	// Plan generation & retrieval. Generation needs a saved profile and is
	// rate limited per IP, since every call hits the paid generation service.
	api.POST("/plans", s.GenerateAllPlansHandler, s.requireProfile, s.generationRateLimit)
	api.POST("/plans/meal", s.GenerateMealPlanHandler, s.requireProfile, s.generationRateLimit)
	api.GET("/plans/meal", s.GetMealPlanHandler)
	api.POST("/plans/workout", s.GenerateWorkoutPlanHandler, s.requireProfile, s.generationRateLimit)
	api.GET("/plans/workout", s.GetWorkoutPlanHandler)

	// Progress tracker
	api.POST("/progress", s.AddProgressHandler, s.requireProfile)
	api.GET("/progress", s.GetProgressHandler)

	return e
}

// requireProfile rejects requests from sessions that have not saved a profile
// yet, mirroring the UI's "complete your profile first" notice. Handlers
// behind it can assume the profile exists.
func (s *Server) requireProfile(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := sessionState(c).Profile(); !ok {
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "Please complete your profile first",
			})
		}
		return next(c)
	}
}

// generationRateLimit guards the paid generation endpoints per IP.
func (s *Server) generationRateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
		}
		return next(c)
	}
}

// LoggerMiddleware attaches a request-scoped logger carrying a request ID.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}

// sessionMiddleware resolves the session cookie to its in-memory state,
// minting a new session ID on first contact. The cookie carries only the
// opaque ID; all actual state stays server-side and dies with the process.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := s.cookies.Get(c.Request(), sessionCookieName)
		if err != nil {
			// A stale or tampered cookie decodes into a fresh session.
			log.Info().Err(err).Msg("Could not decode session cookie, starting a new session")
		}

		sid, ok := sess.Values[sessionIDKey].(string)
		if !ok || sid == "" {
			sid = uuid.New().String()
			sess.Values[sessionIDKey] = sid
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				log.Error().Err(err).Msg("Failed to save session cookie")
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to establish session"})
			}
		}

		c.Set(stateContextKey, s.store.GetOrCreate(sid))
		return next(c)
	}
}

// sessionState pulls the resolved state out of the request context.
func sessionState(c echo.Context) *session.State {
	return c.Get(stateContextKey).(*session.State)
}
