/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the session
store and the generation-service client into the route handlers.
*/
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/sessions"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/nameeraazam/health-wellness-project/internal/planner"
	"github.com/nameeraazam/health-wellness-project/internal/session"
)

const defaultMaxSessions = 1024

// newCookieStore builds the cookie store that carries the session ID. The
// defaults of gorilla/sessions v1.4 are Secure + SameSite=None, which plain
// HTTP clients refuse to store, so the options are set explicitly. Secure is
// only enabled in production, where the server sits behind TLS.
func newCookieStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.Path = "/"
	store.Options.MaxAge = 86400 * 7
	store.Options.HttpOnly = true
	store.Options.Secure = os.Getenv("APP_ENV") == "production"
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// store holds the in-memory, session-scoped application state.
	store *session.Store

	// cookies issues and reads the cookie that carries the session ID.
	cookies *sessions.CookieStore

	// generator is the text-generation service the planner core prompts.
	generator planner.TextGenerator

	// startTime is recorded for the health endpoint's uptime report.
	startTime time.Time

	// Echo is the underlying web framework instance.
	*echo.Echo
}

// NewServer initializes a new Server instance and returns a configured
// *http.Server. It reads configuration from environment variables and sets
// production-ready network timeouts.
func NewServer(generator planner.TextGenerator) *http.Server {
	// Attempt to parse port from environment; fallback to 8080 if not set or invalid.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	maxSessions, err := strconv.Atoi(os.Getenv("MAX_SESSIONS"))
	if err != nil || maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	store, err := session.NewStore(maxSessions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session store")
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		// Fine for local runs; sessions just won't survive a restart, which
		// they would not anyway since all state is in memory.
		log.Warn().Msg("SESSION_SECRET not set, using an ephemeral secret")
		secret = fmt.Sprintf("ephemeral-%d", time.Now().UnixNano())
	}

	newApp := &Server{
		port:      port,
		store:     store,
		cookies:   newCookieStore(secret),
		generator: generator,
		startTime: time.Now(),
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,             // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second,        // Maximum duration for reading the entire request.
		WriteTimeout: 60 * time.Second,        // Generation calls block for up to 30s before the response is written.
	}

	return server
}
