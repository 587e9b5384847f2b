package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/SREYASABU/Tubenor/internal/auth"
	"github.com/SREYASABU/Tubenor/internal/youtube"
)

// Asker is the conversational entry point the server fronts.
// *agent.Coordinator satisfies it.
type Asker interface {
	Ask(ctx context.Context, userID, sessionID, query string) (answer, resolvedSessionID string, err error)
}

// APIResponse is the uniform JSON envelope for all endpoints.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server exposes the coordinator and the OAuth flow over HTTP.
type Server struct {
	addr        string
	coordinator Asker
	provider    *auth.Provider
	oauth       *auth.OAuthFlow
	yt          *youtube.Client
	engine      *gin.Engine
}

// New builds the HTTP server and its routes.
func New(addr string, coordinator Asker, provider *auth.Provider, oauth *auth.OAuthFlow, yt *youtube.Client) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(recoveryMiddleware())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		addr:        addr,
		coordinator: coordinator,
		provider:    provider,
		oauth:       oauth,
		yt:          yt,
		engine:      engine,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	agents := s.engine.Group("/agents")
	{
		agents.GET("/list", s.handleListAgents)
		agents.POST("/general-query", s.handleGeneralQuery)
	}

	authGroup := s.engine.Group("/auth")
	{
		authGroup.GET("/login", s.handleLogin)
		authGroup.GET("/callback", s.handleCallback)
		authGroup.GET("/status", s.handleStatus)
		authGroup.POST("/logout", s.handleLogout)
	}
}

// Handler returns the underlying HTTP handler. Used in tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is canceled or SIGINT/SIGTERM arrives,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("server: listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("server: shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// recoveryMiddleware converts panics into a JSON error envelope.
func recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("server: panic recovered: %v", recovered)
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   "internal server error",
		})
		c.Abort()
	})
}
