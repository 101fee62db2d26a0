package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/akimenko/airtech/api"
	"github.com/akimenko/airtech/config"
	"github.com/akimenko/airtech/internal/auth"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Users   *api.UserHandler
	Flights *api.FlightHandler
	Tickets *api.TicketHandler
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, tokens *auth.TokenManager, handlers Handlers) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, tokens, handlers),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, tokens *auth.TokenManager, handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authMW := auth.Middleware(tokens)

	v1 := router.Group("/api/v1")
	handlers.Users.Register(v1, authMW)
	handlers.Flights.Register(v1.Group("/flights", authMW))
	handlers.Tickets.Register(v1.Group("/tickets", authMW))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/airtech.swagger.json"),
		)))
	}

	return router
}
