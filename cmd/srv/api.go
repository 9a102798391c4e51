package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/stakeboard/internal/middleware"
	"github.com/questx-lab/stakeboard/pkg/prometheus"
	"github.com/questx-lab/stakeboard/pkg/router"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadSnapshot()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"*"},
		}).Handler(s.router.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Handle("/metrics", prometheus.NewHandler())

	// Public API.
	publicRouter := s.router.Branch()
	publicRouter.Before(middleware.RejectOversizedQuery(128))
	{
		router.GET(publicRouter, "/getPoints", s.stakingDomain.GetPoints)
		router.GET(publicRouter, "/getClaimHistory", s.stakingDomain.GetClaimHistory)
		router.GET(publicRouter, "/getLeaderboard", s.leaderboardDomain.GetLeaderboard)
		router.POST(publicRouter, "/claim", s.stakingDomain.Claim)
	}
}
