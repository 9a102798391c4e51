package main

import (
	"os/signal"
	"syscall"

	"github.com/questx-lab/stakeboard/internal/domain/cron"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadDatabase()
	s.loadPublisher()
	s.loadSnapshot()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewMembershipSyncCronJob(
		s.projectRepo,
		s.collectionRepo,
		s.membershipRepo,
		s.liveProvider,
		s.processor,
		cfg.Cron.SyncInterval,
	))

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		cronJobManager.Cancel(ctx)
	}()

	cronJobManager.Start(ctx)
	return nil
}
