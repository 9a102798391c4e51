package main

import (
	"fmt"

	"github.com/questx-lab/stakeboard/pkg/ethutil"
	"github.com/questx-lab/stakeboard/pkg/pubsub"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startFlag(cctx *cli.Context) error {
	s.loadDatabase()
	s.publisher = pubsub.NewNoopPublisher()
	s.loadSnapshot()
	s.loadRepos()
	s.loadDomains()

	wallet := cctx.String("wallet")
	if !ethutil.IsEVMAddress(wallet) {
		return fmt.Errorf("invalid wallet address %s", wallet)
	}

	catalog, err := s.catalogLoader.Load(s.ctx, cctx.String("project"))
	if err != nil {
		return err
	}

	value := cctx.Bool("value")
	updated, err := s.processor.SetAnomalyFlag(s.ctx, ethutil.NormalizeAddress(wallet), catalog, value)
	if err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Set anomaly flag to %v on %d memberships", value, updated)
	return nil
}
