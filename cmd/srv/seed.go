package main

import (
	"github.com/questx-lab/stakeboard/internal/domain/reward"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSeed(cctx *cli.Context) error {
	s.loadDatabase()
	s.loadRepos()

	file, err := reward.DecodeCatalogFile(cctx.String("catalog"))
	if err != nil {
		return err
	}

	return reward.NewCatalogImporter(s.projectRepo, s.collectionRepo, s.ruleRepo).Import(s.ctx, file)
}
