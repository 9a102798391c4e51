package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "stakeboard"
	s.app.Usage = "NFT soft-staking rewards and leaderboard"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path of the toml config file",
			EnvVars: []string{"STAKEBOARD_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "db-password",
			Usage:   "Overrides the database password of the config file",
			EnvVars: []string{"DB_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "indexer-api-key",
			Usage:   "Overrides the indexer api key of the config file",
			EnvVars: []string{"INDEXER_API_KEY"},
		},
	}
	s.app.Before = s.loadContext
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Service",
			Description: `Serves points previews, claims, claim history and the leaderboard.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Service",
			Description: `Periodically refreshes the held count of every membership.`,
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Migrate the database",
			Category: "Admin",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "auto",
					Usage: "Create the schema from the entities instead of the versioned migrations",
				},
			},
		},
		{
			Action:   s.startSeed,
			Name:     "seed",
			Usage:    "Import projects, collections and reward rules",
			Category: "Admin",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "catalog",
					Usage:    "Path of the toml catalog file",
					Required: true,
				},
			},
		},
		{
			Action:   s.startFlag,
			Name:     "flag",
			Usage:    "Set or clear the anomaly flag of a wallet in a project",
			Category: "Admin",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "project", Required: true},
				&cli.StringFlag{Name: "wallet", Required: true},
				&cli.BoolFlag{Name: "value", Value: true},
			},
		},
	}
}
