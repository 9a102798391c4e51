package main

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/stakeboard/config"
	"github.com/questx-lab/stakeboard/internal/domain"
	"github.com/questx-lab/stakeboard/internal/domain/aggregator"
	"github.com/questx-lab/stakeboard/internal/domain/claim"
	"github.com/questx-lab/stakeboard/internal/domain/reward"
	"github.com/questx-lab/stakeboard/internal/domain/snapshot"
	"github.com/questx-lab/stakeboard/internal/domain/statistic"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/api"
	"github.com/questx-lab/stakeboard/pkg/kafka"
	"github.com/questx-lab/stakeboard/pkg/logger"
	"github.com/questx-lab/stakeboard/pkg/pubsub"
	"github.com/questx-lab/stakeboard/pkg/router"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/questx-lab/stakeboard/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	projectRepo     repository.ProjectRepository
	collectionRepo  repository.CollectionRepository
	ruleRepo        repository.RewardRuleRepository
	membershipRepo  repository.StakerMembershipRepository
	claimRecordRepo repository.ClaimRecordRepository

	redisClient xredis.Client
	publisher   pubsub.Publisher

	liveProvider   snapshot.Provider
	cachedProvider snapshot.Provider

	catalogLoader reward.CatalogLoader
	processor     claim.Processor

	stakingDomain     domain.StakingDomain
	leaderboardDomain domain.LeaderboardDomain

	router *router.Router
	server *http.Server
}

// loadContext builds the root context shared by every command.
func (s *srv) loadContext(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	if password := cctx.String("db-password"); password != "" {
		cfg.Database.Password = password
	}

	if key := cctx.String("indexer-api-key"); key != "" {
		cfg.Snapshot.APIKey = key
	}

	node, err := snowflake.NewNode(cfg.SnowFlake.NodeID)
	if err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
	s.ctx = xcontext.WithHTTPClient(s.ctx, &http.Client{Timeout: cfg.Snapshot.Timeout})
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	logLevel := gormlogger.Error
	switch cfg.LogLevel {
	case "silent":
		logLevel = gormlogger.Silent
	case "warn":
		logLevel = gormlogger.Warn
	case "info":
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

// loadPublisher falls back to a publisher which drops events when no broker
// is configured.
func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if len(cfg.Addrs) == 0 {
		xcontext.Logger(s.ctx).Warnf("No kafka broker configured, claim events are not published")
		s.publisher = pubsub.NewNoopPublisher()
		return
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, cfg.Addrs)
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadSnapshot() {
	cfg := xcontext.Configs(s.ctx)

	indexer := snapshot.NewIndexer(
		api.NewGenerator(cfg.Snapshot.IndexerURLs...),
		cfg.Snapshot.APIKey,
		cfg.Snapshot.PageSize,
	)
	staking := snapshot.NewEthStakingReader(cfg.Eth.Chains)

	// One retry after the first attempt.
	s.liveProvider = snapshot.NewResilientProvider(
		snapshot.NewChainProvider(indexer, staking), cfg.Snapshot.Timeout, 2)

	if s.redisClient != nil {
		s.cachedProvider = snapshot.NewCachedProvider(s.liveProvider, s.redisClient, cfg.Redis.SnapshotCacheTTL)
	} else {
		s.cachedProvider = s.liveProvider
	}
}

func (s *srv) loadRepos() {
	s.projectRepo = repository.NewProjectRepository()
	s.collectionRepo = repository.NewCollectionRepository()
	s.ruleRepo = repository.NewRewardRuleRepository()
	s.membershipRepo = repository.NewStakerMembershipRepository()
	s.claimRecordRepo = repository.NewClaimRecordRepository()
}

// loadDomains wires previews to the cached provider. Claims always read live
// holdings.
func (s *srv) loadDomains() {
	s.catalogLoader = reward.NewCatalogLoader(s.projectRepo, s.collectionRepo, s.ruleRepo)
	s.processor = claim.NewProcessor(
		aggregator.NewAggregator(s.liveProvider, s.membershipRepo),
		s.membershipRepo,
		s.claimRecordRepo,
		s.publisher,
	)

	s.stakingDomain = domain.NewStakingDomain(
		s.projectRepo,
		s.claimRecordRepo,
		s.catalogLoader,
		aggregator.NewAggregator(s.cachedProvider, s.membershipRepo),
		s.processor,
	)
	s.leaderboardDomain = domain.NewLeaderboardDomain(
		s.projectRepo,
		statistic.NewLeaderBoard(s.collectionRepo, s.membershipRepo),
	)
}
