package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Snapshot  SnapshotConfigs  `toml:"snapshot"`
	Eth       EthConfigs       `toml:"eth"`
	Reward    RewardConfigs    `toml:"reward"`
	Cron      CronConfigs      `toml:"cron"`
	SnowFlake SnowFlakeConfigs `toml:"snowflake"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host         string `toml:"host"`
	Port         string `toml:"port"`
	MaxLimit     int    `toml:"max_limit"`
	DefaultLimit int    `toml:"default_limit"`
}

type RedisConfigs struct {
	Addr             string        `toml:"addr"`
	SnapshotCacheTTL time.Duration `toml:"snapshot_cache_ttl"`
}

type KafkaConfigs struct {
	Addrs      []string `toml:"addrs"`
	ClientID   string   `toml:"client_id"`
	ClaimTopic string   `toml:"claim_topic"`
}

type SnapshotConfigs struct {
	IndexerURLs []string      `toml:"indexer_urls"`
	APIKey      string        `toml:"api_key"`
	Timeout     time.Duration `toml:"timeout"`
	PageSize    int           `toml:"page_size"`
}

type EthConfigs struct {
	Chains map[string]ChainConfig `toml:"chains"`
}

type ChainConfig struct {
	Chain string   `toml:"chain" json:"chain"`
	Rpcs  []string `toml:"rpcs" json:"rpcs"`
}

type RewardConfigs struct {
	AggregatorWorkers int `toml:"aggregator_workers"`
	ClaimMaxRetries   int `toml:"claim_max_retries"`
}

type CronConfigs struct {
	SyncInterval  time.Duration `toml:"sync_interval"`
	SyncBatchSize int           `toml:"sync_batch_size"`
}

type SnowFlakeConfigs struct {
	NodeID int64 `toml:"node_id"`
}

// Default returns the configuration used when a field is absent from the file.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "stakeboard",
			User:     "mysql",
			Password: "mysql",
			LogLevel: "error",
		},
		ApiServer: APIServerConfigs{
			Port:         "8080",
			MaxLimit:     100,
			DefaultLimit: 20,
		},
		Redis: RedisConfigs{
			Addr:             "localhost:6379",
			SnapshotCacheTTL: 30 * time.Second,
		},
		Kafka: KafkaConfigs{
			ClientID:   "stakeboard",
			ClaimTopic: "staking.claims",
		},
		Snapshot: SnapshotConfigs{
			Timeout:  10 * time.Second,
			PageSize: 100,
		},
		Eth: EthConfigs{Chains: map[string]ChainConfig{}},
		Reward: RewardConfigs{
			AggregatorWorkers: 4,
			ClaimMaxRetries:   3,
		},
		Cron: CronConfigs{
			SyncInterval:  time.Hour,
			SyncBatchSize: 200,
		},
	}
}

// Load decodes the toml file on top of Default. An empty path returns Default.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	return cfg, nil
}
