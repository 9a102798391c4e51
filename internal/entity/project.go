package entity

import (
	"database/sql"

	"github.com/questx-lab/stakeboard/pkg/enum"
)

type Project struct {
	Base
	Handle      string `gorm:"unique"`
	DisplayName string
}

type CatchAllPolicy string

var (
	// The catch-all rule applies once per held NFT on top of any attribute
	// rewards.
	CatchAllAdditive = enum.New(CatchAllPolicy("additive"))

	// The catch-all rule applies only to NFTs that matched no attribute rule.
	CatchAllExclusive = enum.New(CatchAllPolicy("exclusive"))
)

type Collection struct {
	Base
	ProjectID string
	Project   Project `gorm:"foreignKey:ProjectID"`

	Name            string
	Chain           string
	ContractAddress string

	// Tokens locked in this contract still count as held by their owner.
	StakingContractAddress sql.NullString

	CatchAllPolicy CatchAllPolicy
}
