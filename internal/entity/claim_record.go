package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type ClaimRecord struct {
	SnowFlakeBase

	WalletAddress string `gorm:"index:idx_claim_record_wallet_project"`
	ProjectID     string `gorm:"index:idx_claim_record_wallet_project"`
	CollectionID  string

	PointsAdded  decimal.Decimal `gorm:"type:decimal(38,18)"`
	NftHeldCount int64
	ClaimedAt    time.Time
}
