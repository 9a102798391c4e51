package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type StakerMembership struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	WalletAddress string     `gorm:"uniqueIndex:idx_membership_wallet_collection"`
	CollectionID  string     `gorm:"uniqueIndex:idx_membership_wallet_collection;index"`
	Collection    Collection `gorm:"foreignKey:CollectionID"`

	NftHeldCount  int64
	TotalPoints   decimal.Decimal `gorm:"type:decimal(38,18)"`
	LastClaimDate sql.NullTime

	// Advisory only. It never affects ranking.
	AnomalyFlag bool

	// Bumped together with LastClaimDate by every committed claim. Writers
	// compare against the value they read to detect concurrent claims.
	Version uint64
}

// LastClaim returns nil when the membership has never been claimed.
func (m *StakerMembership) LastClaim() *time.Time {
	if m == nil || !m.LastClaimDate.Valid {
		return nil
	}

	t := m.LastClaimDate.Time
	return &t
}
