package entity

import (
	"database/sql"

	"github.com/questx-lab/stakeboard/pkg/enum"
	"github.com/shopspring/decimal"
)

type PeriodUnit string

var (
	PeriodMinute = enum.New(PeriodUnit("MINUTE"))
	PeriodHour   = enum.New(PeriodUnit("HOUR"))
	PeriodDay    = enum.New(PeriodUnit("DAY"))
)

type RewardRule struct {
	Base
	CollectionID string     `gorm:"index"`
	Collection   Collection `gorm:"foreignKey:CollectionID"`

	// Both absent means the collection-wide catch-all rule. A present key with
	// an absent value matches any value of that key.
	AttributeKey   sql.NullString
	AttributeValue sql.NullString

	RewardAmount decimal.Decimal `gorm:"type:decimal(38,18)"`
	PeriodUnit   PeriodUnit
}
