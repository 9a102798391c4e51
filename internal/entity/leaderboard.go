package entity

import "github.com/shopspring/decimal"

// WalletStatistic is one wallet's stored totals summed over the collections of
// a project.
type WalletStatistic struct {
	WalletAddress string
	TotalPoints   decimal.Decimal
	NftHeldCount  int64
	AnomalyFlag   bool
}
