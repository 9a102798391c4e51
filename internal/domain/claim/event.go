package claim

import (
	"encoding/json"
	"time"

	"github.com/questx-lab/stakeboard/pkg/pubsub"
	"github.com/shopspring/decimal"
)

// ClaimCommittedEvent is published after a claim of one collection has been
// committed.
type ClaimCommittedEvent struct {
	ClaimID       int64           `json:"claim_id"`
	WalletAddress string          `json:"wallet_address"`
	ProjectID     string          `json:"project_id"`
	CollectionID  string          `json:"collection_id"`
	PointsAdded   decimal.Decimal `json:"points_added"`
	TotalPoints   decimal.Decimal `json:"total_points"`
	NftHeldCount  int64           `json:"nft_held_count"`
	ClaimedAt     time.Time       `json:"claimed_at"`
}

func (e *ClaimCommittedEvent) Pack() (*pubsub.Pack, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	return &pubsub.Pack{Key: []byte(e.WalletAddress), Msg: b}, nil
}
