package snapshot

import (
	"context"
	"errors"

	"github.com/questx-lab/stakeboard/internal/entity"
)

// ErrSnapshotUnavailable is returned when the current holdings of a wallet
// cannot be determined. Callers must not treat it as "holds nothing".
var ErrSnapshotUnavailable = errors.New("ownership snapshot unavailable")

// Provider reports the tokens of a collection held by a wallet, including
// tokens the wallet has locked in the collection's staking contract.
type Provider interface {
	GetHoldings(ctx context.Context, collection *entity.Collection, walletAddress string) ([]entity.NFT, error)
}

type chainProvider struct {
	indexer Indexer
	staking StakingReader
}

// NewChainProvider combines direct ownership reported by the indexer with the
// tokens the staking contract holds on behalf of the wallet. A nil staking
// reader disables the latter.
func NewChainProvider(indexer Indexer, staking StakingReader) *chainProvider {
	return &chainProvider{indexer: indexer, staking: staking}
}

func (p *chainProvider) GetHoldings(
	ctx context.Context, collection *entity.Collection, walletAddress string,
) ([]entity.NFT, error) {
	owned, err := p.indexer.GetOwnedTokens(ctx, collection, walletAddress)
	if err != nil {
		return nil, err
	}

	if p.staking == nil || !collection.StakingContractAddress.Valid {
		return Dedup(owned), nil
	}

	stakedIDs, err := p.staking.StakedTokenIDs(ctx, collection, walletAddress)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(owned))
	for _, nft := range owned {
		known[nft.TokenID] = struct{}{}
	}

	missing := []string{}
	for _, id := range stakedIDs {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return Dedup(owned), nil
	}

	staked, err := p.indexer.GetTokens(ctx, collection, missing)
	if err != nil {
		return nil, err
	}

	// A staked token the indexer knows nothing about still counts as held.
	described := make(map[string]struct{}, len(staked))
	for _, nft := range staked {
		described[nft.TokenID] = struct{}{}
	}

	for _, id := range missing {
		if _, ok := described[id]; !ok {
			staked = append(staked, entity.NFT{TokenID: id})
		}
	}

	return Dedup(append(owned, staked...)), nil
}

// Dedup keeps the first occurrence of every token id.
func Dedup(nfts []entity.NFT) []entity.NFT {
	seen := make(map[string]struct{}, len(nfts))
	result := make([]entity.NFT, 0, len(nfts))
	for _, nft := range nfts {
		if _, ok := seen[nft.TokenID]; ok {
			continue
		}

		seen[nft.TokenID] = struct{}{}
		result = append(result, nft)
	}

	return result
}
