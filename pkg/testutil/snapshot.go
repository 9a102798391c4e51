package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/questx-lab/stakeboard/internal/entity"
)

// MockSnapshotProvider answers from an in-memory table of holdings unless
// GetHoldingsFunc is set.
type MockSnapshotProvider struct {
	GetHoldingsFunc func(ctx context.Context, collection *entity.Collection, walletAddress string) ([]entity.NFT, error)

	Calls int64

	mutex    sync.RWMutex
	holdings map[string]map[string][]entity.NFT
}

func (m *MockSnapshotProvider) SetHoldings(collectionID, walletAddress string, nfts ...entity.NFT) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.holdings == nil {
		m.holdings = map[string]map[string][]entity.NFT{}
	}

	if m.holdings[collectionID] == nil {
		m.holdings[collectionID] = map[string][]entity.NFT{}
	}

	m.holdings[collectionID][walletAddress] = nfts
}

func (m *MockSnapshotProvider) GetHoldings(
	ctx context.Context, collection *entity.Collection, walletAddress string,
) ([]entity.NFT, error) {
	atomic.AddInt64(&m.Calls, 1)
	if m.GetHoldingsFunc != nil {
		return m.GetHoldingsFunc(ctx, collection, walletAddress)
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.holdings[collection.ID][walletAddress], nil
}

// NFTs builds n tokens without attributes, numbered from 1.
func NFTs(n int) []entity.NFT {
	result := make([]entity.NFT, 0, n)
	for i := 1; i <= n; i++ {
		result = append(result, entity.NFT{TokenID: fmt.Sprint(i)})
	}

	return result
}

func NFT(tokenID string, attrs ...string) entity.NFT {
	nft := entity.NFT{TokenID: tokenID}
	for i := 0; i+1 < len(attrs); i += 2 {
		nft.Attributes = append(nft.Attributes, entity.NFTAttribute{Key: attrs[i], Value: attrs[i+1]})
	}

	return nft
}
