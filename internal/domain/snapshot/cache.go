package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/stakeboard/internal/common"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/questx-lab/stakeboard/pkg/xredis"
)

type cachedProvider struct {
	inner       Provider
	redisClient xredis.Client
	ttl         time.Duration
}

// NewCachedProvider serves holdings from redis for ttl after they were last
// fetched. It must only back read-only views; claims read the live provider.
// Redis failures fall through to the inner provider.
func NewCachedProvider(inner Provider, redisClient xredis.Client, ttl time.Duration) *cachedProvider {
	return &cachedProvider{inner: inner, redisClient: redisClient, ttl: ttl}
}

func (p *cachedProvider) GetHoldings(
	ctx context.Context, collection *entity.Collection, walletAddress string,
) ([]entity.NFT, error) {
	key := common.RedisKeyHoldings(collection.ID, walletAddress)

	var nfts []entity.NFT
	err := p.redisClient.GetObj(ctx, key, &nfts)
	if err == nil {
		return nfts, nil
	}

	if !errors.Is(err, xredis.ErrNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get cached holdings of %s: %v", key, err)
	}

	nfts, err = p.inner.GetHoldings(ctx, collection, walletAddress)
	if err != nil {
		return nil, err
	}

	if err := p.redisClient.SetObj(ctx, key, nfts, p.ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache holdings of %s: %v", key, err)
	}

	return nfts, nil
}
