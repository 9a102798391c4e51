package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

type resilientProvider struct {
	inner    Provider
	timeout  time.Duration
	attempts int
}

// NewResilientProvider bounds every attempt by timeout and tries the inner
// provider up to attempts times. Any failure is reported as
// ErrSnapshotUnavailable.
func NewResilientProvider(inner Provider, timeout time.Duration, attempts int) *resilientProvider {
	if attempts <= 0 {
		attempts = 1
	}

	return &resilientProvider{inner: inner, timeout: timeout, attempts: attempts}
}

func (p *resilientProvider) GetHoldings(
	ctx context.Context, collection *entity.Collection, walletAddress string,
) ([]entity.NFT, error) {
	var lastErr error
	for i := 0; i < p.attempts; i++ {
		nfts, err := p.attempt(ctx, collection, walletAddress)
		if err == nil {
			return nfts, nil
		}

		lastErr = err
		xcontext.Logger(ctx).Warnf("Cannot get holdings of %s in collection %s (attempt %d): %v",
			walletAddress, collection.ID, i+1, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, lastErr)
}

func (p *resilientProvider) attempt(
	ctx context.Context, collection *entity.Collection, walletAddress string,
) ([]entity.NFT, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.inner.GetHoldings(ctx, collection, walletAddress)
}
