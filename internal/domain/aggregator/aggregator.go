package aggregator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/questx-lab/stakeboard/internal/common"
	"github.com/questx-lab/stakeboard/internal/domain/reward"
	"github.com/questx-lab/stakeboard/internal/domain/snapshot"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type CollectionResult struct {
	CollectionID string          `json:"collection_id"`
	Points       decimal.Decimal `json:"points"`
	NftCount     int64           `json:"nft_count"`
	Unavailable  bool            `json:"unavailable"`

	// Holdings is the snapshot the points were computed from.
	Holdings []entity.NFT `json:"-"`
}

type ProjectResult struct {
	ProjectID     string             `json:"project_id"`
	TotalPoints   decimal.Decimal    `json:"total_points"`
	TotalNftCount int64              `json:"total_nft_count"`
	PerCollection []CollectionResult `json:"per_collection"`
}

type Aggregator interface {
	// AggregateCollection computes what the wallet would earn by claiming the
	// collection at now. A nil membership means the wallet never claimed it.
	AggregateCollection(
		ctx context.Context,
		walletAddress string,
		collection *reward.CollectionCatalog,
		membership *entity.StakerMembership,
		now time.Time,
	) (*CollectionResult, error)

	// AggregateProject previews the claimable points of every collection of
	// the project. Collections whose snapshot cannot be taken are marked
	// unavailable and contribute nothing.
	AggregateProject(
		ctx context.Context,
		walletAddress string,
		catalog *reward.ProjectCatalog,
	) (*ProjectResult, error)
}

type aggregator struct {
	provider       snapshot.Provider
	membershipRepo repository.StakerMembershipRepository
	now            func() time.Time
}

func NewAggregator(
	provider snapshot.Provider,
	membershipRepo repository.StakerMembershipRepository,
) *aggregator {
	return &aggregator{
		provider:       provider,
		membershipRepo: membershipRepo,
		now:            time.Now,
	}
}

func (a *aggregator) AggregateCollection(
	ctx context.Context,
	walletAddress string,
	collection *reward.CollectionCatalog,
	membership *entity.StakerMembership,
	now time.Time,
) (*CollectionResult, error) {
	result := &CollectionResult{
		CollectionID: collection.Collection.ID,
		Points:       decimal.Zero,
	}

	holdings, err := a.provider.GetHoldings(ctx, &collection.Collection, walletAddress)
	if err != nil {
		if errors.Is(err, snapshot.ErrSnapshotUnavailable) {
			common.PromCounters[common.SnapshotFailureTotal].
				WithLabelValues(collection.Collection.ID).Inc()
		}

		return nil, err
	}

	holdings = snapshot.Dedup(holdings)
	result.Holdings = holdings
	result.NftCount = int64(len(holdings))

	lastClaim := membership.LastClaim()
	for _, nft := range holdings {
		for _, match := range collection.Match(nft) {
			accrued, err := reward.Accrue(match.Rule, lastClaim, now)
			if err != nil {
				if errors.Is(err, reward.ErrUnknownPeriodUnit) {
					xcontext.Logger(ctx).Warnf("Reward rule %s has unknown period unit %s, skipped",
						match.Rule.ID, match.Rule.PeriodUnit)
					continue
				}

				return nil, err
			}

			result.Points = result.Points.Add(accrued)
		}
	}

	return result, nil
}

func (a *aggregator) AggregateProject(
	ctx context.Context,
	walletAddress string,
	catalog *reward.ProjectCatalog,
) (*ProjectResult, error) {
	memberships, err := a.membershipRepo.GetByCollectionIDs(ctx, walletAddress, catalog.CollectionIDs())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get memberships of wallet %s: %v", walletAddress, err)
		return nil, err
	}

	membershipByCollection := map[string]*entity.StakerMembership{}
	for i := range memberships {
		membershipByCollection[memberships[i].CollectionID] = &memberships[i]
	}

	now := a.now()
	results := make([]CollectionResult, len(catalog.Collections))

	workers := xcontext.Configs(ctx).Reward.AggregatorWorkers
	if workers <= 0 {
		workers = 1
	}

	// A failing collection must not cancel its siblings, so the group has no
	// derived context.
	var eg errgroup.Group
	eg.SetLimit(workers)
	var mutex sync.Mutex
	for i, collection := range catalog.Collections {
		i, collection := i, collection
		eg.Go(func() error {
			result, err := a.AggregateCollection(
				ctx, walletAddress, collection, membershipByCollection[collection.Collection.ID], now)
			if err != nil {
				if errors.Is(err, snapshot.ErrSnapshotUnavailable) {
					mutex.Lock()
					results[i] = CollectionResult{
						CollectionID: collection.Collection.ID,
						Points:       decimal.Zero,
						Unavailable:  true,
					}
					mutex.Unlock()
					return nil
				}

				xcontext.Logger(ctx).Errorf("Cannot aggregate collection %s of wallet %s: %v",
					collection.Collection.ID, walletAddress, err)
				return err
			}

			mutex.Lock()
			results[i] = *result
			mutex.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	projectResult := &ProjectResult{
		ProjectID:     catalog.Project.ID,
		TotalPoints:   decimal.Zero,
		PerCollection: results,
	}

	for _, r := range results {
		projectResult.TotalPoints = projectResult.TotalPoints.Add(r.Points)
		projectResult.TotalNftCount += r.NftCount
	}

	return projectResult, nil
}
