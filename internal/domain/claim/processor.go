package claim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/stakeboard/internal/common"
	"github.com/questx-lab/stakeboard/internal/domain/aggregator"
	"github.com/questx-lab/stakeboard/internal/domain/reward"
	"github.com/questx-lab/stakeboard/internal/domain/snapshot"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/pubsub"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrClaimConflict marks a collection whose claim kept losing the race
// against concurrent claims of the same membership. The caller may retry.
var ErrClaimConflict = errors.New("claim conflict")

// errStaleMembership marks an attempt which must be retried from a fresh read.
var errStaleMembership = errors.New("stale membership")

type CollectionClaim struct {
	CollectionID string          `json:"collection_id"`
	PointsAdded  decimal.Decimal `json:"points_added"`
	TotalPoints  decimal.Decimal `json:"total_points"`
	NftHeldCount int64           `json:"nft_held_count"`
}

type ClaimResult struct {
	ProjectID     string            `json:"project_id"`
	WalletAddress string            `json:"wallet_address"`
	PointsAdded   decimal.Decimal   `json:"points_added"`
	PerCollection []CollectionClaim `json:"per_collection"`

	// Skipped lists the collections whose holdings could not be read. Nothing
	// was committed for them.
	Skipped []string `json:"skipped"`

	// Conflicted lists the collections whose claim kept losing the race
	// against concurrent claims. Nothing was committed for them by this call.
	Conflicted []string `json:"conflicted"`
}

type Processor interface {
	Claim(ctx context.Context, walletAddress string, catalog *reward.ProjectCatalog) (*ClaimResult, error)
	Observe(ctx context.Context, walletAddress, collectionID string, nftHeldCount int64) error
	SetAnomalyFlag(ctx context.Context, walletAddress string, catalog *reward.ProjectCatalog, flag bool) (int64, error)
}

type processor struct {
	aggregator      aggregator.Aggregator
	membershipRepo  repository.StakerMembershipRepository
	claimRecordRepo repository.ClaimRecordRepository
	publisher       pubsub.Publisher

	locks [lockStripes]sync.Mutex
	now   func() time.Time
}

// lockStripes bounds the memory of membership locks. Unrelated memberships
// sharing a stripe only serialize.
const lockStripes = 256

// NewProcessor returns the only writer of staker memberships. The aggregator
// must read live holdings, never a cache.
func NewProcessor(
	aggregator aggregator.Aggregator,
	membershipRepo repository.StakerMembershipRepository,
	claimRecordRepo repository.ClaimRecordRepository,
	publisher pubsub.Publisher,
) *processor {
	return &processor{
		aggregator:      aggregator,
		membershipRepo:  membershipRepo,
		claimRecordRepo: claimRecordRepo,
		publisher:       publisher,
		now:             time.Now,
	}
}

func lockIndex(walletAddress, collectionID string) uint64 {
	return xsync.StrHash64(walletAddress+"/"+collectionID) % lockStripes
}

// lock serializes claims and observations of one membership. Callers never
// hold two locks at once.
func (p *processor) lock(walletAddress, collectionID string) func() {
	mutex := &p.locks[lockIndex(walletAddress, collectionID)]
	mutex.Lock()
	return mutex.Unlock
}

// Claim commits the accrued points of every collection of the project. Each
// collection commits on its own. Collections whose holdings cannot be read are
// reported in Skipped and collections which kept losing the race in
// Conflicted, next to the committed ones. Only an internal error fails the
// whole call, possibly after some collections have already been committed.
func (p *processor) Claim(
	ctx context.Context, walletAddress string, catalog *reward.ProjectCatalog,
) (*ClaimResult, error) {
	claims := make([]*CollectionClaim, len(catalog.Collections))
	skipped := make([]bool, len(catalog.Collections))
	conflicted := make([]bool, len(catalog.Collections))

	workers := xcontext.Configs(ctx).Reward.AggregatorWorkers
	if workers <= 0 {
		workers = 1
	}

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, collection := range catalog.Collections {
		i, collection := i, collection
		eg.Go(func() error {
			claim, err := p.claimCollection(ctx, walletAddress, catalog.Project.ID, collection)
			if err != nil {
				switch {
				case errors.Is(err, snapshot.ErrSnapshotUnavailable):
					skipped[i] = true
					return nil
				case errors.Is(err, ErrClaimConflict):
					conflicted[i] = true
					return nil
				}

				return err
			}

			claims[i] = claim
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &ClaimResult{
		ProjectID:     catalog.Project.ID,
		WalletAddress: walletAddress,
		PointsAdded:   decimal.Zero,
		PerCollection: []CollectionClaim{},
		Skipped:       []string{},
		Conflicted:    []string{},
	}

	for i, collection := range catalog.Collections {
		if skipped[i] {
			result.Skipped = append(result.Skipped, collection.Collection.ID)
			continue
		}

		if conflicted[i] {
			result.Conflicted = append(result.Conflicted, collection.Collection.ID)
			continue
		}

		if claims[i] != nil {
			result.PerCollection = append(result.PerCollection, *claims[i])
			result.PointsAdded = result.PointsAdded.Add(claims[i].PointsAdded)
		}
	}

	return result, nil
}

func (p *processor) claimCollection(
	ctx context.Context,
	walletAddress, projectID string,
	collection *reward.CollectionCatalog,
) (*CollectionClaim, error) {
	unlock := p.lock(walletAddress, collection.Collection.ID)
	defer unlock()

	maxRetries := xcontext.Configs(ctx).Reward.ClaimMaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		claim, err := p.tryClaimCollection(ctx, walletAddress, projectID, collection)
		if err == nil {
			return claim, nil
		}

		if !errors.Is(err, errStaleMembership) {
			if !errors.Is(err, snapshot.ErrSnapshotUnavailable) {
				common.PromCounters[common.ClaimCommitTotal].WithLabelValues("error").Inc()
			}
			return nil, err
		}

		xcontext.Logger(ctx).Warnf("Claim of wallet %s in collection %s lost a race (attempt %d)",
			walletAddress, collection.Collection.ID, attempt)
	}

	common.PromCounters[common.ClaimCommitTotal].WithLabelValues("conflict").Inc()
	return nil, ErrClaimConflict
}

func (p *processor) getMembership(
	ctx context.Context, walletAddress, collectionID string,
) (*entity.StakerMembership, error) {
	membership, err := p.membershipRepo.Get(ctx, walletAddress, collectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return membership, nil
}

func (p *processor) tryClaimCollection(
	ctx context.Context,
	walletAddress, projectID string,
	collection *reward.CollectionCatalog,
) (*CollectionClaim, error) {
	collectionID := collection.Collection.ID
	membership, err := p.getMembership(ctx, walletAddress, collectionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get membership: %v", err)
		return nil, err
	}

	now := p.now()
	result, err := p.aggregator.AggregateCollection(ctx, walletAddress, collection, membership, now)
	if err != nil {
		return nil, err
	}

	accrued := result.Points
	if membership == nil {
		return p.createMembership(ctx, walletAddress, projectID, collectionID, accrued, result.NftCount, now)
	}

	claim := &CollectionClaim{
		CollectionID: collectionID,
		PointsAdded:  decimal.Zero,
		TotalPoints:  membership.TotalPoints,
		NftHeldCount: result.NftCount,
	}

	if !accrued.IsPositive() {
		if membership.NftHeldCount != result.NftCount {
			if err := p.membershipRepo.UpdateHeldCount(ctx, membership.ID, result.NftCount); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update held count: %v", err)
				return nil, err
			}
		}

		return claim, nil
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	err = p.membershipRepo.CommitClaim(txCtx, membership.ID, membership.Version, accrued, result.NftCount, now)
	if err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, errStaleMembership
		}

		xcontext.Logger(ctx).Errorf("Cannot commit claim: %v", err)
		return nil, err
	}

	record, err := p.createClaimRecord(txCtx, walletAddress, projectID, collectionID, accrued, result.NftCount, now)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit claim transaction: %v", err)
		return nil, err
	}

	claim.PointsAdded = accrued
	claim.TotalPoints = membership.TotalPoints.Add(accrued)
	p.committed(ctx, record, claim.TotalPoints)

	return claim, nil
}

func (p *processor) createMembership(
	ctx context.Context,
	walletAddress, projectID, collectionID string,
	accrued decimal.Decimal,
	nftHeldCount int64,
	now time.Time,
) (*CollectionClaim, error) {
	claim := &CollectionClaim{
		CollectionID: collectionID,
		PointsAdded:  decimal.Zero,
		TotalPoints:  decimal.Zero,
		NftHeldCount: nftHeldCount,
	}

	// Nothing held and nothing earned leaves no trace.
	if nftHeldCount == 0 && !accrued.IsPositive() {
		return claim, nil
	}

	membership := &entity.StakerMembership{
		ID:            uuid.NewString(),
		WalletAddress: walletAddress,
		CollectionID:  collectionID,
		NftHeldCount:  nftHeldCount,
		TotalPoints:   decimal.Zero,
	}

	if accrued.IsPositive() {
		membership.TotalPoints = accrued
		membership.LastClaimDate.Valid = true
		membership.LastClaimDate.Time = now
		membership.Version = 1
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	if err := p.membershipRepo.Create(txCtx, membership); err != nil {
		xcontext.WithRollbackDBTransaction(txCtx)

		// Another claim created the membership first.
		if existing, getErr := p.getMembership(ctx, walletAddress, collectionID); getErr == nil && existing != nil {
			return nil, errStaleMembership
		}

		xcontext.Logger(ctx).Errorf("Cannot create membership: %v", err)
		return nil, err
	}

	var record *entity.ClaimRecord
	if accrued.IsPositive() {
		var err error
		record, err = p.createClaimRecord(txCtx, walletAddress, projectID, collectionID, accrued, nftHeldCount, now)
		if err != nil {
			return nil, err
		}
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit membership transaction: %v", err)
		return nil, err
	}

	claim.PointsAdded = membership.TotalPoints
	claim.TotalPoints = membership.TotalPoints
	if record != nil {
		p.committed(ctx, record, claim.TotalPoints)
	}

	return claim, nil
}

func (p *processor) createClaimRecord(
	ctx context.Context,
	walletAddress, projectID, collectionID string,
	accrued decimal.Decimal,
	nftHeldCount int64,
	now time.Time,
) (*entity.ClaimRecord, error) {
	record := &entity.ClaimRecord{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		WalletAddress: walletAddress,
		ProjectID:     projectID,
		CollectionID:  collectionID,
		PointsAdded:   accrued,
		NftHeldCount:  nftHeldCount,
		ClaimedAt:     now,
	}

	if err := p.claimRecordRepo.Create(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create claim record: %v", err)
		return nil, err
	}

	return record, nil
}

// committed publishes the claim. The claim is already durable, so a failed
// publish is only logged.
func (p *processor) committed(ctx context.Context, record *entity.ClaimRecord, totalPoints decimal.Decimal) {
	common.PromCounters[common.ClaimCommitTotal].WithLabelValues("committed").Inc()

	event := &ClaimCommittedEvent{
		ClaimID:       record.ID,
		WalletAddress: record.WalletAddress,
		ProjectID:     record.ProjectID,
		CollectionID:  record.CollectionID,
		PointsAdded:   record.PointsAdded,
		TotalPoints:   totalPoints,
		NftHeldCount:  record.NftHeldCount,
		ClaimedAt:     record.ClaimedAt,
	}

	pack, err := event.Pack()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pack claim event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.ClaimTopic
	if err := p.publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish claim event %d: %v", record.ID, err)
	}
}

// Observe records the number of tokens a wallet currently holds in a
// collection. It never touches points or the claim clock.
func (p *processor) Observe(
	ctx context.Context, walletAddress, collectionID string, nftHeldCount int64,
) error {
	unlock := p.lock(walletAddress, collectionID)
	defer unlock()

	membership, err := p.getMembership(ctx, walletAddress, collectionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get membership: %v", err)
		return err
	}

	if membership != nil {
		if membership.NftHeldCount == nftHeldCount {
			return nil
		}

		return p.membershipRepo.UpdateHeldCount(ctx, membership.ID, nftHeldCount)
	}

	if nftHeldCount == 0 {
		return nil
	}

	err = p.membershipRepo.Create(ctx, &entity.StakerMembership{
		ID:            uuid.NewString(),
		WalletAddress: walletAddress,
		CollectionID:  collectionID,
		NftHeldCount:  nftHeldCount,
		TotalPoints:   decimal.Zero,
	})
	if err == nil {
		return nil
	}

	membership, getErr := p.getMembership(ctx, walletAddress, collectionID)
	if getErr != nil || membership == nil {
		xcontext.Logger(ctx).Errorf("Cannot create membership: %v", err)
		return err
	}

	return p.membershipRepo.UpdateHeldCount(ctx, membership.ID, nftHeldCount)
}

func (p *processor) SetAnomalyFlag(
	ctx context.Context, walletAddress string, catalog *reward.ProjectCatalog, flag bool,
) (int64, error) {
	n, err := p.membershipRepo.UpdateAnomalyFlag(ctx, walletAddress, catalog.CollectionIDs(), flag)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set anomaly flag: %v", err)
		return 0, err
	}

	return n, nil
}
