package cron

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/stakeboard/internal/domain/claim"
	"github.com/questx-lab/stakeboard/internal/domain/snapshot"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

// MembershipSyncCronJob refreshes the held count of every known membership,
// so wallets which sold their tokens leave the leaderboard without claiming.
type MembershipSyncCronJob struct {
	projectRepo    repository.ProjectRepository
	collectionRepo repository.CollectionRepository
	membershipRepo repository.StakerMembershipRepository
	provider       snapshot.Provider
	processor      claim.Processor
	interval       time.Duration
}

func NewMembershipSyncCronJob(
	projectRepo repository.ProjectRepository,
	collectionRepo repository.CollectionRepository,
	membershipRepo repository.StakerMembershipRepository,
	provider snapshot.Provider,
	processor claim.Processor,
	interval time.Duration,
) *MembershipSyncCronJob {
	return &MembershipSyncCronJob{
		projectRepo:    projectRepo,
		collectionRepo: collectionRepo,
		membershipRepo: membershipRepo,
		provider:       provider,
		processor:      processor,
		interval:       interval,
	}
}

func (job *MembershipSyncCronJob) Do(ctx context.Context) {
	projects, err := job.projectRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get projects to sync memberships: %v", err)
		return
	}

	for _, project := range projects {
		collections, err := job.collectionRepo.GetByProjectID(ctx, project.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get collections of project %s: %v", project.ID, err)
			continue
		}

		for i := range collections {
			if ctx.Err() != nil {
				xcontext.Logger(ctx).Infof("Membership sync interrupted: %v", ctx.Err())
				return
			}

			synced, failed := job.syncCollection(ctx, &collections[i])
			xcontext.Logger(ctx).Infof("Synced %d memberships of collection %s, %d failed",
				synced, collections[i].ID, failed)
		}
	}
}

func (job *MembershipSyncCronJob) syncCollection(
	ctx context.Context, collection *entity.Collection,
) (synced, failed int) {
	cfg := xcontext.Configs(ctx)
	batchSize := cfg.Cron.SyncBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	workers := cfg.Reward.AggregatorWorkers
	if workers <= 0 {
		workers = 1
	}

	for offset := 0; ctx.Err() == nil; offset += batchSize {
		memberships, err := job.membershipRepo.GetList(ctx, repository.StakerMembershipFilter{
			CollectionID: collection.ID,
			Offset:       offset,
			Limit:        batchSize,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get memberships of collection %s: %v", collection.ID, err)
			return synced, failed
		}

		results := make([]error, len(memberships))
		var eg errgroup.Group
		eg.SetLimit(workers)
		for i := range memberships {
			i := i
			eg.Go(func() error {
				results[i] = job.syncMembership(ctx, collection, &memberships[i])
				return nil
			})
		}
		_ = eg.Wait()

		for _, err := range results {
			if err != nil {
				failed++
			} else {
				synced++
			}
		}

		if len(memberships) < batchSize {
			return synced, failed
		}
	}

	return synced, failed
}

func (job *MembershipSyncCronJob) syncMembership(
	ctx context.Context, collection *entity.Collection, membership *entity.StakerMembership,
) error {
	holdings, err := job.provider.GetHoldings(ctx, collection, membership.WalletAddress)
	if err != nil {
		if errors.Is(err, snapshot.ErrSnapshotUnavailable) {
			xcontext.Logger(ctx).Warnf("Skip syncing wallet %s in collection %s: %v",
				membership.WalletAddress, collection.ID, err)
		} else {
			xcontext.Logger(ctx).Errorf("Cannot get holdings of wallet %s in collection %s: %v",
				membership.WalletAddress, collection.ID, err)
		}
		return err
	}

	err = job.processor.Observe(ctx, membership.WalletAddress, collection.ID, int64(len(holdings)))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot observe wallet %s in collection %s: %v",
			membership.WalletAddress, collection.ID, err)
		return err
	}

	return nil
}

func (job *MembershipSyncCronJob) RunNow() bool {
	return true
}

func (job *MembershipSyncCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
