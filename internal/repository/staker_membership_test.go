package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func createMembership(
	t *testing.T, ctx context.Context, wallet, collectionID string, points int64, held int64,
) *entity.StakerMembership {
	m := &entity.StakerMembership{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		CollectionID:  collectionID,
		NftHeldCount:  held,
		TotalPoints:   decimal.NewFromInt(points),
	}
	require.NoError(t, repository.NewStakerMembershipRepository().Create(ctx, m))
	return m
}

func Test_stakerMembershipRepository_CommitClaim(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewStakerMembershipRepository()

	m := createMembership(t, ctx, testutil.Wallet1, testutil.Collection1.ID, 10, 1)
	claimedAt := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	err := repo.CommitClaim(ctx, m.ID, m.Version, decimal.RequireFromString("5.5"), 3, claimedAt)
	require.NoError(t, err)

	got, err := repo.Get(ctx, testutil.Wallet1, testutil.Collection1.ID)
	require.NoError(t, err)
	require.True(t, got.TotalPoints.Equal(decimal.RequireFromString("15.5")), got.TotalPoints.String())
	require.Equal(t, int64(3), got.NftHeldCount)
	require.Equal(t, m.Version+1, got.Version)
	require.True(t, got.LastClaimDate.Valid)
	require.True(t, claimedAt.Equal(got.LastClaimDate.Time))

	// The stale version must not be accepted a second time.
	err = repo.CommitClaim(ctx, m.ID, m.Version, decimal.NewFromInt(5), 3, claimedAt)
	require.ErrorIs(t, err, repository.ErrVersionMismatch)

	got, err = repo.Get(ctx, testutil.Wallet1, testutil.Collection1.ID)
	require.NoError(t, err)
	require.True(t, got.TotalPoints.Equal(decimal.RequireFromString("15.5")))
}

func Test_stakerMembershipRepository_UniqueWalletCollection(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	createMembership(t, ctx, testutil.Wallet1, testutil.Collection1.ID, 0, 1)
	err := repository.NewStakerMembershipRepository().Create(ctx, &entity.StakerMembership{
		ID:            uuid.NewString(),
		WalletAddress: testutil.Wallet1,
		CollectionID:  testutil.Collection1.ID,
	})
	require.Error(t, err)
}

func Test_stakerMembershipRepository_Leaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewStakerMembershipRepository()

	createMembership(t, ctx, testutil.Wallet1, testutil.Collection1.ID, 10, 1)
	createMembership(t, ctx, testutil.Wallet1, testutil.Collection2.ID, 5, 1)
	createMembership(t, ctx, testutil.Wallet2, testutil.Collection1.ID, 15, 2)
	createMembership(t, ctx, testutil.Wallet3, testutil.Collection1.ID, 20, 0)
	createMembership(t, ctx, testutil.Wallet4, testutil.Collection3.ID, 100, 1)

	collectionIDs := []string{testutil.Collection1.ID, testutil.Collection2.ID}

	stats, err := repo.GetLeaderboard(ctx, collectionIDs, 0, 10)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, testutil.Wallet1, stats[0].WalletAddress)
	require.True(t, stats[0].TotalPoints.Equal(decimal.NewFromInt(15)))
	require.Equal(t, int64(2), stats[0].NftHeldCount)
	require.Equal(t, testutil.Wallet2, stats[1].WalletAddress)

	stats, err = repo.GetLeaderboard(ctx, collectionIDs, 1, 10)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, testutil.Wallet2, stats[0].WalletAddress)

	ahead, err := repo.CountAhead(ctx, collectionIDs, testutil.Wallet2)
	require.NoError(t, err)
	require.Equal(t, int64(1), ahead)

	ahead, err = repo.CountAhead(ctx, collectionIDs, testutil.Wallet1)
	require.NoError(t, err)
	require.Equal(t, int64(0), ahead)

	_, err = repo.GetWalletStatistic(ctx, collectionIDs, testutil.Wallet3)
	require.Error(t, err)

	stat, err := repo.GetWalletStatistic(ctx, collectionIDs, testutil.Wallet2)
	require.NoError(t, err)
	require.True(t, stat.TotalPoints.Equal(decimal.NewFromInt(15)))
}

func Test_stakerMembershipRepository_UpdateAnomalyFlag(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewStakerMembershipRepository()

	createMembership(t, ctx, testutil.Wallet1, testutil.Collection1.ID, 10, 1)
	createMembership(t, ctx, testutil.Wallet1, testutil.Collection2.ID, 5, 1)

	n, err := repo.UpdateAnomalyFlag(ctx, testutil.Wallet1,
		[]string{testutil.Collection1.ID, testutil.Collection2.ID}, true)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	stat, err := repo.GetWalletStatistic(ctx,
		[]string{testutil.Collection1.ID, testutil.Collection2.ID}, testutil.Wallet1)
	require.NoError(t, err)
	require.True(t, stat.AnomalyFlag)
}

func Test_claimRecordRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewClaimRecordRepository()

	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &entity.ClaimRecord{
			SnowFlakeBase: entity.SnowFlakeBase{ID: int64(i + 1)},
			WalletAddress: testutil.Wallet1,
			ProjectID:     testutil.Project1.ID,
			CollectionID:  testutil.Collection1.ID,
			PointsAdded:   decimal.NewFromInt(int64(i)),
			ClaimedAt:     base.Add(time.Duration(i) * time.Hour),
		}))
	}

	records, err := repo.GetList(ctx, repository.ClaimRecordFilter{
		WalletAddress: testutil.Wallet1,
		ProjectID:     testutil.Project1.ID,
		Limit:         2,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, int64(3), records[0].ID)
	require.Equal(t, int64(2), records[1].ID)
}

