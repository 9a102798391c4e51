package aggregator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/questx-lab/stakeboard/internal/domain/reward"
	"github.com/questx-lab/stakeboard/internal/domain/snapshot"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestAggregator(provider snapshot.Provider) *aggregator {
	a := NewAggregator(provider, repository.NewStakerMembershipRepository())
	a.now = func() time.Time { return now }
	return a
}

func loadCatalog(t *testing.T, ctx context.Context, projectID string) *reward.ProjectCatalog {
	catalog, err := reward.NewCatalogLoader(
		repository.NewProjectRepository(),
		repository.NewCollectionRepository(),
		repository.NewRewardRuleRepository(),
	).Load(ctx, projectID)
	require.NoError(t, err)
	return catalog
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func Test_aggregator_AggregateCollection(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	catalog := loadCatalog(t, ctx, testutil.Project1.ID)

	provider := &testutil.MockSnapshotProvider{}
	provider.SetHoldings(testutil.Collection1.ID, testutil.Wallet1,
		testutil.NFT("1", "Background", "Gold", "Hat", "Cap", "Eyes", "Blue"),
		testutil.NFT("2"),
		testutil.NFT("2"),
	)

	a := newTestAggregator(provider)

	t.Run("never claimed", func(t *testing.T) {
		result, err := a.AggregateCollection(ctx, testutil.Wallet1, catalog.Collections[0], nil, now)
		require.NoError(t, err)
		require.Equal(t, int64(2), result.NftCount)
		requireDecimal(t, "14", result.Points)
	})

	t.Run("half a cycle after the last claim", func(t *testing.T) {
		membership := &entity.StakerMembership{
			LastClaimDate: sql.NullTime{Valid: true, Time: now.Add(-12 * time.Hour)},
		}

		result, err := a.AggregateCollection(ctx, testutil.Wallet1, catalog.Collections[0], membership, now)
		require.NoError(t, err)
		requireDecimal(t, "7", result.Points)
	})

	t.Run("holds nothing", func(t *testing.T) {
		result, err := a.AggregateCollection(ctx, testutil.Wallet2, catalog.Collections[0], nil, now)
		require.NoError(t, err)
		require.Equal(t, int64(0), result.NftCount)
		requireDecimal(t, "0", result.Points)
	})
}

func Test_aggregator_UnknownPeriodUnitIsSkipped(t *testing.T) {
	ctx := testutil.MockContext()

	collection := reward.NewCollectionCatalog(testutil.Collection3, []entity.RewardRule{
		{
			Base:         entity.Base{ID: "weekly"},
			AttributeKey: sql.NullString{Valid: true, String: "Hat"},
			RewardAmount: decimal.NewFromInt(100),
			PeriodUnit:   entity.PeriodUnit("WEEK"),
		},
		testutil.Rule3CatchAll,
	})

	provider := &testutil.MockSnapshotProvider{}
	provider.SetHoldings(testutil.Collection3.ID, testutil.Wallet1, testutil.NFT("1", "Hat", "Cap"))

	result, err := newTestAggregator(provider).
		AggregateCollection(ctx, testutil.Wallet1, collection, nil, now)
	require.NoError(t, err)
	requireDecimal(t, "3", result.Points)
}

func Test_aggregator_AggregateProject_PartialUnavailability(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	catalog := loadCatalog(t, ctx, testutil.Project1.ID)

	provider := &testutil.MockSnapshotProvider{
		GetHoldingsFunc: func(ctx context.Context, collection *entity.Collection, wallet string) ([]entity.NFT, error) {
			if collection.ID == testutil.Collection2.ID {
				return nil, fmt.Errorf("%w: timeout", snapshot.ErrSnapshotUnavailable)
			}

			return testutil.NFTs(3), nil
		},
	}

	result, err := newTestAggregator(provider).AggregateProject(ctx, testutil.Wallet1, catalog)
	require.NoError(t, err)
	require.Len(t, result.PerCollection, 2)

	require.Equal(t, testutil.Collection1.ID, result.PerCollection[0].CollectionID)
	require.False(t, result.PerCollection[0].Unavailable)
	requireDecimal(t, "3", result.PerCollection[0].Points)

	require.Equal(t, testutil.Collection2.ID, result.PerCollection[1].CollectionID)
	require.True(t, result.PerCollection[1].Unavailable)
	requireDecimal(t, "0", result.PerCollection[1].Points)

	requireDecimal(t, "3", result.TotalPoints)
	require.Equal(t, int64(3), result.TotalNftCount)
}

func Test_aggregator_AggregateProject_UsesStoredClaimDate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	catalog := loadCatalog(t, ctx, testutil.Project1.ID)

	require.NoError(t, repository.NewStakerMembershipRepository().Create(ctx, &entity.StakerMembership{
		ID:            "m1",
		WalletAddress: testutil.Wallet1,
		CollectionID:  testutil.Collection1.ID,
		NftHeldCount:  1,
		LastClaimDate: sql.NullTime{Valid: true, Time: now.Add(-6 * time.Hour)},
	}))

	provider := &testutil.MockSnapshotProvider{}
	provider.SetHoldings(testutil.Collection1.ID, testutil.Wallet1, testutil.NFT("1"))
	provider.SetHoldings(testutil.Collection2.ID, testutil.Wallet1, testutil.NFT("9", "Fur", "Golden"))

	result, err := newTestAggregator(provider).AggregateProject(ctx, testutil.Wallet1, catalog)
	require.NoError(t, err)
	requireDecimal(t, "0.25", result.PerCollection[0].Points)
	requireDecimal(t, "4", result.PerCollection[1].Points)
	requireDecimal(t, "4.25", result.TotalPoints)
}

func Test_aggregator_AggregateProject_InternalError(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	catalog := loadCatalog(t, ctx, testutil.Project1.ID)

	provider := &testutil.MockSnapshotProvider{
		GetHoldingsFunc: func(ctx context.Context, collection *entity.Collection, wallet string) ([]entity.NFT, error) {
			return nil, errors.New("invalid collection")
		},
	}

	_, err := newTestAggregator(provider).AggregateProject(ctx, testutil.Wallet1, catalog)
	require.Error(t, err)
	require.False(t, errors.Is(err, snapshot.ErrSnapshotUnavailable))
}
