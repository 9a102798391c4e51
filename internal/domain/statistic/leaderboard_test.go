package statistic

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboard() *leaderboard {
	return NewLeaderBoard(repository.NewCollectionRepository(), repository.NewStakerMembershipRepository())
}

func insertMembership(
	t *testing.T, ctx context.Context, wallet, collectionID, points string, held int64, flag bool,
) {
	require.NoError(t, repository.NewStakerMembershipRepository().Create(ctx, &entity.StakerMembership{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		CollectionID:  collectionID,
		TotalPoints:   decimal.RequireFromString(points),
		NftHeldCount:  held,
		AnomalyFlag:   flag,
	}))
}

func wallets(entries []LeaderboardEntry) []string {
	result := []string{}
	for _, e := range entries {
		result = append(result, e.WalletAddress)
	}

	return result
}

func Test_leaderboard_Rank(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	// Wallet1 and Wallet2 tie on 15 points.
	insertMembership(t, ctx, testutil.Wallet2, testutil.Collection1.ID, "15", 2, false)
	insertMembership(t, ctx, testutil.Wallet1, testutil.Collection1.ID, "10", 1, false)
	insertMembership(t, ctx, testutil.Wallet1, testutil.Collection2.ID, "5", 1, true)
	insertMembership(t, ctx, testutil.Wallet4, testutil.Collection2.ID, "40", 1, false)
	// Sold everything, so not ranked despite the points.
	insertMembership(t, ctx, testutil.Wallet3, testutil.Collection1.ID, "100", 0, false)
	// Another project.
	insertMembership(t, ctx, testutil.Wallet3, testutil.Collection3.ID, "500", 1, false)

	l := newTestLeaderboard()

	page, err := l.Rank(ctx, testutil.Project1.ID, 0, 2, "")
	require.NoError(t, err)
	require.Equal(t, []string{testutil.Wallet4, testutil.Wallet1}, wallets(page.Entries))
	require.Equal(t, uint64(1), page.Entries[0].Rank)
	require.Equal(t, uint64(2), page.Entries[1].Rank)
	require.True(t, page.Entries[1].TotalPoints.Equal(decimal.NewFromInt(15)))
	require.Equal(t, int64(2), page.Entries[1].NftHeldCount)
	require.True(t, page.Entries[1].AnomalyFlag)
	require.True(t, page.HasNextPage)
	require.Nil(t, page.FocusWallet)

	page, err = l.Rank(ctx, testutil.Project1.ID, 1, 2, testutil.Wallet4)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.Wallet2}, wallets(page.Entries))
	require.Equal(t, uint64(3), page.Entries[0].Rank)
	require.False(t, page.HasNextPage)
	require.NotNil(t, page.FocusWallet)
	require.Equal(t, testutil.Wallet4, page.FocusWallet.WalletAddress)
	require.Equal(t, uint64(1), page.FocusWallet.Rank)

	page, err = l.Rank(ctx, testutil.Project1.ID, 0, 10, testutil.Wallet2)
	require.NoError(t, err)
	require.Len(t, page.Entries, 3)
	require.Equal(t, uint64(3), page.FocusWallet.Rank)

	// Not ranked at all.
	page, err = l.Rank(ctx, testutil.Project1.ID, 0, 1, testutil.Wallet3)
	require.NoError(t, err)
	require.Nil(t, page.FocusWallet)

	_, err = l.Rank(ctx, testutil.Project1.ID, -1, 1, "")
	require.ErrorIs(t, err, ErrInvalidPage)
}

func Test_leaderboard_Rank_PagesAreDisjointAndDense(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	for i := 0; i < 7; i++ {
		wallet := fmt.Sprintf("0x%040d", i)
		insertMembership(t, ctx, wallet, testutil.Collection1.ID, fmt.Sprint(i%3), 1, false)
	}

	l := newTestLeaderboard()
	seen := map[string]bool{}
	expectedRank := uint64(1)
	for pageIndex := 0; ; pageIndex++ {
		page, err := l.Rank(ctx, testutil.Project1.ID, pageIndex, 3, "")
		require.NoError(t, err)

		for _, e := range page.Entries {
			require.False(t, seen[e.WalletAddress])
			seen[e.WalletAddress] = true
			require.Equal(t, expectedRank, e.Rank)
			expectedRank++

			focus, err := l.Rank(ctx, testutil.Project1.ID, 0, 1, e.WalletAddress)
			require.NoError(t, err)
			require.Equal(t, e.Rank, focus.FocusWallet.Rank)
		}

		if !page.HasNextPage {
			break
		}
	}

	require.Len(t, seen, 7)
}

func Test_leaderboard_Rank_PageSizeBounds(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	l := newTestLeaderboard()

	page, err := l.Rank(ctx, testutil.Project1.ID, 0, 0, "")
	require.NoError(t, err)
	require.Equal(t, 2, page.PageSize)
	require.Empty(t, page.Entries)

	page, err = l.Rank(ctx, testutil.Project1.ID, 0, 1000, "")
	require.NoError(t, err)
	require.Equal(t, 50, page.PageSize)
}

func Test_leaderboard_Rank_PageOutOfRange(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	insertMembership(t, ctx, testutil.Wallet1, testutil.Collection1.ID, "10", 1, false)
	l := newTestLeaderboard()

	for _, tt := range []struct {
		page     int
		pageSize int
	}{
		{page: math.MaxInt64/50 + 1, pageSize: 100},
		{page: math.MaxInt64, pageSize: 1},
		{page: math.MaxInt64 / 50, pageSize: 50},
	} {
		_, err := l.Rank(ctx, testutil.Project1.ID, tt.page, tt.pageSize, "")
		require.ErrorIs(t, err, ErrInvalidPage, "page %d size %d", tt.page, tt.pageSize)
	}

	// A far but representable page is simply empty.
	page, err := l.Rank(ctx, testutil.Project1.ID, 1_000_000, 50, "")
	require.NoError(t, err)
	require.Empty(t, page.Entries)
	require.False(t, page.HasNextPage)
}
