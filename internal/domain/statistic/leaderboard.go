package statistic

import (
	"context"
	"errors"
	"math"

	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var ErrInvalidPage = errors.New("page is out of range")

type LeaderboardEntry struct {
	WalletAddress string          `json:"wallet_address"`
	TotalPoints   decimal.Decimal `json:"total_points"`
	NftHeldCount  int64           `json:"nft_held_count"`
	Rank          uint64          `json:"rank"`
	AnomalyFlag   bool            `json:"anomaly_flag"`
}

type LeaderboardPage struct {
	Entries     []LeaderboardEntry `json:"entries"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	HasNextPage bool               `json:"has_next_page"`

	// FocusWallet is nil when the requested wallet is not ranked.
	FocusWallet *LeaderboardEntry `json:"focus_wallet"`
}

type Leaderboard interface {
	// Rank returns one page of the project's wallets ordered by total points
	// descending, ties broken by wallet address ascending. Pages start at 0.
	Rank(ctx context.Context, projectID string, page, pageSize int, focusWallet string) (*LeaderboardPage, error)
}

type leaderboard struct {
	collectionRepo repository.CollectionRepository
	membershipRepo repository.StakerMembershipRepository
}

func NewLeaderBoard(
	collectionRepo repository.CollectionRepository,
	membershipRepo repository.StakerMembershipRepository,
) *leaderboard {
	return &leaderboard{
		collectionRepo: collectionRepo,
		membershipRepo: membershipRepo,
	}
}

func (l *leaderboard) Rank(
	ctx context.Context, projectID string, page, pageSize int, focusWallet string,
) (*LeaderboardPage, error) {
	if page < 0 {
		return nil, ErrInvalidPage
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if pageSize <= 0 {
		pageSize = apiCfg.DefaultLimit
	}

	if pageSize > apiCfg.MaxLimit {
		pageSize = apiCfg.MaxLimit
	}

	// The query reads one row past the page, so offset+pageSize+1 must fit.
	if page > (math.MaxInt-1)/pageSize-1 {
		return nil, ErrInvalidPage
	}

	collections, err := l.collectionRepo.GetByProjectID(ctx, projectID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get collections of project %s: %v", projectID, err)
		return nil, err
	}

	collectionIDs := make([]string, 0, len(collections))
	for _, c := range collections {
		collectionIDs = append(collectionIDs, c.ID)
	}

	offset := page * pageSize
	stats, err := l.membershipRepo.GetLeaderboard(ctx, collectionIDs, offset, pageSize+1)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard of project %s: %v", projectID, err)
		return nil, err
	}

	result := &LeaderboardPage{
		Entries:  []LeaderboardEntry{},
		Page:     page,
		PageSize: pageSize,
	}

	if len(stats) > pageSize {
		result.HasNextPage = true
		stats = stats[:pageSize]
	}

	for i, s := range stats {
		result.Entries = append(result.Entries, LeaderboardEntry{
			WalletAddress: s.WalletAddress,
			TotalPoints:   s.TotalPoints,
			NftHeldCount:  s.NftHeldCount,
			Rank:          uint64(offset + i + 1),
			AnomalyFlag:   s.AnomalyFlag,
		})
	}

	if focusWallet == "" {
		return result, nil
	}

	index := slices.IndexFunc(result.Entries, func(e LeaderboardEntry) bool {
		return e.WalletAddress == focusWallet
	})
	if index >= 0 {
		entry := result.Entries[index]
		result.FocusWallet = &entry
		return result, nil
	}

	focus, err := l.rankOf(ctx, collectionIDs, focusWallet)
	if err != nil {
		return nil, err
	}

	result.FocusWallet = focus
	return result, nil
}

func (l *leaderboard) rankOf(
	ctx context.Context, collectionIDs []string, walletAddress string,
) (*LeaderboardEntry, error) {
	stat, err := l.membershipRepo.GetWalletStatistic(ctx, collectionIDs, walletAddress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get statistic of wallet %s: %v", walletAddress, err)
		return nil, err
	}

	ahead, err := l.membershipRepo.CountAhead(ctx, collectionIDs, walletAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rank of wallet %s: %v", walletAddress, err)
		return nil, err
	}

	return &LeaderboardEntry{
		WalletAddress: stat.WalletAddress,
		TotalPoints:   stat.TotalPoints,
		NftHeldCount:  stat.NftHeldCount,
		Rank:          uint64(ahead) + 1,
		AnomalyFlag:   stat.AnomalyFlag,
	}, nil
}
