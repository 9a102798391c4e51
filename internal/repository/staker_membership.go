package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrVersionMismatch is returned when a conditional update finds that the
// membership was modified after it had been read.
var ErrVersionMismatch = errors.New("membership version mismatch")

type StakerMembershipFilter struct {
	CollectionID string
	Offset       int
	Limit        int
}

type StakerMembershipRepository interface {
	Create(ctx context.Context, e *entity.StakerMembership) error
	Get(ctx context.Context, walletAddress, collectionID string) (*entity.StakerMembership, error)
	GetByCollectionIDs(ctx context.Context, walletAddress string, collectionIDs []string) ([]entity.StakerMembership, error)
	GetList(ctx context.Context, filter StakerMembershipFilter) ([]entity.StakerMembership, error)
	CommitClaim(ctx context.Context, id string, version uint64, accrued decimal.Decimal, nftHeldCount int64, claimedAt time.Time) error
	UpdateHeldCount(ctx context.Context, id string, nftHeldCount int64) error
	UpdateAnomalyFlag(ctx context.Context, walletAddress string, collectionIDs []string, flag bool) (int64, error)
	GetLeaderboard(ctx context.Context, collectionIDs []string, offset, limit int) ([]entity.WalletStatistic, error)
	GetWalletStatistic(ctx context.Context, collectionIDs []string, walletAddress string) (*entity.WalletStatistic, error)
	CountAhead(ctx context.Context, collectionIDs []string, walletAddress string) (int64, error)
}

type stakerMembershipRepository struct{}

func NewStakerMembershipRepository() *stakerMembershipRepository {
	return &stakerMembershipRepository{}
}

func (r *stakerMembershipRepository) Create(ctx context.Context, e *entity.StakerMembership) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *stakerMembershipRepository) Get(
	ctx context.Context, walletAddress, collectionID string,
) (*entity.StakerMembership, error) {
	result := &entity.StakerMembership{}
	err := xcontext.DB(ctx).
		Take(result, "wallet_address=? AND collection_id=?", walletAddress, collectionID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stakerMembershipRepository) GetByCollectionIDs(
	ctx context.Context, walletAddress string, collectionIDs []string,
) ([]entity.StakerMembership, error) {
	var result []entity.StakerMembership
	if len(collectionIDs) == 0 {
		return result, nil
	}

	err := xcontext.DB(ctx).
		Where("wallet_address=? AND collection_id IN (?)", walletAddress, collectionIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stakerMembershipRepository) GetList(
	ctx context.Context, filter StakerMembershipFilter,
) ([]entity.StakerMembership, error) {
	var result []entity.StakerMembership
	tx := xcontext.DB(ctx).Model(&entity.StakerMembership{}).
		Order("id ASC").
		Offset(filter.Offset).
		Limit(filter.Limit)

	if filter.CollectionID != "" {
		tx.Where("collection_id=?", filter.CollectionID)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// CommitClaim adds the accrued points and moves the claim clock, but only if
// the stored version still equals the given one.
func (r *stakerMembershipRepository) CommitClaim(
	ctx context.Context,
	id string,
	version uint64,
	accrued decimal.Decimal,
	nftHeldCount int64,
	claimedAt time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.StakerMembership{}).
		Where("id=? AND version=?", id, version).
		Updates(map[string]any{
			"total_points":    gorm.Expr("total_points + CAST(? AS DECIMAL(38,18))", accrued.String()),
			"nft_held_count":  nftHeldCount,
			"last_claim_date": claimedAt,
			"version":         gorm.Expr("version + 1"),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionMismatch
	}

	return nil
}

func (r *stakerMembershipRepository) UpdateHeldCount(
	ctx context.Context, id string, nftHeldCount int64,
) error {
	return xcontext.DB(ctx).
		Model(&entity.StakerMembership{}).
		Where("id=?", id).
		Update("nft_held_count", nftHeldCount).Error
}

func (r *stakerMembershipRepository) UpdateAnomalyFlag(
	ctx context.Context, walletAddress string, collectionIDs []string, flag bool,
) (int64, error) {
	if len(collectionIDs) == 0 {
		return 0, nil
	}

	tx := xcontext.DB(ctx).
		Model(&entity.StakerMembership{}).
		Where("wallet_address=? AND collection_id IN (?)", walletAddress, collectionIDs).
		Update("anomaly_flag", flag)
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

// walletStatisticQuery sums stored totals per wallet over a set of
// collections. Wallets holding nothing in any of them are left out.
const walletStatisticQuery = `SELECT wallet_address,
	SUM(total_points) AS total_points,
	SUM(nft_held_count) AS nft_held_count,
	MAX(anomaly_flag) AS anomaly_flag
FROM staker_memberships
WHERE collection_id IN (?)
GROUP BY wallet_address
HAVING SUM(nft_held_count) > 0`

func (r *stakerMembershipRepository) GetLeaderboard(
	ctx context.Context, collectionIDs []string, offset, limit int,
) ([]entity.WalletStatistic, error) {
	var result []entity.WalletStatistic
	if len(collectionIDs) == 0 {
		return result, nil
	}

	query := walletStatisticQuery +
		"\nORDER BY SUM(total_points) DESC, wallet_address ASC LIMIT ? OFFSET ?"
	err := xcontext.DB(ctx).Raw(query, collectionIDs, limit, offset).Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *stakerMembershipRepository) GetWalletStatistic(
	ctx context.Context, collectionIDs []string, walletAddress string,
) (*entity.WalletStatistic, error) {
	if len(collectionIDs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var result []entity.WalletStatistic
	query := fmt.Sprintf("SELECT * FROM (%s) AS s WHERE s.wallet_address = ?", walletStatisticQuery)
	err := xcontext.DB(ctx).Raw(query, collectionIDs, walletAddress).Scan(&result).Error
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return &result[0], nil
}

// CountAhead returns how many ranked wallets sort strictly before the given
// one. The wallet is compared against its own aggregated row so no decimal is
// ever bound as a parameter.
func (r *stakerMembershipRepository) CountAhead(
	ctx context.Context, collectionIDs []string, walletAddress string,
) (int64, error) {
	if len(collectionIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM (%s) AS t
JOIN (%s) AS f ON f.wallet_address = ?
WHERE t.total_points > f.total_points
	OR (t.total_points = f.total_points AND t.wallet_address < f.wallet_address)`,
		walletStatisticQuery, walletStatisticQuery)

	var count int64
	err := xcontext.DB(ctx).Raw(query, collectionIDs, collectionIDs, walletAddress).Scan(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
