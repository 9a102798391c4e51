package repository

import (
	"context"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

type ClaimRecordFilter struct {
	WalletAddress string
	ProjectID     string
	Offset        int
	Limit         int
}

type ClaimRecordRepository interface {
	Create(ctx context.Context, e *entity.ClaimRecord) error
	GetList(ctx context.Context, filter ClaimRecordFilter) ([]entity.ClaimRecord, error)
}

type claimRecordRepository struct{}

func NewClaimRecordRepository() *claimRecordRepository {
	return &claimRecordRepository{}
}

func (r *claimRecordRepository) Create(ctx context.Context, e *entity.ClaimRecord) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *claimRecordRepository) GetList(
	ctx context.Context, filter ClaimRecordFilter,
) ([]entity.ClaimRecord, error) {
	var result []entity.ClaimRecord
	tx := xcontext.DB(ctx).Model(&entity.ClaimRecord{}).
		Order("claimed_at DESC, id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit)

	if filter.WalletAddress != "" {
		tx.Where("wallet_address=?", filter.WalletAddress)
	}

	if filter.ProjectID != "" {
		tx.Where("project_id=?", filter.ProjectID)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
