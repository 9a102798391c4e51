package repository

import (
	"context"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

type RewardRuleRepository interface {
	GetByCollectionIDs(ctx context.Context, collectionIDs []string) ([]entity.RewardRule, error)
	ReplaceByCollectionID(ctx context.Context, collectionID string, rules []entity.RewardRule) error
}

type rewardRuleRepository struct{}

func NewRewardRuleRepository() *rewardRuleRepository {
	return &rewardRuleRepository{}
}

func (r *rewardRuleRepository) GetByCollectionIDs(
	ctx context.Context, collectionIDs []string,
) ([]entity.RewardRule, error) {
	var result []entity.RewardRule
	if len(collectionIDs) == 0 {
		return result, nil
	}

	err := xcontext.DB(ctx).
		Where("collection_id IN (?)", collectionIDs).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ReplaceByCollectionID removes the current rules of the collection and
// inserts the given ones. Callers should run it inside a transaction.
func (r *rewardRuleRepository) ReplaceByCollectionID(
	ctx context.Context, collectionID string, rules []entity.RewardRule,
) error {
	err := xcontext.DB(ctx).Unscoped().
		Where("collection_id=?", collectionID).
		Delete(&entity.RewardRule{}).Error
	if err != nil {
		return err
	}

	if len(rules) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&rules).Error
}
