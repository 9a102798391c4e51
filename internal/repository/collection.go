package repository

import (
	"context"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type CollectionRepository interface {
	Upsert(ctx context.Context, e *entity.Collection) error
	GetByID(ctx context.Context, id string) (*entity.Collection, error)
	GetByProjectID(ctx context.Context, projectID string) ([]entity.Collection, error)
}

type collectionRepository struct{}

func NewCollectionRepository() *collectionRepository {
	return &collectionRepository{}
}

func (r *collectionRepository) Upsert(ctx context.Context, e *entity.Collection) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"project_id",
			"name",
			"chain",
			"contract_address",
			"staking_contract_address",
			"catch_all_policy",
			"updated_at",
		}),
	}).Create(e).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id string) (*entity.Collection, error) {
	result := &entity.Collection{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *collectionRepository) GetByProjectID(ctx context.Context, projectID string) ([]entity.Collection, error) {
	var result []entity.Collection
	err := xcontext.DB(ctx).
		Where("project_id=?", projectID).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
