package repository

import (
	"context"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type ProjectRepository interface {
	Upsert(ctx context.Context, e *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	GetByHandle(ctx context.Context, handle string) (*entity.Project, error)
	GetList(ctx context.Context) ([]entity.Project, error)
}

type projectRepository struct{}

func NewProjectRepository() *projectRepository {
	return &projectRepository{}
}

func (r *projectRepository) Upsert(ctx context.Context, e *entity.Project) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"handle", "display_name", "updated_at"}),
	}).Create(e).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	result := &entity.Project{}
	if err := xcontext.DB(ctx).Take(result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *projectRepository) GetByHandle(ctx context.Context, handle string) (*entity.Project, error) {
	result := &entity.Project{}
	if err := xcontext.DB(ctx).Take(result, "handle=?", handle).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *projectRepository) GetList(ctx context.Context) ([]entity.Project, error) {
	var result []entity.Project
	if err := xcontext.DB(ctx).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
