package reward

import (
	"context"
	"errors"

	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

// CatalogLoader reads the reward configuration of a project from storage.
type CatalogLoader interface {
	Load(ctx context.Context, projectID string) (*ProjectCatalog, error)
}

type catalogLoader struct {
	projectRepo    repository.ProjectRepository
	collectionRepo repository.CollectionRepository
	ruleRepo       repository.RewardRuleRepository
}

func NewCatalogLoader(
	projectRepo repository.ProjectRepository,
	collectionRepo repository.CollectionRepository,
	ruleRepo repository.RewardRuleRepository,
) *catalogLoader {
	return &catalogLoader{
		projectRepo:    projectRepo,
		collectionRepo: collectionRepo,
		ruleRepo:       ruleRepo,
	}
}

func (l *catalogLoader) Load(ctx context.Context, projectID string) (*ProjectCatalog, error) {
	project, err := l.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	collections, err := l.collectionRepo.GetByProjectID(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	catalog := &ProjectCatalog{Project: *project}
	if len(collections) == 0 {
		return catalog, nil
	}

	collectionIDs := make([]string, 0, len(collections))
	for _, c := range collections {
		collectionIDs = append(collectionIDs, c.ID)
	}

	rules, err := l.ruleRepo.GetByCollectionIDs(ctx, collectionIDs)
	if err != nil {
		return nil, err
	}

	for _, collection := range collections {
		collectionRules := rules[:0:0]
		for _, r := range rules {
			if r.CollectionID == collection.ID {
				collectionRules = append(collectionRules, r)
			}
		}

		c := NewCollectionCatalog(collection, collectionRules)
		for _, invalid := range c.Invalid {
			xcontext.Logger(ctx).Warnf("Reward rule %s of collection %s has a value without a key, ignored",
				invalid.ID, collection.ID)
		}

		catalog.Collections = append(catalog.Collections, c)
	}

	return catalog, nil
}
