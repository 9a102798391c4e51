package reward

import "github.com/questx-lab/stakeboard/internal/repository"

func newTestCatalogLoader() *catalogLoader {
	return NewCatalogLoader(
		repository.NewProjectRepository(),
		repository.NewCollectionRepository(),
		repository.NewRewardRuleRepository(),
	)
}
