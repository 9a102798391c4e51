package reward

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/questx-lab/stakeboard/pkg/enum"
	"github.com/questx-lab/stakeboard/pkg/ethutil"
	"github.com/questx-lab/stakeboard/pkg/xcontext"
	"github.com/shopspring/decimal"
)

// CatalogFile is the toml layout accepted by the seed command.
//
//	[[projects]]
//	id = "apes"
//	handle = "apes"
//
//	  [[projects.collections]]
//	  id = "apes-genesis"
//	  chain = "eth"
//	  contract_address = "0x..."
//
//	    [[projects.collections.rules]]
//	    attribute_key = "Background"
//	    attribute_value = "Gold"
//	    reward_amount = "10"
//	    period_unit = "DAY"
type CatalogFile struct {
	Projects []ProjectConfig `toml:"projects"`
}

type ProjectConfig struct {
	ID          string             `toml:"id"`
	Handle      string             `toml:"handle"`
	DisplayName string             `toml:"display_name"`
	Collections []CollectionConfig `toml:"collections"`
}

type CollectionConfig struct {
	ID                     string       `toml:"id"`
	Name                   string       `toml:"name"`
	Chain                  string       `toml:"chain"`
	ContractAddress        string       `toml:"contract_address"`
	StakingContractAddress string       `toml:"staking_contract_address"`
	CatchAllPolicy         string       `toml:"catch_all_policy"`
	Rules                  []RuleConfig `toml:"rules"`
}

type RuleConfig struct {
	ID             string `toml:"id"`
	AttributeKey   string `toml:"attribute_key"`
	AttributeValue string `toml:"attribute_value"`
	RewardAmount   string `toml:"reward_amount"`
	PeriodUnit     string `toml:"period_unit"`
}

func DecodeCatalogFile(path string) (*CatalogFile, error) {
	var file CatalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("cannot decode catalog file %s: %w", path, err)
	}

	return &file, nil
}

type importedCollection struct {
	collection entity.Collection
	rules      []entity.RewardRule
}

type importedProject struct {
	project     entity.Project
	collections []importedCollection
}

// CatalogImporter writes a catalog file to storage. The rules of every
// imported collection are replaced as a whole.
type CatalogImporter struct {
	projectRepo    repository.ProjectRepository
	collectionRepo repository.CollectionRepository
	ruleRepo       repository.RewardRuleRepository
}

func NewCatalogImporter(
	projectRepo repository.ProjectRepository,
	collectionRepo repository.CollectionRepository,
	ruleRepo repository.RewardRuleRepository,
) *CatalogImporter {
	return &CatalogImporter{
		projectRepo:    projectRepo,
		collectionRepo: collectionRepo,
		ruleRepo:       ruleRepo,
	}
}

// Import validates the whole file before writing anything, then writes it in
// one transaction.
func (i *CatalogImporter) Import(ctx context.Context, file *CatalogFile) error {
	projects := make([]importedProject, 0, len(file.Projects))
	for _, p := range file.Projects {
		project, err := convertProjectConfig(p)
		if err != nil {
			return err
		}

		projects = append(projects, *project)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	for _, p := range projects {
		p := p
		if err := i.projectRepo.Upsert(ctx, &p.project); err != nil {
			return fmt.Errorf("cannot upsert project %s: %w", p.project.ID, err)
		}

		for _, c := range p.collections {
			c := c
			if err := i.collectionRepo.Upsert(ctx, &c.collection); err != nil {
				return fmt.Errorf("cannot upsert collection %s: %w", c.collection.ID, err)
			}

			if err := i.ruleRepo.ReplaceByCollectionID(ctx, c.collection.ID, c.rules); err != nil {
				return fmt.Errorf("cannot replace rules of collection %s: %w", c.collection.ID, err)
			}
		}

		xcontext.Logger(ctx).Infof("Imported project %s with %d collections", p.project.ID, len(p.collections))
	}

	return xcontext.WithCommitDBTransaction(ctx)
}

func convertProjectConfig(p ProjectConfig) (*importedProject, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("project without id")
	}

	handle := p.Handle
	if handle == "" {
		handle = p.ID
	}

	result := &importedProject{
		project: entity.Project{
			Base:        entity.Base{ID: p.ID},
			Handle:      handle,
			DisplayName: p.DisplayName,
		},
	}

	for _, c := range p.Collections {
		collection, err := convertCollectionConfig(p.ID, c)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", p.ID, err)
		}

		result.collections = append(result.collections, *collection)
	}

	return result, nil
}

func convertCollectionConfig(projectID string, c CollectionConfig) (*importedCollection, error) {
	if c.ID == "" {
		return nil, fmt.Errorf("collection without id")
	}

	if !ethutil.IsEVMAddress(c.ContractAddress) {
		return nil, fmt.Errorf("collection %s has an invalid contract address", c.ID)
	}

	policy := entity.CatchAllAdditive
	if c.CatchAllPolicy != "" {
		var err error
		policy, err = enum.ToEnum[entity.CatchAllPolicy](c.CatchAllPolicy)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", c.ID, err)
		}
	}

	result := &importedCollection{
		collection: entity.Collection{
			Base:            entity.Base{ID: c.ID},
			ProjectID:       projectID,
			Name:            c.Name,
			Chain:           c.Chain,
			ContractAddress: ethutil.NormalizeAddress(c.ContractAddress),
			CatchAllPolicy:  policy,
		},
		rules: []entity.RewardRule{},
	}

	if c.StakingContractAddress != "" {
		if !ethutil.IsEVMAddress(c.StakingContractAddress) {
			return nil, fmt.Errorf("collection %s has an invalid staking contract address", c.ID)
		}

		result.collection.StakingContractAddress = sql.NullString{
			Valid:  true,
			String: ethutil.NormalizeAddress(c.StakingContractAddress),
		}
	}

	for index, r := range c.Rules {
		rule, err := convertRuleConfig(c.ID, r)
		if err != nil {
			return nil, fmt.Errorf("collection %s rule #%d: %w", c.ID, index, err)
		}

		result.rules = append(result.rules, *rule)
	}

	return result, nil
}

func convertRuleConfig(collectionID string, r RuleConfig) (*entity.RewardRule, error) {
	if r.AttributeKey == "" && r.AttributeValue != "" {
		return nil, fmt.Errorf("attribute value %s without a key", r.AttributeValue)
	}

	amount, err := decimal.NewFromString(r.RewardAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid reward amount %q: %w", r.RewardAmount, err)
	}

	if amount.IsNegative() {
		return nil, fmt.Errorf("negative reward amount %s", r.RewardAmount)
	}

	unit, err := enum.ToEnum[entity.PeriodUnit](r.PeriodUnit)
	if err != nil {
		return nil, err
	}

	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}

	return &entity.RewardRule{
		Base:           entity.Base{ID: id},
		CollectionID:   collectionID,
		AttributeKey:   sql.NullString{Valid: r.AttributeKey != "", String: r.AttributeKey},
		AttributeValue: sql.NullString{Valid: r.AttributeValue != "", String: r.AttributeValue},
		RewardAmount:   amount,
		PeriodUnit:     unit,
	}, nil
}
