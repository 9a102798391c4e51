package testutil

import (
	"context"
	"database/sql"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/internal/repository"
	"github.com/shopspring/decimal"
)

const (
	Wallet1 = "0x1111111111111111111111111111111111111111"
	Wallet2 = "0x2222222222222222222222222222222222222222"
	Wallet3 = "0x3333333333333333333333333333333333333333"
	Wallet4 = "0x4444444444444444444444444444444444444444"
)

var (
	Project1 = entity.Project{
		Base:        entity.Base{ID: "project1"},
		Handle:      "apes",
		DisplayName: "Apes",
	}

	Project2 = entity.Project{
		Base:        entity.Base{ID: "project2"},
		Handle:      "cats",
		DisplayName: "Cats",
	}

	// Collection1 rewards a gold background, any hat and every held token.
	Collection1 = entity.Collection{
		Base:            entity.Base{ID: "collection1"},
		ProjectID:       Project1.ID,
		Name:            "Apes Genesis",
		Chain:           "eth",
		ContractAddress: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		CatchAllPolicy:  entity.CatchAllAdditive,
	}

	// Collection2 pays the catch-all only for tokens without a golden fur.
	Collection2 = entity.Collection{
		Base:            entity.Base{ID: "collection2"},
		ProjectID:       Project1.ID,
		Name:            "Apes Mutants",
		Chain:           "eth",
		ContractAddress: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		StakingContractAddress: sql.NullString{
			Valid:  true,
			String: "0xcccccccccccccccccccccccccccccccccccccccc",
		},
		CatchAllPolicy: entity.CatchAllExclusive,
	}

	Collection3 = entity.Collection{
		Base:            entity.Base{ID: "collection3"},
		ProjectID:       Project2.ID,
		Name:            "Cats",
		Chain:           "eth",
		ContractAddress: "0xdddddddddddddddddddddddddddddddddddddddd",
		CatchAllPolicy:  entity.CatchAllAdditive,
	}

	Rule1GoldBackground = entity.RewardRule{
		Base:           entity.Base{ID: "rule1_gold_background"},
		CollectionID:   Collection1.ID,
		AttributeKey:   sql.NullString{Valid: true, String: "Background"},
		AttributeValue: sql.NullString{Valid: true, String: "Gold"},
		RewardAmount:   decimal.NewFromInt(10),
		PeriodUnit:     entity.PeriodDay,
	}

	Rule1AnyHat = entity.RewardRule{
		Base:         entity.Base{ID: "rule1_any_hat"},
		CollectionID: Collection1.ID,
		AttributeKey: sql.NullString{Valid: true, String: "Hat"},
		RewardAmount: decimal.NewFromInt(2),
		PeriodUnit:   entity.PeriodHour,
	}

	Rule1CatchAll = entity.RewardRule{
		Base:         entity.Base{ID: "rule1_catch_all"},
		CollectionID: Collection1.ID,
		RewardAmount: decimal.NewFromInt(1),
		PeriodUnit:   entity.PeriodDay,
	}

	Rule2GoldenFur = entity.RewardRule{
		Base:           entity.Base{ID: "rule2_golden_fur"},
		CollectionID:   Collection2.ID,
		AttributeKey:   sql.NullString{Valid: true, String: "Fur"},
		AttributeValue: sql.NullString{Valid: true, String: "Golden"},
		RewardAmount:   decimal.NewFromInt(4),
		PeriodUnit:     entity.PeriodDay,
	}

	Rule2CatchAll = entity.RewardRule{
		Base:         entity.Base{ID: "rule2_catch_all"},
		CollectionID: Collection2.ID,
		RewardAmount: decimal.NewFromInt(1),
		PeriodUnit:   entity.PeriodDay,
	}

	Rule3CatchAll = entity.RewardRule{
		Base:         entity.Base{ID: "rule3_catch_all"},
		CollectionID: Collection3.ID,
		RewardAmount: decimal.NewFromInt(3),
		PeriodUnit:   entity.PeriodDay,
	}

	Projects    = []entity.Project{Project1, Project2}
	Collections = []entity.Collection{Collection1, Collection2, Collection3}
	RewardRules = map[string][]entity.RewardRule{
		Collection1.ID: {Rule1GoldBackground, Rule1AnyHat, Rule1CatchAll},
		Collection2.ID: {Rule2GoldenFur, Rule2CatchAll},
		Collection3.ID: {Rule3CatchAll},
	}
)

// CreateFixtureDb inserts the fixture catalog. Memberships are left to each
// test.
func CreateFixtureDb(ctx context.Context) {
	projectRepo := repository.NewProjectRepository()
	for _, p := range Projects {
		p := p
		if err := projectRepo.Upsert(ctx, &p); err != nil {
			panic(err)
		}
	}

	collectionRepo := repository.NewCollectionRepository()
	for _, c := range Collections {
		c := c
		if err := collectionRepo.Upsert(ctx, &c); err != nil {
			panic(err)
		}
	}

	ruleRepo := repository.NewRewardRuleRepository()
	for _, c := range Collections {
		rules := append([]entity.RewardRule{}, RewardRules[c.ID]...)
		if err := ruleRepo.ReplaceByCollectionID(ctx, c.ID, rules); err != nil {
			panic(err)
		}
	}
}
