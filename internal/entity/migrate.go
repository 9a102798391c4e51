package entity

import (
	"context"

	"github.com/questx-lab/stakeboard/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Project{},
		&Collection{},
		&RewardRule{},
		&StakerMembership{},
		&ClaimRecord{},
	)
}
