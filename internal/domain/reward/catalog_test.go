package reward

import (
	"database/sql"
	"testing"

	"github.com/questx-lab/stakeboard/internal/entity"
	"github.com/questx-lab/stakeboard/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func ruleIDs(matches []Match) []string {
	ids := []string{}
	for _, m := range matches {
		ids = append(ids, m.Rule.ID)
	}

	return ids
}

func Test_CollectionCatalog_Match(t *testing.T) {
	catalog := NewCollectionCatalog(testutil.Collection1, testutil.RewardRules[testutil.Collection1.ID])

	// Exact beats the key wildcard; the catch-all is added once.
	matches := catalog.Match(testutil.NFT("1", "Background", "Gold", "Hat", "Cap", "Eyes", "Blue"))
	require.Equal(t, []string{
		testutil.Rule1GoldBackground.ID,
		testutil.Rule1AnyHat.ID,
		testutil.Rule1CatchAll.ID,
	}, ruleIDs(matches))
	require.Equal(t, MatchExact, matches[0].Kind)
	require.Equal(t, MatchKeyWildcard, matches[1].Kind)
	require.Equal(t, MatchCatchAll, matches[2].Kind)

	// A background other than gold has no rule and no wildcard.
	matches = catalog.Match(testutil.NFT("2", "Background", "Red"))
	require.Equal(t, []string{testutil.Rule1CatchAll.ID}, ruleIDs(matches))

	matches = catalog.Match(testutil.NFT("3"))
	require.Equal(t, []string{testutil.Rule1CatchAll.ID}, ruleIDs(matches))
}

func Test_CollectionCatalog_ExclusiveCatchAll(t *testing.T) {
	catalog := NewCollectionCatalog(testutil.Collection2, testutil.RewardRules[testutil.Collection2.ID])

	matches := catalog.Match(testutil.NFT("1", "Fur", "Golden"))
	require.Equal(t, []string{testutil.Rule2GoldenFur.ID}, ruleIDs(matches))

	matches = catalog.Match(testutil.NFT("2", "Fur", "Brown"))
	require.Equal(t, []string{testutil.Rule2CatchAll.ID}, ruleIDs(matches))
}

func Test_CollectionCatalog_ExactWithoutWildcard(t *testing.T) {
	rules := []entity.RewardRule{
		{
			Base:           entity.Base{ID: "a"},
			AttributeKey:   sql.NullString{Valid: true, String: "Hat"},
			AttributeValue: sql.NullString{Valid: true, String: "Crown"},
		},
		{
			Base:           entity.Base{ID: "b"},
			AttributeValue: sql.NullString{Valid: true, String: "Crown"},
		},
	}

	catalog := NewCollectionCatalog(entity.Collection{}, rules)
	require.Len(t, catalog.Invalid, 1)
	require.Nil(t, catalog.CatchAll())

	require.Empty(t, catalog.Match(testutil.NFT("1", "Hat", "Cap")))
	require.Equal(t, []string{"a"}, ruleIDs(catalog.Match(testutil.NFT("1", "Hat", "Crown"))))
}

func Test_catalogLoader_Load(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	loader := newTestCatalogLoader()
	catalog, err := loader.Load(ctx, testutil.Project1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Project1.ID, catalog.Project.ID)
	require.Equal(t, []string{testutil.Collection1.ID, testutil.Collection2.ID}, catalog.CollectionIDs())
	require.NotNil(t, catalog.Collections[0].CatchAll())
	require.Equal(t, testutil.Rule1CatchAll.ID, catalog.Collections[0].CatchAll().ID)

	_, err = loader.Load(ctx, "unknown")
	require.ErrorIs(t, err, ErrProjectNotFound)
}
