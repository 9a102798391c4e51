package migration

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsTempDir(t *testing.T) {
	dir, err := MigrationsTempDir()
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	require.Equal(t, []string{
		"000001_init.down.sql",
		"000001_init.up.sql",
		"000002_claim_record_claimed_at.down.sql",
		"000002_claim_record_claimed_at.up.sql",
	}, names)

	content, err := os.ReadFile(filepath.Join(dir, "000001_init.up.sql"))
	require.NoError(t, err)
	require.Contains(t, string(content), "staker_memberships")
}
