package transition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

var table = Table{
	"open": {
		"closed":   {actor.RoleSales},
		"archived": {},
	},
	"closed":   {"open": {actor.RoleSales, actor.RoleSystem}},
	"archived": {},
}

func TestCan_ListedRolesAndAdminOverride(t *testing.T) {
	require.True(t, table.Can("open", "closed", actor.RoleSales))
	require.False(t, table.Can("open", "closed", actor.RoleCustomer))

	// Empty role set means admin-only.
	require.False(t, table.Can("open", "archived", actor.RoleSales))
	require.True(t, table.Can("open", "archived", actor.RoleAdmin))

	// Admin cannot invent edges.
	require.False(t, table.Can("archived", "open", actor.RoleAdmin))
	require.False(t, table.Can("missing", "open", actor.RoleAdmin))
}

func TestAllowed_FiltersByRole(t *testing.T) {
	require.ElementsMatch(t, []State{"closed"}, table.Allowed("open", actor.RoleSales))
	require.ElementsMatch(t, []State{"closed", "archived"}, table.Allowed("open", actor.RoleAdmin))
	require.Empty(t, table.Allowed("open", actor.RoleCustomer))
	require.Nil(t, table.Allowed("missing", actor.RoleAdmin))
}

func TestTerminalAndKnown(t *testing.T) {
	require.True(t, table.Terminal("archived"))
	require.False(t, table.Terminal("open"))
	require.True(t, table.Terminal("missing"), "unknown states have no edges")

	require.True(t, table.Known("open"))
	require.False(t, table.Known("missing"))
}
