package migrations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/platform/dbtest"
)

func TestRun_CreatesStorefrontTables(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, Run(db))

	for _, table := range []string{"categories", "products", "orders", "order_line_items"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
	require.NoError(t, Run(db), "migrations must be re-runnable")
}

func TestRun_NilDB(t *testing.T) {
	require.NoError(t, Run(nil))
}
