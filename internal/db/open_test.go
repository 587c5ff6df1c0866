package db

import (
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	gdb, err := Open("sqlite", "file:migrate_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	for _, m := range Models {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	assert.True(t, gdb.Migrator().HasColumn(&domain.Product{}, "stock"))
	assert.True(t, gdb.Migrator().HasColumn(&domain.Purchase{}, "unit_price"))
}

func TestMigrateBackfillsFoldedSearchColumns(t *testing.T) {
	gdb, err := Open("sqlite", "file:backfill_test?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	p := domain.Product{Name: "PIÑA COLADA", Category: "BEBIDAS ÁCIDAS", Active: true}
	require.NoError(t, gdb.Create(&p).Error)
	require.NoError(t, gdb.Model(&p).UpdateColumns(map[string]any{"name_folded": nil, "category_folded": nil}).Error)

	require.NoError(t, Migrate(gdb))

	var got domain.Product
	require.NoError(t, gdb.First(&got, p.ID).Error)
	assert.Equal(t, "piña colada", got.NameFolded)
	assert.Equal(t, "bebidas ácidas", got.CategoryFolded)
}
