//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/dbtest"
)

func TestPostgresRepository_SaveSearchDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo := NewRepository(dbtest.OpenPostgres(t, Models()...))
	ctx := context.Background()

	category, err := repo.SaveCategory(ctx, &domain.Category{Name: "jackets", FriendlyName: "Jackets"})
	require.NoError(t, err)

	jacket, err := domain.NewProduct(0, "Denim Jacket", decimal.RequireFromString("89.99"))
	require.NoError(t, err)
	jacket.UpdateCategory(category)
	rating := decimal.RequireFromString("4.25")
	jacket.Rating = &rating
	saved, err := repo.Save(ctx, jacket)
	require.NoError(t, err)

	tote, err := domain.NewProduct(0, "canvas tote", decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, tote)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, saved.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "89.99", fetched.Entity.Price.StringFixed(2))
	assert.Equal(t, "4.25", fetched.Entity.Rating.StringFixed(2))
	assert.Equal(t, "Jackets", fetched.Entity.Category.DisplayName())

	list, err := repo.Search(ctx, domain.Query{Sort: domain.SortCategory, Direction: domain.DirectionDesc})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Denim Jacket", list[0].Entity.Name)

	list, err = repo.Search(ctx, domain.Query{SearchTerm: "TOTE"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, saved.Entity.ID))
	_, err = repo.GetByID(ctx, saved.Entity.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
