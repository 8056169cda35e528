package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/diamond-courier/internal/catalog"
	"github.com/Simplici0/diamond-courier/internal/db"
	"github.com/Simplici0/diamond-courier/internal/geo"
	"github.com/Simplici0/diamond-courier/internal/migrations"
	"github.com/Simplici0/diamond-courier/internal/seed"
)

const sample = `
shops:
  - id: emerald-emporium
    name: Emerald Emporium
    owner: Steve
    coords: "120, 64, -340"
    description: Enchanted books and rare gear
    products:
      - id: mending-book
        name: Mending Book
        price: 12
      - id: elytra
        name: Elytra
        price: 40
  - id: nether-nook
    name: Nether Nook
    coords: "-800, 70, 900"
    products:
      - id: blaze-rods
        name: Blaze Rods x16
        price: 6
`

func TestParse(t *testing.T) {
	cat, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, cat.Shops, 2)

	shop := cat.Shops[0]
	assert.Equal(t, "emerald-emporium", shop.ID)
	assert.Equal(t, geo.Coordinate{X: 120, Y: 64, Z: -340}, shop.Coords)
	require.Len(t, shop.Products, 2)
	assert.Equal(t, "emerald-emporium", shop.Products[1].ShopID)
	assert.Equal(t, 40, shop.Products[1].Price)
}

func TestParse_AcceptsFreeProduct(t *testing.T) {
	cat, err := catalog.Parse([]byte(`
shops:
  - id: a
    name: A
    coords: "0, 64, 0"
    products:
      - {id: sample, name: Free Sample, price: 0}
`))
	require.NoError(t, err)
	assert.Zero(t, cat.Shops[0].Products[0].Price)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad coords": `
shops:
  - id: a
    name: A
    coords: "12,64"
`,
		"duplicate product": `
shops:
  - id: a
    name: A
    coords: "0, 64, 0"
    products:
      - {id: p, name: P, price: 1}
  - id: b
    name: B
    coords: "0, 64, 0"
    products:
      - {id: p, name: P, price: 1}
`,
		"negative price": `
shops:
  - id: a
    name: A
    coords: "0, 64, 0"
    products:
      - {id: p, name: P, price: -1}
`,
		"missing shop id": `
shops:
  - name: A
    coords: "0, 64, 0"
`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(raw))
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cat, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, cat.Shops, 2)

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestShippedCatalogIsValid(t *testing.T) {
	cat, err := catalog.LoadFile(filepath.Join("..", "..", "catalog.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Shops)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, migrations.Up(ctx, database))

	cat, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)
	_, err = seed.Run(ctx, database, cat)
	require.NoError(t, err)

	repo := catalog.NewRepository(database)

	t.Run("list shops keeps file order", func(t *testing.T) {
		shops, err := repo.ListShops(ctx)
		require.NoError(t, err)
		require.Len(t, shops, 2)
		assert.Equal(t, "emerald-emporium", shops[0].ID)
		assert.Equal(t, "nether-nook", shops[1].ID)
		require.Len(t, shops[0].Products, 2)
		assert.Equal(t, "mending-book", shops[0].Products[0].ID)
		assert.Equal(t, "Enchanted books and rare gear", shops[0].Description)
	})

	t.Run("shop by id", func(t *testing.T) {
		shop, err := repo.Shop(ctx, "nether-nook")
		require.NoError(t, err)
		assert.Equal(t, geo.Coordinate{X: -800, Y: 70, Z: 900}, shop.Coords)
		assert.Len(t, shop.Products, 1)

		_, err = repo.Shop(ctx, "nowhere")
		assert.True(t, errors.Is(err, catalog.ErrNotFound))
	})

	t.Run("lookup product with shop", func(t *testing.T) {
		product, shop, err := repo.Lookup(ctx, "blaze-rods")
		require.NoError(t, err)
		assert.Equal(t, 6, product.Price)
		assert.Equal(t, "nether-nook", shop.ID)

		_, _, err = repo.Lookup(ctx, "diamond-hoe")
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}
