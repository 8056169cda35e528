package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository reads the active catalog from SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListShops returns every active shop with its active products.
func (r *Repository) ListShops(ctx context.Context) ([]Shop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(owner, ''), COALESCE(description, ''), x, y, z
		FROM shops
		WHERE active
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query shops: %w", err)
	}
	defer rows.Close()

	shops := make([]Shop, 0)
	index := make(map[string]int)
	for rows.Next() {
		var s Shop
		if err := rows.Scan(&s.ID, &s.Name, &s.Owner, &s.Description, &s.Coords.X, &s.Coords.Y, &s.Coords.Z); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		s.Products = make([]Product, 0)
		index[s.ID] = len(shops)
		shops = append(shops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shops: %w", err)
	}

	products, err := r.listProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if i, ok := index[p.ShopID]; ok {
			shops[i].Products = append(shops[i].Products, p)
		}
	}

	return shops, nil
}

// Shop returns one active shop with its products.
func (r *Repository) Shop(ctx context.Context, id string) (*Shop, error) {
	var s Shop
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(owner, ''), COALESCE(description, ''), x, y, z
		FROM shops
		WHERE id = ? AND active
	`, id).Scan(&s.ID, &s.Name, &s.Owner, &s.Description, &s.Coords.X, &s.Coords.Y, &s.Coords.Z)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shop: %w", err)
	}

	s.Products, err = r.listProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Lookup returns an active product together with the shop that sells it.
func (r *Repository) Lookup(ctx context.Context, productID string) (Product, Shop, error) {
	var p Product
	var s Shop
	err := r.db.QueryRowContext(ctx, `
		SELECT
			p.id, p.shop_id, p.name, p.price, COALESCE(p.description, ''),
			s.id, s.name, COALESCE(s.owner, ''), COALESCE(s.description, ''), s.x, s.y, s.z
		FROM products p
		JOIN shops s ON s.id = p.shop_id
		WHERE p.id = ? AND p.active AND s.active
	`, productID).Scan(
		&p.ID, &p.ShopID, &p.Name, &p.Price, &p.Description,
		&s.ID, &s.Name, &s.Owner, &s.Description, &s.Coords.X, &s.Coords.Y, &s.Coords.Z,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, Shop{}, ErrNotFound
	}
	if err != nil {
		return Product{}, Shop{}, fmt.Errorf("query product: %w", err)
	}
	return p, s, nil
}

func (r *Repository) listProducts(ctx context.Context, shopID string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, shop_id, name, price, COALESCE(description, '')
		FROM products
		WHERE active AND (? = '' OR shop_id = ?)
		ORDER BY shop_id, position, id
	`, shopID, shopID)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.ShopID, &p.Name, &p.Price, &p.Description); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}
