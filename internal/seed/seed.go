package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Simplici0/diamond-courier/internal/catalog"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts     int
	Updates     int
	Deactivated int
}

// Run syncs the catalog into the database in one transaction. Running it
// again with the same catalog changes nothing. Shops and products missing
// from the catalog are deactivated rather than deleted.
func Run(ctx context.Context, db *sql.DB, cat *catalog.Catalog) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	shopIDs := make([]string, 0, len(cat.Shops))
	productIDs := make([]string, 0)

	for i, shop := range cat.Shops {
		if err := upsertShop(ctx, tx, shop, i, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		shopIDs = append(shopIDs, shop.ID)

		for j, product := range shop.Products {
			if err := upsertProduct(ctx, tx, product, j, &stats); err != nil {
				_ = tx.Rollback()
				return Stats{}, err
			}
			productIDs = append(productIDs, product.ID)
		}
	}

	if err := deactivateMissing(ctx, tx, "products", productIDs, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := deactivateMissing(ctx, tx, "shops", shopIDs, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func upsertShop(ctx context.Context, tx *sql.Tx, shop catalog.Shop, position int, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM shops WHERE id = ? LIMIT 1)`, shop.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check shop existence: %w", err)
	}

	if !exists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shops (id, name, owner, description, x, y, z, position, active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		`, shop.ID, shop.Name, shop.Owner, shop.Description, shop.Coords.X, shop.Coords.Y, shop.Coords.Z, position); err != nil {
			return fmt.Errorf("insert shop %s: %w", shop.ID, err)
		}
		stats.Inserts++
		return nil
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE shops
		SET
			name = ?,
			owner = ?,
			description = ?,
			x = ?,
			y = ?,
			z = ?,
			position = ?,
			active = TRUE,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
			AND (name IS NOT ? OR owner IS NOT ? OR description IS NOT ?
				OR x IS NOT ? OR y IS NOT ? OR z IS NOT ? OR position IS NOT ? OR NOT active)
	`,
		shop.Name, shop.Owner, shop.Description, shop.Coords.X, shop.Coords.Y, shop.Coords.Z, position,
		shop.ID,
		shop.Name, shop.Owner, shop.Description, shop.Coords.X, shop.Coords.Y, shop.Coords.Z, position,
	)
	if err != nil {
		return fmt.Errorf("update shop %s: %w", shop.ID, err)
	}
	return countUpdate(result, stats)
}

func upsertProduct(ctx context.Context, tx *sql.Tx, product catalog.Product, position int, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ? LIMIT 1)`, product.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check product existence: %w", err)
	}

	if !exists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, shop_id, name, description, price, position, active)
			VALUES (?, ?, ?, ?, ?, ?, TRUE)
		`, product.ID, product.ShopID, product.Name, product.Description, product.Price, position); err != nil {
			return fmt.Errorf("insert product %s: %w", product.ID, err)
		}
		stats.Inserts++
		return nil
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET
			shop_id = ?,
			name = ?,
			description = ?,
			price = ?,
			position = ?,
			active = TRUE,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
			AND (shop_id IS NOT ? OR name IS NOT ? OR description IS NOT ?
				OR price IS NOT ? OR position IS NOT ? OR NOT active)
	`,
		product.ShopID, product.Name, product.Description, product.Price, position,
		product.ID,
		product.ShopID, product.Name, product.Description, product.Price, position,
	)
	if err != nil {
		return fmt.Errorf("update product %s: %w", product.ID, err)
	}
	return countUpdate(result, stats)
}

// deactivateMissing only runs against the fixed shops/products tables.
func deactivateMissing(ctx context.Context, tx *sql.Tx, table string, keep []string, stats *Stats) error {
	query := `UPDATE ` + table + ` SET active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE active`
	args := make([]any, 0, len(keep))
	if len(keep) > 0 {
		query += ` AND id NOT IN (` + strings.TrimSuffix(strings.Repeat("?, ", len(keep)), ", ") + `)`
		for _, id := range keep {
			args = append(args, id)
		}
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate missing %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("count deactivated %s: %w", table, err)
	}
	stats.Deactivated += int(affected)
	return nil
}

func countUpdate(result sql.Result, stats *Stats) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("count updated rows: %w", err)
	}
	stats.Updates += int(affected)
	return nil
}
