package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const selectItemsSQL = `
	SELECT id, name, category, width_in, depth_in, height_in, color
	FROM catalog_items
	ORDER BY id`

// Querier abstracts pgxpool.Pool so the loader can be exercised with pgxmock.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadPostgres reads the full catalog_items table.
func LoadPostgres(ctx context.Context, q Querier) ([]Item, error) {
	rows, err := q.Query(ctx, selectItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Width, &item.Depth, &item.Height, &item.Color); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}
	return items, nil
}
