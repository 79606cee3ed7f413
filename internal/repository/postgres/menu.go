package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/domain"
)

type MenuRepository struct{ s *Store }

var (
	categoryColumns = []string{"id", "name", "sort_order", "position"}
	itemColumns     = []string{
		"id", "name", "price", "category_id", "category_name", "description", "image",
		"is_available", "item_order", "category_order", "is_bestseller", "position",
	}
)

func (r *MenuRepository) Load(ctx context.Context) (domain.Menu, error) {
	return loadMenu(ctx, r.s.pool)
}

type rowQueryer interface {
	queryer
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadMenu(ctx context.Context, q rowQueryer) (domain.Menu, error) {
	m := domain.Menu{Items: []domain.MenuItem{}, Categories: []domain.Category{}}

	rows, err := q.Query(ctx, `SELECT id, name, sort_order FROM menu_categories ORDER BY position`)
	if err != nil {
		return m, errors.Annotate(err, "load categories")
	}
	for rows.Next() {
		var c domain.Category
		var order int
		if err := rows.Scan(&c.ID, &c.Name, &order); err != nil {
			rows.Close()
			return m, errors.Trace(err)
		}
		c.Order = domain.Ordinal(order)
		m.Categories = append(m.Categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return m, errors.Trace(err)
	}

	rows, err = q.Query(ctx, `
		SELECT id, name, price, COALESCE(category_id, ''), category_name, description, image,
		       is_available, item_order, category_order, is_bestseller
		FROM menu_items ORDER BY position`)
	if err != nil {
		return m, errors.Annotate(err, "load items")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			it                  domain.MenuItem
			price               pgtype.Numeric
			itemOrder, catOrder int
		)
		if err := rows.Scan(&it.ID, &it.Name, &price, &it.CategoryID, &it.Category, &it.Description, &it.Image,
			&it.IsAvailable, &itemOrder, &catOrder, &it.IsBestseller); err != nil {
			return m, errors.Trace(err)
		}
		it.Price = fromNumeric(price)
		it.ItemOrder = domain.Ordinal(itemOrder)
		it.CategoryOrder = domain.Ordinal(catOrder)
		m.Items = append(m.Items, it)
	}
	if err := rows.Err(); err != nil {
		return m, errors.Trace(err)
	}

	var updated time.Time
	err = q.QueryRow(ctx, `SELECT last_updated FROM menu_meta WHERE id=1`).Scan(&updated)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return m, errors.Annotate(err, "load menu timestamp")
	default:
		m.LastUpdated = updated.UTC()
	}
	return m, nil
}

// Update rewrites the whole menu inside one transaction. The exclusive table
// locks make concurrent updates queue instead of losing each other's edits.
func (r *MenuRepository) Update(ctx context.Context, fn func(*domain.Menu) error) (domain.Menu, error) {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return domain.Menu{}, errors.Annotate(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE menu_categories, menu_items IN EXCLUSIVE MODE`); err != nil {
		return domain.Menu{}, errors.Annotate(err, "lock menu")
	}
	m, err := loadMenu(ctx, tx)
	if err != nil {
		return domain.Menu{}, err
	}
	if err := fn(&m); err != nil {
		return domain.Menu{}, err
	}
	m.LastUpdated = r.s.clock.Now().UTC()

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items`); err != nil {
		return domain.Menu{}, errors.Annotate(err, "clear items")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM menu_categories`); err != nil {
		return domain.Menu{}, errors.Annotate(err, "clear categories")
	}

	known := make(map[string]bool, len(m.Categories))
	catRows := make([][]any, 0, len(m.Categories))
	for i, c := range m.Categories {
		known[c.ID] = true
		catRows = append(catRows, []any{c.ID, c.Name, int(c.Order), i})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"menu_categories"}, categoryColumns, pgx.CopyFromRows(catRows)); err != nil {
		return domain.Menu{}, errors.Annotate(err, "copy categories")
	}

	itemRows := make([][]any, 0, len(m.Items))
	for i, it := range m.Items {
		var categoryID *string
		if known[it.CategoryID] {
			id := it.CategoryID
			categoryID = &id
		}
		itemRows = append(itemRows, []any{
			it.ID, it.Name, toNumeric(it.Price), categoryID, it.Category, it.Description, it.Image,
			it.IsAvailable, int(it.ItemOrder), int(it.CategoryOrder), it.IsBestseller, i,
		})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"menu_items"}, itemColumns, pgx.CopyFromRows(itemRows)); err != nil {
		return domain.Menu{}, errors.Annotate(err, "copy items")
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO menu_meta (id, last_updated) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_updated = EXCLUDED.last_updated
	`, m.LastUpdated); err != nil {
		return domain.Menu{}, errors.Annotate(err, "update menu timestamp")
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Menu{}, errors.Annotate(err, "commit")
	}
	return m, nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
