package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo catálogo de artículos sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un artículo nuevo. Código duplicado → ErrConflict.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, code, name, base_unit, category_id, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, item.BaseUnit, item.CategoryID, item.MinStock, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("el código de artículo %q ya existe", item.Code)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	for _, c := range item.Conversions {
		if err := r.AddConversion(ctx, item.ID, c); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene un artículo con sus conversiones.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "id", id)
}

// GetByCode obtiene un artículo por código.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, "code", code)
}

func (r *ItemRepo) getOne(ctx context.Context, column, value string) (*entity.Item, error) {
	query := `
		SELECT id, code, name, base_unit, category_id, min_stock, created_at, updated_at
		FROM items WHERE ` + column + ` = $1`
	var it entity.Item
	err := r.q.QueryRow(ctx, query, value).Scan(
		&it.ID, &it.Code, &it.Name, &it.BaseUnit, &it.CategoryID, &it.MinStock, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	if it.Conversions, err = r.conversions(ctx, it.ID); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) conversions(ctx context.Context, itemID string) ([]entity.UnitConversion, error) {
	rows, err := r.q.Query(ctx, `
		SELECT unit_name, factor FROM item_unit_conversions
		WHERE item_id = $1 ORDER BY unit_name`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()
	var out []entity.UnitConversion
	for rows.Next() {
		var c entity.UnitConversion
		if err := rows.Scan(&c.UnitName, &c.Factor); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddConversion registra o reemplaza el factor de una unidad.
func (r *ItemRepo) AddConversion(ctx context.Context, itemID string, conv entity.UnitConversion) error {
	query := `
		INSERT INTO item_unit_conversions (item_id, unit_name, factor)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, unit_name) DO UPDATE SET factor = EXCLUDED.factor`
	if _, err := r.q.Exec(ctx, query, itemID, conv.UnitName, conv.Factor); err != nil {
		return fmt.Errorf("upsert conversion: %w", err)
	}
	return nil
}

// List lista artículos por código con paginación.
func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, code, name, base_unit, category_id, min_stock, created_at, updated_at
		FROM items ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	var out []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.BaseUnit, &it.CategoryID,
			&it.MinStock, &it.CreatedAt, &it.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, &it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, it := range out {
		if it.Conversions, err = r.conversions(ctx, it.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
