package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un artículo en una ubicación (0 si no hay fila).
func (r *StockRepo) Get(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM stock WHERE item_id = $1 AND location_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&s.ItemID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE). Si la fila no
// existe se crea en 0 para que el bloqueo cubra también el primer crédito.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (item_id, location_id) DO NOTHING`, itemID, locationID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `
		SELECT item_id, location_id, quantity, updated_at
		FROM stock WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.Stock
	if err := r.q.QueryRow(ctx, query, itemID, locationID).Scan(
		&s.ItemID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por artículo y ubicación).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, stock.ItemID, stock.LocationID, stock.Quantity, stock.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.InsufficientStock("artículo %s en ubicación %s", stock.ItemID, stock.LocationID)
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListSnapshot stock vivo (quantity > 0) con datos de artículo, ubicación, bodega y planta.
func (r *StockRepo) ListSnapshot(ctx context.Context, filter entity.StockFilter) ([]entity.StockView, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	where = append(where, "s.quantity > 0")
	if filter.FactoryID != "" {
		add("f.id = $%d", filter.FactoryID)
	}
	if filter.WarehouseID != "" {
		add("w.id = $%d", filter.WarehouseID)
	}
	if filter.LocationID != "" {
		add("l.id = $%d", filter.LocationID)
	}
	if filter.ItemID != "" {
		add("i.id = $%d", filter.ItemID)
	}
	query := `
		SELECT i.id, i.code, i.name, i.base_unit, i.min_stock,
		       l.id, l.code, l.rack, l.bin,
		       w.id, w.name, f.id, f.name, s.quantity
		FROM stock s
		JOIN items i ON i.id = s.item_id
		JOIN locations l ON l.id = s.location_id
		JOIN warehouses w ON w.id = l.warehouse_id
		JOIN factories f ON f.id = w.factory_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY i.code, l.code`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var out []entity.StockView
	for rows.Next() {
		var v entity.StockView
		if err := rows.Scan(
			&v.ItemID, &v.ItemCode, &v.ItemName, &v.Unit, &v.MinStock,
			&v.LocationID, &v.LocationCode, &v.Rack, &v.Bin,
			&v.WarehouseID, &v.WarehouseName, &v.FactoryID, &v.FactoryName, &v.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
