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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo jerarquía planta → bodega → ubicación sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// CreateFactory persiste una planta.
func (r *LocationRepo) CreateFactory(ctx context.Context, f *entity.Factory) error {
	_, err := r.q.Exec(ctx, `INSERT INTO factories (id, name, created_at) VALUES ($1, $2, $3)`,
		f.ID, f.Name, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert factory: %w", err)
	}
	return nil
}

// GetFactory obtiene una planta por ID.
func (r *LocationRepo) GetFactory(ctx context.Context, id string) (*entity.Factory, error) {
	var f entity.Factory
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM factories WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factory: %w", err)
	}
	return &f, nil
}

// ListFactories lista plantas por nombre.
func (r *LocationRepo) ListFactories(ctx context.Context) ([]*entity.Factory, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM factories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list factories: %w", err)
	}
	defer rows.Close()
	var out []*entity.Factory
	for rows.Next() {
		var f entity.Factory
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan factory: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

const warehouseColumns = `id, factory_id, code, name, type, description, created_at, updated_at`

// CreateWarehouse persiste una bodega. Código duplicado → ErrConflict.
func (r *LocationRepo) CreateWarehouse(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.FactoryID, w.Code, w.Name, w.Type, w.Description, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("el código de bodega %q ya existe", w.Code)
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetWarehouse obtiene una bodega por ID.
func (r *LocationRepo) GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.oneWarehouse(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
}

// GetWarehouseByCode obtiene una bodega por código.
func (r *LocationRepo) GetWarehouseByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	return r.oneWarehouse(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE code = $1`, code)
}

func (r *LocationRepo) oneWarehouse(ctx context.Context, query, arg string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&w.ID, &w.FactoryID, &w.Code, &w.Name, &w.Type, &w.Description, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}

// ListWarehouses lista bodegas de una planta (vacío = todas).
func (r *LocationRepo) ListWarehouses(ctx context.Context, factoryID string) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT `+warehouseColumns+` FROM warehouses
		WHERE ($1 = '' OR factory_id = $1) ORDER BY code`, factoryID)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var out []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.FactoryID, &w.Code, &w.Name, &w.Type, &w.Description,
			&w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

// CreateLocation persiste una ubicación. Código repetido en la bodega → ErrConflict.
func (r *LocationRepo) CreateLocation(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, warehouse_id, code, qr_code, rack, level, bin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.WarehouseID, l.Code, l.QRCode, l.Rack, l.Level, l.Bin, l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("la ubicación %q ya existe en la bodega", l.Code)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// DeleteLocation elimina una ubicación (y sus filas de stock en 0).
func (r *LocationRepo) DeleteLocation(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock WHERE location_id = $1 AND quantity = 0`, id); err != nil {
		return fmt.Errorf("delete empty stock rows: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("ubicación %s", id)
	}
	return nil
}

// ListLocations lista ubicaciones de una bodega.
func (r *LocationRepo) ListLocations(ctx context.Context, warehouseID string) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, warehouse_id, code, qr_code, rack, level, bin, created_at
		FROM locations WHERE warehouse_id = $1 ORDER BY code`, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.WarehouseID, &l.Code, &l.QRCode, &l.Rack, &l.Level, &l.Bin, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// GetPath resuelve ubicación, bodega y planta. nil si la ubicación no existe.
func (r *LocationRepo) GetPath(ctx context.Context, locationID string) (*entity.LocationPath, error) {
	query := `
		SELECT l.id, l.warehouse_id, l.code, l.qr_code, l.rack, l.level, l.bin, l.created_at,
		       w.id, w.factory_id, w.code, w.name, w.type, w.description, w.created_at, w.updated_at,
		       f.id, f.name, f.created_at
		FROM locations l
		JOIN warehouses w ON w.id = l.warehouse_id
		JOIN factories f ON f.id = w.factory_id
		WHERE l.id = $1`
	var p entity.LocationPath
	l, w, f := &p.Location, &p.Warehouse, &p.Factory
	err := r.q.QueryRow(ctx, query, locationID).Scan(
		&l.ID, &l.WarehouseID, &l.Code, &l.QRCode, &l.Rack, &l.Level, &l.Bin, &l.CreatedAt,
		&w.ID, &w.FactoryID, &w.Code, &w.Name, &w.Type, &w.Description, &w.CreatedAt, &w.UpdatedAt,
		&f.ID, &f.Name, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location path: %w", err)
	}
	return &p, nil
}
