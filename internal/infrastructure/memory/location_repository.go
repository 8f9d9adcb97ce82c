package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// LocationRepository implementación en memoria de repository.LocationRepository.
type LocationRepository struct {
	db access
}

func (r *LocationRepository) CreateFactory(_ context.Context, f *entity.Factory) error {
	return r.db.write(func(st *state) error {
		st.factories[f.ID] = *f
		return nil
	})
}

func (r *LocationRepository) GetFactory(_ context.Context, id string) (*entity.Factory, error) {
	var out *entity.Factory
	err := r.db.read(func(st *state) error {
		if f, ok := st.factories[id]; ok {
			out = &f
		}
		return nil
	})
	return out, err
}

func (r *LocationRepository) ListFactories(_ context.Context) ([]*entity.Factory, error) {
	var out []*entity.Factory
	err := r.db.read(func(st *state) error {
		for _, f := range st.factories {
			f := f
			out = append(out, &f)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *LocationRepository) CreateWarehouse(_ context.Context, w *entity.Warehouse) error {
	return r.db.write(func(st *state) error {
		for _, x := range st.warehouses {
			if x.Code == w.Code {
				return domain.Conflict("el código de bodega %q ya existe", w.Code)
			}
		}
		st.warehouses[w.ID] = *w
		return nil
	})
}

func (r *LocationRepository) GetWarehouse(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.db.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

func (r *LocationRepository) GetWarehouseByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.db.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == code {
				w := w
				out = &w
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *LocationRepository) ListWarehouses(_ context.Context, factoryID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	err := r.db.read(func(st *state) error {
		for _, w := range st.warehouses {
			if factoryID == "" || w.FactoryID == factoryID {
				w := w
				out = append(out, &w)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *LocationRepository) CreateLocation(_ context.Context, l *entity.Location) error {
	return r.db.write(func(st *state) error {
		for _, x := range st.locations {
			if x.WarehouseID == l.WarehouseID && x.Code == l.Code {
				return domain.Conflict("la ubicación %q ya existe en la bodega", l.Code)
			}
		}
		st.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepository) DeleteLocation(_ context.Context, id string) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.locations[id]; !ok {
			return domain.NotFound("ubicación %s", id)
		}
		delete(st.locations, id)
		return nil
	})
}

func (r *LocationRepository) ListLocations(_ context.Context, warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.db.read(func(st *state) error {
		for _, l := range st.locations {
			if l.WarehouseID == warehouseID {
				l := l
				out = append(out, &l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *LocationRepository) GetPath(_ context.Context, locationID string) (*entity.LocationPath, error) {
	var out *entity.LocationPath
	err := r.db.read(func(st *state) error {
		out = pathOf(st, locationID)
		return nil
	})
	return out, err
}

func pathOf(st *state, locationID string) *entity.LocationPath {
	l, ok := st.locations[locationID]
	if !ok {
		return nil
	}
	w := st.warehouses[l.WarehouseID]
	return &entity.LocationPath{Location: l, Warehouse: w, Factory: st.factories[w.FactoryID]}
}
