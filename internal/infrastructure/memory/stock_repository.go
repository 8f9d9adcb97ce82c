package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRepository implementación en memoria de repository.StockRepository. Las
// transacciones ya están serializadas, por lo que GetForUpdate equivale a Get.
type StockRepository struct {
	db access
}

func (r *StockRepository) Get(_ context.Context, itemID, locationID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.db.read(func(st *state) error {
		s, ok := st.stock[stockKey{itemID, locationID}]
		if !ok {
			s = entity.Stock{ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *StockRepository) GetForUpdate(ctx context.Context, itemID, locationID string) (*entity.Stock, error) {
	return r.Get(ctx, itemID, locationID)
}

func (r *StockRepository) Upsert(_ context.Context, s *entity.Stock) error {
	return r.db.write(func(st *state) error {
		st.stock[stockKey{s.ItemID, s.LocationID}] = *s
		return nil
	})
}

func (r *StockRepository) ListSnapshot(_ context.Context, filter entity.StockFilter) ([]entity.StockView, error) {
	var out []entity.StockView
	err := r.db.read(func(st *state) error {
		for k, s := range st.stock {
			if !s.Quantity.IsPositive() {
				continue
			}
			if filter.ItemID != "" && k.itemID != filter.ItemID {
				continue
			}
			if filter.LocationID != "" && k.locationID != filter.LocationID {
				continue
			}
			path := pathOf(st, k.locationID)
			item, ok := st.items[k.itemID]
			if path == nil || !ok {
				continue
			}
			if filter.WarehouseID != "" && path.Warehouse.ID != filter.WarehouseID {
				continue
			}
			if filter.FactoryID != "" && path.Factory.ID != filter.FactoryID {
				continue
			}
			out = append(out, entity.StockView{
				ItemID:        item.ID,
				ItemCode:      item.Code,
				ItemName:      item.Name,
				Unit:          item.BaseUnit,
				MinStock:      item.MinStock,
				LocationID:    path.Location.ID,
				LocationCode:  path.Location.Code,
				Rack:          path.Location.Rack,
				Bin:           path.Location.Bin,
				WarehouseID:   path.Warehouse.ID,
				WarehouseName: path.Warehouse.Name,
				FactoryID:     path.Factory.ID,
				FactoryName:   path.Factory.Name,
				Quantity:      s.Quantity,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemCode != out[j].ItemCode {
			return out[i].ItemCode < out[j].ItemCode
		}
		return out[i].LocationCode < out[j].LocationCode
	})
	return out, err
}
