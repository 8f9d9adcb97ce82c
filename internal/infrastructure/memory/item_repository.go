package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ItemRepository implementación en memoria de repository.ItemRepository.
type ItemRepository struct {
	db access
}

func (r *ItemRepository) Create(_ context.Context, item *entity.Item) error {
	return r.db.write(func(st *state) error {
		for _, it := range st.items {
			if it.Code == item.Code {
				return domain.Conflict("el código de artículo %q ya existe", item.Code)
			}
		}
		st.items[item.ID] = cloneItem(*item)
		return nil
	})
}

func (r *ItemRepository) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.db.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			c := cloneItem(it)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ItemRepository) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	var out *entity.Item
	err := r.db.read(func(st *state) error {
		for _, it := range st.items {
			if it.Code == code {
				c := cloneItem(it)
				out = &c
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *ItemRepository) AddConversion(_ context.Context, itemID string, conv entity.UnitConversion) error {
	return r.db.write(func(st *state) error {
		it, ok := st.items[itemID]
		if !ok {
			return domain.NotFound("artículo %s", itemID)
		}
		it = cloneItem(it)
		for i := range it.Conversions {
			if it.Conversions[i].UnitName == conv.UnitName {
				it.Conversions[i] = conv
				st.items[it.ID] = it
				return nil
			}
		}
		it.Conversions = append(it.Conversions, conv)
		st.items[it.ID] = it
		return nil
	})
}

func (r *ItemRepository) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.db.read(func(st *state) error {
		all := make([]entity.Item, 0, len(st.items))
		for _, it := range st.items {
			all = append(all, cloneItem(it))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
		for _, i := range page(len(all), limit, offset) {
			out = append(out, &all[i])
		}
		return nil
	})
	return out, err
}

// page devuelve los índices [offset, offset+limit) acotados a n.
func page(n, limit, offset int) []int {
	if offset < 0 {
		offset = 0
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	var idx []int
	for i := offset; i < end; i++ {
		idx = append(idx, i)
	}
	return idx
}
