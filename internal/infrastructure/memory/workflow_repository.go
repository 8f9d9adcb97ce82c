package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// WorkflowRepository registro de flujos en memoria.
type WorkflowRepository struct {
	db access
}

func (r *WorkflowRepository) Create(_ context.Context, w *entity.Workflow) error {
	return r.db.write(func(st *state) error {
		for _, x := range st.workflows {
			if x.Code == w.Code {
				return domain.Conflict("el código de flujo %q ya existe", w.Code)
			}
		}
		st.workflows[w.ID] = cloneWorkflow(*w)
		return nil
	})
}

func (r *WorkflowRepository) Update(_ context.Context, w *entity.Workflow) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.workflows[w.ID]; !ok {
			return domain.NotFound("flujo %s", w.ID)
		}
		st.workflows[w.ID] = cloneWorkflow(*w)
		return nil
	})
}

func (r *WorkflowRepository) Delete(_ context.Context, id string) error {
	return r.db.write(func(st *state) error {
		delete(st.workflows, id)
		return nil
	})
}

func (r *WorkflowRepository) GetByID(_ context.Context, id string) (*entity.Workflow, error) {
	var out *entity.Workflow
	err := r.db.read(func(st *state) error {
		if w, ok := st.workflows[id]; ok {
			c := cloneWorkflow(w)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *WorkflowRepository) GetByCode(_ context.Context, code string) (*entity.Workflow, error) {
	var out *entity.Workflow
	err := r.db.read(func(st *state) error {
		for _, w := range st.workflows {
			if w.Code == code {
				c := cloneWorkflow(w)
				out = &c
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *WorkflowRepository) List(_ context.Context) ([]*entity.Workflow, error) {
	var out []*entity.Workflow
	err := r.db.read(func(st *state) error {
		for _, w := range st.workflows {
			c := cloneWorkflow(w)
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}
