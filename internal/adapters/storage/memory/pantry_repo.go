package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"smart-pantry/internal/domain/pantry"
)

type pantryRepo struct {
	mu   sync.RWMutex
	byID map[string]pantry.Item
}

func NewPantryRepo() pantry.Repository {
	return &pantryRepo{
		byID: make(map[string]pantry.Item),
	}
}

func (r *pantryRepo) Create(ctx context.Context, it pantry.Item) (pantry.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// El store asigna la identidad; los uuid no se reusan tras un delete.
	it.ID = uuid.NewString()
	r.byID[it.ID] = it
	return it, nil
}

func (r *pantryRepo) GetByID(ctx context.Context, id string) (pantry.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return pantry.Item{}, pantry.ErrNotFound
	}
	return it, nil
}

func (r *pantryRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

func (r *pantryRepo) Update(ctx context.Context, it pantry.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[it.ID]; !ok {
		return pantry.ErrNotFound
	}
	r.byID[it.ID] = it
	return nil
}

func (r *pantryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return pantry.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *pantryRepo) ListAll(ctx context.Context) ([]pantry.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pantry.Item, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, it)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *pantryRepo) FindByExpirationBetween(ctx context.Context, start, end time.Time) ([]pantry.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pantry.Item, 0)
	for _, it := range r.byID {
		if it.ExpiresWithin(start, end) {
			out = append(out, it)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *pantryRepo) FindByQuantityAtMost(ctx context.Context, threshold int) ([]pantry.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pantry.Item, 0)
	for _, it := range r.byID {
		if it.Quantity <= threshold {
			out = append(out, it)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// AdjustQuantity corre entero bajo el write lock: dos restocks
// concurrentes sobre el mismo id no pueden perderse un incremento.
func (r *pantryRepo) AdjustQuantity(ctx context.Context, id string, delta int) (pantry.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byID[id]
	if !ok {
		return pantry.Item{}, pantry.ErrNotFound
	}
	if it.Quantity+delta < 0 {
		return pantry.Item{}, pantry.ErrQuantityUnderflow
	}

	it.Quantity += delta
	it.UpdatedAt = time.Now()
	r.byID[id] = it
	return it, nil
}
