package pantry

import (
	"context"
	"sort"
	"strings"
	"time"

	"smart-pantry/internal/platform/logger"
)

const (
	DefaultLowStockThreshold = 5
	DefaultExpiringSoonDays  = 3
)

// Config son las políticas del service. Explícitas por instancia
// (no globales) para poder ajustarlas por despliegue y en tests.
type Config struct {
	LowStockThreshold int // items con quantity <= esto cuentan como low stock
	ExpiringSoonDays  int // ventana inclusiva en días desde hoy
}

func (c Config) withDefaults() Config {
	if c.LowStockThreshold <= 0 {
		c.LowStockThreshold = DefaultLowStockThreshold
	}
	if c.ExpiringSoonDays <= 0 {
		c.ExpiringSoonDays = DefaultExpiringSoonDays
	}
	return c
}

type Service struct {
	repo Repository
	cfg  Config
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, cfg Config, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg.withDefaults(),
		log:  log,
		now:  time.Now,
	}
}

// Threshold expone el umbral configurado (lo usa el dashboard).
func (s *Service) Threshold() int {
	return s.cfg.LowStockThreshold
}

type AddInput struct {
	Name      string
	Quantity  int
	Category  string
	ExpiresAt *time.Time
}

func (s *Service) Add(ctx context.Context, in AddInput) (Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Item{}, ErrInvalidInput
	}
	if in.Quantity < 0 {
		return Item{}, ErrInvalidInput
	}

	now := s.now()
	it := Item{
		Name:      strings.TrimSpace(in.Name),
		Quantity:  in.Quantity,
		Category:  strings.TrimSpace(in.Category),
		ExpiresAt: normalizeDate(in.ExpiresAt),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.repo.Create(ctx, it)
}

// Save es la variante de Add para records ya armados (p.ej. desde el
// form del dashboard). Mismas reglas, solo cambia el call site.
func (s *Service) Save(ctx context.Context, it Item) (Item, error) {
	return s.Add(ctx, AddInput{
		Name:      it.Name,
		Quantity:  it.Quantity,
		Category:  it.Category,
		ExpiresAt: it.ExpiresAt,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAll(ctx context.Context) ([]Item, error) {
	return s.repo.ListAll(ctx)
}

// ExpiringSoon devuelve items que vencen entre hoy y hoy+ventana, inclusive.
// Lo ya vencido NO entra acá (solo en Urgent).
func (s *Service) ExpiringSoon(ctx context.Context) ([]Item, error) {
	today := DateOnly(s.now())
	end := today.AddDate(0, 0, s.cfg.ExpiringSoonDays)
	return s.repo.FindByExpirationBetween(ctx, today, end)
}

// LowStock devuelve items con quantity <= threshold.
// El threshold lo pone el caller; acá no se sustituye default.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Item, error) {
	return s.repo.FindByQuantityAtMost(ctx, threshold)
}

// sentinelStart es anterior a cualquier vencimiento realista; un solo
// range query captura lo vencido y lo por vencer.
var sentinelStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Urgent es la unión (no intersección) de "vencido o por vencer" y
// "low stock con el umbral configurado", deduplicada por id.
// Cualquiera de las dos señales sola ya amerita atención.
func (s *Service) Urgent(ctx context.Context) ([]Item, error) {
	end := DateOnly(s.now()).AddDate(0, 0, s.cfg.ExpiringSoonDays)

	expiring, err := s.repo.FindByExpirationBetween(ctx, sentinelStart, end)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.FindByQuantityAtMost(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}

	// Set por id, no por igualdad de campos: un item que cumple ambas
	// condiciones aparece exactamente una vez.
	seen := map[string]struct{}{}
	out := make([]Item, 0, len(expiring)+len(lowStock))
	for _, it := range expiring {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	for _, it := range lowStock {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}

	// Orden estable por nombre para salida determinista (API y dashboard).
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

type UpdateInput struct {
	Name      string
	Quantity  int
	Category  string
	ExpiresAt *time.Time
}

// Update reemplaza todos los campos del item (no es un patch parcial).
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Item{}, ErrInvalidInput
	}
	if in.Quantity < 0 {
		return Item{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Quantity = in.Quantity
	current.Category = strings.TrimSpace(in.Category)
	current.ExpiresAt = normalizeDate(in.ExpiresAt)
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Item{}, err
	}
	return current, nil
}

// Delete elimina por id. Un miss devuelve ErrNotFound en vez de pasar
// en silencio; borrar algo ya borrado no altera la colección.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == ErrNotFound {
			s.log.Warn("delete miss", map[string]any{"item_id": id})
		}
		return err
	}
	return nil
}

// Restock suma 1 a la cantidad, atómico en el store.
func (s *Service) Restock(ctx context.Context, id string) (Item, error) {
	return s.adjust(ctx, id, +1)
}

// Consume resta 1. En cero devuelve ErrQuantityUnderflow: la cantidad
// nunca queda negativa.
func (s *Service) Consume(ctx context.Context, id string) (Item, error) {
	return s.adjust(ctx, id, -1)
}

func (s *Service) adjust(ctx context.Context, id string, delta int) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrInvalidInput
	}

	it, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		if err == ErrNotFound {
			s.log.Warn("adjust miss", map[string]any{"item_id": id, "delta": delta})
		}
		return Item{}, err
	}
	return it, nil
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOnly(*t)
	return &d
}
