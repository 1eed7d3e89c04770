package pantry

import (
	"context"
	"time"

	"smart-pantry/internal/platform/logger"
)

// demoItem describe un item de arranque para demos y dev local.
type demoItem struct {
	name      string
	quantity  int
	category  string
	expiresIn int // días desde hoy; <0 = sin vencimiento
}

var demoItems = []demoItem{
	{"Patch Cables", 21, "Electronics", -1},
	{"HDMI Cables", 4, "Electronics", -1},
	{"Eggs", 36, "Pantry", 7},
}

// SeedDemoData carga los items de demo si el store está vacío.
// El check evita duplicados al reiniciar.
func SeedDemoData(ctx context.Context, svc *Service, log logger.Logger) error {
	existing, err := svc.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("seed skipped, store already has data", map[string]any{"items": len(existing)})
		return nil
	}

	now := svc.now()
	for _, d := range demoItems {
		var exp *time.Time
		if d.expiresIn >= 0 {
			t := DateOnly(now).AddDate(0, 0, d.expiresIn)
			exp = &t
		}
		if _, err := svc.Add(ctx, AddInput{
			Name:      d.name,
			Quantity:  d.quantity,
			Category:  d.category,
			ExpiresAt: exp,
		}); err != nil {
			return err
		}
	}

	log.Info("seeded demo data", map[string]any{"items": len(demoItems)})
	return nil
}
