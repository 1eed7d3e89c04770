package pantry

import (
	"context"
	"errors"
	"time"
)

// Errores compartidos entre service y adapters de storage,
// para que el comportamiento no dependa del backend.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("item not found")
	ErrQuantityUnderflow = errors.New("quantity underflow")
)

// Repository es el contrato del almacén de items.
// El store es la autoridad de identidad: Create asigna el ID.
type Repository interface {
	Create(ctx context.Context, it Item) (Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, it Item) error
	Delete(ctx context.Context, id string) error

	ListAll(ctx context.Context) ([]Item, error)

	// Consultas estructurales: el store no sabe qué es "urgente",
	// solo responde rangos y umbrales.
	FindByExpirationBetween(ctx context.Context, start, end time.Time) ([]Item, error)
	FindByQuantityAtMost(ctx context.Context, threshold int) ([]Item, error)

	// AdjustQuantity aplica delta de forma atómica por id.
	// Devuelve ErrQuantityUnderflow si el resultado quedaría negativo.
	// Evita el lost-update de leer-modificar-escribir en el service.
	AdjustQuantity(ctx context.Context, id string, delta int) (Item, error)
}
