package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
)

// BalanceDelta incremento a aplicar sobre inventario_general para un número de parte.
// Los campos descriptivos solo se escriben si vienen no vacíos (las salidas no los conocen).
type BalanceDelta struct {
	NumeroParte       string
	CodigoMaterial    string
	PropiedadMaterial string
	Especificacion    string
	Entradas          decimal.Decimal
	Salidas           decimal.Decimal
}

// BalanceRepository define el puerto sobre la tabla materializada inventario_general.
type BalanceRepository interface {
	Get(numeroParte string) (*entity.PartBalance, error)
	List() ([]*entity.PartBalance, error)
	// ApplyDelta suma los deltas de forma atómica (INSERT ... ON CONFLICT DO UPDATE
	// SET x = x + delta); crea la fila en cero si no existe.
	ApplyDelta(ctx context.Context, delta BalanceDelta) error
	// RecomputeAll reconstruye inventario_general completo desde las tablas de
	// eventos. Idempotente; es el respaldo de convergencia contra el drift.
	RecomputeAll(ctx context.Context) error
}
