package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartBalance es la fila materializada de inventario_general para un número de parte.
// Dato derivado: debe converger a la suma de entradas menos salidas del ledger.
// Es la única entidad mutable del núcleo y solo se toca vía ApplyDelta o RecomputeAll.
type PartBalance struct {
	NumeroParte        string
	CodigoMaterial     string
	PropiedadMaterial  string
	Especificacion     string
	TotalEntradas      decimal.Decimal
	TotalSalidas       decimal.Decimal
	CantidadTotal      decimal.Decimal // total_entradas - total_salidas
	FechaCreacion      time.Time
	FechaActualizacion time.Time
}
