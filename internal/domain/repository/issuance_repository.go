package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
)

// IssuanceFilter filtros del historial de salidas.
type IssuanceFilter struct {
	Desde          *time.Time
	Hasta          *time.Time
	NumeroLote     string
	CodigoMaterial string
	Limit          int
	Offset         int
}

// IssuanceHistoryItem fila del historial de salidas con los datos del lote de origen.
type IssuanceHistoryItem struct {
	FechaSalida    time.Time       `json:"fecha_salida"`
	ProcesoSalida  string          `json:"proceso_salida"`
	CodigoRecibido string          `json:"codigo_material_recibido"`
	CodigoMaterial string          `json:"codigo_material"`
	NumeroParte    string          `json:"numero_parte"`
	CantidadSalida decimal.Decimal `json:"cantidad_salida"`
	NumeroLote     string          `json:"numero_lote"`
	Modelo         string          `json:"modelo"`
	DeptoSalida    string          `json:"depto_salida"`
}

// IssuanceRepository define el puerto para el registro de salidas de material.
type IssuanceRepository interface {
	Create(issuance *entity.MaterialIssuance) error
	// SumByReceivedCode suma las salidas ya registradas contra un lote. Dentro de
	// una transacción con la fila del lote bloqueada, es la fuente de verdad del
	// disponible a nivel lote (no se usa el agregado por parte).
	SumByReceivedCode(codigoRecibido string) (decimal.Decimal, error)
	History(filter IssuanceFilter) ([]*IssuanceHistoryItem, error)
}
