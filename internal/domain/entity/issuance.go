package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialIssuance representa una salida de material hacia producción
// (tabla control_material_salida). Registro append-only, nunca se muta.
type MaterialIssuance struct {
	ID             string
	CodigoRecibido string // referencia al lote de entrada
	CantidadSalida decimal.Decimal
	FechaSalida    time.Time
	ProcesoSalida  string // proceso destino (SMT, IMD, ensamble...)
	DeptoSalida    string
	NumeroLote     string
	Modelo         string
	FechaRegistro  time.Time
}
