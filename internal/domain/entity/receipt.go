package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialReceipt representa una entrada de material al almacén (tabla control_material_almacen).
// El registro es inmutable salvo el flag de desecho; la cantidad recibida nunca cambia:
// el disponible del lote se calcula siempre como recibido menos la suma de salidas.
type MaterialReceipt struct {
	ID                string
	CodigoRecibido    string // codigo_material_recibido: CODIGO,YYYYMMDD#### — identifica el lote
	NumeroParte       string
	CodigoMaterial    string
	PropiedadMaterial string
	Especificacion    string
	NumeroLote        string
	Cliente           string
	CantidadRecibida  decimal.Decimal
	FechaRecibo       time.Time
	EstadoDesecho     bool
	FechaRegistro     time.Time
}
