package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptRequest body para POST /api/almacen/recibos.
// El código recibido NO viene en el request: lo genera el servidor con el
// secuencial diario para evitar duplicados y huecos manuales.
type ReceiptRequest struct {
	NumeroParte       string          `json:"numero_parte"`
	CodigoMaterial    string          `json:"codigo_material"`
	PropiedadMaterial string          `json:"propiedad_material,omitempty"`
	Especificacion    string          `json:"especificacion,omitempty"`
	NumeroLote        string          `json:"numero_lote_material,omitempty"`
	Cliente           string          `json:"cliente,omitempty"`
	Cantidad          decimal.Decimal `json:"cantidad_recibida"`
	FechaRecibo       *time.Time      `json:"fecha_recibo,omitempty"`
}

// ReceiptResponse respuesta al registrar una entrada.
type ReceiptResponse struct {
	ID             string `json:"id"`
	CodigoRecibido string `json:"codigo_material_recibido"`
}

// ReceiptDetailResponse recibo con el disponible real del lote calculado en vivo.
type ReceiptDetailResponse struct {
	ID                string          `json:"id"`
	CodigoRecibido    string          `json:"codigo_material_recibido"`
	NumeroParte       string          `json:"numero_parte"`
	CodigoMaterial    string          `json:"codigo_material"`
	PropiedadMaterial string          `json:"propiedad_material"`
	Especificacion    string          `json:"especificacion"`
	NumeroLote        string          `json:"numero_lote_material"`
	Cliente           string          `json:"cliente"`
	CantidadRecibida  decimal.Decimal `json:"cantidad_recibida"`
	TotalSalidas      decimal.Decimal `json:"total_salidas"`
	Disponible        decimal.Decimal `json:"cantidad_disponible"`
	EstadoDesecho     bool            `json:"estado_desecho"`
	FechaRecibo       time.Time       `json:"fecha_recibo"`
	FechaRegistro     time.Time       `json:"fecha_registro"`
}

// IssuanceRequest body para POST /api/almacen/salidas.
type IssuanceRequest struct {
	CodigoRecibido string          `json:"codigo_material_recibido"`
	Cantidad       decimal.Decimal `json:"cantidad_salida"`
	NumeroLote     string          `json:"numero_lote,omitempty"`
	Modelo         string          `json:"modelo,omitempty"`
	DeptoSalida    string          `json:"depto_salida,omitempty"`
	ProcesoSalida  string          `json:"proceso_salida,omitempty"`
	FechaSalida    *time.Time      `json:"fecha_salida,omitempty"`
}

// IssuanceResponse respuesta inmediata a una salida registrada. El inventario
// general se actualiza en segundo plano; cantidad_restante es el disponible del
// lote recién calculado dentro de la transacción.
type IssuanceResponse struct {
	ID               string          `json:"id"`
	CantidadRestante decimal.Decimal `json:"cantidad_restante"`
}

// BalanceResponse fila de inventario_general.
type BalanceResponse struct {
	NumeroParte        string          `json:"numero_parte"`
	CodigoMaterial     string          `json:"codigo_material"`
	PropiedadMaterial  string          `json:"propiedad_material"`
	Especificacion     string          `json:"especificacion"`
	TotalEntradas      decimal.Decimal `json:"total_entradas"`
	TotalSalidas       decimal.Decimal `json:"total_salidas"`
	CantidadTotal      decimal.Decimal `json:"cantidad_total"`
	FechaActualizacion time.Time       `json:"fecha_actualizacion"`
}

// FreshnessResponse estado de frescura del agregado para un número de parte.
type FreshnessResponse struct {
	NumeroParte              string          `json:"numero_parte"`
	CantidadTotal            decimal.Decimal `json:"cantidad_total"`
	FechaActualizacion       time.Time       `json:"fecha_actualizacion"`
	ActualizadoRecientemente bool            `json:"actualizado_recientemente"`
}

// SequenceResponse respuesta de GET /api/almacen/secuencia.
type SequenceResponse struct {
	CodigoMaterial      string `json:"codigo_material"`
	Fecha               string `json:"fecha"`
	SiguienteSecuencial int    `json:"siguiente_secuencial"`
	ProximoCodigo       string `json:"proximo_codigo_completo"`
}
