package repository

import (
	"time"

	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
)

// ReceiptRepository define el puerto para el registro de entradas de material.
// Las entradas son append-only: no hay Update de cantidades, solo el flag de desecho.
type ReceiptRepository interface {
	Create(receipt *entity.MaterialReceipt) error
	GetByID(id string) (*entity.MaterialReceipt, error)
	GetByCode(codigoRecibido string) (*entity.MaterialReceipt, error)
	// GetByCodeForUpdate bloquea la fila del lote (SELECT FOR UPDATE) para que la
	// validación de stock y el insert de la salida sean atómicos frente a salidas concurrentes.
	GetByCodeForUpdate(codigoRecibido string) (*entity.MaterialReceipt, error)
	List(desde, hasta *time.Time, limit, offset int) ([]*entity.MaterialReceipt, error)
	// ListCodesByPrefix lista códigos recibidos que empiezan por CODIGO,YYYYMMDD
	// (para sembrar el secuencial diario desde datos previos).
	ListCodesByPrefix(prefix string) ([]string, error)
	SetScrapState(id string, desecho bool) error
}
