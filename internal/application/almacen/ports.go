package almacen

import (
	"context"

	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad entre la validación de stock y el insert del
// evento: todo commit o todo rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		receiptRepo repository.ReceiptRepository,
		issuanceRepo repository.IssuanceRepository,
		balanceRepo repository.BalanceRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
