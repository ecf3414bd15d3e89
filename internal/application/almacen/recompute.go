package almacen

import (
	"context"

	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
	"github.com/tu-usuario/mes-almacen/pkg/logger"
)

// RecomputeUseCase reconstruye inventario_general completo desde el ledger de
// entradas y salidas. Corrige cualquier drift dejado por actualizaciones en
// background fallidas o descartadas. Idempotente.
type RecomputeUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewRecomputeUseCase construye el caso de uso.
func NewRecomputeUseCase(txRunner TxRunner, log *logger.Logger) *RecomputeUseCase {
	return &RecomputeUseCase{txRunner: txRunner, log: log}
}

// Recompute ejecuta la reconstrucción en una sola transacción: o el inventario
// queda completo y consistente, o queda como estaba.
func (uc *RecomputeUseCase) Recompute(ctx context.Context) error {
	err := uc.txRunner.Run(ctx, func(
		_ repository.ReceiptRepository,
		_ repository.IssuanceRepository,
		balanceRepo repository.BalanceRepository,
		_ repository.SequenceRepository,
	) error {
		return balanceRepo.RecomputeAll(ctx)
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("recálculo de inventario general falló")
		return err
	}
	uc.log.Info().Msg("inventario general recalculado")
	return nil
}
