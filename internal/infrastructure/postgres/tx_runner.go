package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/mes-almacen/internal/application/almacen"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

// Ensure TxRunner implements almacen.TxRunner.
var _ almacen.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	receiptRepo repository.ReceiptRepository,
	issuanceRepo repository.IssuanceRepository,
	balanceRepo repository.BalanceRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	receiptRepo := NewReceiptRepository(tx)
	issuanceRepo := NewIssuanceRepository(tx)
	balanceRepo := NewBalanceRepository(tx)
	seqRepo := NewSequenceRepository(tx)

	if err := fn(receiptRepo, issuanceRepo, balanceRepo, seqRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
