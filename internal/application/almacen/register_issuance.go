package almacen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/mes-almacen/internal/application/dto"
	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

// RegisterIssuanceUseCase registra salidas de material hacia producción.
// La validación de stock y el insert del evento van en una sola transacción con la
// fila del lote bloqueada (SELECT FOR UPDATE); el inventario general se actualiza
// después del commit, en segundo plano, para no retrasar la respuesta.
type RegisterIssuanceUseCase struct {
	txRunner TxRunner
	updater  *BalanceUpdater
	now      func() time.Time
}

// NewRegisterIssuanceUseCase construye el caso de uso.
func NewRegisterIssuanceUseCase(txRunner TxRunner, updater *BalanceUpdater) *RegisterIssuanceUseCase {
	return &RegisterIssuanceUseCase{txRunner: txRunner, updater: updater, now: time.Now}
}

// RegisterIssuance valida contra el disponible real del lote y persiste la salida.
//
// El disponible es recibido menos la suma en vivo de salidas de ese lote, leída
// dentro de la misma transacción que bloquea la fila del recibo: dos salidas
// concurrentes contra el mismo lote se serializan en el lock y la segunda ve la
// suma ya actualizada. El agregado por parte no participa en esta validación.
func (uc *RegisterIssuanceUseCase) RegisterIssuance(ctx context.Context, in dto.IssuanceRequest) (*dto.IssuanceResponse, error) {
	if in.CodigoRecibido == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Cantidad.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	fechaSalida := now
	if in.FechaSalida != nil {
		fechaSalida = *in.FechaSalida
	}

	var (
		resp        *dto.IssuanceResponse
		numeroParte string
	)
	err := uc.txRunner.Run(ctx, func(
		receiptRepo repository.ReceiptRepository,
		issuanceRepo repository.IssuanceRepository,
		_ repository.BalanceRepository,
		_ repository.SequenceRepository,
	) error {
		receipt, err := receiptRepo.GetByCodeForUpdate(in.CodigoRecibido)
		if err != nil {
			return err
		}
		if receipt == nil {
			return domain.ErrNotFound
		}

		salidasPrevias, err := issuanceRepo.SumByReceivedCode(in.CodigoRecibido)
		if err != nil {
			return err
		}
		disponible := receipt.CantidadRecibida.Sub(salidasPrevias)
		if in.Cantidad.GreaterThan(disponible) {
			return &domain.InsufficientStockError{Disponible: disponible, Solicitada: in.Cantidad}
		}

		issuance := &entity.MaterialIssuance{
			ID:             uuid.New().String(),
			CodigoRecibido: in.CodigoRecibido,
			CantidadSalida: in.Cantidad,
			FechaSalida:    fechaSalida,
			ProcesoSalida:  in.ProcesoSalida,
			DeptoSalida:    in.DeptoSalida,
			NumeroLote:     in.NumeroLote,
			Modelo:         in.Modelo,
			FechaRegistro:  now,
		}
		if err := issuanceRepo.Create(issuance); err != nil {
			return err
		}

		numeroParte = receipt.NumeroParte
		resp = &dto.IssuanceResponse{
			ID:               issuance.ID,
			CantidadRestante: disponible.Sub(in.Cantidad),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Ledger ya confirmado: el delta del agregado viaja por la cola y si falla
	// solo queda registrado; el recálculo completo lo corrige.
	if numeroParte != "" {
		uc.updater.Enqueue(BalanceTask{NumeroParte: numeroParte, Salidas: in.Cantidad})
	}
	return resp, nil
}
