package almacen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/mes-almacen/internal/application/dto"
	"github.com/tu-usuario/mes-almacen/internal/domain"
	domalmacen "github.com/tu-usuario/mes-almacen/internal/domain/almacen"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

// RegisterReceiptUseCase registra entradas de material de forma transaccional:
// genera el código recibido con el secuencial diario, inserta el evento en
// control_material_almacen y aplica el delta al inventario general, todo en una tx.
type RegisterReceiptUseCase struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewRegisterReceiptUseCase construye el caso de uso.
func NewRegisterReceiptUseCase(txRunner TxRunner) *RegisterReceiptUseCase {
	return &RegisterReceiptUseCase{txRunner: txRunner, now: time.Now}
}

// RegisterReceipt valida la entrada, genera el código de lote y persiste.
// El secuencial sale del contador atómico; si el contador aún no tiene fila para
// ese código y día, se siembra con el máximo encontrado entre códigos previos
// (migración desde datos que no pasaron por el contador).
func (uc *RegisterReceiptUseCase) RegisterReceipt(ctx context.Context, in dto.ReceiptRequest) (*dto.ReceiptResponse, error) {
	if in.NumeroParte == "" || in.CodigoMaterial == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Cantidad.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	fechaRecibo := now
	if in.FechaRecibo != nil {
		fechaRecibo = *in.FechaRecibo
	}
	fecha := now.Format("20060102")

	var resp *dto.ReceiptResponse
	err := uc.txRunner.Run(ctx, func(
		receiptRepo repository.ReceiptRepository,
		_ repository.IssuanceRepository,
		balanceRepo repository.BalanceRepository,
		seqRepo repository.SequenceRepository,
	) error {
		if _, found, err := seqRepo.Current(in.CodigoMaterial, fecha); err != nil {
			return err
		} else if !found {
			codigos, err := receiptRepo.ListCodesByPrefix(domalmacen.CodePrefix(in.CodigoMaterial, now))
			if err != nil {
				return err
			}
			if err := seqRepo.Seed(in.CodigoMaterial, fecha, domalmacen.MaxSequence(codigos, in.CodigoMaterial, now)); err != nil {
				return err
			}
		}
		seq, err := seqRepo.Next(in.CodigoMaterial, fecha)
		if err != nil {
			return err
		}

		receipt := &entity.MaterialReceipt{
			ID:                uuid.New().String(),
			CodigoRecibido:    domalmacen.BuildReceivedCode(in.CodigoMaterial, now, seq),
			NumeroParte:       in.NumeroParte,
			CodigoMaterial:    in.CodigoMaterial,
			PropiedadMaterial: in.PropiedadMaterial,
			Especificacion:    in.Especificacion,
			NumeroLote:        in.NumeroLote,
			Cliente:           in.Cliente,
			CantidadRecibida:  in.Cantidad,
			FechaRecibo:       fechaRecibo,
			FechaRegistro:     now,
		}
		if err := receiptRepo.Create(receipt); err != nil {
			return err
		}

		// Entrada: el agregado se actualiza en la misma transacción (no hay
		// ventana de drift en este camino; las salidas sí van en background).
		if err := balanceRepo.ApplyDelta(ctx, repository.BalanceDelta{
			NumeroParte:       in.NumeroParte,
			CodigoMaterial:    in.CodigoMaterial,
			PropiedadMaterial: in.PropiedadMaterial,
			Especificacion:    in.Especificacion,
			Entradas:          in.Cantidad,
		}); err != nil {
			return err
		}

		resp = &dto.ReceiptResponse{ID: receipt.ID, CodigoRecibido: receipt.CodigoRecibido}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// PeekNextSequence devuelve el próximo secuencial diario sin consumirlo
// (para previsualizar el código en el formulario de entrada).
func (uc *RegisterReceiptUseCase) PeekNextSequence(ctx context.Context, codigoMaterial string) (*dto.SequenceResponse, error) {
	if codigoMaterial == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	fecha := now.Format("20060102")

	var resp *dto.SequenceResponse
	err := uc.txRunner.Run(ctx, func(
		receiptRepo repository.ReceiptRepository,
		_ repository.IssuanceRepository,
		_ repository.BalanceRepository,
		seqRepo repository.SequenceRepository,
	) error {
		actual, found, err := seqRepo.Current(codigoMaterial, fecha)
		if err != nil {
			return err
		}
		if !found {
			codigos, err := receiptRepo.ListCodesByPrefix(domalmacen.CodePrefix(codigoMaterial, now))
			if err != nil {
				return err
			}
			actual = domalmacen.MaxSequence(codigos, codigoMaterial, now)
		}
		siguiente := actual + 1
		resp = &dto.SequenceResponse{
			CodigoMaterial:      codigoMaterial,
			Fecha:               fecha,
			SiguienteSecuencial: siguiente,
			ProximoCodigo:       domalmacen.BuildReceivedCode(codigoMaterial, now, siguiente),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
