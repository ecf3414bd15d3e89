package almacen

import (
	"time"

	"github.com/tu-usuario/mes-almacen/internal/application/dto"
	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

// Ventana dentro de la cual una actualización del agregado se considera reciente
// (confirma que el update en background de una salida ya corrió).
const freshnessWindow = 30 * time.Second

// QueryUseCase consultas sobre recibos, salidas e inventario general, más el flag
// de desecho. Usa repositorios atados al pool: ninguna operación necesita
// coordinar varias escrituras.
type QueryUseCase struct {
	receiptRepo  repository.ReceiptRepository
	issuanceRepo repository.IssuanceRepository
	balanceRepo  repository.BalanceRepository
	now          func() time.Time
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	receiptRepo repository.ReceiptRepository,
	issuanceRepo repository.IssuanceRepository,
	balanceRepo repository.BalanceRepository,
) *QueryUseCase {
	return &QueryUseCase{
		receiptRepo:  receiptRepo,
		issuanceRepo: issuanceRepo,
		balanceRepo:  balanceRepo,
		now:          time.Now,
	}
}

// GetBalance devuelve la fila de inventario general de un número de parte.
func (uc *QueryUseCase) GetBalance(numeroParte string) (*dto.BalanceResponse, error) {
	if numeroParte == "" {
		return nil, domain.ErrInvalidInput
	}
	balance, err := uc.balanceRepo.Get(numeroParte)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrNotFound
	}
	return toBalanceResponse(balance), nil
}

// ListBalances devuelve el inventario general completo.
func (uc *QueryUseCase) ListBalances() ([]*dto.BalanceResponse, error) {
	balances, err := uc.balanceRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	return out, nil
}

// VerifyFreshness indica si el agregado de un número de parte fue actualizado
// dentro de la ventana de frescura. Es un ayudante de observabilidad: la
// corrección la garantiza el recálculo completo, no esta consulta.
func (uc *QueryUseCase) VerifyFreshness(numeroParte string) (*dto.FreshnessResponse, error) {
	if numeroParte == "" {
		return nil, domain.ErrInvalidInput
	}
	balance, err := uc.balanceRepo.Get(numeroParte)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.FreshnessResponse{
		NumeroParte:              balance.NumeroParte,
		CantidadTotal:            balance.CantidadTotal,
		FechaActualizacion:       balance.FechaActualizacion,
		ActualizadoRecientemente: uc.now().Sub(balance.FechaActualizacion) <= freshnessWindow,
	}, nil
}

// FindReceiptByCode busca un lote por código recibido y calcula su disponible
// real (recibido menos suma de salidas). Si el lote está agotado devuelve
// ErrInsufficientStock con las cantidades, igual que la pantalla de salida.
func (uc *QueryUseCase) FindReceiptByCode(codigoRecibido string) (*dto.ReceiptDetailResponse, error) {
	if codigoRecibido == "" {
		return nil, domain.ErrInvalidInput
	}
	receipt, err := uc.receiptRepo.GetByCode(codigoRecibido)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}
	salidas, err := uc.issuanceRepo.SumByReceivedCode(codigoRecibido)
	if err != nil {
		return nil, err
	}
	disponible := receipt.CantidadRecibida.Sub(salidas)
	if !disponible.IsPositive() {
		return nil, &domain.InsufficientStockError{Disponible: disponible}
	}
	return &dto.ReceiptDetailResponse{
		ID:                receipt.ID,
		CodigoRecibido:    receipt.CodigoRecibido,
		NumeroParte:       receipt.NumeroParte,
		CodigoMaterial:    receipt.CodigoMaterial,
		PropiedadMaterial: receipt.PropiedadMaterial,
		Especificacion:    receipt.Especificacion,
		NumeroLote:        receipt.NumeroLote,
		Cliente:           receipt.Cliente,
		CantidadRecibida:  receipt.CantidadRecibida,
		TotalSalidas:      salidas,
		Disponible:        disponible,
		EstadoDesecho:     receipt.EstadoDesecho,
		FechaRecibo:       receipt.FechaRecibo,
		FechaRegistro:     receipt.FechaRegistro,
	}, nil
}

// ListReceipts lista entradas con filtro opcional por rango de fecha de recibo.
func (uc *QueryUseCase) ListReceipts(desde, hasta *time.Time, page dto.PageRequest) ([]*entity.MaterialReceipt, error) {
	page.DefaultPage()
	return uc.receiptRepo.List(desde, hasta, page.Limit, page.Offset)
}

// ListIssuances devuelve el historial de salidas con datos del lote de origen.
func (uc *QueryUseCase) ListIssuances(filter repository.IssuanceFilter) ([]*repository.IssuanceHistoryItem, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return uc.issuanceRepo.History(filter)
}

// SetScrapState marca o desmarca un recibo como desecho. No toca cantidades.
func (uc *QueryUseCase) SetScrapState(id string, desecho bool) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.receiptRepo.SetScrapState(id, desecho)
}

func toBalanceResponse(b *entity.PartBalance) *dto.BalanceResponse {
	return &dto.BalanceResponse{
		NumeroParte:        b.NumeroParte,
		CodigoMaterial:     b.CodigoMaterial,
		PropiedadMaterial:  b.PropiedadMaterial,
		Especificacion:     b.Especificacion,
		TotalEntradas:      b.TotalEntradas,
		TotalSalidas:       b.TotalSalidas,
		CantidadTotal:      b.CantidadTotal,
		FechaActualizacion: b.FechaActualizacion,
	}
}
