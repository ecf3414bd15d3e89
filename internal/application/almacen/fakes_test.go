package almacen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

// Fakes en memoria para los casos de uso. Sin transacciones reales: el runner
// de test invoca el callback directo sobre los mismos repos.

type fakeReceiptRepo struct {
	mu       sync.Mutex
	receipts []*entity.MaterialReceipt
}

func (f *fakeReceiptRepo) Create(r *entity.MaterialReceipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.receipts {
		if existing.CodigoRecibido == r.CodigoRecibido {
			return domain.ErrDuplicate
		}
	}
	cp := *r
	f.receipts = append(f.receipts, &cp)
	return nil
}

func (f *fakeReceiptRepo) GetByID(id string) (*entity.MaterialReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receipts {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReceiptRepo) GetByCode(codigo string) (*entity.MaterialReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receipts {
		if r.CodigoRecibido == codigo {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReceiptRepo) GetByCodeForUpdate(codigo string) (*entity.MaterialReceipt, error) {
	return f.GetByCode(codigo)
}

func (f *fakeReceiptRepo) List(desde, hasta *time.Time, limit, offset int) ([]*entity.MaterialReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.MaterialReceipt, len(f.receipts))
	copy(out, f.receipts)
	return out, nil
}

func (f *fakeReceiptRepo) ListCodesByPrefix(prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var codigos []string
	for _, r := range f.receipts {
		if len(r.CodigoRecibido) >= len(prefix) && r.CodigoRecibido[:len(prefix)] == prefix {
			codigos = append(codigos, r.CodigoRecibido)
		}
	}
	return codigos, nil
}

func (f *fakeReceiptRepo) SetScrapState(id string, desecho bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receipts {
		if r.ID == id {
			r.EstadoDesecho = desecho
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeIssuanceRepo struct {
	mu        sync.Mutex
	issuances []*entity.MaterialIssuance
}

func (f *fakeIssuanceRepo) Create(i *entity.MaterialIssuance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *i
	f.issuances = append(f.issuances, &cp)
	return nil
}

func (f *fakeIssuanceRepo) SumByReceivedCode(codigo string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, i := range f.issuances {
		if i.CodigoRecibido == codigo {
			total = total.Add(i.CantidadSalida)
		}
	}
	return total, nil
}

func (f *fakeIssuanceRepo) History(filter repository.IssuanceFilter) ([]*repository.IssuanceHistoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.IssuanceHistoryItem
	for _, i := range f.issuances {
		out = append(out, &repository.IssuanceHistoryItem{
			FechaSalida:    i.FechaSalida,
			ProcesoSalida:  i.ProcesoSalida,
			CodigoRecibido: i.CodigoRecibido,
			CantidadSalida: i.CantidadSalida,
			NumeroLote:     i.NumeroLote,
			Modelo:         i.Modelo,
			DeptoSalida:    i.DeptoSalida,
		})
	}
	return out, nil
}

// fakeBalanceRepo aplica deltas en memoria. applyErr permite inyectar fallos para
// probar el comportamiento del actualizador en background. Para RecomputeAll
// necesita ver el ledger, por eso guarda referencias a los otros fakes.
type fakeBalanceRepo struct {
	mu        sync.Mutex
	balances  map[string]*entity.PartBalance
	applyErr  error
	receipts  *fakeReceiptRepo
	issuances *fakeIssuanceRepo
}

func newFakeBalanceRepo(receipts *fakeReceiptRepo, issuances *fakeIssuanceRepo) *fakeBalanceRepo {
	return &fakeBalanceRepo{
		balances:  make(map[string]*entity.PartBalance),
		receipts:  receipts,
		issuances: issuances,
	}
}

func (f *fakeBalanceRepo) Get(numeroParte string) (*entity.PartBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[numeroParte]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBalanceRepo) List() ([]*entity.PartBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.PartBalance
	for _, b := range f.balances {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeBalanceRepo) ApplyDelta(ctx context.Context, delta repository.BalanceDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	b, ok := f.balances[delta.NumeroParte]
	if !ok {
		b = &entity.PartBalance{
			NumeroParte:   delta.NumeroParte,
			TotalEntradas: decimal.Zero,
			TotalSalidas:  decimal.Zero,
			CantidadTotal: decimal.Zero,
			FechaCreacion: time.Now(),
		}
		f.balances[delta.NumeroParte] = b
	}
	b.TotalEntradas = b.TotalEntradas.Add(delta.Entradas)
	b.TotalSalidas = b.TotalSalidas.Add(delta.Salidas)
	b.CantidadTotal = b.TotalEntradas.Sub(b.TotalSalidas)
	if delta.CodigoMaterial != "" {
		b.CodigoMaterial = delta.CodigoMaterial
	}
	if delta.PropiedadMaterial != "" {
		b.PropiedadMaterial = delta.PropiedadMaterial
	}
	if delta.Especificacion != "" {
		b.Especificacion = delta.Especificacion
	}
	b.FechaActualizacion = time.Now()
	return nil
}

func (f *fakeBalanceRepo) RecomputeAll(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances = make(map[string]*entity.PartBalance)

	// Salidas por lote, luego agregadas por número de parte del recibo
	salidasPorLote := make(map[string]decimal.Decimal)
	f.issuances.mu.Lock()
	for _, i := range f.issuances.issuances {
		salidasPorLote[i.CodigoRecibido] = salidasPorLote[i.CodigoRecibido].Add(i.CantidadSalida)
	}
	f.issuances.mu.Unlock()

	f.receipts.mu.Lock()
	defer f.receipts.mu.Unlock()
	now := time.Now()
	for _, r := range f.receipts.receipts {
		b, ok := f.balances[r.NumeroParte]
		if !ok {
			b = &entity.PartBalance{
				NumeroParte:        r.NumeroParte,
				TotalEntradas:      decimal.Zero,
				TotalSalidas:       decimal.Zero,
				FechaCreacion:      now,
				FechaActualizacion: now,
			}
			f.balances[r.NumeroParte] = b
		}
		b.CodigoMaterial = r.CodigoMaterial
		b.TotalEntradas = b.TotalEntradas.Add(r.CantidadRecibida)
		b.TotalSalidas = b.TotalSalidas.Add(salidasPorLote[r.CodigoRecibido])
		b.CantidadTotal = b.TotalEntradas.Sub(b.TotalSalidas)
	}
	return nil
}

// fakeSeqRepo contador diario en memoria.
type fakeSeqRepo struct {
	mu   sync.Mutex
	seqs map[string]int
}

func newFakeSeqRepo() *fakeSeqRepo {
	return &fakeSeqRepo{seqs: make(map[string]int)}
}

func seqKey(codigo, fecha string) string { return fmt.Sprintf("%s|%s", codigo, fecha) }

func (f *fakeSeqRepo) Current(codigo, fecha string) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.seqs[seqKey(codigo, fecha)]
	return v, ok, nil
}

func (f *fakeSeqRepo) Seed(codigo, fecha string, valor int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := seqKey(codigo, fecha)
	if _, ok := f.seqs[key]; !ok {
		f.seqs[key] = valor
	}
	return nil
}

func (f *fakeSeqRepo) Next(codigo, fecha string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := seqKey(codigo, fecha)
	f.seqs[key]++
	return f.seqs[key], nil
}

// fakeTxRunner invoca el callback directo con los fakes compartidos.
type fakeTxRunner struct {
	receipts  *fakeReceiptRepo
	issuances *fakeIssuanceRepo
	balances  *fakeBalanceRepo
	seqs      *fakeSeqRepo
}

func newFakeTxRunner() *fakeTxRunner {
	receipts := &fakeReceiptRepo{}
	issuances := &fakeIssuanceRepo{}
	return &fakeTxRunner{
		receipts:  receipts,
		issuances: issuances,
		balances:  newFakeBalanceRepo(receipts, issuances),
		seqs:      newFakeSeqRepo(),
	}
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	receiptRepo repository.ReceiptRepository,
	issuanceRepo repository.IssuanceRepository,
	balanceRepo repository.BalanceRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return fn(f.receipts, f.issuances, f.balances, f.seqs)
}
