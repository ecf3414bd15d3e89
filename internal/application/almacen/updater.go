package almacen

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
	"github.com/tu-usuario/mes-almacen/pkg/logger"
)

// BalanceTask delta pendiente de aplicar sobre inventario_general.
type BalanceTask struct {
	NumeroParte string
	Entradas    decimal.Decimal
	Salidas     decimal.Decimal
}

// UpdaterStats contadores del actualizador, para diagnóstico y tests.
type UpdaterStats struct {
	Procesadas  uint64
	Fallidas    uint64
	Descartadas uint64
}

// BalanceUpdater aplica deltas al inventario general en segundo plano mediante una
// cola acotada y un worker. La respuesta HTTP de la salida ya se envió cuando la
// tarea se procesa: un fallo aquí nunca revierte el ledger ni llega al caller, solo
// se registra y se cuenta; recompute es el respaldo de convergencia.
type BalanceUpdater struct {
	repo    repository.BalanceRepository
	log     *logger.Logger
	timeout time.Duration

	tasks chan BalanceTask
	wg    sync.WaitGroup

	procesadas  atomic.Uint64
	fallidas    atomic.Uint64
	descartadas atomic.Uint64
}

// NewBalanceUpdater construye el actualizador. queueSize acota la cola; timeout
// limita cada tarea contra la DB para que una conexión colgada no bloquee el worker.
func NewBalanceUpdater(repo repository.BalanceRepository, log *logger.Logger, queueSize int, timeout time.Duration) *BalanceUpdater {
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BalanceUpdater{
		repo:    repo,
		log:     log,
		timeout: timeout,
		tasks:   make(chan BalanceTask, queueSize),
	}
}

// Start lanza el worker. Llamar una sola vez.
func (u *BalanceUpdater) Start() {
	u.wg.Add(1)
	go u.worker()
}

// Enqueue encola un delta sin bloquear el camino del request. Si la cola está
// llena la tarea se descarta: queda contada y registrada, y el agregado se
// corrige con el recálculo completo.
func (u *BalanceUpdater) Enqueue(task BalanceTask) bool {
	select {
	case u.tasks <- task:
		return true
	default:
		u.descartadas.Add(1)
		u.log.Warn().
			Str("numero_parte", task.NumeroParte).
			Msg("cola de inventario llena, delta descartado; ejecutar recálculo")
		return false
	}
}

// Close cierra la cola y espera a que el worker drene las tareas pendientes.
func (u *BalanceUpdater) Close() {
	close(u.tasks)
	u.wg.Wait()
}

// Stats devuelve los contadores acumulados.
func (u *BalanceUpdater) Stats() UpdaterStats {
	return UpdaterStats{
		Procesadas:  u.procesadas.Load(),
		Fallidas:    u.fallidas.Load(),
		Descartadas: u.descartadas.Load(),
	}
}

func (u *BalanceUpdater) worker() {
	defer u.wg.Done()
	for task := range u.tasks {
		ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
		err := u.repo.ApplyDelta(ctx, repository.BalanceDelta{
			NumeroParte: task.NumeroParte,
			Entradas:    task.Entradas,
			Salidas:     task.Salidas,
		})
		cancel()
		if err != nil {
			u.fallidas.Add(1)
			u.log.Error().Err(err).
				Str("numero_parte", task.NumeroParte).
				Str("salidas", task.Salidas.String()).
				Msg("fallo actualización de inventario general en background")
			continue
		}
		u.procesadas.Add(1)
	}
}
