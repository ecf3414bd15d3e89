package almacen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

func newQueryUC(runner *fakeTxRunner) *QueryUseCase {
	return NewQueryUseCase(runner.receipts, runner.issuances, runner.balances)
}

func TestFindReceiptByCode_CalculaDisponibleEnVivo(t *testing.T) {
	runner := newFakeTxRunner()
	seedReceipt(t, runner, "MAT-A,202507080001", "NP-500", 100)
	require.NoError(t, runner.issuances.Create(&entity.MaterialIssuance{
		ID:             "s1",
		CodigoRecibido: "MAT-A,202507080001",
		CantidadSalida: decimal.NewFromInt(35),
	}))

	out, err := newQueryUC(runner).FindReceiptByCode("MAT-A,202507080001")
	require.NoError(t, err)
	assert.True(t, out.TotalSalidas.Equal(decimal.NewFromInt(35)))
	assert.True(t, out.Disponible.Equal(decimal.NewFromInt(65)),
		"el disponible sale del ledger, no del agregado")
}

func TestFindReceiptByCode_LoteAgotado(t *testing.T) {
	runner := newFakeTxRunner()
	seedReceipt(t, runner, "MAT-A,202507080001", "NP-500", 50)
	require.NoError(t, runner.issuances.Create(&entity.MaterialIssuance{
		ID:             "s1",
		CodigoRecibido: "MAT-A,202507080001",
		CantidadSalida: decimal.NewFromInt(50),
	}))

	_, err := newQueryUC(runner).FindReceiptByCode("MAT-A,202507080001")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "lote en cero responde como agotado")

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Disponible.IsZero())
}

func TestFindReceiptByCode_NoEncontrado(t *testing.T) {
	runner := newFakeTxRunner()
	_, err := newQueryUC(runner).FindReceiptByCode("NOEXISTE,202507080001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetBalance_SinFila(t *testing.T) {
	runner := newFakeTxRunner()
	_, err := newQueryUC(runner).GetBalance("NP-NOEXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyFreshness_VentanaDe30Segundos(t *testing.T) {
	runner := newFakeTxRunner()
	require.NoError(t, runner.balances.ApplyDelta(context.Background(), repository.BalanceDelta{
		NumeroParte: "NP-500",
		Entradas:    decimal.NewFromInt(10),
	}))
	uc := newQueryUC(runner)

	// Recién actualizado: dentro de la ventana
	out, err := uc.VerifyFreshness("NP-500")
	require.NoError(t, err)
	assert.True(t, out.ActualizadoRecientemente)

	// Simular que pasó más de la ventana desde la última actualización
	uc.now = func() time.Time { return time.Now().Add(freshnessWindow + time.Second) }
	out, err = uc.VerifyFreshness("NP-500")
	require.NoError(t, err)
	assert.False(t, out.ActualizadoRecientemente,
		"fuera de la ventana el agregado ya no se reporta como fresco")
}
