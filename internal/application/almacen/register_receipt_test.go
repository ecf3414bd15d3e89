package almacen

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/mes-almacen/internal/application/dto"
	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
)

var fechaFija = time.Date(2025, 7, 8, 9, 0, 0, 0, time.UTC)

func newReceiptUC(runner *fakeTxRunner) *RegisterReceiptUseCase {
	uc := NewRegisterReceiptUseCase(runner)
	uc.now = func() time.Time { return fechaFija }
	return uc
}

func TestRegisterReceipt_GeneraCodigoYActualizaInventario(t *testing.T) {
	runner := newFakeTxRunner()
	uc := newReceiptUC(runner)

	out, err := uc.RegisterReceipt(context.Background(), dto.ReceiptRequest{
		NumeroParte:    "NP-500",
		CodigoMaterial: "OCH1223K678",
		Cantidad:       decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, "OCH1223K678,202507080001", out.CodigoRecibido)
	assert.NotEmpty(t, out.ID)

	// El evento quedó en el ledger
	rec, err := runner.receipts.GetByCode(out.CodigoRecibido)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.CantidadRecibida.Equal(decimal.NewFromInt(100)))

	// El inventario general se actualizó en la misma operación
	b, err := runner.balances.Get("NP-500")
	require.NoError(t, err)
	require.NotNil(t, b, "la entrada debe crear la fila de inventario")
	assert.True(t, b.TotalEntradas.Equal(decimal.NewFromInt(100)))
	assert.True(t, b.CantidadTotal.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "OCH1223K678", b.CodigoMaterial)
}

func TestRegisterReceipt_SecuencialIncrementaPorDia(t *testing.T) {
	runner := newFakeTxRunner()
	uc := newReceiptUC(runner)

	in := dto.ReceiptRequest{
		NumeroParte:    "NP-500",
		CodigoMaterial: "OCH1223K678",
		Cantidad:       decimal.NewFromInt(10),
	}
	first, err := uc.RegisterReceipt(context.Background(), in)
	require.NoError(t, err)
	second, err := uc.RegisterReceipt(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "OCH1223K678,202507080001", first.CodigoRecibido)
	assert.Equal(t, "OCH1223K678,202507080002", second.CodigoRecibido)
}

func TestRegisterReceipt_SiembraContadorDesdeCodigosPrevios(t *testing.T) {
	runner := newFakeTxRunner()
	uc := newReceiptUC(runner)

	// Datos previos al contador: el máximo del día es 0007
	for _, codigo := range []string{
		"OCH1223K678,202507080003",
		"OCH1223K678,202507080007",
		"OCH1223K678,202507070009", // otro día, no cuenta
	} {
		require.NoError(t, runner.receipts.Create(&entity.MaterialReceipt{
			ID:               codigo,
			CodigoRecibido:   codigo,
			NumeroParte:      "NP-500",
			CodigoMaterial:   "OCH1223K678",
			CantidadRecibida: decimal.NewFromInt(1),
		}))
	}

	out, err := uc.RegisterReceipt(context.Background(), dto.ReceiptRequest{
		NumeroParte:    "NP-500",
		CodigoMaterial: "OCH1223K678",
		Cantidad:       decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "OCH1223K678,202507080008", out.CodigoRecibido,
		"el contador debe arrancar después del máximo existente del día")
}

func TestRegisterReceipt_SecuencialesIndependientesPorCodigoMaterial(t *testing.T) {
	runner := newFakeTxRunner()
	uc := newReceiptUC(runner)

	a, err := uc.RegisterReceipt(context.Background(), dto.ReceiptRequest{
		NumeroParte: "NP-1", CodigoMaterial: "MAT-A", Cantidad: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	b, err := uc.RegisterReceipt(context.Background(), dto.ReceiptRequest{
		NumeroParte: "NP-2", CodigoMaterial: "MAT-B", Cantidad: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "MAT-A,202507080001", a.CodigoRecibido)
	assert.Equal(t, "MAT-B,202507080001", b.CodigoRecibido, "cada código de material lleva su propio secuencial")
}

func TestRegisterReceipt_ValidaEntrada(t *testing.T) {
	runner := newFakeTxRunner()
	uc := newReceiptUC(runner)

	// Sin numero_parte, sin codigo_material, cantidad cero y cantidad negativa
	cases := []dto.ReceiptRequest{
		{CodigoMaterial: "MAT-A", Cantidad: decimal.NewFromInt(1)},
		{NumeroParte: "NP-1", Cantidad: decimal.NewFromInt(1)},
		{NumeroParte: "NP-1", CodigoMaterial: "MAT-A"},
		{NumeroParte: "NP-1", CodigoMaterial: "MAT-A", Cantidad: decimal.NewFromInt(-5)},
	}
	for _, in := range cases {
		_, err := uc.RegisterReceipt(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, runner.receipts.receipts, "ninguna entrada inválida debe persistirse")
}

func TestPeekNextSequence_NoConsume(t *testing.T) {
	runner := newFakeTxRunner()
	uc := newReceiptUC(runner)

	peek1, err := uc.PeekNextSequence(context.Background(), "OCH1223K678")
	require.NoError(t, err)
	peek2, err := uc.PeekNextSequence(context.Background(), "OCH1223K678")
	require.NoError(t, err)

	assert.Equal(t, 1, peek1.SiguienteSecuencial)
	assert.Equal(t, 1, peek2.SiguienteSecuencial, "previsualizar no debe consumir el secuencial")
	assert.Equal(t, "OCH1223K678,202507080001", peek1.ProximoCodigo)

	// La primera alta real usa el mismo secuencial previsualizado
	out, err := uc.RegisterReceipt(context.Background(), dto.ReceiptRequest{
		NumeroParte: "NP-1", CodigoMaterial: "OCH1223K678", Cantidad: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.Equal(t, peek1.ProximoCodigo, out.CodigoRecibido)
}
