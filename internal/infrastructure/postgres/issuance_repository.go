package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

var _ repository.IssuanceRepository = (*IssuanceRepo)(nil)

// IssuanceRepo implementación de IssuanceRepository sobre PostgreSQL (usable con pool o tx).
type IssuanceRepo struct {
	q Querier
}

// NewIssuanceRepository construye el adaptador de salidas. Pasar pool o tx (Querier).
func NewIssuanceRepository(q Querier) *IssuanceRepo {
	return &IssuanceRepo{q: q}
}

// Create inserta una salida de material.
func (r *IssuanceRepo) Create(issuance *entity.MaterialIssuance) error {
	query := `
		INSERT INTO control_material_salida (
			id, codigo_material_recibido, cantidad_salida, fecha_salida,
			proceso_salida, depto_salida, numero_lote, modelo, fecha_registro
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		issuance.ID, issuance.CodigoRecibido, issuance.CantidadSalida, issuance.FechaSalida,
		issuance.ProcesoSalida, issuance.DeptoSalida, issuance.NumeroLote, issuance.Modelo,
		issuance.FechaRegistro,
	)
	if err != nil {
		return fmt.Errorf("create salida: %w", err)
	}
	return nil
}

// SumByReceivedCode suma en vivo las salidas registradas contra un lote.
// COALESCE para que un lote sin salidas devuelva cero, no NULL.
func (r *IssuanceRepo) SumByReceivedCode(codigoRecibido string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(cantidad_salida), 0)
		FROM control_material_salida
		WHERE codigo_material_recibido = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, codigoRecibido).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum salidas: %w", err)
	}
	return total, nil
}

// History devuelve el historial de salidas con los datos del lote de origen.
func (r *IssuanceRepo) History(filter repository.IssuanceFilter) ([]*repository.IssuanceHistoryItem, error) {
	query := `
		SELECT s.fecha_salida, s.proceso_salida, s.codigo_material_recibido,
		       a.codigo_material, a.numero_parte, s.cantidad_salida,
		       s.numero_lote, s.modelo, s.depto_salida
		FROM control_material_salida s
		JOIN control_material_almacen a
		  ON a.codigo_material_recibido = s.codigo_material_recibido
		WHERE ($1::timestamptz IS NULL OR s.fecha_salida >= $1)
		  AND ($2::timestamptz IS NULL OR s.fecha_salida <= $2)
		  AND ($3 = '' OR s.numero_lote = $3)
		  AND ($4 = '' OR a.codigo_material = $4)
		ORDER BY s.fecha_salida DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		filter.Desde, filter.Hasta, filter.NumeroLote, filter.CodigoMaterial,
		filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("historial salidas: %w", err)
	}
	defer rows.Close()

	var out []*repository.IssuanceHistoryItem
	for rows.Next() {
		var it repository.IssuanceHistoryItem
		if err := rows.Scan(
			&it.FechaSalida, &it.ProcesoSalida, &it.CodigoRecibido,
			&it.CodigoMaterial, &it.NumeroParte, &it.CantidadSalida,
			&it.NumeroLote, &it.Modelo, &it.DeptoSalida,
		); err != nil {
			return nil, fmt.Errorf("scan salida: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}
