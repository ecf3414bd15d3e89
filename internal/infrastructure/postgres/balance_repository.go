package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de inventario general. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene la fila de inventario general de un número de parte. nil si no existe.
func (r *BalanceRepo) Get(numeroParte string) (*entity.PartBalance, error) {
	query := `
		SELECT numero_parte, codigo_material, propiedad_material, especificacion_material,
		       total_entradas, total_salidas, cantidad_total, fecha_creacion, fecha_actualizacion
		FROM inventario_general WHERE numero_parte = $1`
	var b entity.PartBalance
	err := r.q.QueryRow(context.Background(), query, numeroParte).Scan(
		&b.NumeroParte, &b.CodigoMaterial, &b.PropiedadMaterial, &b.Especificacion,
		&b.TotalEntradas, &b.TotalSalidas, &b.CantidadTotal, &b.FechaCreacion, &b.FechaActualizacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventario: %w", err)
	}
	return &b, nil
}

// List devuelve el inventario general completo ordenado por número de parte.
func (r *BalanceRepo) List() ([]*entity.PartBalance, error) {
	query := `
		SELECT numero_parte, codigo_material, propiedad_material, especificacion_material,
		       total_entradas, total_salidas, cantidad_total, fecha_creacion, fecha_actualizacion
		FROM inventario_general ORDER BY numero_parte`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list inventario: %w", err)
	}
	defer rows.Close()

	var out []*entity.PartBalance
	for rows.Next() {
		var b entity.PartBalance
		if err := rows.Scan(
			&b.NumeroParte, &b.CodigoMaterial, &b.PropiedadMaterial, &b.Especificacion,
			&b.TotalEntradas, &b.TotalSalidas, &b.CantidadTotal, &b.FechaCreacion, &b.FechaActualizacion,
		); err != nil {
			return nil, fmt.Errorf("scan inventario: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// ApplyDelta suma los deltas de forma atómica en una sola sentencia: crea la fila
// en cero si no existe y acumula sobre los valores vigentes en la DB, no sobre lo
// que el proceso cree que hay. Los campos descriptivos solo se escriben si vienen
// no vacíos (el camino de salidas no los conoce).
func (r *BalanceRepo) ApplyDelta(ctx context.Context, delta repository.BalanceDelta) error {
	query := `
		INSERT INTO inventario_general (
			numero_parte, codigo_material, propiedad_material, especificacion_material,
			total_entradas, total_salidas, cantidad_total, fecha_creacion, fecha_actualizacion
		) VALUES ($1, $2, $3, $4, $5, $6, $5 - $6, now(), now())
		ON CONFLICT (numero_parte) DO UPDATE SET
			total_entradas = inventario_general.total_entradas + EXCLUDED.total_entradas,
			total_salidas  = inventario_general.total_salidas + EXCLUDED.total_salidas,
			cantidad_total = inventario_general.cantidad_total + EXCLUDED.total_entradas - EXCLUDED.total_salidas,
			codigo_material = CASE WHEN EXCLUDED.codigo_material <> ''
				THEN EXCLUDED.codigo_material ELSE inventario_general.codigo_material END,
			propiedad_material = CASE WHEN EXCLUDED.propiedad_material <> ''
				THEN EXCLUDED.propiedad_material ELSE inventario_general.propiedad_material END,
			especificacion_material = CASE WHEN EXCLUDED.especificacion_material <> ''
				THEN EXCLUDED.especificacion_material ELSE inventario_general.especificacion_material END,
			fecha_actualizacion = now()`
	_, err := r.q.Exec(ctx, query,
		delta.NumeroParte, delta.CodigoMaterial, delta.PropiedadMaterial, delta.Especificacion,
		delta.Entradas, delta.Salidas,
	)
	if err != nil {
		return fmt.Errorf("apply delta inventario: %w", err)
	}
	return nil
}

// RecomputeAll reconstruye inventario_general completo desde las tablas de eventos.
// Se espera dentro de una transacción: o queda la reconstrucción completa o nada.
func (r *BalanceRepo) RecomputeAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventario_general`); err != nil {
		return fmt.Errorf("vaciar inventario: %w", err)
	}
	query := `
		INSERT INTO inventario_general (
			numero_parte, codigo_material, propiedad_material, especificacion_material,
			total_entradas, total_salidas, cantidad_total, fecha_creacion, fecha_actualizacion
		)
		SELECT a.numero_parte,
		       MAX(a.codigo_material),
		       MAX(a.propiedad_material),
		       MAX(a.especificacion_material),
		       SUM(a.cantidad_recibida),
		       COALESCE(SUM(s.total_salidas), 0),
		       SUM(a.cantidad_recibida) - COALESCE(SUM(s.total_salidas), 0),
		       now(), now()
		FROM control_material_almacen a
		LEFT JOIN (
			SELECT codigo_material_recibido, SUM(cantidad_salida) AS total_salidas
			FROM control_material_salida
			GROUP BY codigo_material_recibido
		) s ON s.codigo_material_recibido = a.codigo_material_recibido
		GROUP BY a.numero_parte`
	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("reconstruir inventario: %w", err)
	}
	return nil
}
