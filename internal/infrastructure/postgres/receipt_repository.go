package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de ReceiptRepository sobre PostgreSQL (usable con pool o tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador de entradas. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptColumns = `
	id, codigo_material_recibido, numero_parte, codigo_material,
	propiedad_material, especificacion_material, numero_lote, cliente,
	cantidad_recibida, fecha_recibo, estado_desecho, fecha_registro`

// Create inserta una entrada de material.
func (r *ReceiptRepo) Create(receipt *entity.MaterialReceipt) error {
	query := `
		INSERT INTO control_material_almacen (
			id, codigo_material_recibido, numero_parte, codigo_material,
			propiedad_material, especificacion_material, numero_lote, cliente,
			cantidad_recibida, fecha_recibo, estado_desecho, fecha_registro
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.CodigoRecibido, receipt.NumeroParte, receipt.CodigoMaterial,
		receipt.PropiedadMaterial, receipt.Especificacion, receipt.NumeroLote, receipt.Cliente,
		receipt.CantidadRecibida, receipt.FechaRecibo, receipt.EstadoDesecho, receipt.FechaRegistro,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create recibo: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por su id.
func (r *ReceiptRepo) GetByID(id string) (*entity.MaterialReceipt, error) {
	query := `SELECT` + receiptColumns + `
		FROM control_material_almacen WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene una entrada por su código recibido (identificador del lote).
func (r *ReceiptRepo) GetByCode(codigoRecibido string) (*entity.MaterialReceipt, error) {
	query := `SELECT` + receiptColumns + `
		FROM control_material_almacen WHERE codigo_material_recibido = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, codigoRecibido))
}

// GetByCodeForUpdate obtiene la entrada y bloquea la fila (SELECT FOR UPDATE).
// Dos salidas concurrentes contra el mismo lote se serializan en este lock.
func (r *ReceiptRepo) GetByCodeForUpdate(codigoRecibido string) (*entity.MaterialReceipt, error) {
	query := `SELECT` + receiptColumns + `
		FROM control_material_almacen WHERE codigo_material_recibido = $1
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, codigoRecibido))
}

// List lista entradas, opcionalmente acotadas por rango de fecha de recibo.
func (r *ReceiptRepo) List(desde, hasta *time.Time, limit, offset int) ([]*entity.MaterialReceipt, error) {
	query := `SELECT` + receiptColumns + `
		FROM control_material_almacen
		WHERE ($1::timestamptz IS NULL OR fecha_recibo >= $1)
		  AND ($2::timestamptz IS NULL OR fecha_recibo <= $2)
		ORDER BY fecha_registro DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, desde, hasta, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recibos: %w", err)
	}
	defer rows.Close()

	var out []*entity.MaterialReceipt
	for rows.Next() {
		var rec entity.MaterialReceipt
		if err := rows.Scan(
			&rec.ID, &rec.CodigoRecibido, &rec.NumeroParte, &rec.CodigoMaterial,
			&rec.PropiedadMaterial, &rec.Especificacion, &rec.NumeroLote, &rec.Cliente,
			&rec.CantidadRecibida, &rec.FechaRecibo, &rec.EstadoDesecho, &rec.FechaRegistro,
		); err != nil {
			return nil, fmt.Errorf("scan recibo: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// ListCodesByPrefix lista los códigos recibidos que empiezan por el prefijo dado
// (CODIGO,YYYYMMDD). Se usa para sembrar el secuencial diario desde datos previos.
func (r *ReceiptRepo) ListCodesByPrefix(prefix string) ([]string, error) {
	query := `
		SELECT codigo_material_recibido
		FROM control_material_almacen
		WHERE codigo_material_recibido LIKE $1 || '%'`
	rows, err := r.q.Query(context.Background(), query, prefix)
	if err != nil {
		return nil, fmt.Errorf("list códigos por prefijo: %w", err)
	}
	defer rows.Close()

	var codigos []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan código: %w", err)
		}
		codigos = append(codigos, c)
	}
	return codigos, rows.Err()
}

// SetScrapState marca o desmarca el flag de desecho de una entrada.
func (r *ReceiptRepo) SetScrapState(id string, desecho bool) error {
	query := `UPDATE control_material_almacen SET estado_desecho = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, desecho)
	if err != nil {
		return fmt.Errorf("set estado desecho: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReceiptRepo) scanOne(row pgx.Row) (*entity.MaterialReceipt, error) {
	var rec entity.MaterialReceipt
	err := row.Scan(
		&rec.ID, &rec.CodigoRecibido, &rec.NumeroParte, &rec.CodigoMaterial,
		&rec.PropiedadMaterial, &rec.Especificacion, &rec.NumeroLote, &rec.Cliente,
		&rec.CantidadRecibida, &rec.FechaRecibo, &rec.EstadoDesecho, &rec.FechaRegistro,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recibo: %w", err)
	}
	return &rec, nil
}
