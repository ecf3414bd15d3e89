package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador diario de códigos recibidos sobre PostgreSQL
// (tabla secuencia_codigo_recibido, PK compuesta codigo_material + fecha).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador del contador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Current devuelve el último secuencial emitido para (código, fecha).
func (r *SequenceRepo) Current(codigoMaterial, fecha string) (int, bool, error) {
	query := `
		SELECT secuencia FROM secuencia_codigo_recibido
		WHERE codigo_material = $1 AND fecha = $2`
	var valor int
	err := r.q.QueryRow(context.Background(), query, codigoMaterial, fecha).Scan(&valor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get secuencia: %w", err)
	}
	return valor, true, nil
}

// Seed crea la fila con un valor inicial si no existe. Si otra transacción la creó
// primero, no pasa nada: el valor ya sembrado manda.
func (r *SequenceRepo) Seed(codigoMaterial, fecha string, valor int) error {
	query := `
		INSERT INTO secuencia_codigo_recibido (codigo_material, fecha, secuencia)
		VALUES ($1, $2, $3)
		ON CONFLICT (codigo_material, fecha) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), query, codigoMaterial, fecha, valor); err != nil {
		return fmt.Errorf("seed secuencia: %w", err)
	}
	return nil
}

// Next incrementa el contador de forma atómica y devuelve el nuevo valor.
// Una sola sentencia: dos altas concurrentes del mismo código y día nunca
// obtienen el mismo secuencial.
func (r *SequenceRepo) Next(codigoMaterial, fecha string) (int, error) {
	query := `
		INSERT INTO secuencia_codigo_recibido (codigo_material, fecha, secuencia)
		VALUES ($1, $2, 1)
		ON CONFLICT (codigo_material, fecha)
		DO UPDATE SET secuencia = secuencia_codigo_recibido.secuencia + 1
		RETURNING secuencia`
	var valor int
	if err := r.q.QueryRow(context.Background(), query, codigoMaterial, fecha).Scan(&valor); err != nil {
		return 0, fmt.Errorf("next secuencia: %w", err)
	}
	return valor, nil
}
