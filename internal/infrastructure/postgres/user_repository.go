package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/mes-almacen/internal/domain"
	"github.com/tu-usuario/mes-almacen/internal/domain/entity"
	"github.com/tu-usuario/mes-almacen/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create inserta un usuario nuevo.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO usuarios (
			id, usuario, password_hash, nombre, departamento, rol, estado, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Usuario, user.PasswordHash, user.Nombre,
		user.Departamento, user.Rol, user.Estado, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsuarioDuplicado
		}
		return fmt.Errorf("create usuario: %w", err)
	}
	return nil
}

// FindByUsername busca un usuario por nombre de login. nil si no existe.
func (r *UserRepo) FindByUsername(usuario string) (*entity.User, error) {
	query := `
		SELECT id, usuario, password_hash, nombre, departamento, rol, estado, created_at, updated_at
		FROM usuarios WHERE usuario = $1`
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, usuario).Scan(
		&u.ID, &u.Usuario, &u.PasswordHash, &u.Nombre,
		&u.Departamento, &u.Rol, &u.Estado, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find usuario: %w", err)
	}
	return &u, nil
}
