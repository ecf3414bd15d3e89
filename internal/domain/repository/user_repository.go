package repository

import "github.com/tu-usuario/mes-almacen/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	FindByUsername(usuario string) (*entity.User, error)
}
