package entity

import "time"

// Roles de usuario.
const (
	RolAdmin      = "admin"
	RolAlmacen    = "almacen"
	RolProduccion = "produccion"
)

// User usuario de la aplicación (tabla usuarios).
type User struct {
	ID           string
	Usuario      string // nombre de login, único
	PasswordHash string
	Nombre       string
	Departamento string
	Rol          string
	Estado       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
