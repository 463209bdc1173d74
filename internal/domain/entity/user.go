package entity

import "time"

// Roles que viajan en el token JWT.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Grupos creados por el seeder.
const (
	GroupAdmin    = "ADMIN"
	GroupCustomer = "CUSTOMER"
)

// User representa una identidad que puede autenticarse en la API.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	IsSuperuser  bool
	IsActive     bool
	Groups       []string // nombres de grupo
	DateJoined   time.Time
}

// FullName devuelve "Nombre Apellido" (o el username si ambos están vacíos).
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// InGroup indica si el usuario pertenece al grupo indicado.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// Role deriva el rol del token: superusuarios y miembros de ADMIN son admin.
func (u *User) Role() string {
	if u.IsSuperuser || u.InGroup(GroupAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Group agrupa usuarios.
type Group struct {
	ID   string
	Name string
}
