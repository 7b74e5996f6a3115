package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
)

var validRoles = map[Role]struct{}{
	RoleCustomer: {},
	RoleVendor:   {},
	RoleAdmin:    {},
	RoleOwner:    {},
}

func ToRole(s string) (Role, bool) {
	role := Role(s)
	_, ok := validRoles[role]
	return role, ok
}

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:VARCHAR(20);default:'customer'" json:"role"`
	Cart      Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
