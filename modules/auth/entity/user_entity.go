package entity

import (
	"eventra/core/entity"
)

type User struct {
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	DisplayName  string `db:"display_name" json:"display_name"`
	entity.BaseEntity
}
