package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Udise     *string `json:"udise"      bun:"udise"`
	EPunjabID *string `json:"e_punjab_id" bun:"e_punjab_id"`
	FullName  *string `json:"full_name"  bun:"full_name"`
	Password  *string `json:"-"          bun:"password"`
	Role      *string `json:"role"       bun:"role"`
	Phone     *string `json:"phone"      bun:"phone"`
	Email     *string `json:"email"      bun:"email"`
}
