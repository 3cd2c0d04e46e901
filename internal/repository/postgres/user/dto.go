package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Role   *string
	Search *string
}

type SignInRequest struct {
	Udise    string `json:"udise" form:"udise"`
	Password string `json:"password" form:"password"`
}

type AuthClaims struct {
	ID   int
	Role string
	Type string
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" form:"access_token"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GetListResponse struct {
	ID        int     `json:"id"`
	Udise     *string `json:"udise"`
	EPunjabID *string `json:"e_punjab_id"`
	FullName  *string `json:"full_name"`
	Role      *string `json:"role"`
	ClassID   *int    `json:"class_id"`
	Class     *string `json:"class"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

type GetDetailByIdResponse struct {
	ID         int     `json:"id"`
	Udise      *string `json:"udise"`
	EPunjabID  *string `json:"e_punjab_id"`
	FullName   *string `json:"full_name"`
	Role       *string `json:"role"`
	ClassID    *int    `json:"class_id"`
	Class      *string `json:"class"`
	StudentImg *string `json:"student_img"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
}

type CreateRequest struct {
	Udise      *string `json:"udise" form:"udise"`
	EPunjabID  *string `json:"e_punjab_id" form:"e_punjab_id"`
	Password   *string `json:"password" form:"password"`
	Role       *string `json:"role" form:"role"`
	FullName   *string `json:"full_name" form:"full_name"`
	ClassID    *int    `json:"class_id" form:"class_id"`
	StudentImg *string `json:"student_img" form:"student_img"`
	Phone      *string `json:"phone" form:"phone"`
	Email      *string `json:"email" form:"email"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID        int       `json:"id" bun:"-"`
	Udise     *string   `json:"udise" bun:"udise"`
	EPunjabID *string   `json:"e_punjab_id" bun:"e_punjab_id"`
	Password  *string   `json:"-" bun:"password"`
	Role      *string   `json:"role" bun:"role"`
	FullName  *string   `json:"full_name" bun:"full_name"`
	ClassID   *int      `json:"class_id" bun:"-"`
	Phone     *string   `json:"phone" bun:"phone"`
	Email     *string   `json:"email" bun:"email"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID         int     `json:"id" form:"id"`
	Udise      *string `json:"udise" form:"udise"`
	EPunjabID  *string `json:"e_punjab_id" form:"e_punjab_id"`
	Password   *string `json:"password" form:"password"`
	Role       *string `json:"role" form:"role"`
	FullName   *string `json:"full_name" form:"full_name"`
	ClassID    *int    `json:"class_id" form:"class_id"`
	StudentImg *string `json:"student_img" form:"student_img"`
	Phone      *string `json:"phone" form:"phone"`
	Email      *string `json:"email" form:"email"`
}
