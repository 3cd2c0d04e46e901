package class

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type GetListResponse struct {
	ID           int     `json:"id"`
	Name         *string `json:"name"`
	Section      *string `json:"section"`
	InchargeID   *int    `json:"incharge_id"`
	Incharge     *string `json:"incharge"`
	StudentCount int     `json:"student_count"`
}

type GetDetailByIdResponse struct {
	ID           int     `json:"id"`
	Name         *string `json:"name"`
	Section      *string `json:"section"`
	InchargeID   *int    `json:"incharge_id"`
	Incharge     *string `json:"incharge"`
	StudentCount int     `json:"student_count"`
}

type CreateRequest struct {
	Name       *string `json:"name" form:"name"`
	Section    *string `json:"section" form:"section"`
	InchargeID *int    `json:"incharge_id" form:"incharge_id"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:classes"`

	ID         int       `json:"id" bun:"-"`
	Name       *string   `json:"name" bun:"name"`
	Section    *string   `json:"section" bun:"section"`
	InchargeID *int      `json:"incharge_id" bun:"incharge_id"`
	CreatedAt  time.Time `json:"-" bun:"created_at"`
	CreatedBy  int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID         int     `json:"id" form:"id"`
	Name       *string `json:"name" form:"name"`
	Section    *string `json:"section" form:"section"`
	InchargeID *int    `json:"incharge_id" form:"incharge_id"`
}
