package entity

import (
	"github.com/uptrace/bun"
)

type Class struct {
	bun.BaseModel `bun:"table:classes"`

	BasicEntity
	Name       *string `json:"name"       bun:"name"`
	Section    *string `json:"section"    bun:"section"`
	InchargeID *int    `json:"incharge_id" bun:"incharge_id"`
}

// Student is the roster link between a user with role STUDENT and the one
// class they belong to for attendance purposes.
type Student struct {
	bun.BaseModel `bun:"table:students"`

	BasicEntity
	UserID     *int    `json:"user_id"     bun:"user_id"`
	ClassID    *int    `json:"class_id"    bun:"class_id"`
	StudentImg *string `json:"student_img" bun:"student_img"`
}
