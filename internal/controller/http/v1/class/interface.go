package class

import (
	"context"

	"school/backend/internal/repository/postgres/class"
)

type Class interface {
	GetList(ctx context.Context, filter class.Filter) ([]class.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (class.GetDetailByIdResponse, error)
	Create(ctx context.Context, request class.CreateRequest) (class.CreateResponse, error)
	UpdateColumns(ctx context.Context, request class.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
