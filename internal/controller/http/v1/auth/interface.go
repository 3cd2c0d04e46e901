package auth

import (
	"context"

	"school/backend/internal/entity"
)

type User interface {
	GetByUdise(ctx context.Context, udise string) (entity.User, error)
}
