package dashboard

import (
	"context"

	"school/backend/internal/repository/postgres/dashboard"
)

type Dashboard interface {
	GetTodaySummary(ctx context.Context) (dashboard.TodaySummary, error)
}
