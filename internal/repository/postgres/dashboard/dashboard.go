package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"school/backend/foundation/web"
	"school/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// cacheTTL keeps the summary fresh enough for a dashboard that refreshes
// every few minutes while marks trickle in.
const cacheTTL = 5 * time.Minute

type Repository struct {
	*postgresql.Database
	redis *redis.Client
}

func NewRepository(database *postgresql.Database, redisDB *redis.Client) *Repository {
	return &Repository{Database: database, redis: redisDB}
}

type TodaySummary struct {
	Date          string `json:"date"`
	TotalStudents int    `json:"total_students"`
	Present       int    `json:"present"`
	Absent        int    `json:"absent"`
	Leave         int    `json:"leave"`
	NotMarked     int    `json:"not_marked"`
	PendingFines  int    `json:"pending_fines"`
}

// GetTodaySummary serves the school-wide counters for today. The result is
// cached in redis; a cache miss or redis outage falls through to postgres.
func (r Repository) GetTodaySummary(ctx context.Context) (TodaySummary, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return TodaySummary{}, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	cacheKey := fmt.Sprintf("dashboard:summary:%s", today)

	if cached, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
		var summary TodaySummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return summary, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("reading dashboard summary cache")
	}

	summary := TodaySummary{Date: today}

	query := fmt.Sprintf(`
		SELECT
			(SELECT count(id) FROM students WHERE deleted_at IS NULL),
			count(CASE WHEN a.status = 'present' THEN 1 END),
			count(CASE WHEN a.status = 'absent' THEN 1 END),
			count(CASE WHEN a.status = 'leave' THEN 1 END),
			(SELECT coalesce(sum(pending_amount), 0) FROM fines WHERE status != 'paid' AND deleted_at IS NULL)
		FROM attendance a
		WHERE a.date = '%s' AND a.deleted_at IS NULL
	`, today)

	err = r.QueryRowContext(ctx, query).Scan(
		&summary.TotalStudents,
		&summary.Present,
		&summary.Absent,
		&summary.Leave,
		&summary.PendingFines,
	)
	if err != nil {
		return TodaySummary{}, web.NewRequestError(errors.Wrap(err, "selecting dashboard summary"), http.StatusInternalServerError)
	}

	summary.NotMarked = summary.TotalStudents - summary.Present - summary.Absent - summary.Leave
	if summary.NotMarked < 0 {
		summary.NotMarked = 0
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := r.redis.Set(ctx, cacheKey, payload, cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("writing dashboard summary cache")
		}
	}

	return summary, nil
}
