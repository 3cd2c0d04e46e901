// Package postgresql wires the bun ORM to the postgres driver and carries
// the request scoped helpers every repository needs.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"school/backend/foundation/web"
	"school/backend/internal/auth"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Database wraps a bun.DB handle.
type Database struct {
	*bun.DB
}

// Config is the database connection settings.
type Config struct {
	Username   string
	Password   string
	Host       string
	Port       string
	Name       string
	DisableTLS bool
}

// New opens a postgres connection pool via pgdriver.
func New(cfg Config) *Database {
	connector := pgdriver.NewConnector(
		pgdriver.WithAddr(fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.Username),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithInsecure(cfg.DisableTLS),
		pgdriver.WithTimeout(10*time.Second),
	)

	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.FromEnv("BUNDEBUG")))

	return &Database{DB: db}
}

// CheckClaims pulls the authenticated claims out of the context and, when
// roles are given, verifies the caller holds one of them.
func (d Database) CheckClaims(ctx context.Context, roles ...string) (auth.Claims, error) {
	claims, ok := ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	if len(roles) > 0 && !claims.Authorized(roles...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusUnauthorized)
	}

	return claims, nil
}

// ValidateStruct checks that the named fields of a request struct are
// present (non nil pointers / non zero values).
func (d Database) ValidateStruct(s interface{}, requiredFields ...string) error {
	value := reflect.ValueOf(s)
	for value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	var fields []web.FieldError
	for _, name := range requiredFields {
		field := value.FieldByName(name)
		if !field.IsValid() {
			fields = append(fields, web.FieldError{Field: name, Error: "unknown field"})
			continue
		}
		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				fields = append(fields, web.FieldError{Field: name, Error: "is required"})
			}
			continue
		}
		if field.IsZero() {
			fields = append(fields, web.FieldError{Field: name, Error: "is required"})
		}
	}

	if len(fields) > 0 {
		return &web.Error{
			Err:    errors.New("required fields are missing"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// DeleteRow soft deletes a single row, stamping the acting user.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, err := d.CheckClaims(ctx)
	if err != nil {
		return err
	}

	q := d.NewUpdate().Table(table).Where("deleted_at IS NULL AND id = ?", id)
	q.Set("deleted_at = ?", time.Now())
	q.Set("deleted_by = ?", claims.UserId)

	result, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting from %s", table), http.StatusBadRequest)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking affected rows"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(errors.Errorf("%s row not found", table), http.StatusNotFound)
	}

	return nil
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation (SQLSTATE 23505). The store's unique indexes are the source of
// truth for "already exists" decisions; callers treat this error as such.
func IsUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
