package class

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"school/backend/foundation/web"
	"school/backend/internal/auth"
	"school/backend/internal/entity"
	"school/backend/internal/pkg/repository/postgresql"
	"school/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Class, error) {
	var detail entity.Class

	err := r.NewSelect().Model(&detail).Where("id = ?", id).Scan(ctx)

	return detail, err
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := fmt.Sprintf(`
			WHERE
				c.deleted_at IS NULL
			`)
	if filter.Search != nil {
		search := strings.Replace(*filter.Search, " ", "", -1)
		search = strings.Replace(search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
				c.name ILIKE '%s'`, "%"+search+"%")
	}
	orderQuery := "ORDER BY c.created_at desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			c.id,
			c.name,
			c.section,
			c.incharge_id,
			u.full_name,
			(SELECT count(s.id) FROM students s WHERE s.class_id = c.id AND s.deleted_at IS NULL)
		FROM classes c
		LEFT JOIN users u ON u.id = c.incharge_id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting classes"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Name,
			&detail.Section,
			&detail.InchargeID,
			&detail.Incharge,
			&detail.StudentCount); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning class list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(c.id)
		FROM  classes c
			%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting classes"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning class count"), http.StatusBadRequest)
		}
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			c.id,
			c.name,
			c.section,
			c.incharge_id,
			u.full_name,
			(SELECT count(s.id) FROM students s WHERE s.class_id = c.id AND s.deleted_at IS NULL)
		FROM
		    classes c
		LEFT JOIN users u ON u.id = c.incharge_id
		WHERE c.deleted_at IS NULL AND c.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.Name,
		&detail.Section,
		&detail.InchargeID,
		&detail.Incharge,
		&detail.StudentCount,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting class detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Name"); err != nil {
		return CreateResponse{}, err
	}

	section := ""
	if request.Section != nil {
		section = *request.Section
	}

	nameStatus := true
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
							CASE WHEN
							(SELECT id FROM classes WHERE name = '%s' AND coalesce(section, '') = '%s' AND deleted_at IS NULL) IS NOT NULL
							THEN true ELSE false END`,
			strings.Replace(*request.Name, "'", "''", -1),
			strings.Replace(section, "'", "''", -1))).Scan(&nameStatus); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "class name check"), http.StatusInternalServerError)
	}
	if nameStatus {
		return CreateResponse{}, web.NewRequestError(errors.New("class name is used"), http.StatusBadRequest)
	}

	var response CreateResponse

	response.Name = request.Name
	response.Section = request.Section
	response.InchargeID = request.InchargeID
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating class"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("classes").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		q.Set("name = ?", request.Name)
	}
	if request.Section != nil {
		q.Set("section = ?", request.Section)
	}
	if request.InchargeID != nil {
		q.Set("incharge_id = ?", request.InchargeID)
	}

	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating class"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "classes", id)
}
