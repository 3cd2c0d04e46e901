package user

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
	"golang.org/x/crypto/bcrypt"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetByUdise(ctx context.Context, udise string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("udise = ? AND deleted_at IS NULL", udise).Scan(ctx)
	if err != nil {
		return entity.User{}, &web.Error{
			Err:    errors.New("user not found!"),
			Status: http.StatusUnauthorized,
		}
	}

	return detail, err
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := fmt.Sprintf(`
			WHERE
				u.deleted_at IS NULL
			`)

	if filter.Role != nil {
		role := strings.ToUpper(strings.Replace(*filter.Role, "'", "", -1))
		whereQuery += fmt.Sprintf(` AND u.role = '%s'`, role)
	}

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, " ", "", -1)
		search = strings.Replace(search, "'", "", -1)

		whereQuery += fmt.Sprintf(` AND
		(u.udise ilike '%s' OR u.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	orderQuery := "ORDER BY u.created_at desc"

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
			u.id,
			u.udise,
			u.e_punjab_id,
			u.full_name,
			u.role,
			s.class_id,
			c.name,
			u.phone,
			u.email
		FROM users u
		LEFT JOIN students s ON s.user_id = u.id AND s.deleted_at IS NULL
		LEFT JOIN classes c ON c.id = s.class_id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Udise,
			&detail.EPunjabID,
			&detail.FullName,
			&detail.Role,
			&detail.ClassID,
			&detail.Class,
			&detail.Phone,
			&detail.Email); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(u.id)
		FROM  users u
			%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user count"), http.StatusBadRequest)
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
			u.id,
			u.udise,
			u.e_punjab_id,
			u.full_name,
			u.role,
			s.class_id,
			c.name,
			s.student_img,
			u.phone,
			u.email
		FROM
		    users u
		LEFT JOIN students s ON s.user_id = u.id AND s.deleted_at IS NULL
		LEFT JOIN classes c ON c.id = s.class_id
		WHERE u.deleted_at IS NULL AND u.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.Udise,
		&detail.EPunjabID,
		&detail.FullName,
		&detail.Role,
		&detail.ClassID,
		&detail.Class,
		&detail.StudentImg,
		&detail.Phone,
		&detail.Email,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting user detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Udise", "Password", "FullName", "Role"); err != nil {
		return CreateResponse{}, err
	}

	udiseStatus := true
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
							CASE WHEN
							(SELECT id FROM users WHERE udise = '%s' AND deleted_at IS NULL) IS NOT NULL
							THEN true ELSE false END`, *request.Udise)).Scan(&udiseStatus); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "udise check"), http.StatusInternalServerError)
	}
	if udiseStatus {
		return CreateResponse{}, web.NewRequestError(errors.New("udise is used"), http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashedPassword := string(hash)

	role := strings.ToUpper(*request.Role)
	if (role != auth.RoleAdmin) && (role != auth.RoleTeacher) && (role != auth.RoleStudent) {
		return CreateResponse{}, web.NewRequestError(errors.New("incorrect role. role should be ADMIN, TEACHER or STUDENT"), http.StatusBadRequest)
	}

	if role == auth.RoleStudent && request.ClassID == nil {
		return CreateResponse{}, web.NewRequestError(errors.New("class_id is required for students"), http.StatusBadRequest)
	}

	var response CreateResponse
	response.Role = &role
	response.FullName = request.FullName
	response.Udise = request.Udise
	response.EPunjabID = request.EPunjabID
	response.Password = &hashedPassword
	response.ClassID = request.ClassID
	response.Phone = request.Phone
	response.Email = request.Email
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating user"), http.StatusBadRequest)
	}

	// Students get a roster row linking them to their class.
	if role == auth.RoleStudent {
		student := entity.Student{
			UserID:     &response.ID,
			ClassID:    request.ClassID,
			StudentImg: request.StudentImg,
		}
		student.CreatedAt = response.CreatedAt
		student.CreatedBy = &claims.UserId

		if _, err = r.NewInsert().Model(&student).Exec(ctx); err != nil {
			return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating student record"), http.StatusBadRequest)
		}
	}

	response.Password = nil

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

	q := r.NewUpdate().Table("users").Where("deleted_at IS NULL AND id = ? ", request.ID)

	if request.Udise != nil {
		udiseStatus := true
		if err := r.QueryRowContext(ctx, fmt.Sprintf("SELECT CASE WHEN (SELECT id FROM users WHERE udise = '%s' AND deleted_at IS NULL AND id != %d) IS NOT NULL THEN true ELSE false END", *request.Udise, request.ID)).Scan(&udiseStatus); err != nil {
			return web.NewRequestError(errors.Wrap(err, "udise check"), http.StatusInternalServerError)
		}
		if udiseStatus {
			return web.NewRequestError(errors.New("udise is used"), http.StatusBadRequest)
		}
		q.Set("udise = ?", request.Udise)
	}

	if request.Role != nil {
		role := strings.ToUpper(*request.Role)
		if (role != auth.RoleAdmin) && (role != auth.RoleTeacher) && (role != auth.RoleStudent) {
			return web.NewRequestError(errors.New("incorrect role. role should be ADMIN, TEACHER or STUDENT"), http.StatusBadRequest)
		}
		q.Set("role = ?", role)
	}

	if request.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		q.Set("password = ?", string(hash))
	}

	if request.EPunjabID != nil {
		q.Set("e_punjab_id = ?", request.EPunjabID)
	}
	if request.FullName != nil {
		q.Set("full_name = ?", request.FullName)
	}
	if request.Phone != nil {
		q.Set("phone=?", request.Phone)
	}
	if request.Email != nil {
		q.Set("email=?", request.Email)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating user"), http.StatusBadRequest)
	}

	if request.ClassID != nil || request.StudentImg != nil {
		sq := r.NewUpdate().Table("students").Where("deleted_at IS NULL AND user_id = ?", request.ID)
		if request.ClassID != nil {
			sq.Set("class_id = ?", request.ClassID)
		}
		if request.StudentImg != nil {
			sq.Set("student_img = ?", request.StudentImg)
		}
		sq.Set("updated_at = ?", time.Now())
		sq.Set("updated_by = ?", claims.UserId)

		if _, err = sq.Exec(ctx); err != nil {
			return web.NewRequestError(errors.Wrap(err, "updating student record"), http.StatusBadRequest)
		}
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	if err := r.DeleteRow(ctx, "users", id); err != nil {
		return err
	}

	q := r.NewUpdate().Table("students").Where("deleted_at IS NULL AND user_id = ?", id)
	q.Set("deleted_at = ?", time.Now())
	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "deleting student record"), http.StatusInternalServerError)
	}

	return nil
}
