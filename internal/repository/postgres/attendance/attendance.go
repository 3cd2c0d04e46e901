package attendance

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
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// FineAccruer creates the fine that an absence owes. Accrual is best-effort
// from the attendance write's perspective: failures are logged and
// swallowed, never rolled into the primary operation's result.
type FineAccruer interface {
	EnsureForAbsence(ctx context.Context, attendanceID, studentID, classID int, day time.Time) (entity.Fine, error)
}

type Repository struct {
	*postgresql.Database
	fines FineAccruer
}

func NewRepository(database *postgresql.Database, fines FineAccruer) *Repository {
	return &Repository{Database: database, fines: fines}
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Attendance, error) {
	var detail entity.Attendance

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Attendance{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Attendance{}, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) classExists(ctx context.Context, classID int) error {
	exists := false
	query := fmt.Sprintf(`
		SELECT CASE WHEN
			(SELECT id FROM classes WHERE id = %d AND deleted_at IS NULL) IS NOT NULL
		THEN true ELSE false END`, classID)
	if err := r.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return web.NewRequestError(errors.Wrap(err, "class check"), http.StatusInternalServerError)
	}
	if !exists {
		return web.NewRequestError(errors.New("class not found"), http.StatusNotFound)
	}
	return nil
}

func (r Repository) studentInClass(ctx context.Context, studentID, classID int) error {
	exists := false
	query := fmt.Sprintf(`
		SELECT CASE WHEN
			(SELECT id FROM students WHERE user_id = %d AND class_id = %d AND deleted_at IS NULL) IS NOT NULL
		THEN true ELSE false END`, studentID, classID)
	if err := r.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		return web.NewRequestError(errors.Wrap(err, "student check"), http.StatusInternalServerError)
	}
	if !exists {
		return web.NewRequestError(errors.New("student not found or does not belong to this class"), http.StatusNotFound)
	}
	return nil
}

// accrueFine is the best-effort side effect of an absence.
func (r Repository) accrueFine(ctx context.Context, attendanceID, studentID, classID int, day time.Time) {
	if _, err := r.fines.EnsureForAbsence(ctx, attendanceID, studentID, classID, day); err != nil {
		log.Error().Err(err).
			Int("attendance_id", attendanceID).
			Int("student_id", studentID).
			Msg("creating fine for absent student")
	}
}

// MarkOne records or overwrites one student's attendance for a day and,
// when the resulting status is absent, accrues the fine.
func (r Repository) MarkOne(ctx context.Context, request MarkOneRequest) (MarkOneResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return MarkOneResponse{}, err
	}

	if err := r.ValidateStruct(&request, "ClassID", "StudentID", "Date", "Status"); err != nil {
		return MarkOneResponse{}, err
	}

	if !entity.ValidAttendanceStatus(*request.Status) {
		return MarkOneResponse{}, web.NewRequestError(errors.New("status must be one of: present, absent, leave"), http.StatusBadRequest)
	}

	if err := r.classExists(ctx, *request.ClassID); err != nil {
		return MarkOneResponse{}, err
	}
	if err := r.studentInClass(ctx, *request.StudentID, *request.ClassID); err != nil {
		return MarkOneResponse{}, err
	}

	day := NormalizeDay(request.Date.Time)
	rec := MarkRecord{
		StudentID:    request.StudentID,
		Status:       request.Status,
		Remarks:      request.Remarks,
		CheckInTime:  request.CheckInTime,
		CheckOutTime: request.CheckOutTime,
	}

	var existing entity.Attendance
	err = r.NewSelect().Model(&existing).
		Where("student_id = ? AND class_id = ? AND date = ? AND deleted_at IS NULL",
			*request.StudentID, *request.ClassID, day).
		Scan(ctx)

	switch {
	case err == nil:
		merge(&existing, rec, claims.UserId)
		if err := r.saveMark(ctx, existing, claims.UserId); err != nil {
			return MarkOneResponse{}, err
		}
		if *existing.Status == entity.StatusAbsent {
			r.accrueFine(ctx, existing.ID, *request.StudentID, *request.ClassID, day)
		}
		return MarkOneResponse{Attendance: existing, Created: false}, nil

	case errors.Is(err, sql.ErrNoRows):
		record := newRecord(*request.ClassID, day, rec, claims.UserId)
		_, err = r.NewInsert().Model(&record).Returning("id").Exec(ctx, &record.ID)
		if err != nil {
			if postgresql.IsUniqueViolation(err) {
				// A concurrent mark won the insert; the unique index on
				// (student_id, class_id, date) is the source of truth.
				return MarkOneResponse{}, web.NewRequestError(errors.New("attendance already marked for this student on this date"), http.StatusBadRequest)
			}
			return MarkOneResponse{}, web.NewRequestError(errors.Wrap(err, "creating attendance"), http.StatusBadRequest)
		}
		if *record.Status == entity.StatusAbsent {
			r.accrueFine(ctx, record.ID, *request.StudentID, *request.ClassID, day)
		}
		return MarkOneResponse{Attendance: record, Created: true}, nil

	default:
		return MarkOneResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusInternalServerError)
	}
}

func (r Repository) saveMark(ctx context.Context, a entity.Attendance, updatedBy int) error {
	q := r.NewUpdate().Table("attendance").Where("deleted_at IS NULL AND id = ?", a.ID)
	q.Set("status = ?", a.Status)
	q.Set("taken_by = ?", a.TakenBy)
	q.Set("remarks = ?", a.Remarks)
	q.Set("check_in_time = ?", a.CheckInTime)
	q.Set("check_out_time = ?", a.CheckOutTime)
	q.Set("fine_amount = ?", a.FineAmount)
	q.Set("fine_paid = ?", a.FinePaid)
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", updatedBy)

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance"), http.StatusBadRequest)
	}

	return nil
}

// MarkBulk applies MarkOne's per-student logic across a class for one day
// using two batched writes: one multi-row insert and one UPDATE ... FROM
// (VALUES ...). Fines for absentees are accrued after both writes commit,
// so generated ids from the insert are available.
func (r Repository) MarkBulk(ctx context.Context, request MarkBulkRequest) (MarkBulkResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return MarkBulkResponse{}, err
	}

	if err := r.ValidateStruct(&request, "ClassID", "Date", "Records"); err != nil {
		return MarkBulkResponse{}, err
	}

	if err := r.classExists(ctx, *request.ClassID); err != nil {
		return MarkBulkResponse{}, err
	}

	day := NormalizeDay(request.Date.Time)

	// Preload the roster and the day's existing marks in one lookup each.
	roster, err := r.classRoster(ctx, *request.ClassID)
	if err != nil {
		return MarkBulkResponse{}, err
	}

	var studentIDs []int
	for _, rec := range request.Records {
		if rec.StudentID != nil {
			studentIDs = append(studentIDs, *rec.StudentID)
		}
	}

	existing := map[int]entity.Attendance{}
	if len(studentIDs) > 0 {
		var rows []entity.Attendance
		err = r.NewSelect().Model(&rows).
			Where("class_id = ? AND date = ? AND student_id IN (?) AND deleted_at IS NULL",
				*request.ClassID, day, bun.In(studentIDs)).
			Scan(ctx)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return MarkBulkResponse{}, web.NewRequestError(errors.Wrap(err, "selecting existing attendance"), http.StatusInternalServerError)
		}
		for _, row := range rows {
			if row.StudentID != nil {
				existing[*row.StudentID] = row
			}
		}
	}

	inserts, updates, failed := partitionBulk(*request.ClassID, day, claims.UserId, request.Records, roster, existing)

	response := MarkBulkResponse{
		Success: []int{},
		Updated: []int{},
		Failed:  failed,
	}

	if len(inserts) > 0 {
		if _, err := r.NewInsert().Model(&inserts).Returning("id").Exec(ctx); err != nil {
			return MarkBulkResponse{}, web.NewRequestError(errors.Wrap(err, "inserting attendance batch"), http.StatusBadRequest)
		}
		for _, a := range inserts {
			response.Success = append(response.Success, *a.StudentID)
		}
	}

	if len(updates) > 0 {
		if err := r.applyUpdateBatch(ctx, updates, claims.UserId); err != nil {
			return MarkBulkResponse{}, err
		}
		for _, a := range updates {
			response.Updated = append(response.Updated, *a.StudentID)
		}
	}

	for _, a := range collectAbsentees(inserts, updates) {
		r.accrueFine(ctx, a.ID, *a.StudentID, *request.ClassID, day)
	}

	return response, nil
}

func (r Repository) classRoster(ctx context.Context, classID int) (map[int]struct{}, error) {
	rows, err := r.QueryContext(ctx, fmt.Sprintf(`
		SELECT user_id FROM students WHERE class_id = %d AND deleted_at IS NULL
	`, classID))
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting class roster"), http.StatusInternalServerError)
	}
	defer rows.Close()

	roster := map[int]struct{}{}
	for rows.Next() {
		var userID int
		if err = rows.Scan(&userID); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning class roster"), http.StatusInternalServerError)
		}
		roster[userID] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading class roster"), http.StatusInternalServerError)
	}

	return roster, nil
}

func sqlString(s *string) string {
	if s == nil {
		return ""
	}
	return strings.Replace(*s, "'", "''", -1)
}

// applyUpdateBatch overwrites the update set in a single statement. The
// merged values already carry preserve-on-empty semantics, so each column
// is written as-is.
func (r Repository) applyUpdateBatch(ctx context.Context, updates []entity.Attendance, updatedBy int) error {
	values := make([]string, 0, len(updates))
	for _, a := range updates {
		values = append(values, fmt.Sprintf("(%d, '%s', '%s', '%s', '%s', %d)",
			a.ID,
			sqlString(a.Status),
			sqlString(a.Remarks),
			sqlString(a.CheckInTime),
			sqlString(a.CheckOutTime),
			*a.FineAmount,
		))
	}

	query := fmt.Sprintf(`
		UPDATE attendance AS a SET
			status = v.status,
			taken_by = %d,
			remarks = CASE WHEN v.remarks <> '' THEN v.remarks ELSE a.remarks END,
			check_in_time = CASE WHEN v.check_in <> '' THEN v.check_in ELSE a.check_in_time END,
			check_out_time = CASE WHEN v.check_out <> '' THEN v.check_out ELSE a.check_out_time END,
			fine_amount = v.fine_amount,
			fine_paid = CASE WHEN v.fine_amount = 0 THEN false ELSE a.fine_paid END,
			updated_at = now(),
			updated_by = %d
		FROM (VALUES %s) AS v(id, status, remarks, check_in, check_out, fine_amount)
		WHERE a.id = v.id AND a.deleted_at IS NULL
	`, updatedBy, updatedBy, strings.Join(values, ", "))

	if _, err := r.ExecContext(ctx, query); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance batch"), http.StatusBadRequest)
	}

	return nil
}

// UpdateAll handles PUT: status is required, the optional fields keep
// preserve-on-empty semantics. Accrual fires only on a transition INTO
// absent.
func (r Repository) UpdateAll(ctx context.Context, request UpdateRequest) (entity.Attendance, error) {
	if err := r.ValidateStruct(&request, "ID", "Status"); err != nil {
		return entity.Attendance{}, err
	}
	return r.update(ctx, request)
}

// UpdateColumns handles PATCH: every field is optional.
func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) (entity.Attendance, error) {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return entity.Attendance{}, err
	}
	return r.update(ctx, request)
}

func (r Repository) update(ctx context.Context, request UpdateRequest) (entity.Attendance, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return entity.Attendance{}, err
	}

	if request.Status != nil && !entity.ValidAttendanceStatus(*request.Status) {
		return entity.Attendance{}, web.NewRequestError(errors.New("status must be one of: present, absent, leave"), http.StatusBadRequest)
	}

	detail, err := r.GetById(ctx, request.ID)
	if err != nil {
		return entity.Attendance{}, err
	}

	previousStatus := ""
	if detail.Status != nil {
		previousStatus = *detail.Status
	}

	rec := MarkRecord{
		StudentID:    detail.StudentID,
		Status:       detail.Status,
		Remarks:      request.Remarks,
		CheckInTime:  request.CheckInTime,
		CheckOutTime: request.CheckOutTime,
	}
	if request.Status != nil {
		rec.Status = request.Status
	}

	merge(&detail, rec, claims.UserId)
	if err := r.saveMark(ctx, detail, claims.UserId); err != nil {
		return entity.Attendance{}, err
	}

	// A transition out of absent never retracts an existing fine: once
	// billed, a fine stands until the attendance record itself is deleted.
	if shouldAccrue(previousStatus, request.Status) {
		if detail.StudentID != nil && detail.ClassID != nil {
			r.accrueFine(ctx, detail.ID, *detail.StudentID, *detail.ClassID, NormalizeDay(detail.Date))
		}
	}

	return detail, nil
}

// Delete removes an attendance record and cascades to its linked fine.
func (r Repository) Delete(ctx context.Context, id int) error {
	if _, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher); err != nil {
		return err
	}

	detail, err := r.GetById(ctx, id)
	if err != nil {
		return err
	}

	if err := r.DeleteRow(ctx, "attendance", id); err != nil {
		return err
	}

	q := r.NewUpdate().Table("fines").Where("deleted_at IS NULL AND attendance_id = ?", detail.ID)
	q.Set("deleted_at = ?", time.Now())
	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "deleting linked fine"), http.StatusInternalServerError)
	}

	return nil
}

// GetClassList returns the full roster for a class on a day, outer-joined
// with that day's marks; unmarked students carry the "not-marked" status.
func (r Repository) GetClassList(ctx context.Context, classID int, day time.Time) (ClassListResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return ClassListResponse{}, err
	}

	if err := r.classExists(ctx, classID); err != nil {
		return ClassListResponse{}, err
	}

	day = NormalizeDay(day)

	query := fmt.Sprintf(`
		SELECT
			s.user_id,
			u.full_name,
			u.udise,
			u.e_punjab_id,
			s.student_img,
			a.id,
			a.status,
			a.remarks,
			a.check_in_time,
			a.check_out_time,
			a.taken_by
		FROM students s
		LEFT JOIN users u ON u.id = s.user_id
		LEFT JOIN attendance a
			ON a.student_id = s.user_id
			AND a.class_id = s.class_id
			AND a.date = '%s'
			AND a.deleted_at IS NULL
		WHERE s.class_id = %d AND s.deleted_at IS NULL
		ORDER BY u.full_name
	`, day.Format("2006-01-02"), classID)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return ClassListResponse{}, web.NewRequestError(errors.Wrap(err, "selecting class attendance"), http.StatusInternalServerError)
	}
	defer rows.Close()

	response := ClassListResponse{
		ClassID: classID,
		Date:    day.Format("2006-01-02"),
	}

	for rows.Next() {
		var (
			row    ClassListRow
			status *string
		)
		if err = rows.Scan(
			&row.StudentID,
			&row.StudentName,
			&row.Udise,
			&row.EPunjabID,
			&row.StudentImg,
			&row.AttendanceID,
			&status,
			&row.Remarks,
			&row.CheckInTime,
			&row.CheckOutTime,
			&row.TakenBy); err != nil {
			return ClassListResponse{}, web.NewRequestError(errors.Wrap(err, "scanning class attendance"), http.StatusInternalServerError)
		}

		row.Status = "not-marked"
		if status != nil {
			row.Status = *status
		}

		response.Attendance = append(response.Attendance, row)
	}
	if err = rows.Err(); err != nil {
		return ClassListResponse{}, web.NewRequestError(errors.Wrap(err, "reading class attendance"), http.StatusInternalServerError)
	}

	response.TotalStudents = len(response.Attendance)

	return response, nil
}

// GetStudentHistory lists a student's attendance with summary stats,
// optionally filtered by class and date range.
func (r Repository) GetStudentHistory(ctx context.Context, studentID int, filter HistoryFilter) (StudentHistoryResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return StudentHistoryResponse{}, err
	}

	var list []entity.Attendance
	q := r.NewSelect().Model(&list).
		Where("student_id = ? AND deleted_at IS NULL", studentID)
	if filter.ClassID != nil {
		q = q.Where("class_id = ?", *filter.ClassID)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", NormalizeDay(filter.StartDate.Time))
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", NormalizeDay(filter.EndDate.Time))
	}

	if err := q.Order("date DESC").Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return StudentHistoryResponse{}, web.NewRequestError(errors.Wrap(err, "selecting student attendance"), http.StatusInternalServerError)
	}

	var stats HistoryStats
	for _, a := range list {
		stats.Total++
		if a.Status == nil {
			continue
		}
		switch *a.Status {
		case entity.StatusPresent:
			stats.Present++
		case entity.StatusAbsent:
			stats.Absent++
		case entity.StatusLeave:
			stats.Leave++
		}
	}
	if stats.Total > 0 {
		stats.AttendancePercentage = float64(stats.Present) / float64(stats.Total) * 100
	}

	return StudentHistoryResponse{Attendance: list, Stats: stats}, nil
}

// GetReport builds the per-student monthly report for a class.
func (r Repository) GetReport(ctx context.Context, classID, month, year int) (ReportResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return ReportResponse{}, err
	}

	if month < 1 || month > 12 {
		return ReportResponse{}, web.NewRequestError(errors.New("month must be between 1 and 12"), http.StatusBadRequest)
	}

	if err := r.classExists(ctx, classID); err != nil {
		return ReportResponse{}, err
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	query := fmt.Sprintf(`
		SELECT
			s.user_id,
			u.full_name,
			u.udise,
			COUNT(a.id),
			COUNT(CASE WHEN a.status = '%s' THEN 1 END),
			COUNT(CASE WHEN a.status = '%s' THEN 1 END),
			COUNT(CASE WHEN a.status = '%s' THEN 1 END)
		FROM students s
		LEFT JOIN users u ON u.id = s.user_id
		LEFT JOIN attendance a
			ON a.student_id = s.user_id
			AND a.class_id = s.class_id
			AND a.date BETWEEN '%s' AND '%s'
			AND a.deleted_at IS NULL
		WHERE s.class_id = %d AND s.deleted_at IS NULL
		GROUP BY s.user_id, u.full_name, u.udise
		ORDER BY u.full_name
	`,
		entity.StatusPresent, entity.StatusAbsent, entity.StatusLeave,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), classID)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance report"), http.StatusInternalServerError)
	}
	defer rows.Close()

	response := ReportResponse{ClassID: classID, Month: month, Year: year}

	for rows.Next() {
		var row ReportRow
		if err = rows.Scan(
			&row.StudentID,
			&row.StudentName,
			&row.Udise,
			&row.TotalDays,
			&row.Present,
			&row.Absent,
			&row.Leave); err != nil {
			return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "scanning attendance report"), http.StatusInternalServerError)
		}

		if row.TotalDays > 0 {
			row.AttendancePercentage = float64(row.Present) / float64(row.TotalDays) * 100
		}

		response.Report = append(response.Report, row)
	}
	if err = rows.Err(); err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "reading attendance report"), http.StatusInternalServerError)
	}

	return response, nil
}
