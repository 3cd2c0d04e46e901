package fine

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
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Fine, error) {
	var detail entity.Fine

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Fine{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Fine{}, web.NewRequestError(errors.Wrap(err, "selecting fine"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetByAttendanceID(ctx context.Context, attendanceID int) (entity.Fine, error) {
	var detail entity.Fine

	err := r.NewSelect().Model(&detail).Where("attendance_id = ? AND deleted_at IS NULL", attendanceID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Fine{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Fine{}, web.NewRequestError(errors.Wrap(err, "selecting fine by attendance"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) getByKey(ctx context.Context, studentID, classID int, day time.Time) (entity.Fine, error) {
	var detail entity.Fine

	err := r.NewSelect().Model(&detail).
		Where("student_id = ? AND class_id = ? AND date = ? AND deleted_at IS NULL", studentID, classID, day).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Fine{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Fine{}, web.NewRequestError(errors.Wrap(err, "selecting fine by key"), http.StatusInternalServerError)
	}

	return detail, nil
}

// EnsureForAbsence lazily creates the fine for an absent attendance record.
// It is idempotent: an existing fine for the attendance id is returned
// unchanged. Two racing calls are resolved by the store's unique indexes;
// the losing insert is treated as "already exists" and re-fetched.
func (r Repository) EnsureForAbsence(ctx context.Context, attendanceID, studentID, classID int, day time.Time) (entity.Fine, error) {
	var existing *entity.Fine
	detail, err := r.GetByAttendanceID(ctx, attendanceID)
	if err == nil {
		existing = &detail
	} else if !errors.Is(err, postgres.ErrNotFound) {
		return entity.Fine{}, err
	}

	fine, created := ensureFine(existing, attendanceID, studentID, classID, day)
	if !created {
		return fine, nil
	}

	_, err = r.NewInsert().Model(&fine).Returning("id").Exec(ctx, &fine.ID)
	if err != nil {
		if postgresql.IsUniqueViolation(err) {
			// Lost the race: the winner's row is the fine.
			return r.getByKey(ctx, studentID, classID, day)
		}
		return entity.Fine{}, web.NewRequestError(errors.Wrap(err, "creating fine"), http.StatusBadRequest)
	}

	return fine, nil
}

// ApplyPayment applies a partial or full payment to a single fine and
// appends the payment to its history.
func (r Repository) ApplyPayment(ctx context.Context, request ApplyPaymentRequest) (ApplyPaymentResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return ApplyPaymentResponse{}, err
	}

	if err := r.ValidateStruct(&request, "PaymentAmount"); err != nil {
		return ApplyPaymentResponse{}, err
	}

	method := entity.PaymentCash
	if request.PaymentMethod != nil && *request.PaymentMethod != "" {
		method = *request.PaymentMethod
	}
	if !entity.ValidPaymentMethod(method) {
		return ApplyPaymentResponse{}, web.NewRequestError(errors.New("payment method must be one of: cash, online, cheque"), http.StatusBadRequest)
	}

	fine, err := r.GetById(ctx, request.FineID)
	if err != nil {
		return ApplyPaymentResponse{}, err
	}

	if err := applyPayment(&fine, *request.PaymentAmount); err != nil {
		return ApplyPaymentResponse{}, web.NewRequestError(err, http.StatusBadRequest)
	}

	remarks := ""
	if request.Remarks != nil {
		remarks = *request.Remarks
	}

	if err := r.saveFine(ctx, fine, claims.UserId); err != nil {
		return ApplyPaymentResponse{}, err
	}

	payment := entity.FinePayment{
		FineID:        fine.ID,
		PaymentDate:   time.Now(),
		Amount:        *request.PaymentAmount,
		PaymentMethod: method,
		Remarks:       remarks,
		ReceivedBy:    claims.UserId,
	}
	if _, err := r.NewInsert().Model(&payment).Returning("id").Exec(ctx, &payment.ID); err != nil {
		return ApplyPaymentResponse{}, web.NewRequestError(errors.Wrap(err, "recording payment"), http.StatusInternalServerError)
	}

	return ApplyPaymentResponse{
		Fine:             fine,
		RemainingBalance: fine.PendingAmount,
	}, nil
}

// saveFine persists the mutable money columns of a fine. Pending amount and
// status are always the derived values carried on the entity.
func (r Repository) saveFine(ctx context.Context, fine entity.Fine, updatedBy int) error {
	q := r.NewUpdate().Table("fines").Where("deleted_at IS NULL AND id = ?", fine.ID)
	q.Set("fine_amount = ?", fine.FineAmount)
	q.Set("paid_amount = ?", fine.PaidAmount)
	q.Set("pending_amount = ?", fine.PendingAmount)
	q.Set("status = ?", fine.Status)
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", updatedBy)

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating fine"), http.StatusInternalServerError)
	}

	return nil
}

// ClearStudent pays off every pending or partially paid fine of a student,
// optionally scoped to one class. Each fine is saved independently: a
// failure partway through leaves earlier fines paid and later ones
// untouched.
func (r Repository) ClearStudent(ctx context.Context, request ClearStudentRequest) (ClearStudentResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return ClearStudentResponse{}, err
	}

	method := entity.PaymentCash
	if request.PaymentMethod != nil && *request.PaymentMethod != "" {
		method = *request.PaymentMethod
	}
	if !entity.ValidPaymentMethod(method) {
		return ClearStudentResponse{}, web.NewRequestError(errors.New("payment method must be one of: cash, online, cheque"), http.StatusBadRequest)
	}

	remarks := ""
	if request.Remarks != nil {
		remarks = *request.Remarks
	}

	var pendingFines []entity.Fine
	q := r.NewSelect().Model(&pendingFines).
		Where("student_id = ? AND status IN (?, ?) AND deleted_at IS NULL",
			request.StudentID, entity.FinePending, entity.FinePartiallyPaid)
	if request.ClassID != nil {
		q = q.Where("class_id = ?", *request.ClassID)
	}

	if err := q.Scan(ctx); err != nil {
		return ClearStudentResponse{}, web.NewRequestError(errors.Wrap(err, "selecting pending fines"), http.StatusInternalServerError)
	}

	if len(pendingFines) == 0 {
		return ClearStudentResponse{}, web.NewRequestError(errors.New("no pending fines found for this student"), http.StatusNotFound)
	}

	cleared := 0
	for i := range pendingFines {
		fine := pendingFines[i]
		amount := fine.PendingAmount

		if err := applyPayment(&fine, amount); err != nil {
			return ClearStudentResponse{}, web.NewRequestError(errors.Wrapf(err, "clearing fine %d", fine.ID), http.StatusBadRequest)
		}
		if err := r.saveFine(ctx, fine, claims.UserId); err != nil {
			return ClearStudentResponse{}, err
		}

		payment := entity.FinePayment{
			FineID:        fine.ID,
			PaymentDate:   time.Now(),
			Amount:        amount,
			PaymentMethod: method,
			Remarks:       remarks,
			ReceivedBy:    claims.UserId,
		}
		if _, err := r.NewInsert().Model(&payment).Returning("id").Exec(ctx, &payment.ID); err != nil {
			return ClearStudentResponse{}, web.NewRequestError(errors.Wrapf(err, "recording payment for fine %d", fine.ID), http.StatusInternalServerError)
		}

		cleared++
	}

	summary, err := r.studentSummary(ctx, request.StudentID, request.ClassID)
	if err != nil {
		return ClearStudentResponse{}, err
	}

	return ClearStudentResponse{
		ClearedFines:   cleared,
		UpdatedSummary: summary,
	}, nil
}

// Sync is the corrective pass over absent attendance records: it creates
// missing fines and realigns fine amounts with the attendance record's
// legacy fine_amount column, without touching payments. Safe to re-run.
func (r Repository) Sync(ctx context.Context, request SyncRequest) (SyncResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return SyncResponse{}, err
	}

	whereQuery := fmt.Sprintf(`
		WHERE
			a.deleted_at IS NULL
			AND a.status = '%s'
			AND a.fine_amount > 0
		`, entity.StatusAbsent)

	if request.ClassID != nil {
		whereQuery += fmt.Sprintf(" AND a.class_id = %d", *request.ClassID)
	}
	if request.StartDate != nil && request.EndDate != nil {
		whereQuery += fmt.Sprintf(" AND a.date BETWEEN '%s' AND '%s'",
			request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"))
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.student_id,
			a.class_id,
			a.date,
			a.fine_amount
		FROM attendance a
		%s
	`, whereQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return SyncResponse{}, web.NewRequestError(errors.Wrap(err, "selecting absent attendance"), http.StatusInternalServerError)
	}
	defer rows.Close()

	type absentRecord struct {
		ID         int
		StudentID  int
		ClassID    int
		Date       time.Time
		FineAmount int
	}

	var absentees []absentRecord
	for rows.Next() {
		var a absentRecord
		if err = rows.Scan(&a.ID, &a.StudentID, &a.ClassID, &a.Date, &a.FineAmount); err != nil {
			return SyncResponse{}, web.NewRequestError(errors.Wrap(err, "scanning absent attendance"), http.StatusInternalServerError)
		}
		absentees = append(absentees, a)
	}
	if err = rows.Err(); err != nil {
		return SyncResponse{}, web.NewRequestError(errors.Wrap(err, "reading absent attendance"), http.StatusInternalServerError)
	}

	var response SyncResponse
	response.TotalAbsentRecords = len(absentees)

	for _, a := range absentees {
		existing, err := r.GetByAttendanceID(ctx, a.ID)
		if errors.Is(err, postgres.ErrNotFound) {
			if _, err := r.EnsureForAbsence(ctx, a.ID, a.StudentID, a.ClassID, a.Date); err != nil {
				return SyncResponse{}, err
			}
			response.FinesCreated++
			continue
		}
		if err != nil {
			return SyncResponse{}, err
		}

		if realign(&existing, a.FineAmount) {
			if err := r.saveFine(ctx, existing, claims.UserId); err != nil {
				return SyncResponse{}, err
			}
			response.FinesUpdated++
		}
	}

	response.ExistingFines = response.TotalAbsentRecords - response.FinesCreated

	log.Info().
		Int("total_absent", response.TotalAbsentRecords).
		Int("created", response.FinesCreated).
		Int("updated", response.FinesUpdated).
		Msg("fine sync completed")

	return response, nil
}

// GetClassFines returns the per-student fine rollup for a class, plus the
// class totals.
func (r Repository) GetClassFines(ctx context.Context, classID int, status *string) (ClassFinesResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return ClassFinesResponse{}, err
	}

	whereQuery := fmt.Sprintf(`
		WHERE
			f.deleted_at IS NULL
			AND f.class_id = %d
		`, classID)
	if status != nil {
		whereQuery += fmt.Sprintf(" AND f.status = '%s'", strings.Replace(*status, "'", "", -1))
	}

	query := fmt.Sprintf(`
		SELECT
			f.id,
			f.student_id,
			u.full_name,
			u.udise,
			u.e_punjab_id,
			f.attendance_id,
			f.date,
			f.fine_amount,
			f.paid_amount,
			f.pending_amount,
			f.status
		FROM fines f
		LEFT JOIN users u ON u.id = f.student_id
		%s
		ORDER BY f.student_id, f.date
	`, whereQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return ClassFinesResponse{}, web.NewRequestError(errors.Wrap(err, "selecting class fines"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var response ClassFinesResponse
	byStudent := map[int]int{}

	for rows.Next() {
		var (
			record    FineRecord
			studentID int
			name      *string
			udise     *string
			ePunjabID *string
		)
		if err = rows.Scan(
			&record.FineID,
			&studentID,
			&name,
			&udise,
			&ePunjabID,
			&record.AttendanceID,
			&record.Date,
			&record.FineAmount,
			&record.PaidAmount,
			&record.PendingAmount,
			&record.Status); err != nil {
			return ClassFinesResponse{}, web.NewRequestError(errors.Wrap(err, "scanning class fines"), http.StatusInternalServerError)
		}

		idx, ok := byStudent[studentID]
		if !ok {
			response.Fines = append(response.Fines, StudentFines{
				StudentID:   studentID,
				StudentName: name,
				Udise:       udise,
				EPunjabID:   ePunjabID,
			})
			idx = len(response.Fines) - 1
			byStudent[studentID] = idx
			response.ClassTotals.TotalStudents++
		}

		student := &response.Fines[idx]
		student.TotalFine += record.FineAmount
		student.TotalPaid += record.PaidAmount
		student.TotalPending += record.PendingAmount
		student.FineRecords = append(student.FineRecords, record)

		response.ClassTotals.TotalFine += record.FineAmount
		response.ClassTotals.TotalPaid += record.PaidAmount
		response.ClassTotals.TotalPending += record.PendingAmount
	}
	if err = rows.Err(); err != nil {
		return ClassFinesResponse{}, web.NewRequestError(errors.Wrap(err, "reading class fines"), http.StatusInternalServerError)
	}

	return response, nil
}

// GetStudentSummary returns the aggregate fine totals for one student,
// optionally scoped to a class.
func (r Repository) GetStudentSummary(ctx context.Context, studentID int, classID *int) (StudentSummary, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return StudentSummary{}, err
	}

	return r.studentSummary(ctx, studentID, classID)
}

func (r Repository) studentSummary(ctx context.Context, studentID int, classID *int) (StudentSummary, error) {
	whereQuery := fmt.Sprintf(`
		WHERE
			deleted_at IS NULL
			AND student_id = %d
		`, studentID)
	if classID != nil {
		whereQuery += fmt.Sprintf(" AND class_id = %d", *classID)
	}

	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(fine_amount), 0),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(pending_amount), 0),
			COUNT(id),
			COUNT(CASE WHEN status != '%s' THEN 1 END),
			COUNT(CASE WHEN status = '%s' THEN 1 END)
		FROM fines
		%s
	`, entity.FinePaid, entity.FinePaid, whereQuery)

	var summary StudentSummary
	err := r.QueryRowContext(ctx, query).Scan(
		&summary.TotalFine,
		&summary.TotalPaid,
		&summary.TotalPending,
		&summary.TotalRecords,
		&summary.PendingRecords,
		&summary.PaidRecords,
	)
	if err != nil {
		return StudentSummary{}, web.NewRequestError(errors.Wrap(err, "selecting student fine summary"), http.StatusInternalServerError)
	}

	return summary, nil
}

// GetPaymentHistory returns a fine with its full append-only payment trail.
func (r Repository) GetPaymentHistory(ctx context.Context, fineID int) (PaymentHistoryResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return PaymentHistoryResponse{}, err
	}

	fine, err := r.GetById(ctx, fineID)
	if err != nil {
		return PaymentHistoryResponse{}, err
	}

	var name *string
	if fine.StudentID != nil {
		query := fmt.Sprintf(`SELECT full_name FROM users WHERE id = %d`, *fine.StudentID)
		if err := r.QueryRowContext(ctx, query).Scan(&name); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return PaymentHistoryResponse{}, web.NewRequestError(errors.Wrap(err, "selecting student name"), http.StatusInternalServerError)
		}
	}

	var payments []entity.FinePayment
	err = r.NewSelect().Model(&payments).
		Where("fine_id = ?", fineID).
		Order("payment_date ASC", "id ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return PaymentHistoryResponse{}, web.NewRequestError(errors.Wrap(err, "selecting payment history"), http.StatusInternalServerError)
	}

	return PaymentHistoryResponse{
		FineID:         fine.ID,
		StudentID:      fine.StudentID,
		StudentName:    name,
		TotalFine:      fine.FineAmount,
		PaidAmount:     fine.PaidAmount,
		PendingAmount:  fine.PendingAmount,
		Status:         fine.Status,
		PaymentHistory: payments,
	}, nil
}
