package attendance

import (
	"context"
	"time"

	"school/backend/internal/entity"
	"school/backend/internal/repository/postgres/attendance"
)

type Attendance interface {
	MarkOne(ctx context.Context, request attendance.MarkOneRequest) (attendance.MarkOneResponse, error)
	MarkBulk(ctx context.Context, request attendance.MarkBulkRequest) (attendance.MarkBulkResponse, error)
	UpdateAll(ctx context.Context, request attendance.UpdateRequest) (entity.Attendance, error)
	UpdateColumns(ctx context.Context, request attendance.UpdateRequest) (entity.Attendance, error)
	Delete(ctx context.Context, id int) error
	GetClassList(ctx context.Context, classID int, day time.Time) (attendance.ClassListResponse, error)
	GetStudentHistory(ctx context.Context, studentID int, filter attendance.HistoryFilter) (attendance.StudentHistoryResponse, error)
	GetReport(ctx context.Context, classID, month, year int) (attendance.ReportResponse, error)
}
