package fine

import (
	"context"

	"school/backend/internal/repository/postgres/fine"
)

type Fine interface {
	ApplyPayment(ctx context.Context, request fine.ApplyPaymentRequest) (fine.ApplyPaymentResponse, error)
	ClearStudent(ctx context.Context, request fine.ClearStudentRequest) (fine.ClearStudentResponse, error)
	Sync(ctx context.Context, request fine.SyncRequest) (fine.SyncResponse, error)
	GetClassFines(ctx context.Context, classID int, status *string) (fine.ClassFinesResponse, error)
	GetStudentSummary(ctx context.Context, studentID int, classID *int) (fine.StudentSummary, error)
	GetPaymentHistory(ctx context.Context, fineID int) (fine.PaymentHistoryResponse, error)
}
