package fine

import (
	"time"

	"school/backend/internal/entity"

	"github.com/Azure/go-autorest/autorest/date"
)

type ApplyPaymentRequest struct {
	FineID        int     `json:"-"`
	PaymentAmount *int    `json:"payment_amount" form:"payment_amount"`
	PaymentMethod *string `json:"payment_method" form:"payment_method"`
	Remarks       *string `json:"remarks" form:"remarks"`
}

type ApplyPaymentResponse struct {
	Fine             entity.Fine `json:"fine"`
	RemainingBalance int         `json:"remaining_balance"`
}

type ClearStudentRequest struct {
	StudentID     int     `json:"-"`
	ClassID       *int    `json:"class_id" form:"class_id"`
	PaymentMethod *string `json:"payment_method" form:"payment_method"`
	Remarks       *string `json:"remarks" form:"remarks"`
}

type ClearStudentResponse struct {
	ClearedFines   int            `json:"cleared_fines"`
	UpdatedSummary StudentSummary `json:"updated_summary"`
}

type SyncRequest struct {
	ClassID   *int       `json:"class_id" form:"class_id"`
	StartDate *date.Date `json:"start_date" form:"start_date"`
	EndDate   *date.Date `json:"end_date" form:"end_date"`
}

type SyncResponse struct {
	TotalAbsentRecords int `json:"total_absent_records"`
	FinesCreated       int `json:"fines_created"`
	FinesUpdated       int `json:"fines_updated"`
	ExistingFines      int `json:"existing_fines"`
}

type StudentSummary struct {
	TotalFine      int `json:"total_fine"`
	TotalPaid      int `json:"total_paid"`
	TotalPending   int `json:"total_pending"`
	TotalRecords   int `json:"total_records"`
	PendingRecords int `json:"pending_records"`
	PaidRecords    int `json:"paid_records"`
}

type FineRecord struct {
	FineID        int       `json:"fine_id"`
	AttendanceID  *int      `json:"attendance_id"`
	Date          time.Time `json:"date"`
	FineAmount    int       `json:"fine_amount"`
	PaidAmount    int       `json:"paid_amount"`
	PendingAmount int       `json:"pending_amount"`
	Status        *string   `json:"status"`
}

type StudentFines struct {
	StudentID    int          `json:"student_id"`
	StudentName  *string      `json:"student_name"`
	Udise        *string      `json:"student_udise"`
	EPunjabID    *string      `json:"student_e_punjab_id"`
	TotalFine    int          `json:"total_fine"`
	TotalPaid    int          `json:"total_paid"`
	TotalPending int          `json:"total_pending"`
	FineRecords  []FineRecord `json:"fine_records"`
}

type ClassTotals struct {
	TotalFine     int `json:"total_fine"`
	TotalPaid     int `json:"total_paid"`
	TotalPending  int `json:"total_pending"`
	TotalStudents int `json:"total_students"`
}

type ClassFinesResponse struct {
	Fines       []StudentFines `json:"fines"`
	ClassTotals ClassTotals    `json:"class_totals"`
}

type PaymentHistoryResponse struct {
	FineID         int                  `json:"fine_id"`
	StudentID      *int                 `json:"student_id"`
	StudentName    *string              `json:"student_name"`
	TotalFine      int                  `json:"total_fine"`
	PaidAmount     int                  `json:"paid_amount"`
	PendingAmount  int                  `json:"pending_amount"`
	Status         *string              `json:"status"`
	PaymentHistory []entity.FinePayment `json:"payment_history"`
}
