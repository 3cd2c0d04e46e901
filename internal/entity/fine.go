package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Fine statuses, a pure function of paid vs owed.
const (
	FinePending       = "pending"
	FinePartiallyPaid = "partially_paid"
	FinePaid          = "paid"
)

// Payment methods accepted for fines.
const (
	PaymentCash   = "cash"
	PaymentOnline = "online"
	PaymentCheque = "cheque"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentOnline || m == PaymentCheque
}

type Fine struct {
	bun.BaseModel `bun:"table:fines"`

	BasicEntity
	StudentID     *int      `json:"student_id"     bun:"student_id"`
	ClassID       *int      `json:"class_id"       bun:"class_id"`
	AttendanceID  *int      `json:"attendance_id"  bun:"attendance_id"`
	Date          time.Time `json:"date"           bun:"date"`
	FineAmount    int       `json:"fine_amount"    bun:"fine_amount"`
	PaidAmount    int       `json:"paid_amount"    bun:"paid_amount"`
	PendingAmount int       `json:"pending_amount" bun:"pending_amount"`
	Status        *string   `json:"status"         bun:"status"`
	Remarks       *string   `json:"remarks"        bun:"remarks"`
}

// FinePayment is one append-only entry of a fine's payment history.
type FinePayment struct {
	bun.BaseModel `bun:"table:fine_payments"`

	ID            int       `json:"id" bun:"id,pk,autoincrement"`
	FineID        int       `json:"fine_id"        bun:"fine_id"`
	PaymentDate   time.Time `json:"payment_date"   bun:"payment_date"`
	Amount        int       `json:"amount"         bun:"amount"`
	PaymentMethod string    `json:"payment_method" bun:"payment_method"`
	Remarks       string    `json:"remarks"        bun:"remarks"`
	ReceivedBy    int       `json:"received_by"    bun:"received_by"`
}
