package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Attendance statuses.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLeave   = "leave"
)

// ValidAttendanceStatus reports whether s is one of the three statuses.
func ValidAttendanceStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusLeave
}

type Attendance struct {
	bun.BaseModel `bun:"table:attendance"`

	BasicEntity
	ClassID      *int      `json:"class_id"   bun:"class_id"`
	StudentID    *int      `json:"student_id" bun:"student_id"`
	Date         time.Time `json:"date"       bun:"date"`
	Status       *string   `json:"status"     bun:"status"`
	TakenBy      *int      `json:"taken_by"   bun:"taken_by"`
	Remarks      *string   `json:"remarks"    bun:"remarks"`
	CheckInTime  *string   `json:"check_in_time"  bun:"check_in_time"`
	CheckOutTime *string   `json:"check_out_time" bun:"check_out_time"`

	// Legacy convenience fields, superseded by the fines table. The sync
	// job still reads fine_amount to repair drifted fine rows.
	FineAmount *int  `json:"fine_amount" bun:"fine_amount"`
	FinePaid   *bool `json:"fine_paid"   bun:"fine_paid"`
}
