package attendance

import (
	"time"

	"school/backend/internal/entity"

	"github.com/Azure/go-autorest/autorest/date"
)

// MarkRecord is one student's mark inside a single or bulk request.
// Remarks and check in/out times are preserve-on-empty: a field that is
// omitted or sent as an empty string keeps the previously stored value.
type MarkRecord struct {
	StudentID    *int    `json:"student_id" form:"student_id"`
	Status       *string `json:"status" form:"status"`
	Remarks      *string `json:"remarks" form:"remarks"`
	CheckInTime  *string `json:"check_in_time" form:"check_in_time"`
	CheckOutTime *string `json:"check_out_time" form:"check_out_time"`
}

type MarkOneRequest struct {
	ClassID      *int       `json:"class_id" form:"class_id"`
	StudentID    *int       `json:"student_id" form:"student_id"`
	Date         *date.Date `json:"date" form:"date"`
	Status       *string    `json:"status" form:"status"`
	Remarks      *string    `json:"remarks" form:"remarks"`
	CheckInTime  *string    `json:"check_in_time" form:"check_in_time"`
	CheckOutTime *string    `json:"check_out_time" form:"check_out_time"`
}

type MarkOneResponse struct {
	Attendance entity.Attendance `json:"attendance"`
	Created    bool              `json:"-"`
}

type MarkBulkRequest struct {
	ClassID *int         `json:"class_id" form:"class_id"`
	Date    *date.Date   `json:"date" form:"date"`
	Records []MarkRecord `json:"records" form:"records"`
}

type FailedRecord struct {
	StudentID *int   `json:"student_id"`
	Reason    string `json:"reason"`
}

type MarkBulkResponse struct {
	Success []int          `json:"success"`
	Updated []int          `json:"updated"`
	Failed  []FailedRecord `json:"failed"`
}

type UpdateRequest struct {
	ID           int     `json:"-"`
	Status       *string `json:"status" form:"status"`
	Remarks      *string `json:"remarks" form:"remarks"`
	CheckInTime  *string `json:"check_in_time" form:"check_in_time"`
	CheckOutTime *string `json:"check_out_time" form:"check_out_time"`
}

type HistoryFilter struct {
	ClassID   *int
	StartDate *date.Date
	EndDate   *date.Date
}

type ClassListRow struct {
	StudentID    int       `json:"student_id"`
	StudentName  *string   `json:"student_name"`
	Udise        *string   `json:"student_udise"`
	EPunjabID    *string   `json:"student_e_punjab_id"`
	StudentImg   *string   `json:"student_img"`
	AttendanceID *int      `json:"attendance_id"`
	Status       string    `json:"status"`
	Remarks      *string   `json:"remarks"`
	CheckInTime  *string   `json:"check_in_time"`
	CheckOutTime *string   `json:"check_out_time"`
	TakenBy      *int      `json:"taken_by"`
	Date         time.Time `json:"-"`
}

type ClassListResponse struct {
	ClassID       int            `json:"class_id"`
	Date          string         `json:"date"`
	Attendance    []ClassListRow `json:"attendance"`
	TotalStudents int            `json:"total_students"`
}

type HistoryStats struct {
	Total                int     `json:"total"`
	Present              int     `json:"present"`
	Absent               int     `json:"absent"`
	Leave                int     `json:"leave"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

type StudentHistoryResponse struct {
	Attendance []entity.Attendance `json:"attendance"`
	Stats      HistoryStats        `json:"stats"`
}

type ReportRow struct {
	StudentID            int      `json:"student_id"`
	StudentName          *string  `json:"student_name"`
	Udise                *string  `json:"student_udise"`
	TotalDays            int      `json:"total_days"`
	Present              int      `json:"present"`
	Absent               int      `json:"absent"`
	Leave                int      `json:"leave"`
	AttendancePercentage float64  `json:"attendance_percentage"`
}

type ReportResponse struct {
	ClassID int         `json:"class_id"`
	Month   int         `json:"month"`
	Year    int         `json:"year"`
	Report  []ReportRow `json:"report"`
}
