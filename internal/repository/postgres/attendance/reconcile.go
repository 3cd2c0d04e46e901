package attendance

import (
	"time"

	"school/backend/internal/entity"
	"school/backend/internal/repository/postgres/fine"
)

// Failure reasons surfaced per record in a bulk mark.
const (
	reasonInvalidStatus  = "Invalid status. Must be: present, absent, or leave"
	reasonNotInClass     = "Student not found or does not belong to this class"
	reasonMissingStudent = "student_id is required"
)

// NormalizeDay truncates t to the start of its UTC calendar day. The
// normalized value is the comparison key for "already marked".
func NormalizeDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// legacyFineAmount keeps the attendance row's convenience fine column in
// step with the status, the way the fines table derives from absences.
func legacyFineAmount(status string) int {
	if status == entity.StatusAbsent {
		return fine.DefaultAmount
	}
	return 0
}

// shouldAccrue reports whether a status change bills a new fine. Accrual
// happens only on a transition into absent; leaving absent never retracts
// a fine already billed.
func shouldAccrue(previous string, next *string) bool {
	return next != nil && *next == entity.StatusAbsent && previous != entity.StatusAbsent
}

// merge overwrites status and taken_by unconditionally and the optional
// fields only when the incoming value is non-empty, so an unset field never
// erases prior data.
func merge(existing *entity.Attendance, rec MarkRecord, takenBy int) {
	existing.Status = rec.Status
	existing.TakenBy = &takenBy

	if rec.Remarks != nil && *rec.Remarks != "" {
		existing.Remarks = rec.Remarks
	}
	if rec.CheckInTime != nil && *rec.CheckInTime != "" {
		existing.CheckInTime = rec.CheckInTime
	}
	if rec.CheckOutTime != nil && *rec.CheckOutTime != "" {
		existing.CheckOutTime = rec.CheckOutTime
	}

	amount := legacyFineAmount(*rec.Status)
	existing.FineAmount = &amount
	if amount == 0 {
		paid := false
		existing.FinePaid = &paid
	}
}

// newRecord builds a fresh attendance row for a first-time mark.
func newRecord(classID int, day time.Time, rec MarkRecord, takenBy int) entity.Attendance {
	remarks := ""
	if rec.Remarks != nil {
		remarks = *rec.Remarks
	}
	amount := legacyFineAmount(*rec.Status)
	paid := false

	a := entity.Attendance{
		ClassID:      &classID,
		StudentID:    rec.StudentID,
		Date:         day,
		Status:       rec.Status,
		TakenBy:      &takenBy,
		Remarks:      &remarks,
		CheckInTime:  rec.CheckInTime,
		CheckOutTime: rec.CheckOutTime,
		FineAmount:   &amount,
		FinePaid:     &paid,
	}
	a.CreatedAt = time.Now()
	a.CreatedBy = &takenBy

	return a
}

// partitionBulk validates every record independently and splits the valid
// ones into an insert set (no attendance yet for the day) and an update set
// (existing attendance, merged preserve-on-empty). One record's failure
// never affects its siblings.
func partitionBulk(classID int, day time.Time, takenBy int, records []MarkRecord, roster map[int]struct{}, existing map[int]entity.Attendance) (inserts []entity.Attendance, updates []entity.Attendance, failed []FailedRecord) {
	for _, rec := range records {
		if rec.StudentID == nil {
			failed = append(failed, FailedRecord{StudentID: nil, Reason: reasonMissingStudent})
			continue
		}
		if rec.Status == nil || !entity.ValidAttendanceStatus(*rec.Status) {
			failed = append(failed, FailedRecord{StudentID: rec.StudentID, Reason: reasonInvalidStatus})
			continue
		}
		if _, ok := roster[*rec.StudentID]; !ok {
			failed = append(failed, FailedRecord{StudentID: rec.StudentID, Reason: reasonNotInClass})
			continue
		}

		if prior, ok := existing[*rec.StudentID]; ok {
			merge(&prior, rec, takenBy)
			updates = append(updates, prior)
			continue
		}

		inserts = append(inserts, newRecord(classID, day, rec, takenBy))
	}

	return inserts, updates, failed
}

// collectAbsentees walks both write sets after they have been persisted
// (so inserted rows carry their generated ids) and returns the records
// whose status is absent.
func collectAbsentees(inserts, updates []entity.Attendance) []entity.Attendance {
	var absentees []entity.Attendance
	for _, a := range updates {
		if a.Status != nil && *a.Status == entity.StatusAbsent {
			absentees = append(absentees, a)
		}
	}
	for _, a := range inserts {
		if a.Status != nil && *a.Status == entity.StatusAbsent {
			absentees = append(absentees, a)
		}
	}
	return absentees
}
