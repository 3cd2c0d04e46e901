package fine

import (
	"time"

	"school/backend/internal/entity"

	"github.com/pkg/errors"
)

// DefaultAmount is the fixed per-absence penalty in rupees.
const DefaultAmount = 50

// derive recomputes the pending amount and status from the owed and paid
// amounts. It is the only place either value is calculated: pending and
// status are never set directly anywhere else.
func derive(fineAmount, paidAmount int) (pending int, status string) {
	pending = fineAmount - paidAmount
	if pending < 0 {
		pending = 0
	}

	switch {
	case paidAmount == 0:
		status = entity.FinePending
	case paidAmount < fineAmount:
		status = entity.FinePartiallyPaid
	default:
		status = entity.FinePaid
	}

	return pending, status
}

// ensureFine is the idempotent core of fine accrual: an existing fine for
// the absence is returned unchanged, otherwise a fresh default fine is
// built. created reports which.
func ensureFine(existing *entity.Fine, attendanceID, studentID, classID int, day time.Time) (fine entity.Fine, created bool) {
	if existing != nil {
		return *existing, false
	}

	status := entity.FinePending
	remarks := "Fine for absent day"

	fine = entity.Fine{
		StudentID:     &studentID,
		ClassID:       &classID,
		AttendanceID:  &attendanceID,
		Date:          day,
		FineAmount:    DefaultAmount,
		PaidAmount:    0,
		PendingAmount: DefaultAmount,
		Status:        &status,
		Remarks:       &remarks,
	}
	fine.CreatedAt = time.Now()

	return fine, true
}

// realign resets the owed amount of a fine and re-derives pending and
// status from it, leaving the paid amount and payment history untouched.
// It reports whether the fine changed; realigning to the current amount
// is a no-op, so a repeated pass leaves the ledger as it was.
func realign(f *entity.Fine, amount int) bool {
	if f.FineAmount == amount {
		return false
	}

	f.FineAmount = amount
	pending, status := derive(f.FineAmount, f.PaidAmount)
	f.PendingAmount = pending
	f.Status = &status

	return true
}

// applyPayment validates amount against the fine's current state and, on
// success, mutates the fine in place (paid, pending and status).
func applyPayment(f *entity.Fine, amount int) error {
	if amount <= 0 {
		return errors.New("payment amount must be greater than 0")
	}
	if f.Status != nil && *f.Status == entity.FinePaid {
		return errors.New("fine is already fully paid")
	}
	if amount > f.PendingAmount {
		return errors.Errorf("payment amount (Rs.%d) exceeds pending amount (Rs.%d)", amount, f.PendingAmount)
	}

	f.PaidAmount += amount
	pending, status := derive(f.FineAmount, f.PaidAmount)
	f.PendingAmount = pending
	f.Status = &status

	return nil
}
