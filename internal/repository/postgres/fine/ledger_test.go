package fine

import (
	"testing"
	"time"

	"school/backend/internal/entity"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		fineAmount  int
		paidAmount  int
		wantPending int
		wantStatus  string
	}{
		{"nothing paid", 50, 0, 50, entity.FinePending},
		{"partial payment", 50, 30, 20, entity.FinePartiallyPaid},
		{"fully paid", 50, 50, 0, entity.FinePaid},
		{"overpaid clamps to zero", 50, 60, 0, entity.FinePaid},
		{"zero fine zero paid", 0, 0, 0, entity.FinePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending, status := derive(tt.fineAmount, tt.paidAmount)
			if pending != tt.wantPending {
				t.Errorf("pending = %d, want %d", pending, tt.wantPending)
			}
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
		})
	}
}

func newTestFine(fineAmount, paidAmount int) *entity.Fine {
	pending, status := derive(fineAmount, paidAmount)
	return &entity.Fine{
		FineAmount:    fineAmount,
		PaidAmount:    paidAmount,
		PendingAmount: pending,
		Status:        &status,
	}
}

func TestEnsureFineIsIdempotent(t *testing.T) {
	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	first, created := ensureFine(nil, 7, 11, 3, day)
	if !created {
		t.Fatal("expected a fine to be created when none exists")
	}
	if first.FineAmount != DefaultAmount || first.PaidAmount != 0 || first.PendingAmount != DefaultAmount {
		t.Errorf("fine amounts = %d/%d/%d, want %d/0/%d",
			first.FineAmount, first.PaidAmount, first.PendingAmount, DefaultAmount, DefaultAmount)
	}
	if *first.Status != entity.FinePending {
		t.Errorf("status = %q, want %q", *first.Status, entity.FinePending)
	}

	// A second pass over the same absence returns the fine as-is.
	second, created := ensureFine(&first, 7, 11, 3, day)
	if created {
		t.Error("expected no new fine for an absence that already carries one")
	}
	if second.FineAmount != first.FineAmount || second.PaidAmount != first.PaidAmount || second.PendingAmount != first.PendingAmount {
		t.Errorf("second pass changed amounts: %d/%d/%d", second.FineAmount, second.PaidAmount, second.PendingAmount)
	}

	// Still holds once money has moved on the fine.
	if err := applyPayment(&first, 20); err != nil {
		t.Fatalf("applyPayment: %v", err)
	}
	third, created := ensureFine(&first, 7, 11, 3, day)
	if created {
		t.Error("expected no new fine after a partial payment")
	}
	if third.PaidAmount != 20 || third.PendingAmount != DefaultAmount-20 {
		t.Errorf("third pass changed amounts: paid=%d pending=%d", third.PaidAmount, third.PendingAmount)
	}
	if *third.Status != entity.FinePartiallyPaid {
		t.Errorf("status = %q, want %q", *third.Status, entity.FinePartiallyPaid)
	}
}

func TestRealign(t *testing.T) {
	tests := []struct {
		name        string
		fineAmount  int
		paidAmount  int
		amount      int
		wantChanged bool
		wantPending int
		wantStatus  string
	}{
		{"same amount is a no-op", 50, 20, 50, false, 30, entity.FinePartiallyPaid},
		{"raise owed reopens pending", 50, 50, 75, true, 25, entity.FinePartiallyPaid},
		{"lower owed below paid settles", 50, 40, 30, true, 0, entity.FinePaid},
		{"raise owed with nothing paid", 50, 0, 100, true, 100, entity.FinePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFine(tt.fineAmount, tt.paidAmount)

			if changed := realign(f, tt.amount); changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if f.PaidAmount != tt.paidAmount {
				t.Errorf("paid = %d, want %d untouched", f.PaidAmount, tt.paidAmount)
			}
			if f.PendingAmount != tt.wantPending {
				t.Errorf("pending = %d, want %d", f.PendingAmount, tt.wantPending)
			}
			if *f.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", *f.Status, tt.wantStatus)
			}

			// A second pass with the same amount never reports a change,
			// so re-running a sync leaves the ledger exactly as it was.
			if realign(f, tt.amount) {
				t.Error("second realign to the same amount reported a change")
			}
		})
	}
}

func TestApplyPaymentRejectsInvalidAmounts(t *testing.T) {
	f := newTestFine(DefaultAmount, 0)

	if err := applyPayment(f, 0); err == nil {
		t.Error("expected error for zero amount")
	}
	if err := applyPayment(f, -10); err == nil {
		t.Error("expected error for negative amount")
	}
	if f.PaidAmount != 0 || f.PendingAmount != DefaultAmount {
		t.Errorf("fine mutated by rejected payment: paid=%d pending=%d", f.PaidAmount, f.PendingAmount)
	}
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	f := newTestFine(DefaultAmount, 30)

	if err := applyPayment(f, 21); err == nil {
		t.Error("expected error for payment exceeding pending amount")
	}
	if f.PaidAmount != 30 {
		t.Errorf("paid = %d, want 30", f.PaidAmount)
	}

	// Exactly the pending amount settles the fine.
	if err := applyPayment(f, 20); err != nil {
		t.Fatalf("applyPayment: %v", err)
	}
	if f.PendingAmount != 0 {
		t.Errorf("pending = %d, want 0", f.PendingAmount)
	}
	if *f.Status != entity.FinePaid {
		t.Errorf("status = %q, want %q", *f.Status, entity.FinePaid)
	}
}

func TestApplyPaymentRejectsSettledFine(t *testing.T) {
	f := newTestFine(DefaultAmount, DefaultAmount)

	if err := applyPayment(f, 1); err == nil {
		t.Error("expected error paying an already settled fine")
	}
}

func TestApplyPaymentSequence(t *testing.T) {
	f := newTestFine(DefaultAmount, 0)

	steps := []struct {
		amount      int
		wantPaid    int
		wantPending int
		wantStatus  string
	}{
		{30, 30, 20, entity.FinePartiallyPaid},
		{19, 49, 1, entity.FinePartiallyPaid},
		{1, 50, 0, entity.FinePaid},
	}

	for i, step := range steps {
		if err := applyPayment(f, step.amount); err != nil {
			t.Fatalf("step %d: applyPayment(%d): %v", i, step.amount, err)
		}
		if f.PaidAmount != step.wantPaid {
			t.Errorf("step %d: paid = %d, want %d", i, f.PaidAmount, step.wantPaid)
		}
		if f.PendingAmount != step.wantPending {
			t.Errorf("step %d: pending = %d, want %d", i, f.PendingAmount, step.wantPending)
		}
		if *f.Status != step.wantStatus {
			t.Errorf("step %d: status = %q, want %q", i, *f.Status, step.wantStatus)
		}
		// Conservation: owed is always paid plus pending.
		if f.PaidAmount+f.PendingAmount != f.FineAmount {
			t.Errorf("step %d: paid+pending = %d, want %d", i, f.PaidAmount+f.PendingAmount, f.FineAmount)
		}
	}
}
