package attendance

import (
	"testing"
	"time"

	"school/backend/internal/entity"
)

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"midday utc",
			time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC),
			time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			"already midnight",
			time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			"east of utc rolls back a day",
			time.Date(2025, 3, 15, 3, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)),
			time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			"west of utc rolls forward a day",
			time.Date(2025, 3, 14, 22, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDay(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("NormalizeDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("NormalizeDay(%v) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestShouldAccrue(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		next     *string
		want     bool
	}{
		{"present to absent", entity.StatusPresent, strptr(entity.StatusAbsent), true},
		{"leave to absent", entity.StatusLeave, strptr(entity.StatusAbsent), true},
		{"unmarked to absent", "", strptr(entity.StatusAbsent), true},
		{"absent to absent", entity.StatusAbsent, strptr(entity.StatusAbsent), false},
		{"absent to present keeps the fine", entity.StatusAbsent, strptr(entity.StatusPresent), false},
		{"absent to leave keeps the fine", entity.StatusAbsent, strptr(entity.StatusLeave), false},
		{"present to leave", entity.StatusPresent, strptr(entity.StatusLeave), false},
		{"status untouched", entity.StatusAbsent, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldAccrue(tt.previous, tt.next); got != tt.want {
				t.Errorf("shouldAccrue(%q, %v) = %v, want %v", tt.previous, tt.next, got, tt.want)
			}
		})
	}
}

func TestMergePreservesOnEmpty(t *testing.T) {
	existing := entity.Attendance{
		Status:       strptr(entity.StatusPresent),
		Remarks:      strptr("had a doctor's note"),
		CheckInTime:  strptr("08:30"),
		CheckOutTime: strptr("14:00"),
	}

	merge(&existing, MarkRecord{
		StudentID: intptr(7),
		Status:    strptr(entity.StatusAbsent),
		Remarks:   strptr(""),
	}, 99)

	if *existing.Status != entity.StatusAbsent {
		t.Errorf("status = %q, want %q", *existing.Status, entity.StatusAbsent)
	}
	if *existing.TakenBy != 99 {
		t.Errorf("taken_by = %d, want 99", *existing.TakenBy)
	}
	if *existing.Remarks != "had a doctor's note" {
		t.Errorf("empty remarks overwrote prior value: %q", *existing.Remarks)
	}
	if *existing.CheckInTime != "08:30" {
		t.Errorf("unset check_in_time overwrote prior value: %q", *existing.CheckInTime)
	}
	if *existing.FineAmount != legacyFineAmount(entity.StatusAbsent) {
		t.Errorf("fine_amount = %d, want %d", *existing.FineAmount, legacyFineAmount(entity.StatusAbsent))
	}
}

func TestMergeOverwritesWithNonEmpty(t *testing.T) {
	existing := entity.Attendance{
		Status:  strptr(entity.StatusAbsent),
		Remarks: strptr("old"),
	}

	merge(&existing, MarkRecord{
		StudentID: intptr(7),
		Status:    strptr(entity.StatusPresent),
		Remarks:   strptr("came in late"),
	}, 5)

	if *existing.Remarks != "came in late" {
		t.Errorf("remarks = %q, want %q", *existing.Remarks, "came in late")
	}
	if *existing.FineAmount != 0 {
		t.Errorf("fine_amount = %d, want 0 for present", *existing.FineAmount)
	}
	if existing.FinePaid == nil || *existing.FinePaid {
		t.Error("fine_paid should reset to false when no fine is owed")
	}
}

func TestPartitionBulkIsolatesFailures(t *testing.T) {
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	roster := map[int]struct{}{1: {}, 2: {}, 3: {}}
	existing := map[int]entity.Attendance{
		2: {Status: strptr(entity.StatusPresent)},
	}

	records := []MarkRecord{
		{StudentID: intptr(1), Status: strptr(entity.StatusPresent)},
		{StudentID: intptr(2), Status: strptr(entity.StatusAbsent)},
		{StudentID: intptr(3), Status: strptr("sick")},
		{StudentID: intptr(4), Status: strptr(entity.StatusLeave)},
		{StudentID: nil, Status: strptr(entity.StatusPresent)},
	}

	inserts, updates, failed := partitionBulk(10, day, 99, records, roster, existing)

	if len(inserts) != 1 {
		t.Fatalf("inserts = %d, want 1", len(inserts))
	}
	if *inserts[0].StudentID != 1 {
		t.Errorf("insert student = %d, want 1", *inserts[0].StudentID)
	}
	if !inserts[0].Date.Equal(day) {
		t.Errorf("insert date = %v, want %v", inserts[0].Date, day)
	}

	if len(updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(updates))
	}
	if *updates[0].Status != entity.StatusAbsent {
		t.Errorf("update status = %q, want absent", *updates[0].Status)
	}

	if len(failed) != 3 {
		t.Fatalf("failed = %d, want 3", len(failed))
	}
	wantReasons := map[int]string{
		3: reasonInvalidStatus,
		4: reasonNotInClass,
	}
	for _, f := range failed {
		if f.StudentID == nil {
			if f.Reason != reasonMissingStudent {
				t.Errorf("nil student reason = %q, want %q", f.Reason, reasonMissingStudent)
			}
			continue
		}
		if want, ok := wantReasons[*f.StudentID]; !ok || f.Reason != want {
			t.Errorf("student %d reason = %q, want %q", *f.StudentID, f.Reason, want)
		}
	}
}

func TestCollectAbsentees(t *testing.T) {
	inserts := []entity.Attendance{
		{StudentID: intptr(1), Status: strptr(entity.StatusAbsent)},
		{StudentID: intptr(2), Status: strptr(entity.StatusPresent)},
	}
	updates := []entity.Attendance{
		{StudentID: intptr(3), Status: strptr(entity.StatusAbsent)},
		{StudentID: intptr(4), Status: strptr(entity.StatusLeave)},
	}

	absentees := collectAbsentees(inserts, updates)
	if len(absentees) != 2 {
		t.Fatalf("absentees = %d, want 2", len(absentees))
	}
	for _, a := range absentees {
		if *a.Status != entity.StatusAbsent {
			t.Errorf("collected non-absent student %d", *a.StudentID)
		}
	}
}

func TestLegacyFineAmount(t *testing.T) {
	if got := legacyFineAmount(entity.StatusAbsent); got == 0 {
		t.Error("absent should carry a fine amount")
	}
	if got := legacyFineAmount(entity.StatusPresent); got != 0 {
		t.Errorf("present fine = %d, want 0", got)
	}
	if got := legacyFineAmount(entity.StatusLeave); got != 0 {
		t.Errorf("leave fine = %d, want 0", got)
	}
}
