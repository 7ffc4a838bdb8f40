package appointments

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func validRequest() BookingRequest {
	return BookingRequest{
		PetID:  "pet-1",
		VetID:  "vet-1",
		Type:   TypeCheckup,
		Reason: "annual review",
		Date:   "2025-12-23",
		Time:   "10:00",
		Notes:  "bring vaccine card",
	}
}

func TestValidate_Valid_NormalizesPayload(t *testing.T) {
	n, errs := Validate(validRequest(), "owner-1", testNow)
	if len(errs) > 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	want := time.Date(2025, 12, 23, 10, 0, 0, 0, time.UTC)
	if !n.ScheduledAt.Equal(want) {
		t.Fatalf("ScheduledAt = %v, want %v", n.ScheduledAt, want)
	}
	if n.EstimatedDurationMinutes != 30 {
		t.Fatalf("EstimatedDurationMinutes = %d, want 30 (checkup)", n.EstimatedDurationMinutes)
	}
	if n.OwnerID != "owner-1" || n.PetID != "pet-1" || n.VetID != "vet-1" {
		t.Fatalf("ids not normalized: %+v", n)
	}
}

func TestValidate_DurationMatchesCatalog_ForEveryType(t *testing.T) {
	for typ, want := range typeDurations {
		req := validRequest()
		req.Type = typ

		n, errs := Validate(req, "owner-1", testNow)
		if len(errs) > 0 {
			t.Fatalf("type %s: expected no errors, got %v", typ, errs)
		}
		if n.EstimatedDurationMinutes != want {
			t.Fatalf("type %s: duration = %d, want %d", typ, n.EstimatedDurationMinutes, want)
		}
	}
}

func TestValidate_ReportsAllViolationsTogether(t *testing.T) {
	_, errs := Validate(BookingRequest{}, "owner-1", testNow)
	if len(errs) == 0 {
		t.Fatalf("expected errors for empty request")
	}

	wantCodes := map[string]bool{
		CodeMissingPet:           false,
		CodeMissingVeterinarian:  false,
		CodeMissingOrInvalidType: false,
		CodeMissingReason:        false,
		CodeMissingDateTime:      false,
	}
	for _, fe := range errs {
		if _, ok := wantCodes[fe.Code]; ok {
			wantCodes[fe.Code] = true
		}
	}
	for code, seen := range wantCodes {
		if !seen {
			t.Fatalf("expected %s among errors, got %v", code, errs)
		}
	}
}

func TestValidate_ReasonOnlyWhitespace(t *testing.T) {
	req := validRequest()
	req.Reason = "   "

	_, errs := Validate(req, "owner-1", testNow)
	if !hasCode(errs, CodeMissingReason) {
		t.Fatalf("expected MissingReason, got %v", errs)
	}
}

func TestValidate_UnknownType(t *testing.T) {
	req := validRequest()
	req.Type = AppointmentType("acupuncture")

	_, errs := Validate(req, "owner-1", testNow)
	if !hasCode(errs, CodeMissingOrInvalidType) {
		t.Fatalf("expected MissingOrInvalidType, got %v", errs)
	}
}

func TestValidate_DateNotInFuture(t *testing.T) {
	cases := []struct {
		name string
		date string
		time string
	}{
		{"past day", "2025-12-21", "10:00"},
		{"same instant", "2025-12-22", "10:00"},
		{"earlier same day", "2025-12-22", "09:59"},
	}

	for _, c := range cases {
		req := validRequest()
		req.Date = c.date
		req.Time = c.time

		_, errs := Validate(req, "owner-1", testNow)
		if !hasCode(errs, CodeDateNotInFuture) {
			t.Fatalf("%s: expected DateNotInFuture, got %v", c.name, errs)
		}
	}
}

func TestValidate_FutureSameDay_IsValid(t *testing.T) {
	req := validRequest()
	req.Date = "2025-12-22"
	req.Time = "10:01"

	_, errs := Validate(req, "owner-1", testNow)
	if len(errs) > 0 {
		t.Fatalf("expected no errors one minute in the future, got %v", errs)
	}
}

func TestValidate_UnparseableDateTime(t *testing.T) {
	req := validRequest()
	req.Date = "23/12/2025"

	_, errs := Validate(req, "owner-1", testNow)
	if !hasCode(errs, CodeMissingDateTime) {
		t.Fatalf("expected MissingDateTime for bad format, got %v", errs)
	}
}

func hasCode(errs ValidationErrors, code string) bool {
	for _, fe := range errs {
		if fe.Code == code {
			return true
		}
	}
	return false
}
