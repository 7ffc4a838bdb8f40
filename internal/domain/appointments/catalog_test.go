package appointments

import (
	"errors"
	"testing"
)

func TestDurationFor_CatalogValues(t *testing.T) {
	cases := []struct {
		typ  AppointmentType
		want int
	}{
		{TypeCheckup, 30},
		{TypeVaccination, 15},
		{TypeEmergency, 60},
		{TypeSurgery, 45},
		{TypeConsultation, 30},
		{TypeDental, 45},
		{TypeGrooming, 60},
	}

	for _, c := range cases {
		got, err := DurationFor(c.typ)
		if err != nil {
			t.Fatalf("DurationFor(%s) error: %v", c.typ, err)
		}
		if got != c.want {
			t.Fatalf("DurationFor(%s) = %d, want %d", c.typ, got, c.want)
		}
	}
}

func TestDurationFor_UnknownType(t *testing.T) {
	_, err := DurationFor(AppointmentType("acupuncture"))
	if err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}

	if KnownType(AppointmentType("acupuncture")) {
		t.Fatalf("expected acupuncture to be unknown")
	}
}
