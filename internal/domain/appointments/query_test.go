package appointments

import "testing"

func TestCountsFor_ProjectsStatusAndType(t *testing.T) {
	items := []Appointment{
		{Status: StatusPending, Type: TypeCheckup},
		{Status: StatusConfirmed, Type: TypeCheckup},
		{Status: StatusConfirmed, Type: TypeSurgery},
		{Status: StatusCompleted, Type: TypeGrooming},
		{Status: StatusCancelled, Type: TypeDental},
	}

	c := CountsFor(items)

	if c.Total != 5 {
		t.Fatalf("Total = %d", c.Total)
	}
	if c.Pending != 1 || c.Confirmed != 2 || c.Completed != 1 || c.Cancelled != 1 {
		t.Fatalf("status counts wrong: %+v", c)
	}
	if c.ByType[TypeCheckup] != 2 || c.ByType[TypeSurgery] != 1 {
		t.Fatalf("by-type counts wrong: %+v", c.ByType)
	}
}

func TestCountsFor_EmptySequence(t *testing.T) {
	c := CountsFor(nil)
	if c.Total != 0 || len(c.ByType) != 0 {
		t.Fatalf("expected zero counts, got %+v", c)
	}
}

func TestListFilter_Matches_Conjunction(t *testing.T) {
	a := Appointment{PetID: "pet-1", Type: TypeCheckup, Status: StatusPending}

	st := StatusPending
	typ := TypeCheckup

	cases := []struct {
		name   string
		filter ListFilter
		want   bool
	}{
		{"empty filter matches", ListFilter{}, true},
		{"all fields match", ListFilter{Status: &st, Type: &typ, PetID: "pet-1"}, true},
		{"wrong pet", ListFilter{Status: &st, PetID: "pet-2"}, false},
		{"wrong type", func() ListFilter { g := TypeGrooming; return ListFilter{Type: &g} }(), false},
		{"wrong status", func() ListFilter { c := StatusCancelled; return ListFilter{Status: &c} }(), false},
	}

	for _, c := range cases {
		if got := c.filter.Matches(a); got != c.want {
			t.Fatalf("%s: Matches = %v, want %v", c.name, got, c.want)
		}
	}
}
