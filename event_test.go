package intcap

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/intcap/intcap/date"
)

func TestCapitalizeValidation(t *testing.T) {
	l := NewLedger("EUR")
	on := date.New(2026, 1, 15)
	method := StraightLine{PerPeriod: eur(100), Floor: eur(0)}

	tests := []struct {
		name string
		ev   Capitalize
	}{
		{"nil asset id", NewCapitalize(uuid.Nil, on, "research", eur(1000), method, devRef("research"), "alice")},
		{"zero date", NewCapitalize(uuid.New(), date.Date{}, "research", eur(1000), method, devRef("research"), "alice")},
		{"empty unit", NewCapitalize(uuid.New(), on, "", eur(1000), method, devRef("research"), "alice")},
		{"zero value", NewCapitalize(uuid.New(), on, "research", eur(0), method, devRef("research"), "alice")},
		{"negative value", NewCapitalize(uuid.New(), on, "research", eur(-10), method, devRef("research"), "alice")},
		{"nil method", NewCapitalize(uuid.New(), on, "research", eur(1000), nil, devRef("research"), "alice")},
		{"floor above value", NewCapitalize(uuid.New(), on, "research", eur(100), StraightLine{PerPeriod: eur(10), Floor: eur(500)}, devRef("research"), "alice")},
		{"missing attribution", NewCapitalize(uuid.New(), on, "research", eur(1000), method, Attribution{}, "alice")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Append(tt.ev); !errors.Is(err, ErrValidation) {
				t.Errorf("append = %v, want ErrValidation", err)
			}
		})
	}

	// duplicate capitalization of the same asset id
	id := newTestAsset(t, l, 1000, 100)
	dup := NewCapitalize(id, on, "research", eur(500), method, devRef("research"), "alice")
	if _, err := l.Append(dup); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate capitalization = %v, want ErrValidation", err)
	}
}

func TestUtilizeValidation(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)

	// utilization before any allocation
	if _, err := l.Append(NewUtilize(id, date.New(2026, 1, 16), eur(10), devRef("research"), "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("utilize on capitalized asset = %v, want ErrValidation", err)
	}

	mustAppend(t, l, NewAllocate(id, date.New(2026, 1, 20), "research", eur(400), devRef("research"), "alice"))

	// beyond the available allocation
	if _, err := l.Append(NewUtilize(id, date.New(2026, 1, 21), eur(500), devRef("research"), "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("over-utilization = %v, want ErrValidation", err)
	}
	// wrong owner
	if _, err := l.Append(NewUtilize(id, date.New(2026, 1, 21), eur(100), devRef("sales"), "alice")); !errors.Is(err, ErrOwnership) {
		t.Errorf("wrong owner = %v, want ErrOwnership", err)
	}
	// unknown asset
	if _, err := l.Append(NewUtilize(uuid.New(), date.New(2026, 1, 21), eur(100), devRef("research"), "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown asset = %v, want ErrValidation", err)
	}

	// partial consumption, then the rest
	mustAppend(t, l, NewUtilize(id, date.New(2026, 1, 22), eur(250), devRef("research"), "alice"))
	mustAppend(t, l, NewUtilize(id, date.New(2026, 1, 23), eur(150), devRef("research"), "alice"))
	a, _ := l.Asset(id)
	if !a.Available().IsZero() {
		t.Errorf("available after full consumption = %s", a.Available())
	}
}

func TestDepreciateValidation(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)
	mustAppend(t, l, NewAllocate(id, date.New(2026, 1, 20), "research", eur(1000), devRef("research"), "alice"))
	mustAppend(t, l, NewUtilize(id, date.New(2026, 1, 25), eur(1000), devRef("research"), "alice"))

	january := date.NewRange(date.New(2026, 1, 31), date.Monthly)

	// inverted period
	bad := NewDepreciate(id, date.New(2026, 1, 31), eur(100), date.Range{From: date.New(2026, 1, 31), To: date.New(2026, 1, 1)}, "system")
	if _, err := l.Append(bad); !errors.Is(err, ErrValidation) {
		t.Errorf("inverted period = %v, want ErrValidation", err)
	}
	// crossing the floor in one entry
	if _, err := l.Append(NewDepreciate(id, date.New(2026, 1, 31), eur(5000), january, "system")); !errors.Is(err, ErrValidation) {
		t.Errorf("floor crossing = %v, want ErrValidation", err)
	}

	mustAppend(t, l, NewDepreciate(id, date.New(2026, 1, 31), eur(100), january, "system"))

	// the same period again
	if _, err := l.Append(NewDepreciate(id, date.New(2026, 1, 31), eur(100), january, "system")); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate period = %v, want ErrValidation", err)
	}
}

func TestRetireValidation(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)

	// retirement needs a causal reference
	if _, err := l.Append(NewRetire(id, date.New(2026, 2, 1), eur(1000), Attribution{}, "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("reference-less retirement = %v, want ErrValidation", err)
	}
	// write-off must match the remaining book value exactly
	if _, err := l.Append(NewRetire(id, date.New(2026, 2, 1), eur(500), devRef("research"), "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("partial write-off = %v, want ErrValidation", err)
	}
	mustAppend(t, l, NewRetire(id, date.New(2026, 2, 1), eur(1000), devRef("research"), "alice"))

	// twice is refused
	if _, err := l.Append(NewRetire(id, date.New(2026, 2, 2), eur(0), devRef("research"), "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("double retirement = %v, want ErrValidation", err)
	}
}

func TestReconcileValidation(t *testing.T) {
	l := NewLedger("EUR")
	id := newTestAsset(t, l, 1000, 100)

	// zero adjustment says nothing
	if _, err := l.Append(NewReconcile(id, date.New(2026, 2, 1), eur(0), []uint64{1}, "", "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("zero adjustment = %v, want ErrValidation", err)
	}
	// cannot push the book negative
	if _, err := l.Append(NewReconcile(id, date.New(2026, 2, 1), eur(-2000), []uint64{1}, "", "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("negative book = %v, want ErrValidation", err)
	}

	// referencing another asset's entry is refused
	other := uuid.New()
	mustAppend(t, l, NewCapitalize(other, date.New(2026, 2, 1), "ops", eur(500),
		StraightLine{PerPeriod: eur(50), Floor: eur(0)}, devRef("ops"), "bob"))
	if _, err := l.Append(NewReconcile(id, date.New(2026, 2, 2), eur(10), []uint64{2}, "", "alice")); !errors.Is(err, ErrValidation) {
		t.Errorf("foreign reference = %v, want ErrValidation", err)
	}

	// several references are fine
	mustAppend(t, l, NewAllocate(id, date.New(2026, 2, 3), "research", eur(100), devRef("research"), "alice"))
	if _, err := l.Append(NewReconcile(id, date.New(2026, 2, 4), eur(-50), []uint64{1, 3}, "adjust", "alice")); err != nil {
		t.Errorf("multi-reference reconcile: %v", err)
	}
}

func TestEventJSONShape(t *testing.T) {
	id := uuid.MustParse("7b2e98d2-4a7b-4bb1-9bff-000000000001")
	ev := NewCapitalize(id, date.New(2026, 1, 15), "research", eur(1000),
		StraightLine{PerPeriod: eur(100), Floor: eur(0)}, devRef("research"), "alice")

	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	for _, want := range []string{
		`"kind":"capitalize"`,
		`"asset":"7b2e98d2-4a7b-4bb1-9bff-000000000001"`,
		`"on":"2026-01-15"`,
		`"by":"alice"`,
		`"unit":"research"`,
		`"method":{"name":"straight-line"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("marshaled event misses %s:\n%s", want, s)
		}
	}
}
