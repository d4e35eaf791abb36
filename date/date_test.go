package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2026-01-15", New(2026, time.January, 15)},
		{"2026-1-15", New(2026, time.January, 15)},
		{"2025-12-31", New(2025, time.December, 31)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := Parse("not-a-date"); err == nil {
		t.Error("Parse accepted garbage")
	}
}

func TestStartEndOf(t *testing.T) {
	d := New(2026, time.August, 19) // a Wednesday

	tests := []struct {
		period     Period
		start, end Date
	}{
		{Daily, d, d},
		{Weekly, New(2026, time.August, 17), New(2026, time.August, 23)},
		{Monthly, New(2026, time.August, 1), New(2026, time.August, 31)},
		{Quarterly, New(2026, time.July, 1), New(2026, time.September, 30)},
		{Yearly, New(2026, time.January, 1), New(2026, time.December, 31)},
	}
	for _, tt := range tests {
		if got := d.StartOf(tt.period); got != tt.start {
			t.Errorf("StartOf(%s) = %s, want %s", tt.period, got, tt.start)
		}
		if got := d.EndOf(tt.period); got != tt.end {
			t.Errorf("EndOf(%s) = %s, want %s", tt.period, got, tt.end)
		}
	}
}

func TestAddNormalizes(t *testing.T) {
	if got := New(2026, time.January, 31).Add(1); got != New(2026, time.February, 1) {
		t.Errorf("Jan 31 + 1 = %s", got)
	}
	if got := New(2026, time.March, 1).Add(-1); got != New(2026, time.February, 28) {
		t.Errorf("Mar 1 - 1 = %s", got)
	}
}

func TestRangeOverlaps(t *testing.T) {
	january := NewRange(New(2026, time.January, 10), Monthly)
	february := NewRange(New(2026, time.February, 10), Monthly)

	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{"disjoint months", january, february, false},
		{"same range", january, january, true},
		{"straddling", january, Range{From: New(2026, time.January, 20), To: New(2026, time.February, 10)}, true},
		{"touching boundary", january, Range{From: New(2026, time.January, 31), To: New(2026, time.February, 5)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps is not symmetric")
			}
		})
	}
}

func TestRangeIdentifier(t *testing.T) {
	tests := []struct {
		r    Range
		want string
	}{
		{NewRange(New(2026, time.August, 19), Monthly), "2026-08"},
		{NewRange(New(2026, time.August, 19), Quarterly), "2026-Q3"},
		{NewRange(New(2026, time.August, 19), Yearly), "2026"},
	}
	for _, tt := range tests {
		if got := tt.r.Identifier(); got != tt.want {
			t.Errorf("Identifier() = %q, want %q", got, tt.want)
		}
	}
}
