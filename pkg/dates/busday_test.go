package dates

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddBusinessDays_ZeroReturnsStart(t *testing.T) {
	start := date(2026, time.February, 26)
	got := AddBusinessDays(start, 0, nil)
	if !got.Equal(start) {
		t.Errorf("got %v, want start unchanged", got)
	}
}

func TestAddBusinessDays_SkipsWeekend(t *testing.T) {
	// 2026-02-27 is a Friday; one business day later is Monday.
	friday := date(2026, time.February, 27)
	got := AddBusinessDays(friday, 1, nil)
	want := date(2026, time.March, 2)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddBusinessDays_SkipsHoliday(t *testing.T) {
	friday := date(2026, time.February, 27)
	isHoliday := func(d time.Time) bool {
		return d.Equal(date(2026, time.March, 2)) // Monday is a holiday
	}
	got := AddBusinessDays(friday, 1, isHoliday)
	want := date(2026, time.March, 3)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddBusinessDays_SpanOfThree(t *testing.T) {
	// Thursday + 3 business days: Fri, Mon, Tue.
	thursday := date(2026, time.February, 26)
	got := AddBusinessDays(thursday, 3, nil)
	want := date(2026, time.March, 3)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseStored(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2026-02-26", true, date(2026, time.February, 26)},
		{"2026/02/26", true, date(2026, time.February, 26)},
		{"  2026-02-26  ", true, date(2026, time.February, 26)},
		{"", false, time.Time{}},
		{"tomorrow", false, time.Time{}},
		{"26-02-2026", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := ParseStored(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseStored(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseStored(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
