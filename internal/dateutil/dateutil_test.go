package dateutil

import (
	"testing"
	"time"
)

func TestParsePublished(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		wantOK   bool
		wantYear int
	}{
		{name: "RFC3339", value: "2023-06-15T10:30:00Z", wantOK: true, wantYear: 2023},
		{name: "datetime without zone", value: "2023-06-15 10:30:00", wantOK: true, wantYear: 2023},
		{name: "date only", value: "2023-06-15", wantOK: true, wantYear: 2023},
		{name: "year and month", value: "2023-06", wantOK: true, wantYear: 2023},
		{name: "year only", value: "2023", wantOK: true, wantYear: 2023},
		{name: "surrounding whitespace", value: "  2023-06-15  ", wantOK: true, wantYear: 2023},
		{name: "empty string", value: "", wantOK: false},
		{name: "free text", value: "June 2023", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParsePublished(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ParsePublished(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got.Year() != tt.wantYear {
				t.Errorf("ParsePublished(%q) year = %d, want %d", tt.value, got.Year(), tt.wantYear)
			}
		})
	}
}

func TestYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "parseable date", value: "2023-06-15", want: "2023"},
		{name: "RFC3339", value: "2021-01-02T00:00:00Z", want: "2021"},
		{name: "unparseable with leading digits", value: "2019 (preprint)", want: "2019"},
		{name: "no digits", value: "unknown", want: ""},
		{name: "empty", value: "", want: ""},
		{name: "too few digits", value: "99", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Year(tt.value); got != tt.want {
				t.Errorf("Year(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestStampAndDisplay(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 7, 9, 5, 42, 0, time.UTC)

	if got, want := Stamp(ts), "20240307_090542"; got != want {
		t.Errorf("Stamp() = %q, want %q", got, want)
	}
	if got, want := Display(ts), "2024-03-07 09:05:42"; got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
	if got, want := DisplayLong(ts), "March 7, 2024 at 09:05"; got != want {
		t.Errorf("DisplayLong() = %q, want %q", got, want)
	}
}
