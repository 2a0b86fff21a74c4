package date

import (
	"testing"
	"time"
)

// TestTime asserts that time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2025-07-31", want: "2025-07-31"},
		{in: "2025-7-1", want: "2025-07-01"},
		{in: "not-a-date", wantErr: true},
		{in: "2025/07/31", wantErr: true},
	}
	for _, tc := range testCases {
		d, err := Parse(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): want error, got %v", tc.in, d)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got := d.String(); got != tc.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewNormalizes(t *testing.T) {
	// Day overflow rolls into the next month, like time.Date.
	d := New(2025, time.January, 32)
	if got := d.String(); got != "2025-02-01" {
		t.Errorf("New(2025, 1, 32) = %q, want 2025-02-01", got)
	}
}

func TestAdd(t *testing.T) {
	d := MustParse("2025-01-10")
	if got := d.Add(30).String(); got != "2025-02-09" {
		t.Errorf("Add(30) = %q, want 2025-02-09", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2024-02-29")
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip gave %v, want %v", back, d)
	}
}
