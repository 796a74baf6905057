package finbook

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_ParseAndString(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"2025-01-10", "2025-01-10"},
		{"2025-1-2", "2025-01-02"}, // permissive read, canonical write
	}
	for _, tc := range testCases {
		d, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q) failed: %v", tc.in, err)
		}
		if d.String() != tc.want {
			t.Errorf("ParseDate(%q).String() = %q, want %q", tc.in, d.String(), tc.want)
		}
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2025, time.January, 10)
	b := NewDate(2025, time.January, 11)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before is wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After is wrong")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a day is neither before nor after itself")
	}
}

func TestDate_AddNormalizes(t *testing.T) {
	d := NewDate(2025, time.January, 31).Add(1)
	if d.String() != "2025-02-01" {
		t.Errorf("Jan 31 + 1 = %s, want 2025-02-01", d)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := MustParseDate("2025-06-15")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2025-06-15"` {
		t.Errorf("marshaled to %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip %s != %s", back, d)
	}
}
