package date

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-07-15", "2024-07-15", false},
		{"2024-7-5", "2024-07-05", false},
		{"2024/07/15", "2024-07-15", false},
		{"2024.7.15", "2024-07-15", false},
		{"2024年7月15日", "2024-07-15", false},
		{"2024-07-15T00:00:00Z", "2024-07-15", false},
		{"7/15/2024", "2024-07-15", false},
		{" 2024-07-15 ", "2024-07-15", false},
		{"2024-02-30", "", true},
		{"6 個月", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if got := New(2024, 1, 32).String(); got != "2024-02-01" {
		t.Errorf("New(2024, 1, 32) = %s, want 2024-02-01", got)
	}
	if New(2025, 7, 31) != New(2025, 7, 31) {
		t.Error("same day gives different dates")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("2024/1/2"); got != "2024-01-02" {
		t.Errorf("Normalize() = %q", got)
	}
	if got := Normalize("at maturity"); got != "at maturity" {
		t.Errorf("Normalize() must keep non dates, got %q", got)
	}
}

func TestDaysUntil(t *testing.T) {
	from := New(2024, 1, 15)
	tests := []struct {
		to   Date
		want int
	}{
		{New(2024, 7, 15), 182},
		{New(2024, 1, 12), -3},
		{from, 0},
		{New(2025, 1, 15), 366},
	}
	for _, tt := range tests {
		if got := from.DaysUntil(tt.to); got != tt.want {
			t.Errorf("DaysUntil(%v) = %d, want %d", tt.to, got, tt.want)
		}
	}
}
