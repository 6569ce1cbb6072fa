package announce

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"20250219", "2025-02-19"},
		{"2025/02/19", "2025-02-19"},
		{"2025.02.19", "2025-02-19"},
		{"2025-02-19", "2025-02-19"},
		{"2025-02-19 10:30", "2025-02-191030"}, // malformed passthrough after strip
		{"", ""},
		{"n/a", ""},
		{"19th Feb", "19"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRentalTypeLabel(t *testing.T) {
	if got := RentalTypeLabel("04"); got != "행복주택" {
		t.Fatalf("RentalTypeLabel(04) = %q", got)
	}
	if got := RentalTypeLabel("99"); got != "99" {
		t.Fatalf("unknown code should pass through, got %q", got)
	}
	if got := RentalTypeLabel(""); got != "" {
		t.Fatalf("empty code should stay empty, got %q", got)
	}
}
