package prescription

import "testing"

func TestNormalizeDosage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty", raw: "", expected: ""},
		{name: "non digits only", raw: "a-b", expected: ""},
		{name: "one digit", raw: "1", expected: "1"},
		{name: "two digits", raw: "10", expected: "1-0"},
		{name: "three digits", raw: "105", expected: "1-0-5"},
		{name: "extra digits dropped", raw: "10523", expected: "1-0-5"},
		{name: "already formatted", raw: "1-0-1", expected: "1-0-1"},
		{name: "partial formatted", raw: "1-2", expected: "1-2"},
		{name: "digits with noise", raw: " 1x0 / 1 ", expected: "1-0-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDosage(tt.raw); got != tt.expected {
				t.Errorf("NormalizeDosage(%q) = %q, expected %q", tt.raw, got, tt.expected)
			}
		})
	}
}

// Reformatting must be idempotent: normalizing the digit projection of a
// normalized token yields the same token.
func TestNormalizeDosageIdempotent(t *testing.T) {
	inputs := []string{"", "1", "12", "123", "1-0-1", "9876", "0-0-0", "55"}

	for _, raw := range inputs {
		once := NormalizeDosage(raw)
		twice := NormalizeDosage(once)
		if once != twice {
			t.Errorf("NormalizeDosage not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

func TestCompleteDosage(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty stays empty", raw: "", expected: ""},
		{name: "one digit completed", raw: "1", expected: "1-0-0"},
		{name: "two digits completed", raw: "1-2", expected: "1-2-0"},
		{name: "full token unchanged", raw: "1-0-1", expected: "1-0-1"},
		{name: "raw three digits", raw: "101", expected: "1-0-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompleteDosage(tt.raw); got != tt.expected {
				t.Errorf("CompleteDosage(%q) = %q, expected %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestDosageOutputLength(t *testing.T) {
	for _, raw := range []string{"123456789", "1-2-3-4-5", "999999"} {
		if got := NormalizeDosage(raw); len(got) > 5 {
			t.Errorf("NormalizeDosage(%q) = %q exceeds 5 characters", raw, got)
		}
	}
}
