package utils

import "testing"

func TestDigitsOnly(t *testing.T) {
	cases := map[string]string{
		"(555) 123-4567":  "5551234567",
		"+1 555.123.4567": "15551234567",
		"":                "",
		"no digits":       "",
		"٣٤٥ 12":          "12",
	}
	for in, want := range cases {
		if got := DigitsOnly(in); got != want {
			t.Fatalf("DigitsOnly(%q) = %q, want %q", in, got, want)
		}
	}
}
