package services

import "testing"

func TestComputeInitials(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "first_and_last", in: "Luna Vega", want: "LV"},
		{name: "single_name", in: "luna", want: "L"},
		{name: "middle_names_skipped", in: "Luna Maria Vega", want: "LV"},
		{name: "surrounding_whitespace", in: "  luna vega  ", want: "LV"},
		{name: "empty", in: "", want: "?"},
		{name: "whitespace_only", in: "   ", want: "?"},
		{name: "unicode", in: "élodie moreau", want: "ÉM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := computeInitials(tc.in); got != tc.want {
				t.Fatalf("computeInitials(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
