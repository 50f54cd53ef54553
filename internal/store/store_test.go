package store

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Main Stage", want: "main-stage"},
		{name: "punctuation", in: "Shpongle & Ott!", want: "shpongle-ott"},
		{name: "trim", in: "  The Orb  ", want: "the-orb"},
		{name: "unicode collapses", in: "Café del Mar", want: "caf-del-mar"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
