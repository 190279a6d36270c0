package lang

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		input string
		want  Language
	}{
		{"", Spanish},
		{"es", Spanish},
		{"spanish", Spanish},
		{"Spanish", Spanish},
		{"de", Spanish},
		{"klingon", Spanish},
		{"fr", French},
		{"FR", French},
		{"fr-FR", French},
		{"french", French},
		{"French", French},
		{"  FRENCH  ", French},
		{"learn french please", French},
		{"frijoles", Spanish},
	}
	for _, tc := range cases {
		if got := Normalize(tc.input); got != tc.want {
			t.Fatalf("Normalize(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if Spanish.DisplayName() != "Spanish" {
		t.Fatalf("unexpected display name for spanish")
	}
	if French.DisplayName() != "French" {
		t.Fatalf("unexpected display name for french")
	}
}
