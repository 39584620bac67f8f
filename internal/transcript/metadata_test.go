package transcript

import "testing"

func TestParseISO8601Duration(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"PT45S", 45},
		{"PT3M33S", 213},
		{"PT2H", 7200},
		{"PT1H2M3S", 3723},
		{"P1DT2H", 93600},
		{"P0D", 0},
	}

	for _, tt := range tests {
		got, ok := parseISO8601Duration(tt.input)
		if !ok {
			t.Errorf("parseISO8601Duration(%q) not parseable", tt.input)
			continue
		}
		if got != tt.want {
			t.Errorf("parseISO8601Duration(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseISO8601DurationInvalid(t *testing.T) {
	for _, input := range []string{"", "1H2M", "213", "PTxS", "T1H"} {
		if got, ok := parseISO8601Duration(input); ok {
			t.Errorf("parseISO8601Duration(%q) = %d, want failure", input, got)
		}
	}
}
