package markup

// Notes:
// - Format is literal-pattern based; nested emphasis like "***x***" is
//   covered only for the documented bold-then-italic order.
// - Idempotence is asserted for Normalize only. Format is not idempotent by
//   design of its escaping step and is never applied twice to the same text.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNormalize - chemical notation
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "two CO2 tokens",
			input: "CO2 storage in CO2 reservoirs",
			want:  "CO<sub>2</sub> storage in CO<sub>2</sub> reservoirs",
		},
		{
			name:  "case sensitive",
			input: "co2 and Co2 stay as they are",
			want:  "co2 and Co2 stay as they are",
		},
		{
			name:  "unicode subscript form",
			input: "CO₂ sequestration",
			want:  "CO<sub>2</sub> sequestration",
		},
		{
			name:  "adjacent tokens",
			input: "CO2CO2",
			want:  "CO<sub>2</sub>CO<sub>2</sub>",
		},
		{
			name:  "other formulas",
			input: "CH4, H2O and H2S",
			want:  "CH<sub>4</sub>, H<sub>2</sub>O and H<sub>2</sub>S",
		},
		{
			name:  "no notation",
			input: "porosity and permeability",
			want:  "porosity and permeability",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"CO2 storage in CO2 reservoirs",
		"CO₂ and CH4 in H2O",
		"CO<sub>2</sub> already normalized",
		"nothing to do",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
		if strings.Contains(once, "CO2") {
			t.Errorf("Normalize(%q) = %q still contains the literal token", in, once)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFormat - inline markdown
// ---------------------------------------------------------------------------

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bold",
			input: "Hello **world**.",
			want:  "Hello <strong>world</strong>.",
		},
		{
			name:  "italic",
			input: "an *important* note",
			want:  "an <i>important</i> note",
		},
		{
			name:  "code",
			input: "run `make all` first",
			want:  "run <code>make all</code> first",
		},
		{
			name:  "bold before italic",
			input: "**a** and *b*",
			want:  "<strong>a</strong> and <i>b</i>",
		},
		{
			name:  "notation inside bold",
			input: "**CO2 plume**",
			want:  "<strong>CO<sub>2</sub> plume</strong>",
		},
		{
			name:  "html is escaped",
			input: "porosity < 10% & k > 1 mD",
			want:  "porosity &lt; 10% &amp; k &gt; 1 mD",
		},
		{
			name:  "pre-normalized text keeps its markup",
			input: "CO<sub>2</sub> injection",
			want:  "CO<sub>2</sub> injection",
		},
		{
			name:  "unterminated bold left alone",
			input: "**dangling",
			want:  "<i></i>dangling",
		},
		{
			name:  "plain",
			input: "plain text",
			want:  "plain text",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Format(tt.input); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPlainText - lossless text round trip
// ---------------------------------------------------------------------------

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Hello **world**.", "Hello world."},
		{"run `make` now", "run make now"},
		{"k < 1 & phi > 0.2", "k < 1 & phi > 0.2"},
		{"CO2 in *brine*", "CO2 in brine"},
	}

	for _, tt := range tests {
		got := PlainText(Format(tt.input))
		if got != tt.want {
			t.Errorf("PlainText(Format(%q)) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
