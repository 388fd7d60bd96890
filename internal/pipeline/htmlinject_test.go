package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no escape needed", input: "body { color: red; }", expected: "body { color: red; }"},
		{name: "escapes style close", input: "</style>", expected: `<\/style>`},
		{name: "multiple occurrences", input: "</a></b>", expected: `<\/a><\/b>`},
		{name: "case variation", input: "</STYLE>", expected: `<\/STYLE>`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	injector := &CSSInjection{}
	css := "p { margin: 0; }"

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "before head close",
			html:     "<html><head><title>T</title></head><body></body></html>",
			css:      css,
			expected: "<html><head><title>T</title><style>p { margin: 0; }</style></head><body></body></html>",
		},
		{
			name:     "uppercase head",
			html:     "<HTML><HEAD></HEAD><BODY></BODY></HTML>",
			css:      css,
			expected: "<HTML><HEAD><style>p { margin: 0; }</style></HEAD><BODY></BODY></HTML>",
		},
		{
			name:     "after body open when no head",
			html:     `<body class="x"><p>a</p></body>`,
			css:      css,
			expected: `<body class="x"><style>p { margin: 0; }</style><p>a</p></body>`,
		},
		{
			name:     "prepend as fallback",
			html:     "<p>a</p>",
			css:      css,
			expected: "<style>p { margin: 0; }</style><p>a</p>",
		},
		{
			name:     "empty css is a no-op",
			html:     "<p>a</p>",
			css:      "",
			expected: "<p>a</p>",
		},
		{
			name:     "style close is escaped",
			html:     "<p>a</p>",
			css:      "</style><script>",
			expected: `<style><\/style><script></style><p>a</p>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := injector.InjectCSS(context.Background(), tt.html, tt.css); got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<html><head></head></html>"
	if got := (&CSSInjection{}).InjectCSS(ctx, html, "p {}"); got != html {
		t.Errorf("InjectCSS() with cancelled context = %q, want input unchanged", got)
	}
}

func TestInjectAppendix(t *testing.T) {
	t.Parallel()

	injector := NewAppendixInjection()
	doc := "<html><head></head><body><section></section></body></html>"

	t.Run("no sections is a no-op", func(t *testing.T) {
		t.Parallel()
		got, err := injector.InjectAppendix(context.Background(), doc, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != doc {
			t.Errorf("got %q, want input unchanged", got)
		}
	})

	t.Run("sections are lettered and escaped", func(t *testing.T) {
		t.Parallel()
		got, err := injector.InjectAppendix(context.Background(), doc, []AppendixSection{
			{Title: "Petrophysical <Analysis>", HTML: "<p>phi = 0.2</p>"},
			{Title: "Core Analysis", HTML: "<p>k = 250 mD</p>"},
		})
		if err != nil {
			t.Fatal(err)
		}

		for _, want := range []string{
			"Appendix A: Petrophysical &lt;Analysis&gt;",
			"Appendix B: Core Analysis",
			"<p>phi = 0.2</p>",
			`class="tpl-two_column appendix"`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if !strings.HasSuffix(got, "</section>\n</body></html>") {
			t.Errorf("appendix not inserted before </body>: %q", got)
		}

		o, err := Inspect(got)
		if err != nil {
			t.Fatal(err)
		}
		if o.Appendix != 2 {
			t.Errorf("appendix entries = %d, want 2", o.Appendix)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := injector.InjectAppendix(ctx, doc, []AppendixSection{{Title: "x"}})
		if err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestAppendixLetter(t *testing.T) {
	t.Parallel()

	for i, want := range map[int]string{0: "A", 1: "B", 25: "Z", 26: "27"} {
		if got := appendixLetter(i); got != want {
			t.Errorf("appendixLetter(%d) = %q, want %q", i, got, want)
		}
	}
}
