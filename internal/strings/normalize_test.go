package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "spaces only", input: "   \t\n", want: ""},
		{name: "collapses runs", input: "  Buy\t\tmilk \n now ", want: "Buy milk now"},
		{name: "unicode", input: "更新  網站", want: "更新 網站"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := NormalizeNewlines("a\r\nb\rc"); got != "a\nb\nc" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTrimTrailingNewlines(t *testing.T) {
	if got := TrimTrailingNewlines("task\r\n\n"); got != "task" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTrimTrailingSlash(t *testing.T) {
	if got := TrimTrailingSlash("https://xyz.supabase.co//"); got != "https://xyz.supabase.co" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank(" \t\n") {
		t.Fatal("expected whitespace to be blank")
	}
	if IsBlank(" x ") {
		t.Fatal("expected text to be non-blank")
	}
}
