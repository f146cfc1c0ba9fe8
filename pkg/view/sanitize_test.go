package view

import "testing"

func TestSanitize(t *testing.T) {
	t.Run("EmptyInput", func(t *testing.T) {
		if got := Sanitize(""); got != "" {
			t.Errorf("Sanitize(\"\") = %q, want \"\"", got)
		}
	})

	t.Run("Fixture", func(t *testing.T) {
		in := "<div>\n\n\n\nHello   </div>   <span>"
		want := "<div>\n\nHello</div><span>"
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	})

	t.Run("OrdinaryCommentsRemoved", func(t *testing.T) {
		in := "before<!-- note -->after"
		if got := Sanitize(in); got != "beforeafter" {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, "beforeafter")
		}

		multiline := "a<!-- line one\nline two -->b"
		if got := Sanitize(multiline); got != "ab" {
			t.Errorf("multiline comment not removed: got %q", got)
		}
	})

	t.Run("ConditionalCommentsSurvive", func(t *testing.T) {
		in := `<!--[if IE]><p>old browser</p><![endif]-->`
		if got := Sanitize(in); got != in {
			t.Errorf("conditional comment altered: got %q, want %q", got, in)
		}
	})

	t.Run("InterTagWhitespaceCollapsed", func(t *testing.T) {
		in := "<ul> \n\t <li>x</li> \n </ul>"
		want := "<ul><li>x</li></ul>"
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	})

	t.Run("TrailingWhitespaceStripped", func(t *testing.T) {
		in := "line one   \nline two\t\t\n"
		want := "line one\nline two\n"
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	})

	t.Run("ExcessNewlinesCollapsed", func(t *testing.T) {
		in := "a\n\n\n\n\nb"
		want := "a\n\nb"
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		inputs := []string{
			"<div>\n\n\n\nHello   </div>   <span>",
			"before<!-- note -->after",
			"<ul> <li>x</li> </ul>\n\n\n\ntail   ",
			"plain text with no markup",
		}
		for _, in := range inputs {
			once := Sanitize(in)
			twice := Sanitize(once)
			if once != twice {
				t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
			}
		}
	})
}
