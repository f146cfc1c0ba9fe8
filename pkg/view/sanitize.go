package view

import "regexp"

// The sanitization pipeline is a fixed, ordered sequence of text-rewrite
// passes applied exactly once to fully rendered output, at the outermost
// emit boundary. Each pass consumes the previous pass's entire output;
// order matters because later passes assume earlier ones already ran.
//
// The passes, in order:
//
//  1. Remove HTML comment blocks, except conditional comments
//     (those beginning with "<!--[if"), which must survive verbatim.
//  2. Collapse whitespace strictly between adjacent tag boundaries
//     ("greater-than, whitespace, less-than") to nothing.
//  3. Strip trailing horizontal whitespace: at the end of each line and
//     immediately before a closing tag.
//  4. Collapse three or more consecutive line breaks down to exactly two.
//
// All patterns are compiled once at package initialization.
var (
	reComment      = regexp.MustCompile(`(?s)<!--.*?-->`)
	reInterTag     = regexp.MustCompile(`>\s+<`)
	reTrailingWS   = regexp.MustCompile(`(?m)[ \t]+(</|$)`)
	reExtraNewline = regexp.MustCompile(`\n{3,}`)
)

// Sanitize runs text through the pipeline and returns the result. It is
// total and idempotent: empty input yields empty output, and a second
// application changes nothing. A pattern-engine panic degrades to an
// empty string rather than propagating; sanitization must never be the
// reason a page fails to render.
func Sanitize(text string) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	if text == "" {
		return ""
	}

	out = reComment.ReplaceAllStringFunc(text, stripComment)
	out = reInterTag.ReplaceAllString(out, "><")
	out = reTrailingWS.ReplaceAllString(out, "$1")
	out = reExtraNewline.ReplaceAllString(out, "\n\n")
	return out
}

// stripComment drops an HTML comment unless it is a downlevel conditional
// comment, which carries markup that must reach the client unchanged.
func stripComment(comment string) string {
	if len(comment) >= 7 && comment[:7] == "<!--[if" {
		return comment
	}
	return ""
}
