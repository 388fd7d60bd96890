package markup

import (
	"regexp"
	"strings"
)

// Precompiled inline patterns. Substitution is literal-pattern based, so the
// order in Format matters: bold must run before italic or "**x**" would be
// consumed as two empty emphasis spans.
var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	codePattern   = regexp.MustCompile("`(.*?)`")

	inlineTagPattern = regexp.MustCompile(`</?(?:sub|strong|i|code)>`)
)

// textEscaper escapes the characters that are significant in HTML text nodes.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// tagRestorer reverts escaping of the inline tags this package emits, so that
// text normalized earlier in the pipeline keeps its markup.
var tagRestorer = strings.NewReplacer(
	"&lt;sub&gt;", "<sub>", "&lt;/sub&gt;", "</sub>",
	"&lt;strong&gt;", "<strong>", "&lt;/strong&gt;", "</strong>",
	"&lt;i&gt;", "<i>", "&lt;/i&gt;", "</i>",
	"&lt;code&gt;", "<code>", "&lt;/code&gt;", "</code>",
)

// textUnescaper is the inverse of textEscaper.
var textUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// Format converts one line of inline markdown to inline HTML.
// Steps, in order: escape HTML text, **bold**, *italic*, `code`, notation.
// Block markers (#, -, |) must already be stripped by the caller.
func Format(line string) string {
	s := Escape(line)
	s = boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicPattern.ReplaceAllString(s, "<i>$1</i>")
	s = codePattern.ReplaceAllString(s, "<code>$1</code>")
	return Normalize(s)
}

// Escape escapes HTML text while preserving the inline tags produced by
// Normalize and Format.
func Escape(s string) string {
	return tagRestorer.Replace(textEscaper.Replace(s))
}

// PlainText strips the inline tags produced by Format and unescapes the
// result. It is used to compare rendered text against its source.
func PlainText(s string) string {
	return textUnescaper.Replace(inlineTagPattern.ReplaceAllString(s, ""))
}
