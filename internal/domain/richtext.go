package domain

import (
	"regexp"
	"strings"
)

var (
	hrefPattern      = regexp.MustCompile(`href=['"]?([^'" >]+)`)
	linkLabelPattern = regexp.MustCompile(`>(.*?)</a>`)
	codeSpanPattern  = regexp.MustCompile(`<code>([\s\S]*?)</code>`)
	preLangPattern   = regexp.MustCompile(`<pre><code class="language-([^"]*)">`)
)

// ExtractLink returns the URL and label of the first hyperlink in fragment.
// When fragment holds no link, ok is false and label is fragment unchanged.
func ExtractLink(fragment string) (url, label string, ok bool) {
	m := hrefPattern.FindStringSubmatch(fragment)
	if m == nil {
		return "", fragment, false
	}
	url = m[1]
	if lm := linkLabelPattern.FindStringSubmatch(fragment); lm != nil {
		label = lm[1]
	}
	return url, label, true
}

// closingTags are the inline tags whose closing form may be preceded by a
// line break in chat markup.
var closingTags = []string{"</b>", "</i>", "</u>", "</s>", "</code>", "</a>", "</pre>"}

// Normalize cleans chat markup so that the card can be split by lines.
// Spoiler wrappers are dropped, quote entities are unescaped, line breaks
// are moved outside closing inline tags and preformatted blocks become
// fenced blocks. Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	text := raw
	for {
		next := normalizePass(text)
		if next == text {
			return text
		}
		text = next
	}
}

func normalizePass(text string) string {
	text = preLangPattern.ReplaceAllString(text, "<pre>$1\n")
	text = strings.ReplaceAll(text, "</code></pre>", "</pre>")

	text = strings.ReplaceAll(text, `<span class="tg-spoiler">`, "")
	text = strings.ReplaceAll(text, "<tg-spoiler>", "")
	text = strings.ReplaceAll(text, "</tg-spoiler>", "")
	text = strings.ReplaceAll(text, "</span>", "")

	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#x27;", "'")
	text = strings.ReplaceAll(text, "&#34;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")

	for _, tag := range closingTags {
		text = strings.ReplaceAll(text, "\n"+tag, tag+"\n")
	}

	text = strings.ReplaceAll(text, "<pre>", "```")
	text = strings.ReplaceAll(text, "</pre>", "\n```")
	return text
}

// InlineCodeToFenced rewrites code spans for the tracker body. Spans that
// hold a line break become fenced blocks, the rest become inline code.
func InlineCodeToFenced(text string) string {
	return codeSpanPattern.ReplaceAllStringFunc(text, func(span string) string {
		inner := codeSpanPattern.FindStringSubmatch(span)[1]
		if strings.Contains(inner, "\n") {
			return "```\n" + inner + "\n```"
		}
		return "`" + inner + "`"
	})
}
