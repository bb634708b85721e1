package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestExtractLink(t *testing.T) {
	tests := []struct {
		name      string
		fragment  string
		wantURL   string
		wantLabel string
		wantOK    bool
	}{
		{"double quoted", `<a href="https://x/y">label</a>`, "https://x/y", "label", true},
		{"single quoted", `<a href='https://x/y'>label</a>`, "https://x/y", "label", true},
		{"with prefix", `🗄 <a href="https://github.com/org/repo">repo</a>`, "https://github.com/org/repo", "repo", true},
		{"no link", "No repo", "", "No repo", false},
		{"empty", "", "", "", false},
		{"unterminated", `<a href="https://x">label`, "https://x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, label, ok := ExtractLink(tt.fragment)
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Fix crash", "Fix crash"},
		{"spoiler", `a <span class="tg-spoiler">secret</span> b`, "a secret b"},
		{"entities", "say &quot;hi&quot; &#x27;there&#x27;", `say "hi" 'there'`},
		{"newline inside bold", "<b>title\n</b>comment", "<b>title</b>\ncomment"},
		{"nested closings", "<b><i>title\n</i></b>rest", "<b><i>title</i></b>\nrest"},
		{"double newline", "<code>x\n\n</code>y", "<code>x</code>\n\ny"},
		{"pre block", "<pre>line1\nline2</pre>", "```line1\nline2\n```"},
		{"pre with language", `<pre><code class="language-go">x := 1</code></pre>`, "```go\nx := 1\n```"},
		{"amp kept", "a &amp;quot; b", "a &amp;quot; b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Fix crash",
		"<b>a\n</b>\n<i>b\n\n</i>",
		`<span class="tg-spoiler">x
</span>`,
		"&quot;&#x27;&#34;&#39;&amp;",
		"<pre>a\n</pre>\n<pre>b</pre>",
		`<pre><code class="language-py">print(1)
</code></pre>`,
		"<a href=\"u\">l\n</a><s>\n</s><u>x\n</u>",
		"&&quot;quot;",
		"```\ncode\n```",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestInlineCodeToFenced(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"inline", "run <code>go test</code> now", "run `go test` now"},
		{"multiline", "see <code>a\nb</code>", "see ```\na\nb\n```"},
		{"mixed", "<code>x</code> and <code>y\nz</code>", "`x` and ```\ny\nz\n```"},
		{"none", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InlineCodeToFenced(tt.in))
		})
	}
}
