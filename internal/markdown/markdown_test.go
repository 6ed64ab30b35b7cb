package markdown

import (
	"strings"
	"testing"
)

func TestNotesToHTML_ColorsNumberedEscapes(t *testing.T) {
	html := string(NotesToHTML("Use ^1Blood Rage^7 for leech", Options{}))

	if !strings.Contains(html, `<span style="color:#FF0000">Blood Rage</span>`) {
		t.Fatalf("expected red span, got %s", html)
	}
	if !strings.Contains(html, `<span style="color:#FFFFFF"> for leech</span>`) {
		t.Fatalf("expected reset to white, got %s", html)
	}
	if !strings.HasPrefix(html, "<p>Use ") {
		t.Fatalf("expected leading text before first escape, got %s", html)
	}
}

func TestNotesToHTML_ColorsHexEscapes(t *testing.T) {
	html := string(NotesToHTML("^xe05030Leveling gems", Options{}))

	if !strings.Contains(html, `<span style="color:#E05030">Leveling gems</span>`) {
		t.Fatalf("expected escaped hex colored span, got %s", html)
	}
}

func TestNotesToHTML_SameSiteLinksBecomeRelative(t *testing.T) {
	html := string(NotesToHTML("[tree](https://pobb.in/u/nina/rf?x=1#k) [home](https://pobb.in)", Options{
		RootURL: "https://pobb.in/",
	}))

	if !strings.Contains(html, `href="/u/nina/rf?x=1#k"`) {
		t.Fatalf("expected site relative href, got %s", html)
	}
	if !strings.Contains(html, `href="/"`) {
		t.Fatalf("expected bare root link to become /, got %s", html)
	}
	if strings.Contains(html, `target="_blank"`) || strings.Contains(html, "noopener") {
		t.Fatalf("did not expect new tab attributes on site links, got %s", html)
	}
}

func TestNotesToHTML_ExternalLinksOpenInNewTab(t *testing.T) {
	html := string(NotesToHTML("[guide](https://poe.ninja/builds) [look-alike](https://pobb.in.evil.example/x)", Options{RootURL: "https://pobb.in"}))

	if strings.Count(html, `target="_blank"`) != 2 {
		t.Fatalf("expected target blank on both external links, got %s", html)
	}
	if strings.Count(html, `rel="noreferrer noopener"`) != 2 {
		t.Fatalf("expected rel attrs on both external links, got %s", html)
	}
}

func TestNotesToHTML_HighlightsCodeBlocks(t *testing.T) {
	source := "```lua\nlocal dps = 1\n```"
	html := string(NotesToHTML(source, Options{}))

	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", html)
	}
	if !strings.Contains(html, "dps") {
		t.Fatalf("expected code content in rendered block, got %s", html)
	}
}

func TestNotesToHTML_RendersInlineCodeClass(t *testing.T) {
	html := string(NotesToHTML("Bind `F1` to flasks.", Options{}))

	if !strings.Contains(html, `<code class="inline-code">F1</code>`) {
		t.Fatalf("expected inline code class, got %s", html)
	}
}

func TestNotesToHTML_EmptyInput(t *testing.T) {
	if html := NotesToHTML("  \n ", Options{}); html != "" {
		t.Fatalf("expected empty output, got %q", html)
	}
}

func TestExcerpt_StripsColorCodes(t *testing.T) {
	got := Excerpt("^7Leveling: ^1**Sunder** ^xAABBCCuntil maps", 300)

	if got != "Leveling: Sunder until maps" {
		t.Fatalf("expected plain excerpt, got %q", got)
	}
}

func TestExcerpt_DropsMarkupAndCode(t *testing.T) {
	got := Excerpt("# Setup\n\nSee [the guide](https://poe.ninja) and `F1`.\n\n```\nlocal x = 1\n```\n\n- one\n- two", 300)

	if got != "Setup See the guide and F1. one two" {
		t.Fatalf("expected plain excerpt, got %q", got)
	}
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	got := Excerpt("alpha beta gamma delta", 12)
	if got != "alpha beta..." {
		t.Fatalf("expected graceful word truncation, got %q", got)
	}
}

func TestHighlightCSS_ScopedToNotes(t *testing.T) {
	css := HighlightCSS()
	if css == "" {
		t.Fatal("expected highlight stylesheet")
	}
	for _, line := range strings.Split(strings.TrimSpace(css), "\n") {
		if !strings.HasPrefix(line, ".notes ") {
			t.Fatalf("expected every rule scoped to notes, got %q", line)
		}
	}
	if !strings.Contains(css, ".chroma") {
		t.Fatalf("expected chroma classes, got %s", css)
	}
}
