package markdown

import (
	stdhtml "html"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type Options struct {
	// RootURL links are rewritten to site relative paths and open in place.
	RootURL string
}

const linkFlags = mdhtml.HrefTargetBlank | mdhtml.NoopenerLinks | mdhtml.NoreferrerLinks

var colorCodePattern = regexp.MustCompile(`\^(x[0-9A-Fa-f]{6}|[0-9])`)

// Numbered color escapes as understood by Path of Building.
var numberedColors = [10]string{
	"#000000", "#FF0000", "#00FF00", "#0000FF", "#FFFF00",
	"#D02090", "#00FFFF", "#FFFFFF", "#B3B3B3", "#6E6E6E",
}

// NotesToHTML renders build notes. Notes are markdown with Path of Building
// color escapes (^1 or ^xRRGGBB) that color the text up to the next escape.
func NotesToHTML(input string, opts Options) template.HTML {
	if strings.TrimSpace(input) == "" {
		return template.HTML("")
	}

	doc := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak).Parse([]byte(input))
	if opts.RootURL != "" {
		relativizeLinks(doc, strings.TrimRight(opts.RootURL, "/"))
	}

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML | linkFlags,
		RenderNodeHook: renderNodeHook,
	})
	return template.HTML(md.Render(doc, renderer))
}

// Excerpt is the plain text of the notes, cut at a word boundary when it
// exceeds maxChars runes.
func Excerpt(input string, maxChars int) string {
	if maxChars < 1 {
		return ""
	}

	text := plainText(StripColorCodes(input))
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	cut := string(runes[:maxChars])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "..."
}

// plainText keeps the inline text of the document. Code blocks, images and
// raw HTML are dropped.
func plainText(input string) string {
	doc := parser.NewWithExtensions(parser.CommonExtensions).Parse([]byte(input))

	var b strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch typed := node.(type) {
		case *ast.CodeBlock, *ast.Image, *ast.HTMLBlock, *ast.HTMLSpan:
			return ast.SkipChildren
		case *ast.Text:
			b.Write(typed.Literal)
		case *ast.Code:
			b.Write(typed.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			b.WriteByte(' ')
		case *ast.Paragraph, *ast.Heading, *ast.ListItem:
			if !entering {
				b.WriteByte(' ')
			}
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

func relativizeLinks(doc ast.Node, rootURL string) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		link, ok := node.(*ast.Link)
		if !ok || !entering {
			return ast.GoToNext
		}
		rest, ok := strings.CutPrefix(string(link.Destination), rootURL)
		if !ok {
			return ast.GoToNext
		}
		switch {
		case rest == "":
			link.Destination = []byte("/")
		case strings.HasPrefix(rest, "/") && !strings.HasPrefix(rest, "//"):
			link.Destination = []byte(rest)
		}
		return ast.GoToNext
	})
}

func renderNodeHook(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch typed := node.(type) {
	case *ast.CodeBlock:
		renderCodeBlock(writer, typed)
		return ast.SkipChildren, true
	case *ast.Code:
		_, _ = io.WriteString(writer, `<code class="inline-code">`+stdhtml.EscapeString(string(typed.Literal))+`</code>`)
		return ast.SkipChildren, true
	case *ast.Text:
		if !colorCodePattern.Match(typed.Literal) {
			return ast.GoToNext, false
		}
		renderColoredText(writer, string(typed.Literal))
		return ast.SkipChildren, true
	default:
		return ast.GoToNext, false
	}
}

func renderCodeBlock(writer io.Writer, block *ast.CodeBlock) {
	code := string(block.Literal)
	iterator, err := lexerFor(block.Info).Tokenise(nil, code)
	if err == nil {
		err = chromahtml.New(chromahtml.WithClasses(true)).Format(writer, styles.Fallback, iterator)
	}
	if err != nil {
		_, _ = io.WriteString(writer, `<pre class="chroma"><code>`+stdhtml.EscapeString(code)+`</code></pre>`)
	}
}

// lexerFor picks the lexer named by the fence info string.
func lexerFor(info []byte) chroma.Lexer {
	if fields := strings.Fields(string(info)); len(fields) > 0 {
		if lexer := lexers.Get(fields[0]); lexer != nil {
			return lexer
		}
	}
	return lexers.Fallback
}

func renderColoredText(writer io.Writer, text string) {
	matches := colorCodePattern.FindAllStringSubmatchIndex(text, -1)

	_, _ = io.WriteString(writer, stdhtml.EscapeString(text[:matches[0][0]]))
	for idx, match := range matches {
		end := len(text)
		if idx+1 < len(matches) {
			end = matches[idx+1][0]
		}

		segment := text[match[1]:end]
		if segment == "" {
			continue
		}
		_, _ = io.WriteString(writer, `<span style="color:`+colorValue(text[match[2]:match[3]])+`">`)
		_, _ = io.WriteString(writer, stdhtml.EscapeString(segment))
		_, _ = io.WriteString(writer, `</span>`)
	}
}

func colorValue(code string) string {
	if strings.HasPrefix(code, "x") {
		return "#" + strings.ToUpper(code[1:])
	}
	return numberedColors[code[0]-'0']
}

// StripColorCodes removes every color escape and keeps the text.
func StripColorCodes(input string) string {
	return colorCodePattern.ReplaceAllString(input, "")
}
