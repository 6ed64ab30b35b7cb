package markdown

import (
	"bytes"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// The site is dark only, so code blocks in notes use a single style.
const highlightStyle = "monokai"

// HighlightCSS returns the stylesheet for the classes emitted on fenced
// code blocks in build notes. Rules are scoped to the notes section.
var HighlightCSS = sync.OnceValue(func() string {
	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	var buffer bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buffer, style); err != nil {
		return ""
	}

	var out strings.Builder
	for _, line := range strings.Split(buffer.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out.WriteString(".notes ")
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
})
