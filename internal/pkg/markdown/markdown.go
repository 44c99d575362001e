package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Render converts markdown text to HTML. On a conversion error the escaped
// source is returned so the caller always gets something displayable.
func Render(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return ""
	}

	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return out.String()
}

// Excerpt renders markdown and strips it down to a plain-text snippet of at
// most maxLen runes. Used for newsletter email previews.
func Excerpt(markdownText string, maxLen int) string {
	plain := htmlTagRegex.ReplaceAllString(Render(markdownText), " ")
	plain = whitespaceRegex.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)

	runes := []rune(plain)
	if maxLen <= 0 || len(runes) <= maxLen {
		return plain
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}

// RenderDocument wraps rendered content in a minimal standalone HTML page
// for the ?format=html blog view.
func RenderDocument(title, markdownText string) string {
	body := Render(markdownText)
	escapedTitle := template.HTMLEscapeString(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(body) + 1024)
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n")
	b.WriteString("  <head>\n")
	b.WriteString("    <meta charset=\"UTF-8\" />\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\" />\n")
	b.WriteString("    <style>\n")
	b.WriteString("      body { max-width: 48rem; margin: 2rem auto; padding: 0 1rem; font-family: ui-sans-serif, system-ui, sans-serif; line-height: 1.7; color: #1f2937; }\n")
	b.WriteString("      img { max-width: 100%; }\n")
	b.WriteString("      pre { background: #f3f4f6; padding: 1rem; border-radius: .5rem; overflow-x: auto; }\n")
	b.WriteString("      code { font-size: 14px; }\n")
	b.WriteString("    </style>\n")
	b.WriteString("    <title>")
	b.WriteString(escapedTitle)
	b.WriteString("</title>\n")
	b.WriteString("  </head>\n")
	b.WriteString("  <body>\n")
	b.WriteString("    <article><h1>")
	b.WriteString(escapedTitle)
	b.WriteString("</h1>")
	b.WriteString(body)
	b.WriteString("</article>\n")
	b.WriteString("  </body>\n</html>")
	return b.String()
}
