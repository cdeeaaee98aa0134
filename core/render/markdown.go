// Package render: Markdown renderer.
// Lays a pen out as a readable document: heading, author line, description,
// tags, one fenced block per editor and the external resources.
package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/penpipe/core"
)

// noiseSelectors are removed from the description before conversion.
var noiseSelectors = []string{"script", "style", "noscript", "iframe", "form"}

// MarkdownRenderer renders a pen as Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render builds the Markdown document for pen.
func (r *MarkdownRenderer) Render(pen *core.Pen) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", pen.Title)
	if pen.Author != nil {
		fmt.Fprintf(&b, "By [%s](%s) · <%s>\n\n", pen.Author.Name, pen.Author.URL, pen.PenURL)
	} else {
		fmt.Fprintf(&b, "<%s>\n\n", pen.PenURL)
	}

	if strings.TrimSpace(pen.Description) != "" {
		desc, err := DescriptionMarkdown(pen.Description)
		if err != nil {
			return nil, err
		}
		if desc != "" {
			b.WriteString(desc)
			b.WriteString("\n\n")
		}
	}

	if len(pen.Tags) > 0 {
		tags := make([]string, len(pen.Tags))
		for i, t := range pen.Tags {
			tags[i] = "`" + t + "`"
		}
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(tags, ", "))
	}

	for _, e := range Editors(pen) {
		fmt.Fprintf(&b, "## %s", e.Name)
		if e.PreProcessor != "none" && e.PreProcessor != "" {
			fmt.Fprintf(&b, " (%s)", e.PreProcessor)
		}
		b.WriteString("\n\n")
		writeFence(&b, e.Language(), e.Code)
		b.WriteString("\n")
	}

	if len(pen.Resources) > 0 {
		b.WriteString("## Resources\n\n")
		for _, res := range pen.Resources {
			fmt.Fprintf(&b, "- %s: <%s>\n", res.Type, res.URL)
		}
	}

	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// DescriptionMarkdown strips noise elements from the description HTML and
// converts what is left to Markdown.
func DescriptionMarkdown(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing description: %w", err)
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serializing description: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("converting description to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// writeFence writes code in a fenced block whose fence is longer than any
// backtick run inside the code.
func writeFence(b *strings.Builder, lang, code string) {
	fence := strings.Repeat("`", max(3, longestRun(code, '`')+1))
	b.WriteString(fence + lang + "\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence + "\n")
}

func longestRun(s string, c byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}
