package ui

import (
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"apibridge/config"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const (
	codeBar   = "┃"
	codeRule  = "━"
	darkGray  = "\x1b[90m"
	redColor  = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// RenderMarkdown renders a model response for a terminal of the given width.
// Links are shown as plain red URLs and fenced code is framed.
func RenderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	startTime := time.Now()

	content = preprocessLinks(content)

	// Autolink stays off so the terminal handles URL detection.
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width-4, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	processed := postProcessMarkdown(string(rendered), width)
	config.Debugf("[UI] Markdown rendered in %v (%d chars)", time.Since(startTime), len(content))
	return processed
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = fixMarkdownLinks(rendered)
	return frameCodeBlocks(rendered, width)
}

// preprocessLinks turns [text](url) into the bare url.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode swaps the renderer's blue background for red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, redColor+"$1"+ansiReset)
}

func fixMarkdownLinks(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Code block lines carry the bar prefix
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+ansiReset)
		}
	}
	return strings.Join(lines, "\n")
}

func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	var codeBlockLines []string
	inCodeBlock := false

	closeBlock := func() {
		result = append(result, codeBlockLines...)
		result = append(result, "", darkGray+strings.Repeat(codeRule, width-4)+ansiReset, "")
		codeBlockLines = nil
		inCodeBlock = false
	}

	for _, line := range lines {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLines = []string{}

				label := "[code]"
				lineLen := width - 4
				leftLen := (lineLen - len(label)) / 2
				rightLen := lineLen - len(label) - leftLen
				border := darkGray + strings.Repeat(codeRule, leftLen) + ansiReset + label +
					darkGray + strings.Repeat(codeRule, rightLen) + ansiReset

				result = append(result, "", border, "")
			}
			codeBlockLines = append(codeBlockLines, stripCodeBlockPrefix(line))
			continue
		}

		if inCodeBlock {
			closeBlock()
		}
		result = append(result, line)
	}

	if inCodeBlock && len(codeBlockLines) > 0 {
		closeBlock()
	}

	return strings.Join(result, "\n")
}

// stripCodeBlockPrefix removes everything up to and including the bar and
// the space after it.
func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}
