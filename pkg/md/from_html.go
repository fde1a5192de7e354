package md

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// FromHTML converts an HTML page to markdown.
func FromHTML(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting html: %w", err)
	}

	return strings.TrimSpace(markdown), nil
}

// ExtractCodeFromHTML converts html to markdown and returns the first code
// block written in lang, as FirstCode does.
func ExtractCodeFromHTML(html, lang string) (CodeBlock, error) {
	markdown, err := FromHTML(html)
	if err != nil {
		return CodeBlock{}, err
	}
	return FirstCode([]byte(markdown), lang)
}

// ToHTML renders markdown to HTML.
func ToHTML(markdown []byte) (string, error) {
	if len(markdown) == 0 {
		return "", nil
	}
	var sb strings.Builder
	if err := mdParser.Convert(markdown, &sb); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return sb.String(), nil
}
