// Package md extracts source code from Markdown and HTML documents and
// writes edited code back into them.
package md

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ErrNoCode is returned when a document holds no matching code block.
var ErrNoCode = errors.New("no code block found")

// mdParser is a pre-configured goldmark instance with GFM table extension.
var mdParser = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// CodeBlock is a fenced or indented code block found in a Markdown document.
type CodeBlock struct {
	Language string
	Code     string
	Line     int // 1-based line of the first code line

	// byte range of the code lines in the source
	start, stop int
}

// ExtractCode returns every code block in markdown in document order.
func ExtractCode(markdown []byte) []CodeBlock {
	doc := mdParser.Parser().Parse(text.NewReader(markdown))

	var blocks []CodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch b := n.(type) {
		case *ast.FencedCodeBlock:
			blocks = append(blocks, codeBlock(markdown, b, string(b.Language(markdown))))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			blocks = append(blocks, codeBlock(markdown, b, ""))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

func codeBlock(src []byte, n ast.Node, lang string) CodeBlock {
	cb := CodeBlock{Language: lang, start: -1}
	lines := n.Lines()
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
		if i == 0 {
			cb.start = seg.Start
		}
		cb.stop = seg.Stop
	}
	cb.Code = buf.String()
	if cb.start >= 0 {
		cb.Line = bytes.Count(src[:cb.start], []byte("\n")) + 1
	}
	return cb
}

// Matches reports whether the block's language names lang. Aliases such as
// "py" and "python3" match "python".
func (c CodeBlock) Matches(lang string) bool {
	got := strings.ToLower(c.Language)
	want := strings.ToLower(lang)
	if got == want {
		return true
	}
	if want == "python" {
		return got == "py" || got == "python3" || got == "py3"
	}
	return false
}

// FirstCode returns the first block written in lang. When no block names
// lang, the first block without a language is used.
func FirstCode(markdown []byte, lang string) (CodeBlock, error) {
	blocks := ExtractCode(markdown)
	for _, b := range blocks {
		if b.Matches(lang) {
			return b, nil
		}
	}
	for _, b := range blocks {
		if b.Language == "" {
			return b, nil
		}
	}
	return CodeBlock{}, fmt.Errorf("%s: %w", lang, ErrNoCode)
}

// ReplaceCode returns markdown with the code of block replaced by code.
// block must come from ExtractCode or FirstCode on the same markdown.
func ReplaceCode(markdown []byte, block CodeBlock, code string) ([]byte, error) {
	if block.start < 0 || block.stop > len(markdown) || block.start > block.stop {
		return nil, fmt.Errorf("replacing empty code block: %w", ErrNoCode)
	}
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	out := make([]byte, 0, len(markdown)-(block.stop-block.start)+len(code))
	out = append(out, markdown[:block.start]...)
	out = append(out, code...)
	out = append(out, markdown[block.stop:]...)
	return out, nil
}
