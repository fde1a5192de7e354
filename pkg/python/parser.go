// Package python maps Python source onto the block/text token chain using
// tree-sitter.
//
// Every statement becomes a Block labelled with its node type. Leaf
// expressions become Sockets holding their text, compound expressions become
// Sockets holding a nested Block. An indented suite becomes an Indent whose
// depth is the column delta of its first statement. Everything else in the
// source, keywords and punctuation included, is kept as text so that
// printing the chain reproduces the input.
package python

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

var (
	// ErrSyntax indicates source that tree-sitter could not parse cleanly.
	ErrSyntax = errors.New("syntax error")

	// ErrNotExpression indicates input to ParseExpression that is not a
	// single compound expression.
	ErrNotExpression = errors.New("not a single expression")

	// ErrTooLarge indicates source over the configured size limit.
	ErrTooLarge = errors.New("source too large")
)

// DefaultMaxSourceSize bounds the input accepted by a Parser.
const DefaultMaxSourceSize = 4 << 20

// Parser converts Python source into token chains.
type Parser struct {
	logger  zerolog.Logger
	maxSize int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) {
		p.logger = l.With().Str("component", "python").Logger()
	}
}

// WithMaxSourceSize sets the largest source accepted, in bytes.
func WithMaxSourceSize(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxSize = n
		}
	}
}

// New returns a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger:  zerolog.Nop(),
		maxSize: DefaultMaxSourceSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds a detached Segment in doc holding the statements of src.
func (p *Parser) Parse(doc *model.Document, src string) (model.Entity, error) {
	return p.ParseContext(context.Background(), doc, src)
}

// ParseContext is Parse with a caller-supplied context.
func (p *Parser) ParseContext(ctx context.Context, doc *model.Document, src string) (model.Entity, error) {
	tree, err := p.tree(ctx, src)
	if err != nil {
		return model.NoEntity, err
	}
	defer tree.Close()

	w := &walker{src: []byte(src), b: model.NewBuilder(doc), lineStart: true}
	end := w.statements(tree.RootNode(), 0)
	w.gap(end, uint32(len(src)), false)

	seg, err := w.b.Finish()
	if err != nil {
		return model.NoEntity, err
	}
	p.logger.Debug().Int("bytes", len(src)).Int("tokens", doc.Len()).Msg("parsed source")
	return seg, nil
}

// ParseExpression builds a detached Block for src, which must consist of
// exactly one compound expression.
func (p *Parser) ParseExpression(doc *model.Document, src string) (model.Entity, error) {
	tree, err := p.tree(context.Background(), src)
	if err != nil {
		return model.NoEntity, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.NamedChildCount() != 1 {
		return model.NoEntity, ErrNotExpression
	}
	stmt := root.NamedChild(0)
	if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
		return model.NoEntity, ErrNotExpression
	}
	expr := stmt.NamedChild(0)
	if isAtomic(expr) || expr.StartByte() != 0 || int(expr.EndByte()) != len(src) {
		return model.NoEntity, ErrNotExpression
	}

	w := &walker{src: []byte(src), b: model.NewBuilder(doc)}
	blk := w.b.OpenBlock(expr.Type())
	w.children(expr)
	w.b.Close()
	if _, err := w.b.Finish(); err != nil {
		return model.NoEntity, err
	}
	doc.Detach(blk)
	return blk, nil
}

func (p *Parser) tree(ctx context.Context, src string) (*sitter.Tree, error) {
	if len(src) > p.maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(src))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, []byte(src))
	if err != nil {
		return nil, fmt.Errorf("parsing python: %w", err)
	}
	if root := tree.RootNode(); root.HasError() {
		msg := describeError(root, []byte(src))
		tree.Close()
		p.logger.Debug().Str("error", msg).Msg("rejected source")
		return nil, fmt.Errorf("%w: %s", ErrSyntax, msg)
	}
	return tree, nil
}

// describeError reports the position of the first error or missing node.
func describeError(n *sitter.Node, src []byte) string {
	if n.IsError() || n.IsMissing() {
		pt := n.StartPoint()
		near := truncate(n.Content(src), 20)
		if n.IsMissing() {
			return fmt.Sprintf("line %d col %d: missing %s", pt.Row+1, pt.Column+1, n.Type())
		}
		return fmt.Sprintf("line %d col %d: unexpected %q", pt.Row+1, pt.Column+1, strings.TrimSpace(near))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.HasError() {
			return describeError(c, src)
		}
	}
	return "invalid input"
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
