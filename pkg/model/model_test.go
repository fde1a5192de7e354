package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIf builds the chain for:
//
//	if x:
//	    y
//	z
func buildIf(t *testing.T, d *Document) (root, ifBlock, indent, yBlock, zBlock Entity) {
	t.Helper()
	b := NewBuilder(d)
	ifBlock = b.OpenBlock("if_statement")
	b.Text("if ")
	b.OpenSocket()
	b.Text("x")
	b.Close()
	b.Text(":")
	indent = b.OpenIndent(4)
	b.Newline()
	yBlock = b.OpenBlock("expression_statement")
	b.OpenSocket()
	b.Text("y")
	b.Close()
	b.Close()
	b.Close()
	b.Close()
	b.Newline()
	zBlock = b.OpenBlock("expression_statement")
	b.OpenSocket()
	b.Text("z")
	b.Close()
	b.Close()
	root, err := b.Finish()
	require.NoError(t, err)
	return root, ifBlock, indent, yBlock, zBlock
}

func kinds(d *Document, e Entity) []Kind {
	var out []Kind
	for t := d.Start(e); t != NoToken; t = d.Next(t) {
		out = append(out, d.Kind(t))
		if t == d.End(e) {
			break
		}
	}
	return out
}

func TestNewDocument_Empty(t *testing.T) {
	d := NewDocument()

	assert.Equal(t, "", d.String())
	assert.Equal(t, []Kind{KindSegmentStart, KindCursor, KindSegmentEnd}, kinds(d, d.Root()))
	assert.NoError(t, d.Validate(d.Root()))
}

func TestBuilder_MergesText(t *testing.T) {
	d := NewDocument()
	b := NewBuilder(d)
	b.Text("a")
	b.Text("b")
	b.Text("")
	seg, err := b.Finish()
	require.NoError(t, err)

	assert.Equal(t, []Kind{KindSegmentStart, KindText, KindSegmentEnd}, kinds(d, seg))
	assert.Equal(t, "ab", d.Stringify(seg))
}

func TestBuilder_Unbalanced(t *testing.T) {
	d := NewDocument()
	b := NewBuilder(d)
	b.OpenBlock("x")

	_, err := b.Finish()
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestStringify_Indentation(t *testing.T) {
	d := NewDocument()
	root, ifBlock, indent, yBlock, _ := buildIf(t, d)

	assert.Equal(t, "if x:\n    y\nz", d.Stringify(root))
	assert.Equal(t, "if x:\n    y", d.Stringify(ifBlock))
	assert.Equal(t, "\n    y", d.Stringify(indent))
	assert.Equal(t, "y", d.Stringify(yBlock))
}

func TestStringify_BlankLinesHaveNoTrailingSpaces(t *testing.T) {
	d := NewDocument()
	b := NewBuilder(d)
	b.Text("def f():")
	b.OpenIndent(4)
	b.Newline()
	b.Text("a")
	b.Newline()
	b.Newline()
	b.Text("b")
	b.Close()
	seg, err := b.Finish()
	require.NoError(t, err)

	assert.Equal(t, "def f():\n    a\n\n    b", d.Stringify(seg))
}

func TestStringify_CursorPrintsNothing(t *testing.T) {
	d := NewDocument()
	root, _, _, yBlock, _ := buildIf(t, d)
	d.SetRoot(root)
	d.Remove(d.Cursor())
	d.Insert(d.Start(yBlock), d.Cursor())

	assert.Equal(t, "if x:\n    y\nz", d.String())
}

func TestInsertRemove_Links(t *testing.T) {
	d := NewDocument()
	a := d.NewText("a")
	b := d.NewText("b")
	c := d.NewText("c")
	d.Insert(d.Start(d.Root()), a)
	d.Insert(a, c)
	d.InsertBefore(c, b)

	assert.Equal(t, "abc", d.String())
	assert.Equal(t, b, d.Next(a))
	assert.Equal(t, a, d.Prev(b))

	d.Remove(b)
	assert.Equal(t, "ac", d.String())
	assert.Equal(t, NoToken, d.Prev(b))
	assert.Equal(t, NoToken, d.Next(b))
	assert.Equal(t, c, d.Next(a))
	assert.NoError(t, d.Validate(d.Root()))
}

func TestMoveTo_DetachAndReinsert(t *testing.T) {
	d := NewDocument()
	root, _, _, _, zBlock := buildIf(t, d)
	d.SetRoot(root)

	nl := d.Prev(d.Start(zBlock))
	d.MoveTo(zBlock, NoToken)
	assert.Equal(t, "if x:\n    y\n", d.String())
	assert.False(t, d.Attached(zBlock))
	assert.Equal(t, "z", d.Stringify(zBlock))

	d.MoveTo(zBlock, nl)
	assert.Equal(t, "if x:\n    y\nz", d.String())
	assert.True(t, d.Attached(zBlock))
	assert.NoError(t, d.Validate(d.Root()))
}

func TestClone_Deep(t *testing.T) {
	d := NewDocument()
	root, ifBlock, _, _, _ := buildIf(t, d)
	d.SetRoot(root)
	d.Remove(d.Cursor())
	d.Insert(d.Start(ifBlock), d.Cursor())

	c := d.Clone(ifBlock)

	assert.NotEqual(t, ifBlock, c)
	assert.Equal(t, d.Stringify(ifBlock), d.Stringify(c))
	assert.Equal(t, "if_statement", d.Label(c))
	assert.NoError(t, d.Validate(c))
	assert.NotContains(t, kinds(d, c), KindCursor)
	for _, tok := range kinds(d, c) {
		assert.NotEqual(t, KindInvalid, tok)
	}
	indents := d.Entities(c, EntityIndent)
	require.Len(t, indents, 1)
	assert.Equal(t, 4, d.Depth(indents[0]))
}

func TestEnclosing(t *testing.T) {
	d := NewDocument()
	root, ifBlock, indent, yBlock, zBlock := buildIf(t, d)
	d.SetRoot(root)

	assert.Equal(t, indent, d.Parent(yBlock))
	assert.Equal(t, ifBlock, d.Enclosing(d.Start(yBlock), EntityBlock))
	assert.Equal(t, root, d.Parent(zBlock))
	assert.Equal(t, root, d.Parent(ifBlock))
}

func TestSocketText(t *testing.T) {
	d := NewDocument()
	s := d.NewSocket()

	assert.Equal(t, NoToken, d.Content(s))
	require.NoError(t, d.SetSocketText(s, "x"))
	assert.Equal(t, "x", d.Stringify(s))
	require.NoError(t, d.SetSocketText(s, "yz"))
	assert.Equal(t, "yz", d.Stringify(s))

	occupied := d.NewSocket()
	blk := d.NewBlock()
	d.InsertSpan(d.Start(occupied), d.Start(blk), d.End(blk))
	assert.Equal(t, blk, d.ContentEntity(occupied))
	assert.ErrorIs(t, d.SetSocketText(occupied, "x"), ErrOccupiedSocket)
	assert.ErrorIs(t, d.SetSocketText(blk, "x"), ErrNotSocket)
}

func TestLocate_RoundTrip(t *testing.T) {
	d := NewDocument()
	root, _, _, _, _ := buildIf(t, d)
	d.SetRoot(root)

	for tok := d.Start(root); tok != NoToken; tok = d.Next(tok) {
		if d.Kind(tok) == KindCursor {
			continue
		}
		loc, ok := d.Locate(tok)
		require.True(t, ok)
		got, ok := d.TokenAt(loc)
		require.True(t, ok, "location %s", loc)
		assert.Equal(t, tok, got, "location %s", loc)
	}
}

func TestLocate_SurvivesClone(t *testing.T) {
	d := NewDocument()
	root, _, _, yBlock, _ := buildIf(t, d)
	d.SetRoot(root)

	loc, ok := d.Locate(d.Start(yBlock))
	require.True(t, ok)

	other := NewDocument()
	r2, _, _, y2, _ := buildIf(t, other)
	other.SetRoot(r2)
	got, ok := other.TokenAt(loc)
	require.True(t, ok)
	assert.Equal(t, other.Start(y2), got)
}

func TestLocate_IgnoresCursor(t *testing.T) {
	d := NewDocument()
	root, _, _, yBlock, _ := buildIf(t, d)
	d.SetRoot(root)

	before, _ := d.Locate(d.Start(yBlock))
	d.Remove(d.Cursor())
	d.InsertBefore(d.Start(yBlock), d.Cursor())
	after, _ := d.Locate(d.Start(yBlock))

	assert.Equal(t, before, after)
}

func TestTokenAt_OutOfRange(t *testing.T) {
	d := NewDocument()
	root, _, _, _, _ := buildIf(t, d)
	d.SetRoot(root)

	_, ok := d.TokenAt(Location{Offset: 1000})
	assert.False(t, ok)
	_, ok = d.TokenAt(Location{Offset: 0, Rank: 99})
	assert.False(t, ok)
}

func TestLocate_Detached(t *testing.T) {
	d := NewDocument()
	_, ok := d.Locate(d.NewText("x"))
	assert.False(t, ok)
}

func TestWrapUnwrap(t *testing.T) {
	d := NewDocument()
	root, ifBlock, _, _, zBlock := buildIf(t, d)
	d.SetRoot(root)

	seg := d.NewSegment()
	d.Wrap(seg, d.Start(ifBlock), d.End(zBlock))
	assert.NoError(t, d.Validate(d.Root()))
	assert.Equal(t, d.String(), d.Stringify(seg))
	assert.Equal(t, seg, d.Parent(ifBlock))

	d.Unwrap(seg)
	assert.NoError(t, d.Validate(d.Root()))
	assert.Equal(t, root, d.Parent(ifBlock))
	assert.Equal(t, "if x:\n    y\nz", d.String())
}

func TestValidate_DetectsBrokenNesting(t *testing.T) {
	d := NewDocument()
	root, _, indent, _, _ := buildIf(t, d)
	d.SetRoot(root)

	d.Remove(d.End(indent))
	assert.ErrorIs(t, d.Validate(d.Root()), ErrUnbalanced)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "blockStart", KindBlockStart.String())
	assert.Equal(t, "cursor", KindCursor.String())
	assert.Equal(t, "invalid", Kind(200).String())
	assert.True(t, KindIndentStart.IsStart())
	assert.True(t, KindSegmentEnd.IsEnd())
	assert.False(t, KindText.IsStart())
}

func TestCloneSpan_SkipsCursor(t *testing.T) {
	d := NewDocument()
	root, _, _, yBlock, zBlock := buildIf(t, d)
	d.SetRoot(root)
	d.Remove(d.Cursor())
	d.InsertBefore(d.Start(zBlock), d.Cursor())

	first, last := d.CloneSpan(d.Prev(d.Cursor()), d.End(zBlock))

	assert.Equal(t, KindNewline, d.Kind(first))
	assert.Equal(t, KindBlockEnd, d.Kind(last))
	assert.Equal(t, "\nz", d.StringifySpan(first, last))
	assert.False(t, d.Reachable(first))
	assert.True(t, d.Reachable(d.Start(yBlock)))
}
