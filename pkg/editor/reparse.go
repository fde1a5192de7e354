package editor

import (
	"errors"

	"github.com/open-cli-collective/ice-cli/pkg/model"
)

// errEmptyParse marks handwritten text that parsed to nothing.
var errEmptyParse = errors.New("empty parse")

// AttemptReparse reparses every handwritten block that neither holds the
// cursor nor the focused socket.
func (s *Session) AttemptReparse() {
	s.beginStep()
	s.attemptReparse()
}

func (s *Session) attemptReparse() {
	d := s.doc
	var (
		stack    []model.Entity
		queue    []model.Entity
		excluded = make(map[model.Entity]bool)
	)
	end := d.End(d.Root())
	for t := d.Start(d.Root()); t != model.NoToken; t = d.Next(t) {
		k := d.Kind(t)
		switch {
		case k == model.KindSocketStart:
			socket := d.Owner(t)
			if d.Handwritten(socket) && socket != s.focus {
				if blk := topBlock(d, stack); blk != model.NoEntity {
					queue = append(queue, blk)
				}
			}
			stack = append(stack, socket)
		case k.IsStart():
			stack = append(stack, d.Owner(t))
		case k.IsEnd():
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case k == model.KindCursor:
			for _, e := range stack {
				excluded[e] = true
			}
		}
		if t == end {
			break
		}
	}

	for _, blk := range queue {
		if excluded[blk] || !d.Attached(blk) {
			continue
		}
		if err := s.reparseHandwritten(blk); err != nil {
			s.logger.Debug().Err(err).Str("text", d.Stringify(blk)).Msg("handwritten block kept")
		}
	}
}

func topBlock(d *model.Document, stack []model.Entity) model.Entity {
	if n := len(stack); n > 0 && d.EntityKind(stack[n-1]) == model.EntityBlock {
		return stack[n-1]
	}
	return model.NoEntity
}

// reparseHandwritten replaces blk with the statements parsed from its text.
func (s *Session) reparseHandwritten(blk model.Entity) error {
	d := s.doc
	seg, err := s.parser.Parse(d, d.Stringify(blk))
	if err != nil {
		return err
	}
	first, last := d.Next(d.Start(seg)), d.Prev(d.End(seg))
	if first == d.End(seg) {
		return errEmptyParse
	}

	at, _ := d.Locate(d.Start(blk))
	before := d.Clone(blk)
	after := d.Clone(seg)
	n := s.spanLen(first, last)

	d.RemoveSpan(first, last)
	d.InsertSpanBefore(d.Start(blk), first, last)
	s.rescueCursor(d.Start(blk), d.End(blk))
	d.Detach(blk)

	s.record(&HandwrittenReparse{At: at, Len: n, Before: before, After: after})
	s.emit(blk, first)
	s.logger.Debug().Int("tokens", n).Msg("reparsed handwritten block")
	return nil
}
