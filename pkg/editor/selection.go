package editor

import "github.com/open-cli-collective/ice-cli/pkg/model"

// SelectRegion wraps the smallest well-nested span covering blocks in a
// lasso segment and returns it. The span grows outward until every bracket
// inside it is matched and it neither starts nor ends at an indent or
// socket boundary. The selection lasts until the next editing step.
func (s *Session) SelectRegion(blocks []model.Entity) (model.Entity, error) {
	d := s.doc
	s.clearSelection()

	want := make(map[model.Entity]bool, len(blocks))
	for _, b := range blocks {
		want[b] = true
	}
	var first, last model.Token
	end := d.End(d.Root())
	for t := d.Start(d.Root()); t != model.NoToken && t != end; t = d.Next(t) {
		if !want[d.Owner(t)] {
			continue
		}
		switch d.Kind(t) {
		case model.KindBlockStart:
			if first == model.NoToken {
				first = t
			}
		case model.KindBlockEnd:
			last = t
		}
	}
	if first == model.NoToken || last == model.NoToken {
		return model.NoEntity, ErrEmptySelection
	}

	first, last = s.balance(first, last)
	lasso := d.NewSegment()
	d.Wrap(lasso, first, last)
	s.lasso = lasso
	s.logger.Debug().Int("blocks", len(blocks)).Msg("selected region")
	return lasso, nil
}

// balance widens first..last until it is well nested and bounded by block
// or segment brackets.
func (s *Session) balance(first, last model.Token) (model.Token, model.Token) {
	d := s.doc
	for {
		changed := false
		var open []model.Entity
		for t := first; t != model.NoToken; t = d.Next(t) {
			k := d.Kind(t)
			switch {
			case k.IsStart():
				open = append(open, d.Owner(t))
			case k.IsEnd():
				if n := len(open); n > 0 && open[n-1] == d.Owner(t) {
					open = open[:n-1]
				} else {
					first = d.Start(d.Owner(t))
					changed = true
				}
			}
			if changed || t == last {
				break
			}
		}
		if !changed && len(open) > 0 {
			last = d.End(open[0])
			changed = true
		}
		if !changed {
			switch d.Kind(first) {
			case model.KindIndentStart, model.KindSocketStart:
				if blk := d.Enclosing(first, model.EntityBlock); blk != model.NoEntity {
					first = d.Start(blk)
					changed = true
				}
			}
			switch d.Kind(last) {
			case model.KindIndentEnd, model.KindSocketEnd:
				if blk := d.Enclosing(last, model.EntityBlock); blk != model.NoEntity {
					last = d.End(blk)
					changed = true
				}
			}
		}
		if !changed {
			return first, last
		}
	}
}

// ClearSelection removes the lasso segment, leaving its content in place.
func (s *Session) ClearSelection() {
	s.clearSelection()
}

func (s *Session) clearSelection() {
	if s.lasso == model.NoEntity {
		return
	}
	if s.doc.Attached(s.lasso) {
		s.doc.Unwrap(s.lasso)
	}
	s.lasso = model.NoEntity
}
