package model

import "fmt"

// Validate checks the structural invariants of the span of e: links agree in
// both directions, brackets nest and match their entity, and at most one
// cursor is present.
func (d *Document) Validate(e Entity) error {
	var stack []Entity
	cursors := 0
	last := d.End(e)
	for t := d.Start(e); ; t = d.Next(t) {
		if t == NoToken {
			return fmt.Errorf("%w: span of entity %d ends early", ErrBrokenLink, e)
		}
		if n := d.Next(t); n != NoToken && d.Prev(n) != t {
			return fmt.Errorf("%w: token %d -> %d", ErrBrokenLink, t, n)
		}
		k := d.Kind(t)
		owner := d.Owner(t)
		switch {
		case k.IsStart():
			if d.Start(owner) != t || d.EntityKind(owner).startKind() != k {
				return fmt.Errorf("%w: %s token %d does not open entity %d", ErrUnbalanced, k, t, owner)
			}
			stack = append(stack, owner)
		case k.IsEnd():
			if len(stack) == 0 || stack[len(stack)-1] != owner {
				return fmt.Errorf("%w: unexpected %s token %d", ErrUnbalanced, k, t)
			}
			if d.End(owner) != t || d.EntityKind(owner).endKind() != k {
				return fmt.Errorf("%w: %s token %d does not close entity %d", ErrUnbalanced, k, t, owner)
			}
			stack = stack[:len(stack)-1]
		case k == KindCursor:
			cursors++
			if cursors > 1 {
				return ErrMultipleCursors
			}
		}
		if t == last {
			break
		}
	}
	if len(stack) != 0 {
		return fmt.Errorf("%w: %d entities left open", ErrUnbalanced, len(stack))
	}
	return nil
}
