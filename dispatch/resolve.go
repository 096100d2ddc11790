package dispatch

import (
	"fmt"

	"github.com/luciancaetano/colonynet/message"
	"github.com/luciancaetano/colonynet/model"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// require resolves the object named by a required attribute and checks its
// concrete type.
func require[T model.Object](dir *model.Directory, msg *message.Message, attr string) (T, error) {
	var zero T
	id, err := msg.Required(attr)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	o, ok := dir.Lookup(id)
	if !ok {
		return zero, invalidf("%s %q not found", attr, id)
	}
	t, ok := o.(T)
	if !ok {
		return zero, invalidf("%s %q is a %s", attr, id, o.Kind())
	}
	return t, nil
}

// optional resolves an attribute that may be absent. A present but
// unresolvable identifier is still a validation failure.
func optional[T model.Object](dir *model.Directory, msg *message.Message, attr string) (T, error) {
	var zero T
	if msg.Attr(attr) == "" {
		return zero, nil
	}
	return require[T](dir, msg, attr)
}

// unitOrSnapshot resolves a unit reference, falling back to a unit
// snapshot embedded as a child of msg when the unit is not yet known
// locally. A unit built from a snapshot is returned with fresh set and is
// not registered; the caller registers it once the whole message has
// validated.
func (d *Dispatcher) unitOrSnapshot(msg *message.Message, attr string) (u *model.Unit, fresh bool, err error) {
	id, err := msg.Required(attr)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if o, ok := d.game.Directory().Lookup(id); ok {
		u, ok := o.(*model.Unit)
		if !ok {
			return nil, false, invalidf("%s %q is a %s", attr, id, o.Kind())
		}
		return u, false, nil
	}
	snap := msg.SelectByID(id)
	if snap == nil {
		return nil, false, invalidf("%s %q not found", attr, id)
	}
	o, err := d.game.Applier().Construct(snap)
	if err != nil {
		return nil, false, invalidf("%s %q: %v", attr, id, err)
	}
	u, ok := o.(*model.Unit)
	if !ok {
		return nil, false, invalidf("%s %q snapshot is a %s", attr, id, o.Kind())
	}
	if u.Location() == "" {
		return nil, false, invalidf("%s %q snapshot has no location", attr, id)
	}
	return u, true, nil
}

// registerFresh adds units built from embedded snapshots to the directory.
func (d *Dispatcher) registerFresh(units ...*model.Unit) {
	for _, u := range units {
		if u == nil {
			continue
		}
		if err := d.game.Directory().Register(u); err != nil {
			d.logger.Warn("could not register unit from snapshot", "id", u.ID(), "error", err)
		}
	}
}
