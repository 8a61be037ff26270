package dashboard

import "time"

// confirmWindow is how long a delete stays armed before it reverts to the
// unarmed state.
const confirmWindow = 3 * time.Second

type targetKind int

const (
	targetNone targetKind = iota
	targetDeck
	targetCard
)

// confirmState is the timed two-step delete confirmation: an armed target
// plus the instant it was armed. Expiry is an explicit check against the
// controller clock rather than a scheduled callback, so tests never have to
// wait on the wall clock. At most one target is armed at a time; arming a
// new target replaces the old one.
type confirmState struct {
	kind    targetKind
	id      int
	armedAt time.Time
}

// armed reports whether the given target is armed and unexpired at t.
func (s confirmState) armed(kind targetKind, id int, t time.Time) bool {
	return s.kind == kind && s.id == id && t.Sub(s.armedAt) < confirmWindow
}

func (c *Controller) armLocked(kind targetKind, id int) {
	c.confirm = confirmState{kind: kind, id: id, armedAt: c.now()}
}
