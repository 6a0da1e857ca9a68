package ui

import (
	"hangarview/internal/api"
	"hangarview/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// listChangedMsg is sent by a loader's change notification; it carries no
// payload because the UI re-reads the loader snapshot on render
type listChangedMsg struct {
	view viewKind
}

// filterDebounceMsg fires after the user pauses typing in filter mode.
// seq guards against stale timers from earlier keystrokes.
type filterDebounceMsg struct {
	view viewKind
	seq  int
}

// countsMsg carries the collection totals for the tab bar
type countsMsg struct {
	counts api.Counts
	err    error
}

// moderatedMsg carries the result of an approve/reject call
type moderatedMsg struct {
	itemID   string
	approved bool
	err      error
}

// detailClosedMsg is sent after the detail pager exits
type detailClosedMsg struct {
	err error
}
