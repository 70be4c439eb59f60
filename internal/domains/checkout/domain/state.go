package domain

// State is a stage of order reconciliation.
type State int

const (
	StateValidating State = iota
	StatePersisting
	StateLineItemsPending
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StatePersisting:
		return "persisting"
	case StateLineItemsPending:
		return "line_items_pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack
}
