package application

// Status of an application. Progression is monotonic:
// pending -> school_verified -> super_verified, with rejected reachable
// from either non-terminal state.
type Status string

const (
	StatusPending        Status = "pending"
	StatusSchoolVerified Status = "school_verified"
	StatusSuperVerified  Status = "super_verified"
	StatusRejected       Status = "rejected"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSchoolVerified, StatusSuperVerified, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted from s.
func (s Status) Terminal() bool {
	return s == StatusSuperVerified || s == StatusRejected
}

// CanTransition reports whether the state machine permits moving from
// one status to another. It is the single source of truth for the
// transition table; every transition operation consults it.
func CanTransition(from, to Status) bool {
	switch to {
	case StatusSchoolVerified:
		return from == StatusPending
	case StatusSuperVerified:
		return from == StatusSchoolVerified
	case StatusRejected:
		return from == StatusPending || from == StatusSchoolVerified
	}
	return false
}

// PromotionFires reports whether a save moving from oldStatus to
// newStatus must trigger account promotion. Both statuses are taken
// explicitly so that a no-op re-save at super_verified is
// distinguishable from a genuine transition into it.
func PromotionFires(oldStatus, newStatus Status) bool {
	return newStatus == StatusSuperVerified && oldStatus != StatusSuperVerified
}
