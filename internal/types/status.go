package types

type ProjectStatus string

const (
	ProjectStatusPending        ProjectStatus = "pending"
	ProjectStatusConverted      ProjectStatus = "converted"
	ProjectStatusUpgraded       ProjectStatus = "upgraded"
	ProjectStatusAlreadyCurrent ProjectStatus = "already-current"
	ProjectStatusTimedOut       ProjectStatus = "timed-out"
	ProjectStatusFailed         ProjectStatus = "failed"
)

// rank orders statuses so transitions can only move forward.
func (s ProjectStatus) rank() int {
	switch s {
	case ProjectStatusPending, "":
		return 0
	case ProjectStatusConverted:
		return 1
	default:
		return 2
	}
}

// Terminal reports whether no further transition is possible.
func (s ProjectStatus) Terminal() bool {
	return s.rank() == 2
}

type OutcomeKind string

const (
	OutcomeUpgraded OutcomeKind = "upgraded"
	OutcomeTimedOut OutcomeKind = "timed-out"
	OutcomeFailed   OutcomeKind = "failed"
)
