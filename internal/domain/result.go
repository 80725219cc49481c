package domain

// State is a step of the run state machine.
type State int

const (
	StateIdle State = iota
	StateEnumerating
	StateScanning
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateEnumerating:
		return "EnumeratingRepositories"
	case StateScanning:
		return "ScanningRepository"
	case StateDone:
		return "Done"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// AbortReason explains why a run ended in StateAborted.
type AbortReason int

const (
	ReasonNone AbortReason = iota
	ReasonUserNotFound
	ReasonRateLimited
	ReasonCancelled
	ReasonUnexpected
)

func (r AbortReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonUserNotFound:
		return "UserNotFound"
	case ReasonRateLimited:
		return "RateLimited"
	case ReasonCancelled:
		return "Cancelled"
	case ReasonUnexpected:
		return "Unexpected"
	default:
		return "Unknown"
	}
}

// Result is what a run hands to the output boundary.
// Names holds whatever was collected before the run ended, whatever the terminal state.
type Result struct {
	User         string
	State        State
	Reason       AbortReason
	Err          error
	Names        *NameSet
	Repositories []RepositoryScan
	Profile      *Profile
}

// NewResult returns an idle result for user.
func NewResult(user string) *Result {
	return &Result{
		User:         user,
		State:        StateIdle,
		Names:        NewNameSet(),
		Repositories: []RepositoryScan{},
	}
}

// Abort moves the result to StateAborted.
func (r *Result) Abort(reason AbortReason, err error) {
	r.State = StateAborted
	r.Reason = reason
	r.Err = err
}

// Partial reports whether the run stopped early but still carries its collected names.
func (r *Result) Partial() bool {
	return r.State == StateAborted && r.Reason != ReasonUserNotFound
}
