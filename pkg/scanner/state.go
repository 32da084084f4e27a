package scanner

// State is a step of the audit lifecycle.
type State int

const (
	Idle State = iota
	Retrieving
	Parsing
	Evaluating
	Scored // terminal success
	Failed // terminal error
)

var stateNames = [...]string{"idle", "retrieving", "parsing", "evaluating", "scored", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Active reports whether the state belongs to an in-flight audit.
func (s State) Active() bool {
	return s == Retrieving || s == Parsing || s == Evaluating
}
