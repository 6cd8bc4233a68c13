package policy

// State is everything a policy carries from one turn to the next.
// It is threaded through Decide explicitly and never shared.
type State struct {
	// Stage is the scripted plan cursor into the stage order
	Stage int
}
