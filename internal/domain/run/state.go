package run

// State is a named step of the pipeline workflow.
type State string

const (
	StateAssignVariables    State = "AssignVariables"
	StateCheckFinalExists   State = "CheckFinalExists"
	StateCheckSummaryExists State = "CheckSummaryExists"
	StateIngest             State = "Ingest"
	StateAggregate          State = "Aggregate"
	StateGenerateFacts      State = "GenerateFacts"
	StateNotifyFailure      State = "NotifyFailure"
	StateSucceeded          State = "Succeeded"
	StateFailed             State = "Failed"
)

// Terminal reports whether no transition leaves the state.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Condition is the outcome of a state used to pick the next transition.
type Condition string

const (
	ConditionAlways Condition = "always"
	ConditionYes    Condition = "yes"
	ConditionNo     Condition = "no"
	ConditionDone   Condition = "done"
)
