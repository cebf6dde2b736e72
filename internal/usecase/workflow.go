package usecase

import (
	"fmt"

	"github.com/riskibarqy/rift-rewind/internal/domain/run"
)

type transitionKey struct {
	from      run.State
	condition run.Condition
}

// workflowTransitions is the complete edge set of the pipeline.
var workflowTransitions = map[transitionKey]run.State{
	{run.StateAssignVariables, run.ConditionAlways}: run.StateCheckFinalExists,
	{run.StateCheckFinalExists, run.ConditionYes}:   run.StateGenerateFacts,
	{run.StateCheckFinalExists, run.ConditionNo}:    run.StateCheckSummaryExists,
	{run.StateCheckSummaryExists, run.ConditionYes}: run.StateGenerateFacts,
	{run.StateCheckSummaryExists, run.ConditionNo}:  run.StateIngest,
	{run.StateIngest, run.ConditionDone}:            run.StateAggregate,
	{run.StateAggregate, run.ConditionDone}:         run.StateGenerateFacts,
	{run.StateGenerateFacts, run.ConditionDone}:     run.StateSucceeded,
	{run.StateNotifyFailure, run.ConditionAlways}:   run.StateFailed,
}

// workflowCatch routes a failing state to its error handler.
var workflowCatch = map[run.State]run.State{
	run.StateIngest:        run.StateNotifyFailure,
	run.StateAggregate:     run.StateNotifyFailure,
	run.StateGenerateFacts: run.StateNotifyFailure,
}

func nextState(from run.State, condition run.Condition) (run.State, error) {
	next, ok := workflowTransitions[transitionKey{from: from, condition: condition}]
	if !ok {
		return "", fmt.Errorf("no transition from %s on %s", from, condition)
	}
	return next, nil
}

// catchState falls back to the failure handler for states without a catch
// entry so every run still ends with a terminal event.
func catchState(from run.State) (run.State, bool) {
	if next, ok := workflowCatch[from]; ok {
		return next, true
	}
	return run.StateNotifyFailure, false
}

func boolCondition(v bool) run.Condition {
	if v {
		return run.ConditionYes
	}
	return run.ConditionNo
}
